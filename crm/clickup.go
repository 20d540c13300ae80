package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
)

// DefaultClickUpBaseURL is the ClickUp REST API root.
const DefaultClickUpBaseURL = "https://api.clickup.com/api/v2"

// Feedback types and priorities accepted by the feedback form.
var (
	FeedbackTypes      = []string{"Bug", "Feature Request", "Improvement"}
	FeedbackPriorities = []string{"Critical", "High", "Medium", "Low"}
)

var priorities = map[string]int{
	"Critical": 1,
	"High":     2,
	"Medium":   3,
	"Low":      4,
}

// typeOptions maps feedback types to the option ids of the list's "Type"
// dropdown custom field.
var typeOptions = map[string]string{
	"Bug":             "5104aa10-d70f-40fc-a52c-e3b16e07df33",
	"Feature Request": "bb63d001-faa1-4883-94c6-ea48d40af902",
	"Improvement":     "b997457f-74cd-4da0-bc24-a714be957055",
}

// Feedback is a product feedback submission.
type Feedback struct {
	Title       string
	Description string
	Type        string
	Priority    string
	Email       string
}

// Validate checks the type and priority against the known options.
func (f Feedback) Validate() error {
	if _, ok := typeOptions[f.Type]; !ok {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidFeedback, f.Type)
	}
	if _, ok := priorities[f.Priority]; !ok {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidFeedback, f.Priority)
	}
	return nil
}

// Task is a created ClickUp task.
type Task struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// ClickUpConfig holds the ClickUp credentials and list wiring.
type ClickUpConfig struct {
	APIKey      string
	ListID      string
	TypeFieldID string
	BaseURL     string // defaults to DefaultClickUpBaseURL
}

type clickUpCustomField struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// ClickUpTaskRequest is the body of a create-task call.
type ClickUpTaskRequest struct {
	Name         string               `json:"name"`
	Description  string               `json:"description"`
	Priority     int                  `json:"priority"`
	CustomFields []clickUpCustomField `json:"custom_fields"`
}

// ClickUp creates feedback tasks in a ClickUp list.
type ClickUp struct {
	transport
	cfg ClickUpConfig
}

// NewClickUp returns a ClickUp client.
func NewClickUp(cfg ClickUpConfig, opts ...Option) *ClickUp {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultClickUpBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	c := &ClickUp{transport: defaultTransport(), cfg: cfg}
	for _, opt := range opts {
		opt(&c.transport)
	}
	return c
}

// Configured reports whether all credentials are present.
func (c *ClickUp) Configured() bool {
	return c.cfg.APIKey != "" && c.cfg.ListID != "" && c.cfg.TypeFieldID != ""
}

// NewTaskRequest maps f onto the list's task shape. The reporter email is
// appended to the description.
func (c *ClickUp) NewTaskRequest(f Feedback) ClickUpTaskRequest {
	return ClickUpTaskRequest{
		Name:        f.Title,
		Description: f.Description + "\n\n**Reporter Email:** " + f.Email,
		Priority:    priorities[f.Priority],
		CustomFields: []clickUpCustomField{
			{ID: c.cfg.TypeFieldID, Value: typeOptions[f.Type]},
		},
	}
}

// CreateTask files f as a task in the configured list.
func (c *ClickUp) CreateTask(ctx context.Context, f Feedback) (Task, error) {
	if !c.Configured() {
		return Task{}, ErrNotConfigured
	}
	if err := f.Validate(); err != nil {
		return Task{}, err
	}
	body, err := json.Marshal(c.NewTaskRequest(f))
	if err != nil {
		return Task{}, fmt.Errorf("encode clickup task: %w", err)
	}
	endpoint := c.cfg.BaseURL + "/list/" + url.PathEscape(c.cfg.ListID) + "/task"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return Task{}, fmt.Errorf("build clickup request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Task{}, fmt.Errorf("create clickup task: %w", err)
	}
	defer resp.Body.Close()
	if !ok(resp) {
		err := statusError(resp)
		c.logger.ErrorContext(ctx, "clickup rejected task", "status", resp.StatusCode, "error", err)
		return Task{}, err
	}

	var task Task
	if err := json.NewDecoder(resp.Body).Decode(&task); err != nil {
		return Task{}, fmt.Errorf("decode clickup task: %w", err)
	}
	return task, nil
}

// UploadAttachment attaches the file read from r to the task.
func (c *ClickUp) UploadAttachment(ctx context.Context, taskID, filename string, r io.Reader) error {
	if c.cfg.APIKey == "" || taskID == "" {
		return ErrNotConfigured
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("attachment", filename)
	if err != nil {
		return fmt.Errorf("create attachment part: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("copy attachment: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close multipart body: %w", err)
	}

	endpoint := c.cfg.BaseURL + "/task/" + url.PathEscape(taskID) + "/attachment"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return fmt.Errorf("build attachment request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload attachment: %w", err)
	}
	defer resp.Body.Close()
	if !ok(resp) {
		return statusError(resp)
	}
	return nil
}
