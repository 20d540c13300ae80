package crm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quiet() Option {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		input string
		first string
		last  string
	}{
		{"Jane", "Jane", ""},
		{"Jane Doe", "Jane", "Doe"},
		{"Mary Ann van Dyke", "Mary", "Ann van Dyke"},
		{"  ", "", ""},
	}
	for _, tt := range tests {
		first, last := SplitName(tt.input)
		if first != tt.first || last != tt.last {
			t.Errorf("SplitName(%q) = %q, %q, want %q, %q", tt.input, first, last, tt.first, tt.last)
		}
	}
}

func TestUTMMerge(t *testing.T) {
	got := UTM{Source: "google"}.Merge(UTM{Source: "x", Medium: "cpc", Term: "ai"})
	assert.Equal(t, UTM{Source: "google", Medium: "cpc", Term: "ai"}, got)
	assert.True(t, UTM{}.Empty())
	assert.Equal(t, map[string]string{"utm_source": "google", "utm_medium": "cpc", "utm_term": "ai"}, got.Params())
}

func TestUTMFromParams(t *testing.T) {
	vals := map[string]string{"utm_source": " news ", "utm_content": "hero"}
	got := UTMFromParams(func(k string) string { return vals[k] })
	assert.Equal(t, UTM{Source: "news", Content: "hero"}, got)
}

func TestUTMAddTo(t *testing.T) {
	u := UTM{Source: "newsletter", Campaign: "launch"}
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "https://app.coresight.co/register", "https://app.coresight.co/register?utm_campaign=launch&utm_source=newsletter"},
		{"keeps existing", "https://app.coresight.co/register?utm_source=ads&ref=1", "https://app.coresight.co/register?ref=1&utm_campaign=launch&utm_source=ads"},
		{"relative", "/pricing/", "/pricing/?utm_campaign=launch&utm_source=newsletter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, u.AddTo(tt.in))
		})
	}
	assert.Equal(t, "/pricing/", UTM{}.AddTo("/pricing/"))
}

func TestNewGHLPayload(t *testing.T) {
	p := NewGHLPayload(Contact{
		Name:            "Jane Q Doe",
		Email:           "jane@example.com",
		Company:         "Acme",
		Message:         "Hello",
		ProductInterest: "AI Sales Coach",
		UTM:             UTM{Source: "google", Campaign: "spring"},
	})

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"contact": {"firstName":"Jane","lastName":"Q Doe","email":"jane@example.com","phone":"","companyName":"Acme"},
		"message": {"subject":"Website Contact Form","body":"Hello"},
		"source": "Website",
		"tags": ["website-inquiry"],
		"customFields": {
			"product_interest":"AI Sales Coach",
			"utm_source":"google","utm_medium":"","utm_campaign":"spring","utm_term":"","utm_content":""
		}
	}`, string(raw))
}

func TestGHLSendContact(t *testing.T) {
	var got GHLPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	g := NewGHL(srv.URL, quiet())
	require.NoError(t, g.SendContact(context.Background(), Contact{Name: "Jo", Email: "jo@example.com", Subject: "Demo"}))
	assert.Equal(t, "Jo", got.Contact.FirstName)
	assert.Equal(t, "Demo", got.Message.Subject)
}

func TestGHLSendContactUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad payload", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	err := NewGHL(srv.URL, quiet()).SendContact(context.Background(), Contact{Email: "a@b.co"})
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnprocessableEntity, se.Status)
	assert.Equal(t, "bad payload", se.Body)
}

func TestGHLNotConfigured(t *testing.T) {
	g := NewGHL("  ")
	assert.False(t, g.Configured())
	assert.ErrorIs(t, g.SendContact(context.Background(), Contact{}), ErrNotConfigured)
}

func newClickUp(url string) *ClickUp {
	return NewClickUp(ClickUpConfig{
		APIKey:      "pk_test",
		ListID:      "901",
		TypeFieldID: "field-type",
		BaseURL:     url,
	}, quiet())
}

func validFeedback() Feedback {
	return Feedback{
		Title:       "Login broken",
		Description: "Button does nothing",
		Type:        "Bug",
		Priority:    "High",
		Email:       "qa@example.com",
	}
}

func TestClickUpCreateTask(t *testing.T) {
	var got ClickUpTaskRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/list/901/task", r.URL.Path)
		assert.Equal(t, "pk_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"id":"abc123","url":"https://app.clickup.com/t/abc123"}`)
	}))
	defer srv.Close()

	task, err := newClickUp(srv.URL).CreateTask(context.Background(), validFeedback())
	require.NoError(t, err)
	assert.Equal(t, Task{ID: "abc123", URL: "https://app.clickup.com/t/abc123"}, task)

	assert.Equal(t, "Login broken", got.Name)
	assert.Equal(t, 2, got.Priority)
	assert.Equal(t, "Button does nothing\n\n**Reporter Email:** qa@example.com", got.Description)
	require.Len(t, got.CustomFields, 1)
	assert.Equal(t, "field-type", got.CustomFields[0].ID)
	assert.Equal(t, "5104aa10-d70f-40fc-a52c-e3b16e07df33", got.CustomFields[0].Value)
}

func TestClickUpPriorityMapping(t *testing.T) {
	c := newClickUp("")
	tests := []struct {
		priority string
		expected int
	}{
		{"Critical", 1},
		{"High", 2},
		{"Medium", 3},
		{"Low", 4},
	}
	for _, tt := range tests {
		fb := validFeedback()
		fb.Priority = tt.priority
		if got := c.NewTaskRequest(fb).Priority; got != tt.expected {
			t.Errorf("priority %q = %d, want %d", tt.priority, got, tt.expected)
		}
	}
}

func TestClickUpRejectsUnknownOptions(t *testing.T) {
	c := newClickUp("http://127.0.0.1:0")

	fb := validFeedback()
	fb.Type = "Complaint"
	_, err := c.CreateTask(context.Background(), fb)
	assert.ErrorIs(t, err, ErrInvalidFeedback)

	fb = validFeedback()
	fb.Priority = "Urgent"
	_, err = c.CreateTask(context.Background(), fb)
	assert.ErrorIs(t, err, ErrInvalidFeedback)
}

func TestClickUpNotConfigured(t *testing.T) {
	c := NewClickUp(ClickUpConfig{APIKey: "k"})
	assert.False(t, c.Configured())
	_, err := c.CreateTask(context.Background(), validFeedback())
	assert.True(t, errors.Is(err, ErrNotConfigured))
}

func TestClickUpUploadAttachment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/task/abc123/attachment", r.URL.Path)
		assert.Equal(t, "pk_test", r.Header.Get("Authorization"))
		f, hdr, err := r.FormFile("attachment")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "shot.png", hdr.Filename)
		assert.Equal(t, "PNGDATA", string(data))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := newClickUp(srv.URL).UploadAttachment(context.Background(), "abc123", "shot.png", strings.NewReader("PNGDATA"))
	require.NoError(t, err)
}

func TestClickUpUploadAttachmentFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
	}))
	defer srv.Close()

	err := newClickUp(srv.URL).UploadAttachment(context.Background(), "abc123", "big.png", strings.NewReader("x"))
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusRequestEntityTooLarge, se.Status)
}
