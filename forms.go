package coresite

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/coresight/coresite/crm"
	"github.com/coresight/coresite/metrics"
)

// Form names used in metrics.
const (
	formContact    = "contact"
	formComingSoon = "coming_soon"
	formFeedback   = "feedback"
	formNewsletter = "newsletter"
)

// MaxScreenshotSize bounds the feedback screenshot upload.
const MaxScreenshotSize = 10 << 20

// formResponse is the JSON answer of every form endpoint.
type formResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
	TaskID  string `json:"taskId,omitempty"`
	TaskURL string `json:"taskUrl,omitempty"`
}

func formFailure(c echo.Context, status int, msg string) error {
	return c.JSON(status, formResponse{Error: msg})
}

func formName(route string) string {
	switch route {
	case "/api/ghl-webhook":
		return formContact
	case "/api/coming-soon-webhook":
		return formComingSoon
	case "/api/clickup-feedback":
		return formFeedback
	case "/newsletter/":
		return formNewsletter
	}
	return "unknown"
}

// rateLimit rejects submissions from addresses over their form budget.
func (a *App) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if a.limiter.Allow(c.RealIP()) {
			return next(c)
		}
		a.recorder.IncForm(formName(c.Path()), metrics.OutcomeRateLimited)
		a.logger.Warn("form rate limited", "ip", c.RealIP(), "route", c.Path())
		c.Response().Header().Set("Retry-After", "60")
		return formFailure(c, http.StatusTooManyRequests, "Too many submissions. Please try again later.")
	}
}

// contactRequest accepts JSON or form bodies. Attribution comes either as a
// nested utm object or as flat utm_* fields.
type contactRequest struct {
	Name            string   `json:"name" form:"name"`
	Email           string   `json:"email" form:"email"`
	Company         string   `json:"company" form:"company"`
	Phone           string   `json:"phone" form:"phone"`
	Message         string   `json:"message" form:"message"`
	Subject         string   `json:"subject" form:"subject"`
	ProductInterest string   `json:"productInterest" form:"productInterest"`
	UTM             *crm.UTM `json:"utm" form:"-"`
	UTMSource       string   `json:"utm_source" form:"utm_source"`
	UTMMedium       string   `json:"utm_medium" form:"utm_medium"`
	UTMCampaign     string   `json:"utm_campaign" form:"utm_campaign"`
	UTMTerm         string   `json:"utm_term" form:"utm_term"`
	UTMContent      string   `json:"utm_content" form:"utm_content"`
}

// attribution resolves the nested object over the flat fields.
func (r contactRequest) attribution() crm.UTM {
	flat := crm.UTMFromParams(func(key string) string {
		switch key {
		case "utm_source":
			return r.UTMSource
		case "utm_medium":
			return r.UTMMedium
		case "utm_campaign":
			return r.UTMCampaign
		case "utm_term":
			return r.UTMTerm
		case "utm_content":
			return r.UTMContent
		}
		return ""
	})
	if r.UTM == nil {
		return flat
	}
	return r.UTM.Merge(flat)
}

func (r contactRequest) contact() crm.Contact {
	return crm.Contact{
		Name:            strings.TrimSpace(r.Name),
		Email:           strings.TrimSpace(r.Email),
		Company:         strings.TrimSpace(r.Company),
		Phone:           strings.TrimSpace(r.Phone),
		Message:         strings.TrimSpace(r.Message),
		Subject:         strings.TrimSpace(r.Subject),
		ProductInterest: strings.TrimSpace(r.ProductInterest),
		UTM:             r.attribution(),
	}
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func (a *App) handleContactWebhook(c echo.Context) error {
	var req contactRequest
	if err := c.Bind(&req); err != nil {
		a.recorder.IncForm(formContact, metrics.OutcomeInvalid)
		return formFailure(c, http.StatusBadRequest, "Invalid request body")
	}
	contact := req.contact()
	if contact.Name == "" || contact.Email == "" || contact.Message == "" {
		a.recorder.IncForm(formContact, metrics.OutcomeInvalid)
		return formFailure(c, http.StatusBadRequest, "Missing required fields")
	}
	if !validEmail(contact.Email) {
		a.recorder.IncForm(formContact, metrics.OutcomeInvalid)
		return formFailure(c, http.StatusBadRequest, "Please enter a valid email address")
	}
	contact.UTM = contact.UTM.Merge(SessionUTM(c))

	return a.sendContact(c, formContact, contact, "Form submitted successfully")
}

func (a *App) handleComingSoonWebhook(c echo.Context) error {
	var req contactRequest
	if err := c.Bind(&req); err != nil {
		a.recorder.IncForm(formComingSoon, metrics.OutcomeInvalid)
		return formFailure(c, http.StatusBadRequest, "Invalid request body")
	}
	contact := req.contact()
	if contact.Email == "" {
		a.recorder.IncForm(formComingSoon, metrics.OutcomeInvalid)
		return formFailure(c, http.StatusBadRequest, "Missing email field")
	}
	if !validEmail(contact.Email) {
		a.recorder.IncForm(formComingSoon, metrics.OutcomeInvalid)
		return formFailure(c, http.StatusBadRequest, "Please enter a valid email address")
	}
	contact.UTM = contact.UTM.Merge(SessionUTM(c))

	return a.sendContact(c, formComingSoon, contact, "Added to waitlist successfully")
}

func (a *App) sendContact(c echo.Context, form string, contact crm.Contact, success string) error {
	ctx := c.Request().Context()
	id := uuid.NewString()
	err := a.ghl.SendContact(ctx, contact)
	switch {
	case errors.Is(err, crm.ErrNotConfigured):
		a.recorder.IncForm(form, metrics.OutcomeUpstream)
		a.logger.ErrorContext(ctx, "ghl webhook not configured", "form", form, "submission_id", id)
		return formFailure(c, http.StatusServiceUnavailable, "Form submissions are temporarily unavailable")
	case err != nil:
		a.recorder.IncForm(form, metrics.OutcomeUpstream)
		a.logger.ErrorContext(ctx, "ghl webhook failed", "form", form, "submission_id", id, "error", err)
		return formFailure(c, http.StatusInternalServerError, "Failed to submit to CRM")
	}
	a.recorder.IncForm(form, metrics.OutcomeOK)
	a.logger.InfoContext(ctx, "form forwarded", "form", form, "submission_id", id,
		"utm_source", contact.UTM.Source, "utm_campaign", contact.UTM.Campaign)
	return c.JSON(http.StatusOK, formResponse{Success: true, Message: success})
}

func (a *App) handleFeedback(c echo.Context) error {
	ctx := c.Request().Context()
	fb := crm.Feedback{
		Title:       strings.TrimSpace(c.FormValue("title")),
		Description: strings.TrimSpace(c.FormValue("description")),
		Type:        strings.TrimSpace(c.FormValue("type")),
		Priority:    strings.TrimSpace(c.FormValue("priority")),
		Email:       strings.TrimSpace(c.FormValue("email")),
	}
	if fb.Title == "" || fb.Description == "" || fb.Type == "" || fb.Priority == "" || fb.Email == "" {
		a.recorder.IncForm(formFeedback, metrics.OutcomeInvalid)
		return formFailure(c, http.StatusBadRequest, "Missing required fields")
	}
	if err := fb.Validate(); err != nil {
		a.recorder.IncForm(formFeedback, metrics.OutcomeInvalid)
		return formFailure(c, http.StatusBadRequest, "Invalid feedback type or priority")
	}

	task, err := a.clickup.CreateTask(ctx, fb)
	if err != nil {
		a.recorder.IncForm(formFeedback, metrics.OutcomeUpstream)
		if errors.Is(err, crm.ErrNotConfigured) {
			a.logger.ErrorContext(ctx, "clickup not configured")
			return formFailure(c, http.StatusServiceUnavailable, "Feedback submissions are temporarily unavailable")
		}
		a.logger.ErrorContext(ctx, "clickup create task failed", "error", err)
		resp := formResponse{Error: "Failed to create task in ClickUp"}
		var se *crm.StatusError
		if errors.As(err, &se) {
			resp.Details = se.Body
		}
		return c.JSON(http.StatusInternalServerError, resp)
	}

	if fh, err := c.FormFile("screenshot"); err == nil && fh.Size > 0 {
		a.attachScreenshot(ctx, task.ID, fh)
	}

	a.recorder.IncForm(formFeedback, metrics.OutcomeOK)
	a.logger.InfoContext(ctx, "feedback filed", "task_id", task.ID, "type", fb.Type, "priority", fb.Priority)
	return c.JSON(http.StatusOK, formResponse{
		Success: true,
		Message: "Feedback submitted successfully",
		TaskID:  task.ID,
		TaskURL: task.URL,
	})
}

// attachScreenshot uploads the screenshot to the task. Failures are logged
// and never fail the submission.
func (a *App) attachScreenshot(ctx context.Context, taskID string, fh *multipart.FileHeader) {
	if fh.Size > MaxScreenshotSize {
		a.logger.WarnContext(ctx, "screenshot too large, skipped", "task_id", taskID, "size", fh.Size)
		return
	}
	f, err := fh.Open()
	if err != nil {
		a.logger.WarnContext(ctx, "open screenshot", "task_id", taskID, "error", err)
		return
	}
	defer f.Close()
	if err := a.clickup.UploadAttachment(ctx, taskID, fh.Filename, f); err != nil {
		a.logger.WarnContext(ctx, "upload screenshot", "task_id", taskID, "error", err)
	}
}

func (a *App) handleNewsletter(c echo.Context) error {
	var req struct {
		Email string `json:"email" form:"email"`
	}
	err := c.Bind(&req)
	if email := strings.TrimSpace(req.Email); err != nil || !validEmail(email) {
		a.recorder.IncForm(formNewsletter, metrics.OutcomeInvalid)
		return c.JSON(http.StatusBadRequest, formResponse{Message: "Please enter a valid email address"})
	}
	a.recorder.IncForm(formNewsletter, metrics.OutcomeOK)
	a.logger.InfoContext(c.Request().Context(), "newsletter signup", "submission_id", uuid.NewString())
	return c.JSON(http.StatusOK, formResponse{Success: true, Message: "Thanks for subscribing!"})
}
