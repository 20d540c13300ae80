package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// DefaultSubject is used for contact messages without a subject.
const DefaultSubject = "Website Contact Form"

// Contact is a lead captured by the contact or waitlist forms.
type Contact struct {
	Name            string
	Email           string
	Company         string
	Phone           string
	Message         string
	Subject         string
	ProductInterest string
	UTM             UTM
}

type ghlContact struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	CompanyName string `json:"companyName"`
}

type ghlMessage struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type ghlCustomFields struct {
	ProductInterest string `json:"product_interest"`
	UTMSource       string `json:"utm_source"`
	UTMMedium       string `json:"utm_medium"`
	UTMCampaign     string `json:"utm_campaign"`
	UTMTerm         string `json:"utm_term"`
	UTMContent      string `json:"utm_content"`
}

// GHLPayload is the body posted to the GoHighLevel inbound webhook.
type GHLPayload struct {
	Contact      ghlContact      `json:"contact"`
	Message      ghlMessage      `json:"message"`
	Source       string          `json:"source"`
	Tags         []string        `json:"tags"`
	CustomFields ghlCustomFields `json:"customFields"`
}

// SplitName splits a full name at the first run of whitespace.
func SplitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// NewGHLPayload formats c for the webhook.
func NewGHLPayload(c Contact) GHLPayload {
	first, last := SplitName(c.Name)
	subject := c.Subject
	if subject == "" {
		subject = DefaultSubject
	}
	return GHLPayload{
		Contact: ghlContact{
			FirstName:   first,
			LastName:    last,
			Email:       c.Email,
			Phone:       c.Phone,
			CompanyName: c.Company,
		},
		Message: ghlMessage{Subject: subject, Body: c.Message},
		Source:  "Website",
		Tags:    []string{"website-inquiry"},
		CustomFields: ghlCustomFields{
			ProductInterest: c.ProductInterest,
			UTMSource:       c.UTM.Source,
			UTMMedium:       c.UTM.Medium,
			UTMCampaign:     c.UTM.Campaign,
			UTMTerm:         c.UTM.Term,
			UTMContent:      c.UTM.Content,
		},
	}
}

// GHL posts leads to a GoHighLevel inbound webhook.
type GHL struct {
	transport
	webhookURL string
}

// NewGHL returns a client for webhookURL. An empty URL yields a client
// whose SendContact always fails with ErrNotConfigured.
func NewGHL(webhookURL string, opts ...Option) *GHL {
	g := &GHL{transport: defaultTransport(), webhookURL: strings.TrimSpace(webhookURL)}
	for _, opt := range opts {
		opt(&g.transport)
	}
	return g
}

// Configured reports whether a webhook URL is set.
func (g *GHL) Configured() bool {
	return g.webhookURL != ""
}

// SendContact forwards c to the webhook.
func (g *GHL) SendContact(ctx context.Context, c Contact) error {
	if !g.Configured() {
		return ErrNotConfigured
	}
	body, err := json.Marshal(NewGHLPayload(c))
	if err != nil {
		return fmt.Errorf("encode ghl payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build ghl request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send to ghl: %w", err)
	}
	defer resp.Body.Close()
	if !ok(resp) {
		err := statusError(resp)
		g.logger.ErrorContext(ctx, "ghl webhook rejected contact", "status", resp.StatusCode, "error", err)
		return err
	}
	return nil
}
