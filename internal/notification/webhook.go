// Package notification delivers user-facing notifications through an
// outbound webhook (picked up by the email/UI delivery service).
package notification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// WebhookSender posts notification events as JSON to a fixed URL.
type WebhookSender struct {
	URL    string
	Client *http.Client
}

// NewWebhookSender builds a sender with a sane timeout.
func NewWebhookSender(url string) *WebhookSender {
	return &WebhookSender{
		URL:    url,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify posts one event. The event id lets the delivery side dedupe
// retried posts.
func (s *WebhookSender) Notify(userID uint, title, message, link string) error {
	payload := map[string]interface{}{
		"eventId": uuid.NewString(),
		"userId":  userID,
		"title":   title,
		"message": message,
		"link":    link,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	resp, err := s.Client.Post(s.URL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("post notification: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification webhook returned %s", resp.Status)
	}
	return nil
}
