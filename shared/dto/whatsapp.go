package dto

import (
	"encoding/json"
	"fmt"
	"hotelops/shared/constant"
	"mime"
	"net/http"
	"strings"
)

const whatsAppPrefix = "whatsapp:"

// WhatsAppMessage is the subset of a Twilio webhook payload the intake endpoints read.
type WhatsAppMessage struct {
	From        string `json:"From"        validate:"required"`
	Body        string `json:"Body"        validate:"required"`
	ProfileName string `json:"ProfileName"`
}

// FromRequest accepts Twilio's form encoding as well as a JSON body.
func (m *WhatsAppMessage) FromRequest(r *http.Request) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get(constant.RequestHeaderContentType))

	if mediaType == constant.ContentTypeJSON {
		if err := json.NewDecoder(r.Body).Decode(m); err != nil {
			return fmt.Errorf("failed to decode webhook body: %w", err)
		}

		return nil
	}

	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("failed to parse webhook form: %w", err)
	}

	m.From = r.PostForm.Get("From")
	m.Body = r.PostForm.Get("Body")
	m.ProfileName = r.PostForm.Get("ProfileName")

	return nil
}

// Phone strips the channel prefix from the sender.
func (m WhatsAppMessage) Phone() string {
	return strings.TrimSpace(strings.TrimPrefix(m.From, whatsAppPrefix))
}

// WebhookResponse is always sent with 200 so the provider does not retry.
type WebhookResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}
