// Package twilio wraps the Twilio Messages API for outbound
// WhatsApp delivery. Callers treat sends as best-effort: failures
// are returned for logging, never retried here.
package twilio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/pipe-tracker/internal/config"
)

const messagesURL = "https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json"

type Client struct {
	logger     zerolog.Logger
	httpClient *http.Client
	accountSID string
	authToken  string
	fromNumber string
}

func NewClient(logger zerolog.Logger, cfg config.TwilioConfig) *Client {
	return &Client{
		logger:     logger,
		httpClient: &http.Client{Timeout: cfg.SendTimeout},
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		fromNumber: cfg.WhatsAppNumber,
	}
}

// Send delivers one WhatsApp text message to a phone number.
func (c *Client) Send(ctx context.Context, to, body string) error {
	form := url.Values{
		"From": {c.fromNumber},
		"To":   {whatsAppAddress(to)},
		"Body": {body},
	}

	endpoint := fmt.Sprintf(messagesURL, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call twilio: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("twilio returned %d: %s", resp.StatusCode, payload)
	}

	c.logger.Debug().
		Str("to", to).
		Msg("sent whatsapp message")
	return nil
}

// whatsAppAddress normalizes a phone number to the
// "whatsapp:+<digits>" form Twilio expects.
func whatsAppAddress(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	return "whatsapp:+" + digits.String()
}
