package email

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/Velroxe/Khatri-College/internal/core/port"
	"github.com/Velroxe/Khatri-College/internal/infra/config"
	"github.com/Velroxe/Khatri-College/internal/infra/logger"
)

const gmailSendURL = "https://gmail.googleapis.com/gmail/v1/users/me/messages/send"

// GmailSender delivers HTML mail through the Gmail REST API using an OAuth2
// refresh-token credential. The client is constructed explicitly and injected
// where mail delivery is needed; there is no process-wide singleton.
type GmailSender struct {
	httpClient *http.Client
	sender     string
	logger     *zap.Logger
}

// NewGmailSender builds a sender from the email settings. The returned
// http.Client transparently refreshes the short-lived access token.
func NewGmailSender(ctx context.Context, cfg config.EmailSettings, log *zap.Logger) (*GmailSender, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RefreshToken == "" {
		return nil, fmt.Errorf("gmail sender: oauth2 credentials are not configured")
	}
	if cfg.Sender == "" {
		return nil, fmt.Errorf("gmail sender: sender address is not configured")
	}
	if log == nil {
		log = zap.NewNop()
	}

	conf := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"https://www.googleapis.com/auth/gmail.send"},
	}

	client := conf.Client(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})
	client.Timeout = 15 * time.Second

	return &GmailSender{
		httpClient: client,
		sender:     cfg.Sender,
		logger:     log,
	}, nil
}

// Send builds an RFC-822 message, base64url-encodes it, and posts it to the
// Gmail send endpoint.
func (s *GmailSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	if to == "" {
		return fmt.Errorf("gmail sender: recipient is required")
	}

	raw := strings.Join([]string{
		"From: " + s.sender,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=utf-8",
		"",
		htmlBody,
	}, "\r\n")

	payload, err := json.Marshal(map[string]string{
		"raw": base64.RawURLEncoding.EncodeToString([]byte(raw)),
	})
	if err != nil {
		return fmt.Errorf("gmail sender: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, gmailSendURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("gmail sender: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gmail sender: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("gmail sender: send failed with status %d: %s", resp.StatusCode, string(body))
	}

	s.logger.Info("email sent", zap.String("to", logger.MaskEmail(to)), zap.String("subject", subject))

	return nil
}

var _ port.Mailer = (*GmailSender)(nil)
