package email

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/newsletter/newsletter/internal/domain"
	"github.com/newsletter/newsletter/internal/metrics"
	"github.com/newsletter/newsletter/internal/tracing"
)

const mimeBoundary = "boundary_newsletter_confirmation"

// GmailConfig holds the configuration for the Gmail email sender.
// Either CredentialsJSON (service account with domain-wide delegation) or
// the ClientID/ClientSecret/RefreshToken triple must be set.
type GmailConfig struct {
	CredentialsJSON string
	ClientID        string
	ClientSecret    string
	RefreshToken    string
	Sender          domain.SubscriberEmail
	SenderName      string
	// Timeout bounds each send, including any token refresh it triggers.
	Timeout time.Duration
}

// GmailSender implements Sender using the Gmail API.
type GmailSender struct {
	service    *gmail.Service
	sender     domain.SubscriberEmail
	senderName string
	timeout    time.Duration
}

// NewGmailSender creates a GmailSender. httpClient, when non-nil, supplies
// the base transport for the OAuth2 client; its Timeout is replaced by
// cfg.Timeout.
func NewGmailSender(ctx context.Context, cfg GmailConfig, httpClient *http.Client) (*GmailSender, error) {
	if cfg.Sender.String() == "" {
		return nil, fmt.Errorf("gmail: sender address is required")
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("gmail: timeout must be positive")
	}

	// Token refreshes run on this client with the context captured here,
	// not the per-send one, so it needs its own timeout.
	base := &http.Client{Timeout: cfg.Timeout}
	if httpClient != nil {
		base.Transport = httpClient.Transport
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)

	var client *http.Client
	switch {
	case cfg.CredentialsJSON != "":
		jwtConfig, err := google.JWTConfigFromJSON([]byte(cfg.CredentialsJSON), gmail.GmailSendScope)
		if err != nil {
			return nil, fmt.Errorf("gmail: failed to parse credentials: %w", err)
		}
		// Impersonate the sender mailbox
		jwtConfig.Subject = cfg.Sender.String()
		client = jwtConfig.Client(ctx)
	case cfg.RefreshToken != "":
		oauthCfg := &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{gmail.GmailSendScope},
		}
		client = oauthCfg.Client(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})
	default:
		return nil, fmt.Errorf("gmail: credentials JSON or refresh token is required")
	}
	client.Timeout = cfg.Timeout

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("gmail: failed to create service: %w", err)
	}

	return &GmailSender{
		service:    svc,
		sender:     cfg.Sender,
		senderName: cfg.SenderName,
		timeout:    cfg.Timeout,
	}, nil
}

// Send sends an email via the Gmail API. Failures and timeouts return
// ErrDispatch.
func (g *GmailSender) Send(ctx context.Context, msg Message) (err error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	ctx, span := tracing.Tracer().Start(ctx, "email.gmail.send")
	start := time.Now()
	defer func() {
		metrics.RecordEmailDispatch(time.Since(start), err)
		span.End()
	}()

	raw := buildMIME(g.from(), msg)
	gmailMsg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(raw)),
	}

	if _, err := g.service.Users.Messages.Send("me", gmailMsg).Context(ctx).Do(); err != nil {
		err = fmt.Errorf("%w: gmail: %w", ErrDispatch, err)
		tracing.RecordError(span, err)
		return err
	}
	return nil
}

func (g *GmailSender) from() string {
	if g.senderName == "" {
		return g.sender.String()
	}
	return fmt.Sprintf("%s <%s>", g.senderName, g.sender.String())
}

// buildMIME renders msg as an RFC 5322 message, multipart/alternative when
// both bodies are present.
func buildMIME(from string, msg Message) string {
	headers := []string{
		"From: " + from,
		"To: " + msg.To.String(),
		"Subject: " + msg.Subject,
		"MIME-Version: 1.0",
	}

	switch {
	case msg.HTMLBody != "" && msg.TextBody != "":
		return strings.Join(append(headers,
			"Content-Type: multipart/alternative; boundary="+mimeBoundary,
			"",
			"--"+mimeBoundary,
			"Content-Type: text/plain; charset=UTF-8",
			"Content-Transfer-Encoding: 7bit",
			"",
			msg.TextBody,
			"",
			"--"+mimeBoundary,
			"Content-Type: text/html; charset=UTF-8",
			"Content-Transfer-Encoding: 7bit",
			"",
			msg.HTMLBody,
			"",
			"--"+mimeBoundary+"--",
		), "\r\n")
	case msg.HTMLBody != "":
		return strings.Join(append(headers,
			"Content-Type: text/html; charset=UTF-8",
			"",
			msg.HTMLBody,
		), "\r\n")
	default:
		return strings.Join(append(headers,
			"Content-Type: text/plain; charset=UTF-8",
			"",
			msg.TextBody,
		), "\r\n")
	}
}
