package email

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mrz1836/postmark"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/newsletter/newsletter/internal/domain"
	"github.com/newsletter/newsletter/internal/metrics"
	"github.com/newsletter/newsletter/internal/tracing"
)

// PostmarkConfig holds the configuration for the Postmark email sender.
type PostmarkConfig struct {
	// BaseURL is the API root; messages are posted to BaseURL + "/email".
	BaseURL string
	// ServerToken is sent in the X-Postmark-Server-Token header.
	ServerToken string
	// Sender is the From address.
	Sender domain.SubscriberEmail
	// Timeout bounds each send, including reading the response.
	Timeout time.Duration
}

// PostmarkSender implements Sender using Postmark's transactional email API.
// It is safe for concurrent use; the underlying HTTP client pools connections.
type PostmarkSender struct {
	client *postmark.Client
	sender domain.SubscriberEmail
}

// NewPostmarkSender creates a PostmarkSender with a single shared HTTP client.
func NewPostmarkSender(cfg PostmarkConfig) (*PostmarkSender, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("postmark: base URL is required")
	}
	if cfg.Sender.String() == "" {
		return nil, fmt.Errorf("postmark: sender address is required")
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("postmark: timeout must be positive")
	}

	client := postmark.NewClient(cfg.ServerToken, "")
	client.BaseURL = cfg.BaseURL
	client.HTTPClient = &http.Client{
		Timeout:   cfg.Timeout,
		Transport: otelhttp.NewTransport(successOnly{next: http.DefaultTransport}),
	}

	return &PostmarkSender{client: client, sender: cfg.Sender}, nil
}

// Send posts msg to the provider once. Transport failures, timeouts,
// non-2xx responses and Postmark error codes all return ErrDispatch.
func (p *PostmarkSender) Send(ctx context.Context, msg Message) (err error) {
	ctx, span := tracing.Tracer().Start(ctx, "email.postmark.send",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("email.subject", msg.Subject)),
	)
	start := time.Now()
	defer func() {
		metrics.RecordEmailDispatch(time.Since(start), err)
		if err != nil {
			tracing.RecordError(span, err)
		}
		span.End()
	}()

	resp, err := p.client.SendEmail(ctx, postmark.Email{
		From:     p.sender.String(),
		To:       msg.To.String(),
		Subject:  msg.Subject,
		HTMLBody: msg.HTMLBody,
		TextBody: msg.TextBody,
	})
	if err != nil {
		return fmt.Errorf("%w: postmark: %w", ErrDispatch, err)
	}
	if resp.ErrorCode > 0 {
		return fmt.Errorf("%w: postmark error %d: %s", ErrDispatch, resp.ErrorCode, resp.Message)
	}

	span.SetAttributes(attribute.String("email.message_id", resp.MessageID))
	return nil
}

// successOnly turns non-2xx responses into transport errors so that a
// failed send is never mistaken for a success, whatever the response body.
type successOnly struct {
	next http.RoundTripper
}

func (t successOnly) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}
	return resp, nil
}

// StatusError reports a non-2xx response from the provider
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}
