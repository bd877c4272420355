package service

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/newsletter/newsletter/internal/domain"
	"github.com/newsletter/newsletter/internal/email"
	"github.com/newsletter/newsletter/internal/logger"
	"github.com/newsletter/newsletter/internal/metrics"
	"github.com/newsletter/newsletter/internal/model"
	"github.com/newsletter/newsletter/internal/tracing"
)

// Subscription errors. Both mean the request failed on our side; a caller
// cannot tell them apart by status code.
var (
	ErrStoreSubscriber  = errors.New("failed to store subscriber")
	ErrSendConfirmation = errors.New("failed to send confirmation email")
)

// SubscriberStore persists new subscribers
type SubscriberStore interface {
	Insert(ctx context.Context, sub domain.NewSubscriber) (*model.Subscription, error)
}

// SubscriptionService registers newsletter subscribers
type SubscriptionService struct {
	store   SubscriberStore
	sender  email.Sender
	baseURL string
	appName string
	log     *logger.Logger
}

// NewSubscriptionService creates a new SubscriptionService.
// baseURL is the public application URL used for the confirmation link.
func NewSubscriptionService(
	store SubscriberStore,
	sender email.Sender,
	baseURL string,
	appName string,
	log *logger.Logger,
) *SubscriptionService {
	return &SubscriptionService{
		store:   store,
		sender:  sender,
		baseURL: baseURL,
		appName: appName,
		log:     log.WithComponent("subscriptions"),
	}
}

// Register validates the raw form values, stores the subscriber and sends
// the confirmation email, in that order.
//
// A validation failure matches domain.ErrValidation and has no side
// effects. A storage failure matches ErrStoreSubscriber and no email is
// sent. A dispatch failure matches ErrSendConfirmation; the stored row is
// kept.
func (s *SubscriptionService) Register(ctx context.Context, rawName, rawEmail string) (err error) {
	ctx, span := tracing.Tracer().Start(ctx, "service.subscriptions.register")
	defer func() {
		switch {
		case err == nil:
			metrics.RecordSubscription(metrics.OutcomeAccepted)
		case errors.Is(err, domain.ErrValidation):
			metrics.RecordSubscription(metrics.OutcomeRejected)
		default:
			metrics.RecordSubscription(metrics.OutcomeFailed)
			tracing.RecordError(span, err)
		}
		span.End()
	}()

	log := logger.FromContext(ctx, s.log).
		WithStr("subscriber_email", rawEmail).
		WithStr("subscriber_name", rawName)

	sub, err := domain.ParseNewSubscriber(rawName, rawEmail)
	if err != nil {
		log.Info().Err(err).Msg("rejected subscription")
		return err
	}

	// Once validation passes the write path runs to completion even if the
	// client goes away.
	ctx = context.WithoutCancel(ctx)

	stored, err := s.store.Insert(ctx, sub)
	if err != nil {
		log.Error().Err(err).Msg("failed to store new subscriber")
		return fmt.Errorf("%w: %w", ErrStoreSubscriber, err)
	}
	span.SetAttributes(attribute.String("subscription.id", stored.ID.String()))
	log = log.WithStr("subscription_id", stored.ID.String())

	link := email.ConfirmationLink(s.baseURL)
	msg := email.Message{
		To:       sub.Email(),
		Subject:  email.ConfirmationSubject,
		HTMLBody: email.ConfirmationEmailHTML(link, s.appName),
		TextBody: email.ConfirmationEmailText(link, s.appName),
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		log.Error().Err(err).Msg("failed to send confirmation email")
		return fmt.Errorf("%w: %w", ErrSendConfirmation, err)
	}

	log.Info().Msg("new subscriber saved and confirmation email sent")
	return nil
}
