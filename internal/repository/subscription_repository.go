package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/newsletter/newsletter/internal/database"
	"github.com/newsletter/newsletter/internal/domain"
	"github.com/newsletter/newsletter/internal/model"
	"github.com/newsletter/newsletter/internal/tracing"
)

// SubscriptionRepository handles subscriber persistence
type SubscriptionRepository struct {
	db  *database.Postgres
	now func() time.Time
}

// NewSubscriptionRepository creates a new SubscriptionRepository
func NewSubscriptionRepository(db *database.Postgres) *SubscriptionRepository {
	return &SubscriptionRepository{db: db, now: time.Now}
}

// Insert stores a new subscriber with a fresh id, the current time and the
// pending_confirmation status.
func (r *SubscriptionRepository) Insert(ctx context.Context, sub domain.NewSubscriber) (*model.Subscription, error) {
	s := &model.Subscription{
		ID:           uuid.New(),
		Email:        sub.Email().String(),
		Name:         sub.Name().String(),
		SubscribedAt: r.now().UTC(),
		Status:       model.SubscriptionStatusPendingConfirmation,
	}

	ctx, span := tracing.Tracer().Start(ctx, "repository.subscriptions.insert",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("subscription.id", s.ID.String()),
		),
	)
	defer span.End()

	query := `
		INSERT INTO subscriptions (id, email, name, subscribed_at, status)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.Email,
		s.Name,
		s.SubscribedAt,
		s.Status,
	)
	if err != nil {
		tracing.RecordError(span, err)
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("failed to create subscription: %w: %w", ErrDuplicate, err)
		}
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}
	return s, nil
}
