package contact

import (
	"context"
	"fmt"

	"github.com/2beens/portfolioapi/internal/telemetry/metrics"
	"github.com/2beens/portfolioapi/internal/telemetry/tracing"
	"github.com/2beens/portfolioapi/pkg/validation"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type messagesRepo interface {
	Create(ctx context.Context, m *Message) error
	List(ctx context.Context) ([]*Message, error)
	MarkRead(ctx context.Context, id uuid.UUID) (*Message, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo    messagesRepo
	metrics *metrics.Manager
}

func NewService(repo messagesRepo, metricsManager *metrics.Manager) *Service {
	return &Service{
		repo:    repo,
		metrics: metricsManager,
	}
}

func (s *Service) Create(ctx context.Context, in CreateInput) (_ *Message, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.contact.create")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	in.normalize()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	message := &Message{
		ID:      uuid.New(),
		Name:    in.Name,
		Email:   in.Email,
		Message: in.Message,
	}
	if err := s.repo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	if s.metrics != nil {
		s.metrics.CounterContactMessages.Inc()
	}
	log.Debugf("new contact message %s from %s", message.ID, message.Email)
	return message, nil
}

// List returns all messages, newest first
func (s *Service) List(ctx context.Context) ([]*Message, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.contact.list")
	defer span.End()

	messages, err := s.repo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}

func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) (*Message, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.contact.markRead")
	span.SetAttributes(attribute.String("message.id", id.String()))
	defer span.End()

	return s.repo.MarkRead(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.contact.delete")
	span.SetAttributes(attribute.String("message.id", id.String()))
	defer span.End()

	return s.repo.Delete(ctx, id)
}
