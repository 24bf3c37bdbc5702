package subscription

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/ignite/newsletter/internal/domain"
	"github.com/ignite/newsletter/internal/metrics"
	"github.com/ignite/newsletter/internal/pkg/logger"
)

const tracerName = "github.com/ignite/newsletter/internal/service/subscription"

// RawSubmission is an untrusted signup form as decoded from the request.
type RawSubmission struct {
	Email string
	Name  string
}

// Service runs the registration pipeline. It holds no mutable state and is
// safe for concurrent use if the repository and notifier are.
type Service struct {
	repo     Repository
	notifier Notifier
	renderer Renderer
	log      logrus.FieldLogger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	now      func() time.Time
	newID    func() uuid.UUID
}

type Option func(s *Service)

// WithNotifier enables the welcome email. Both arguments are required; a nil
// notifier leaves the step disabled.
func WithNotifier(n Notifier, r Renderer) Option {
	return func(s *Service) {
		s.notifier = n
		s.renderer = r
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Service) {
		s.tracer = tp.Tracer(tracerName)
	}
}

// WithClock overrides the source of subscription timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithIDGenerator overrides subscriber identifier generation.
func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(s *Service) {
		s.newID = newID
	}
}

// NewService creates a registration service backed by repo.
func NewService(repo Repository, log logrus.FieldLogger, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		log:    log,
		tracer: noop.NewTracerProvider().Tracer(tracerName),
		now:    time.Now,
		newID:  uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.New(prometheus.NewRegistry())
	}
	if s.renderer == nil {
		s.notifier = nil
	}
	return s
}

// Register validates raw, stores the resulting subscriber and, when a
// notifier is configured, sends a welcome email.
//
// The returned error is a *domain.ValidationError when the submission is
// rejected, or wraps ErrStorage when persistence fails. Welcome email
// failures are logged and never returned. Use Classify to map the error to
// an Outcome.
func (s *Service) Register(ctx context.Context, raw RawSubmission) (*domain.Subscriber, error) {
	start := time.Now()
	defer s.metrics.ObserveSubscribe(start)

	ctx, span := s.tracer.Start(ctx, "Adding a new subscriber")
	defer span.End()

	log := logger.FromContext(ctx, s.log).WithFields(logrus.Fields{
		"subscriber_email": raw.Email,
		"subscriber_name":  raw.Name,
	})

	newSub, err := s.validate(log, raw)
	if err != nil {
		log.WithError(err).Info("Rejected subscription request")
		span.SetStatus(codes.Error, "validation failed")
		s.metrics.IncrementOutcome(OutcomeRejected.String())
		return nil, err
	}

	sub, err := newSub.Register(s.newID(), s.now())
	if err != nil {
		log.WithError(err).Error("Failed to build subscriber")
		span.SetStatus(codes.Error, "registration failed")
		s.metrics.IncrementOutcome(OutcomeFailed.String())
		return nil, err
	}

	if err := s.insert(ctx, sub); err != nil {
		log.WithError(err).Error("Failed to execute query")
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage failed")
		s.metrics.IncrementOutcome(OutcomeFailed.String())
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	log = log.WithField("subscriber_id", sub.ID().String())
	log.Info("New subscriber details have been saved")
	s.metrics.IncrementOutcome(OutcomeRegistered.String())

	if s.notifier != nil {
		if err := s.sendWelcome(ctx, sub); err != nil {
			log.WithError(err).Warn("Failed to send welcome email")
			s.metrics.IncrementNotificationFailed()
		}
	}
	return &sub, nil
}

// validate evaluates both fields. When both are invalid the email error is
// returned and the name error is logged.
func (s *Service) validate(log logrus.FieldLogger, raw RawSubmission) (domain.NewSubscriber, error) {
	name, nameErr := domain.ParseSubscriberName(raw.Name)
	email, emailErr := domain.ParseSubscriberEmail(raw.Email)

	if emailErr != nil {
		if nameErr != nil {
			log.WithField("name_error", nameErr.Error()).Debug("Name also failed validation")
		}
		return domain.NewSubscriber{}, emailErr
	}
	if nameErr != nil {
		return domain.NewSubscriber{}, nameErr
	}
	return domain.NewSubscriber{Name: name, Email: email}, nil
}

func (s *Service) insert(ctx context.Context, sub domain.Subscriber) error {
	ctx, span := s.tracer.Start(ctx, "Saving new subscriber details in the database")
	defer span.End()

	if err := s.repo.Insert(ctx, sub); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return err
	}
	return nil
}

func (s *Service) sendWelcome(ctx context.Context, sub domain.Subscriber) error {
	ctx, span := s.tracer.Start(ctx, "Sending welcome email")
	defer span.End()

	subject, html, text, err := s.renderer.RenderWelcome(sub.Name())
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("render welcome email: %w", err)
	}
	if err := s.notifier.Send(ctx, sub.Email(), subject, html, text); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delivery failed")
		return err
	}
	return nil
}
