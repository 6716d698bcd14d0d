package checkout

import (
	"context"
	"log/slog"

	"visionstore/api/external"
	"visionstore/config"
	"visionstore/error_messages"
	"visionstore/fallback"
	"visionstore/logger"
	"visionstore/metrics"
	"visionstore/order"
	"visionstore/selection"
)

// State is where one checkout interaction currently stands.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateRedirected
	StateConfirmed
	StateFallbackOffered
)

func (s State) String() string {
	switch s {
	case StateSubmitting:
		return "submitting"
	case StateRedirected:
		return "redirected"
	case StateConfirmed:
		return "confirmed"
	case StateFallbackOffered:
		return "fallback_offered"
	default:
		return "idle"
	}
}

// Attempt is the settled result of one checkout. Fallback is set only when
// the submission failed.
type Attempt struct {
	State    State
	Request  order.Request
	Outcome  order.Outcome
	Fallback *fallback.Message
}

type Service struct {
	submitter external.Submitter
	composer  *fallback.Composer
	metrics   *metrics.Metrics
	mode      config.Mode
	logger    *slog.Logger
}

func NewService(submitter external.Submitter, composer *fallback.Composer, m *metrics.Metrics, mode config.Mode, logger *slog.Logger) *Service {
	return &Service{
		submitter: submitter,
		composer:  composer,
		metrics:   m,
		mode:      mode,
		logger:    logger,
	}
}

// Submit runs the checkout pipeline for a selection: resolve, build,
// validate, submit once, and draft a manual order if that fails. The
// selection's guard is held for the whole attempt.
func (s *Service) Submit(ctx context.Context, sel *selection.Selection) (*Attempt, error) {
	if !sel.Begin() {
		return nil, error_messages.ErrSubmissionInProgress
	}
	defer sel.End()

	sku, ok := sel.SKU()
	if !ok {
		s.metrics.Unresolved(sel.Product.ID)
		return nil, error_messages.ErrUnresolvedSKU
	}

	req := order.Build(sku, sel.Quantity, sel.Market, sel.Shipping, sel.Metadata())
	if err := order.Validate(req); err != nil {
		return nil, err
	}

	attempt := &Attempt{State: StateSubmitting, Request: req}
	out := s.Send(ctx, req)
	attempt.Outcome = out
	switch out.Kind {
	case order.OutcomeRedirect:
		attempt.State = StateRedirected
	case order.OutcomeConfirmed:
		attempt.State = StateConfirmed
	default:
		msg := s.composer.Compose(req, out.Err)
		attempt.Fallback = &msg
		attempt.State = StateFallbackOffered
		s.metrics.FallbackOffered(s.submitter.Name())
	}
	return attempt, nil
}

// Send makes exactly one submission and records it. The request is not
// validated here; callers that accept raw orders check the SKU themselves.
func (s *Service) Send(ctx context.Context, req order.Request) order.Outcome {
	log := logger.FromContext(ctx, s.logger)

	out := s.submitter.Submit(ctx, req)
	s.metrics.Submission(s.mode.String(), s.submitter.Name(), out.Kind.String())

	attrs := []any{
		slog.String("provider", s.submitter.Name()),
		slog.String("mode", s.mode.String()),
		slog.String("product_id", req.ProductID),
		slog.String("sku", req.SKU),
		slog.Int("quantity", int(req.Quantity)),
		slog.String("market", string(req.Market)),
		slog.String("outcome", out.Kind.String()),
	}
	if out.Kind == order.OutcomeFailed {
		log.Warn("order submission failed", append(attrs, slog.String("error", out.Reason()))...)
		return out
	}
	log.Info("order submitted", append(attrs, slog.String("order_id", out.OrderID))...)
	return out
}
