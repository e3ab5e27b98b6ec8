package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"rhai/internal/domain"
	"rhai/internal/fallback"
	"rhai/internal/logger"
	"rhai/internal/metrics"
	"rhai/internal/port"
	"rhai/internal/prompt"
	"rhai/internal/provider"
	"rhai/internal/validation"
)

// User-facing failure texts. Provider internals are never included.
const (
	msgProviderUnavailable = "La génération du document a échoué : le service de rédaction est momentanément indisponible."
	msgInternal            = "Une erreur interne est survenue pendant la génération du document."
	suggestionRetry        = "Vérifiez votre connexion et réessayez dans quelques instants."
)

// RelayService validates document requests, calls the generation provider
// once and always answers with a DocumentResult envelope.
type RelayService interface {
	Generate(ctx context.Context, req domain.DocumentRequest) domain.DocumentResult
}

// RelayOption customizes a relay service.
type RelayOption func(*relayService)

// WithClock overrides the time source used for default start dates and metadata.
func WithClock(now func() time.Time) RelayOption {
	return func(s *relayService) { s.now = now }
}

// WithMetrics records outcomes and provider latency.
func WithMetrics(m *metrics.Metrics) RelayOption {
	return func(s *relayService) { s.metrics = m }
}

type relayService struct {
	provider  port.GenerationProvider
	validator *validation.RequestValidator
	templates *fallback.Templates
	policy    domain.FallbackPolicy
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewRelayService creates a new RelayService implementation.
func NewRelayService(
	gen port.GenerationProvider,
	templates *fallback.Templates,
	policy domain.FallbackPolicy,
	opts ...RelayOption,
) RelayService {
	s := &relayService{
		provider:  gen,
		validator: validation.NewRequestValidator(),
		templates: templates,
		policy:    policy,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *relayService) Generate(ctx context.Context, req domain.DocumentRequest) (result domain.DocumentResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("service.RelayService: panic during generation: %v", r)
			result = domain.NewFailure(domain.CodeInternal, msgInternal, suggestionRetry)
		}
	}()

	now := s.now().UTC()
	normalized := req.Normalized(now)
	typeLabel := metricType(normalized.DocumentType)

	if err := s.validator.Validate(&normalized); err != nil {
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			ve = &domain.ValidationError{Fields: []string{"body"}}
		}
		logger.Debugf("service.RelayService: rejected request: %v", ve)
		s.metrics.ObserveGeneration(typeLabel, metrics.OutcomeInvalid)
		return domain.NewFailure(domain.CodeValidation, ve.Message(), "")
	}

	input := prompt.Build(&normalized)

	start := time.Now()
	out, err := s.provider.Complete(ctx, input)
	s.metrics.ObserveProviderCall(s.provider.Name(), time.Since(start))
	if err == nil && strings.TrimSpace(out.Text) == "" {
		err = provider.MalformedError(s.provider.Name(), nil)
	}
	if err != nil {
		return s.onProviderError(&normalized, now, err)
	}

	logger.Infof("service.RelayService: generated %s document (%d tokens, model %s)",
		normalized.DocumentType, out.TotalTokens, out.ModelUsed)
	s.metrics.ObserveGeneration(typeLabel, metrics.OutcomeSuccess)

	return domain.NewSuccess(out.Text, domain.DocumentMetadata{
		Type:        normalized.DocumentType,
		TokenCount:  out.TotalTokens,
		GeneratedAt: now,
		Model:       out.ModelUsed,
	})
}

// onProviderError applies the configured fallback policy to a failed upstream call.
func (s *relayService) onProviderError(req *domain.DocumentRequest, now time.Time, err error) domain.DocumentResult {
	status := "0"
	var pErr *provider.ProviderError
	if errors.As(err, &pErr) && pErr.StatusCode != 0 {
		status = strconv.Itoa(pErr.StatusCode)
	}
	logger.Errorf("service.RelayService: %s call failed: %v", s.provider.Name(), err)
	s.metrics.ObserveProviderError(s.provider.Name(), status)

	if s.policy == domain.FallbackPolicyTemplate && s.templates != nil {
		logger.Warnf("service.RelayService: substituting fallback template for %s", req.DocumentType)
		s.metrics.ObserveGeneration(string(req.DocumentType), metrics.OutcomeFallback)
		return domain.NewSuccess(
			s.templates.Render(req.DocumentType, req.CompanyName, req.EmployeeName),
			domain.DocumentMetadata{
				Type:        req.DocumentType,
				GeneratedAt: now,
				Fallback:    true,
			},
		)
	}

	s.metrics.ObserveGeneration(string(req.DocumentType), metrics.OutcomeFailure)
	return domain.NewFailure(domain.CodeProvider, msgProviderUnavailable, retrySuggestion(err))
}

func retrySuggestion(err error) string {
	var rlErr *provider.RateLimitError
	if errors.As(err, &rlErr) {
		return fmt.Sprintf("Le service est très sollicité, réessayez dans %d secondes.", int(rlErr.RetryAfter.Seconds()))
	}
	return suggestionRetry
}

// metricType bounds label cardinality to the known document types.
func metricType(t domain.DocumentType) string {
	if t.Valid() {
		return string(t)
	}
	return "unknown"
}
