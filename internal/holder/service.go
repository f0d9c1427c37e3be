// Package holder orchestrates one presentation operation end to end:
// parse the authorization request, guard the nonce, match the manifest
// snapshot, assemble the claim set, and hand it to the signer.
package holder

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks ManifestSource,Signer,ReplayGuard,AuditPublisher

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"cardwallet/internal/audit"
	"cardwallet/internal/exchange"
	"cardwallet/internal/manifest"
	"cardwallet/internal/matcher"
	"cardwallet/internal/platform/metrics"
	"cardwallet/internal/presentation"
	dErrors "cardwallet/pkg/domain-errors"
	"cardwallet/pkg/platform/sentinel"
)

// ManifestSource supplies a read-only snapshot of the holder's credentials
// for one matching operation.
type ManifestSource interface {
	Snapshot(ctx context.Context) ([]manifest.Entry, error)
}

// Signer turns assembled claims into a compact signed token.
type Signer interface {
	Sign(claims presentation.Claims) (string, error)
}

// ReplayGuard enforces single use of request nonces.
type ReplayGuard interface {
	MarkUsed(ctx context.Context, nonce string) error
}

// AuditPublisher records exchange outcomes.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Result reports one presentation operation. Empty marks the non-error case
// where no stored credential qualified; callers decide whether to present
// nothing, prompt the holder, or abort.
type Result struct {
	VPToken string
	Matched int
	Empty   bool
}

// Service wires the exchange pipeline together. All dependencies are
// injected; the service holds no process-wide state.
type Service struct {
	parser    *exchange.Parser
	manifests ManifestSource
	assembler *presentation.Assembler
	signer    Signer
	replay    ReplayGuard
	auditor   AuditPublisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	tracer    trace.Tracer
}

func NewService(
	parser *exchange.Parser,
	manifests ManifestSource,
	assembler *presentation.Assembler,
	signer Signer,
	replay ReplayGuard,
	auditor AuditPublisher,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		parser:    parser,
		manifests: manifests,
		assembler: assembler,
		signer:    signer,
		replay:    replay,
		auditor:   auditor,
		metrics:   m,
		logger:    logger,
		tracer:    otel.Tracer("cardwallet/internal/holder"),
	}
}

// Present handles one inbound authorization request in transport form.
// Validation failures stop the pipeline at the boundary where they are
// detected; nothing is matched or assembled after a fatal error.
func (s *Service) Present(ctx context.Context, query string) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "holder.Present")
	defer span.End()

	parsed, err := s.parser.Parse(query)
	if err != nil {
		s.reject(ctx, "", err)
		return nil, err
	}
	req := parsed.Request

	if err := s.replay.MarkUsed(ctx, req.Nonce); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			err = dErrors.New(dErrors.CodeConflict, "nonce already used")
		} else {
			err = dErrors.Wrap(err, dErrors.CodeInternal, "replay guard unavailable")
		}
		s.reject(ctx, req.ClientID, err)
		return nil, err
	}

	compiled, err := matcher.Compile(parsed.Definition)
	if err != nil {
		s.reject(ctx, req.ClientID, err)
		return nil, err
	}

	snapshot, err := s.manifests.Snapshot(ctx)
	if err != nil {
		err = dErrors.Wrap(err, dErrors.CodeInternal, "load manifest snapshot")
		s.reject(ctx, req.ClientID, err)
		return nil, err
	}

	start := time.Now()
	matched := compiled.Match(snapshot)
	s.metrics.RecordMatch(time.Since(start), len(matched))
	span.SetAttributes(
		attribute.String("definition.id", parsed.Definition.ID),
		attribute.Int("manifest.entries", len(snapshot)),
		attribute.Int("matched.entries", len(matched)),
	)

	if len(matched) == 0 {
		s.logger.InfoContext(ctx, "no stored credential satisfies definition",
			"definition_id", parsed.Definition.ID,
			"manifest_entries", len(snapshot),
		)
		s.emit(ctx, audit.Event{
			Type:     audit.EventEmptyMatch,
			ClientID: req.ClientID,
			Scope:    req.Scope,
		})
		return &Result{Empty: true}, nil
	}

	credentials := make([]string, len(matched))
	for i, entry := range matched {
		credentials[i] = entry.Credential
	}

	claims := s.assembler.Assemble(credentials, req.Nonce, req.ClientID)
	token, err := s.signer.Sign(claims)
	if err != nil {
		s.reject(ctx, req.ClientID, err)
		return nil, err
	}

	s.metrics.RecordAssembled()
	s.emit(ctx, audit.Event{
		Type:         audit.EventPresentationAssembled,
		ClientID:     req.ClientID,
		Scope:        req.Scope,
		MatchedCount: len(matched),
	})
	return &Result{VPToken: token, Matched: len(matched)}, nil
}

// reject records a fatal pipeline stop: metrics by reason code plus an
// audit event.
func (s *Service) reject(ctx context.Context, clientID string, err error) {
	reason := string(dErrors.CodeInternal)
	var we dErrors.WalletError
	if errors.As(err, &we) {
		reason = string(we.Code)
	}
	s.logger.WarnContext(ctx, "authorization request rejected",
		"reason", reason,
		"error", err.Error(),
	)
	s.metrics.RecordRejection(reason)
	s.emit(ctx, audit.Event{
		Type:     audit.EventRequestRejected,
		ClientID: clientID,
		Reason:   reason,
	})
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event",
			"event_type", string(event.Type),
			"error", err.Error(),
		)
	}
}
