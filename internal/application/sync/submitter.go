package sync

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/saleledger/backend/internal/domain/sale"
	"github.com/saleledger/backend/internal/domain/shared"
)

// Submitter delivers one sale to the authoritative store. A nil error
// means the sale is durably committed (or already was); any other error
// leaves the caller free to retry later.
type Submitter interface {
	Submit(ctx context.Context, s *sale.Sale) error
}

// SubmitterFunc adapts a function to the Submitter interface
type SubmitterFunc func(ctx context.Context, s *sale.Sale) error

// Submit implements Submitter
func (f SubmitterFunc) Submit(ctx context.Context, s *sale.Sale) error {
	return f(ctx, s)
}

// LedgerSubmitter writes sales into the authoritative repository,
// deduplicating resubmissions by submission key. A capture whose first
// submission succeeded but whose acknowledgment was lost is recognized on
// retry and treated as success instead of creating a second ledger row.
type LedgerSubmitter struct {
	repo      sale.Repository
	dedupe    shared.IdempotencyStore
	dedupeTTL time.Duration
	log       *zap.Logger
}

// NewLedgerSubmitter creates a submitter over the authoritative
// repository. dedupe may be nil, in which case only the repository's
// submission-key uniqueness guards against duplicates.
func NewLedgerSubmitter(repo sale.Repository, dedupe shared.IdempotencyStore, dedupeTTL time.Duration, log *zap.Logger) *LedgerSubmitter {
	if log == nil {
		log = zap.NewNop()
	}
	if dedupeTTL == 0 {
		dedupeTTL = shared.DefaultIdempotencyConfig().TTL
	}
	return &LedgerSubmitter{
		repo:      repo,
		dedupe:    dedupe,
		dedupeTTL: dedupeTTL,
		log:       log.Named("submitter"),
	}
}

// Submit commits a sale under a fresh authoritative identity. The local
// identifier and client timestamp are discarded; the submission key is
// kept so resubmissions of the same capture collapse into one record.
func (s *LedgerSubmitter) Submit(ctx context.Context, captured *sale.Sale) error {
	key := captured.SubmissionKey.String()

	if s.dedupe != nil {
		processed, err := s.dedupe.IsProcessed(ctx, key)
		if err != nil {
			s.log.Warn("Dedupe check failed, relying on store uniqueness", zap.Error(err))
		} else if processed {
			s.log.Debug("Skipping already-submitted sale", zap.String("submission_key", key))
			return nil
		}
	}

	committed := s.withServerIdentity(captured)
	err := s.repo.Save(ctx, committed)
	if errors.Is(err, shared.ErrAlreadyExists) {
		// The store saw this submission key before: the earlier attempt
		// landed and only its acknowledgment was lost
		s.log.Info("Submission already committed", zap.String("submission_key", key))
		err = nil
	}
	if err != nil {
		return err
	}

	if s.dedupe != nil {
		if _, err := s.dedupe.MarkProcessed(ctx, key, s.dedupeTTL); err != nil {
			s.log.Warn("Failed to mark submission key processed", zap.Error(err))
		}
	}
	return nil
}

// withServerIdentity rebinds the sale to a server-assigned identifier and
// timestamp, leaving the monetary snapshot untouched
func (s *LedgerSubmitter) withServerIdentity(captured *sale.Sale) *sale.Sale {
	now := time.Now()
	committed := *captured
	committed.ID = uuid.New()
	committed.CreatedAt = now
	committed.UpdatedAt = now
	committed.Items = make([]sale.LineItem, len(captured.Items))
	copy(committed.Items, captured.Items)
	for i := range committed.Items {
		committed.Items[i].SaleID = committed.ID
	}
	return &committed
}
