package sync

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/saleledger/backend/internal/domain/offline"
	"github.com/saleledger/backend/internal/domain/shared"
)

// OnlineChecker reports the current connectivity state
type OnlineChecker interface {
	IsOnline() bool
}

// Subscribable lets the coordinator register for connectivity transitions.
// The returned function cancels the registration.
type Subscribable interface {
	Subscribe(handler func(online bool)) func()
}

// Notifier receives the outcome of a completed synchronization run so the
// operator can be told their offline sales were delivered, or that some
// remain queued for a later retry.
type Notifier interface {
	SyncCompleted(result Result)
	SyncRetryLater(result Result)
}

type logNotifier struct {
	log *zap.Logger
}

func (n logNotifier) SyncCompleted(result Result) {
	n.log.Info("Offline sales synchronized",
		zap.Int("synced", result.Synced))
}

func (n logNotifier) SyncRetryLater(result Result) {
	n.log.Warn("Some offline sales could not be synchronized, will retry",
		zap.Int("synced", result.Synced),
		zap.Int("failed", result.Failed))
}

// Result tallies one synchronization run
type Result struct {
	Synced int `json:"synced"`
	Failed int `json:"failed"`
}

// Config holds coordinator tuning knobs
type Config struct {
	// PerRecordTimeout bounds each individual submission so one stuck
	// record cannot stall the whole run
	PerRecordTimeout time.Duration

	// AutoSyncEnabled triggers a run whenever connectivity is regained
	AutoSyncEnabled bool
}

// DefaultConfig returns the default coordinator configuration
func DefaultConfig() Config {
	return Config{
		PerRecordTimeout: 10 * time.Second,
		AutoSyncEnabled:  true,
	}
}

// Coordinator drains the local queue into the authoritative store. At most
// one run is in flight at a time; overlapping triggers (manual and
// reconnect racing each other) are rejected rather than interleaved.
type Coordinator struct {
	queue     offline.Queue
	submitter Submitter
	online    OnlineChecker
	notifier  Notifier
	cfg       Config
	log       *zap.Logger

	syncing atomic.Bool
}

// NewCoordinator creates a sync coordinator. notifier may be nil, in which
// case outcomes are reported through the logger only.
func NewCoordinator(queue offline.Queue, submitter Submitter, online OnlineChecker, notifier Notifier, cfg Config, log *zap.Logger) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("sync")
	if cfg.PerRecordTimeout <= 0 {
		cfg.PerRecordTimeout = DefaultConfig().PerRecordTimeout
	}
	if notifier == nil {
		notifier = logNotifier{log: log}
	}
	return &Coordinator{
		queue:     queue,
		submitter: submitter,
		online:    online,
		notifier:  notifier,
		cfg:       cfg,
		log:       log,
	}
}

// InProgress reports whether a run is currently executing
func (c *Coordinator) InProgress() bool {
	return c.syncing.Load()
}

// Sync drains unsynchronized records for the given business, or for all
// businesses when businessID is uuid.Nil. While offline it is a no-op that
// performs no I/O. A run already in progress yields ErrSyncInProgress.
//
// Each record is submitted independently: a failure is tallied and the run
// moves on, so one bad record never blocks the rest of the queue.
func (c *Coordinator) Sync(ctx context.Context, businessID uuid.UUID) (Result, error) {
	if !c.online.IsOnline() {
		c.log.Debug("Sync requested while offline, nothing to do")
		return Result{}, nil
	}
	if !c.syncing.CompareAndSwap(false, true) {
		return Result{}, shared.ErrSyncInProgress
	}
	defer c.syncing.Store(false)

	records, err := c.queue.ListUnsynchronized(ctx, businessID)
	if err != nil {
		return Result{}, err
	}
	if len(records) == 0 {
		return Result{}, nil
	}

	c.log.Info("Starting synchronization run", zap.Int("pending", len(records)))

	var result Result
	for i := range records {
		record := &records[i]
		if err := ctx.Err(); err != nil {
			c.log.Warn("Synchronization run cancelled",
				zap.Int("synced", result.Synced),
				zap.Int("failed", result.Failed))
			return result, err
		}
		if err := c.submitRecord(ctx, record); err != nil {
			result.Failed++
			c.log.Warn("Failed to submit queued sale",
				zap.String("local_id", record.LocalID.String()),
				zap.Error(err))
			continue
		}
		result.Synced++
	}

	if purged, err := c.queue.PurgeSynchronized(ctx); err != nil {
		c.log.Warn("Failed to purge synchronized records", zap.Error(err))
	} else if purged > 0 {
		c.log.Debug("Purged synchronized records", zap.Int64("purged", purged))
	}

	if result.Failed > 0 {
		c.notifier.SyncRetryLater(result)
	} else if result.Synced > 0 {
		c.notifier.SyncCompleted(result)
	}
	return result, nil
}

func (c *Coordinator) submitRecord(ctx context.Context, record *offline.PendingSale) error {
	recordCtx, cancel := context.WithTimeout(ctx, c.cfg.PerRecordTimeout)
	defer cancel()

	if err := c.submitter.Submit(recordCtx, &record.Sale); err != nil {
		return err
	}
	// The sale is committed upstream. If marking fails the record stays
	// queued and the next run resubmits it; the submission key keeps the
	// resubmission from duplicating the ledger row.
	return c.queue.MarkSynchronized(ctx, record.LocalID)
}

// AttachTo subscribes the coordinator to connectivity transitions so
// regaining connectivity triggers an automatic run. The returned function
// cancels the subscription.
func (c *Coordinator) AttachTo(monitor Subscribable) func() {
	return monitor.Subscribe(func(online bool) {
		if !online || !c.cfg.AutoSyncEnabled {
			return
		}
		result, err := c.Sync(context.Background(), uuid.Nil)
		if err != nil {
			c.log.Warn("Automatic synchronization failed", zap.Error(err))
			return
		}
		c.log.Debug("Automatic synchronization finished",
			zap.Int("synced", result.Synced),
			zap.Int("failed", result.Failed))
	})
}
