package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/kingrain94/tenant-guard/internal/repository"
	"github.com/kingrain94/tenant-guard/internal/service/queue"
	"github.com/kingrain94/tenant-guard/pkg/logger"
)

// CleanupWorker deletes archived audit entries from Postgres and the search index.
// Both deletes are idempotent, so a redelivered message is harmless.
type CleanupWorker struct {
	*poller
	entries repository.AuditEntryRepository
	search  repository.OpenSearchRepository
}

func NewCleanupWorker(
	q Queue,
	queueURL string,
	entries repository.AuditEntryRepository,
	search repository.OpenSearchRepository,
	logger *logger.Logger,
	workerCount int,
	pollInterval time.Duration,
) *CleanupWorker {
	w := &CleanupWorker{entries: entries, search: search}
	w.poller = newPoller("Cleanup", q, queueURL, queue.MessageTypeCleanup, w.process, logger, workerCount, pollInterval)
	return w
}

func (w *CleanupWorker) process(ctx context.Context, msg queue.Message) error {
	if msg.BeforeDate.IsZero() {
		return fmt.Errorf("cleanup message without before_date")
	}

	deleted, err := w.entries.DeleteBeforeDate(ctx, msg.TenantID, msg.BeforeDate)
	if err != nil {
		return fmt.Errorf("failed to delete entries for tenant %q: %w", msg.TenantID, err)
	}

	var unindexed int64
	if w.search != nil {
		unindexed, err = w.search.DeleteBefore(ctx, msg.TenantID, msg.BeforeDate)
		if err != nil {
			return fmt.Errorf("failed to delete indexed entries for tenant %q: %w", msg.TenantID, err)
		}
	}

	w.logger.Infof("Deleted %d entries (%d indexed) for tenant %q before %s",
		deleted, unindexed, msg.TenantID, msg.BeforeDate.Format(time.RFC3339))
	return nil
}
