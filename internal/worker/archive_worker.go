package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/kingrain94/tenant-guard/internal/config"
	"github.com/kingrain94/tenant-guard/internal/domain"
	"github.com/kingrain94/tenant-guard/internal/repository"
	"github.com/kingrain94/tenant-guard/internal/service/queue"
	"github.com/kingrain94/tenant-guard/pkg/logger"
)

const defaultArchiveBatchSize = 1000

// ObjectStore is the subset of the S3 API the archive worker uses.
type ObjectStore interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// CleanupScheduler enqueues the deletion that follows a successful archive.
type CleanupScheduler interface {
	SendCleanupMessage(ctx context.Context, tenantID string, beforeDate time.Time) error
}

// ArchiveWorker writes audit entries older than the requested date to S3 in
// batches, then schedules their deletion.
type ArchiveWorker struct {
	*poller
	entries   repository.AuditEntryRepository
	store     ObjectStore
	s3Config  *config.S3Config
	cleanup   CleanupScheduler
	batchSize int
	now       func() time.Time
}

func NewArchiveWorker(
	q Queue,
	queueURL string,
	entries repository.AuditEntryRepository,
	store ObjectStore,
	s3Config *config.S3Config,
	cleanup CleanupScheduler,
	logger *logger.Logger,
	workerCount int,
	pollInterval time.Duration,
) *ArchiveWorker {
	w := &ArchiveWorker{
		entries:   entries,
		store:     store,
		s3Config:  s3Config,
		cleanup:   cleanup,
		batchSize: defaultArchiveBatchSize,
		now:       time.Now,
	}
	w.poller = newPoller("Archive", q, queueURL, queue.MessageTypeArchive, w.process, logger, workerCount, pollInterval)
	return w
}

type archiveBatch struct {
	TenantID   string              `json:"tenant_id,omitempty"`
	BeforeDate time.Time           `json:"before_date"`
	ArchivedAt time.Time           `json:"archived_at"`
	Batch      int                 `json:"batch"`
	Count      int                 `json:"count"`
	Entries    []domain.AuditEntry `json:"entries"`
}

func (w *ArchiveWorker) process(ctx context.Context, msg queue.Message) error {
	if msg.BeforeDate.IsZero() {
		return fmt.Errorf("archive message without before_date")
	}

	total := 0
	for batch := 0; ; batch++ {
		entries, err := w.entries.ListBefore(ctx, msg.TenantID, msg.BeforeDate, w.batchSize, batch*w.batchSize)
		if err != nil {
			return fmt.Errorf("failed to fetch entries for archival: %w", err)
		}
		if len(entries) == 0 {
			break
		}
		if err := w.upload(ctx, msg, batch, entries); err != nil {
			return err
		}
		total += len(entries)
		if len(entries) < w.batchSize {
			break
		}
	}

	w.logger.Infof("Archived %d audit entries for tenant %q before %s",
		total, msg.TenantID, msg.BeforeDate.Format(time.RFC3339))

	// cleanup is scheduled even when nothing matched so the index is trimmed too
	if err := w.cleanup.SendCleanupMessage(ctx, msg.TenantID, msg.BeforeDate); err != nil {
		return fmt.Errorf("failed to enqueue cleanup message: %w", err)
	}
	return nil
}

func (w *ArchiveWorker) upload(ctx context.Context, msg queue.Message, batch int, entries []domain.AuditEntry) error {
	archivedAt := w.now().UTC()
	body, err := json.Marshal(archiveBatch{
		TenantID:   msg.TenantID,
		BeforeDate: msg.BeforeDate,
		ArchivedAt: archivedAt,
		Batch:      batch,
		Count:      len(entries),
		Entries:    entries,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal archive batch: %w", err)
	}

	key := w.s3Config.ArchiveKey(msg.TenantID, msg.BeforeDate, batch)
	_, err = w.store.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(w.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"tenant-id":   msg.TenantID,
			"archived-at": archivedAt.Format(time.RFC3339),
			"entry-count": strconv.Itoa(len(entries)),
			"before-date": msg.BeforeDate.Format(time.RFC3339),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to upload archive batch %d to S3: %w", batch, err)
	}

	w.logger.Infof("Uploaded archive batch to s3://%s/%s", w.s3Config.BucketName, key)
	return nil
}
