package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/kingrain94/tenant-guard/internal/repository"
	"github.com/kingrain94/tenant-guard/internal/service/queue"
	"github.com/kingrain94/tenant-guard/pkg/logger"
)

// IndexWorker copies audit entries into OpenSearch for free-text search.
type IndexWorker struct {
	*poller
	search repository.OpenSearchRepository
}

func NewIndexWorker(
	q Queue,
	queueURL string,
	search repository.OpenSearchRepository,
	logger *logger.Logger,
	workerCount int,
	pollInterval time.Duration,
) *IndexWorker {
	w := &IndexWorker{search: search}
	w.poller = newPoller("Index", q, queueURL, queue.MessageTypeIndex, w.process, logger, workerCount, pollInterval)
	return w
}

func (w *IndexWorker) process(ctx context.Context, msg queue.Message) error {
	switch len(msg.Entries) {
	case 0:
		return fmt.Errorf("empty entries for INDEX message")
	case 1:
		return w.search.Index(ctx, &msg.Entries[0])
	default:
		return w.search.BulkIndex(ctx, msg.Entries)
	}
}
