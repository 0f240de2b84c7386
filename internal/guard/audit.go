package guard

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kingrain94/tenant-guard/internal/domain"
	"github.com/kingrain94/tenant-guard/internal/metrics"
	"github.com/kingrain94/tenant-guard/pkg/logger"
)

// AuditSink accepts entries without blocking the caller.
type AuditSink interface {
	Log(entry *domain.AuditEntry)
}

//go:generate mockery --name AuditRecorder --output ../mocks --outpkg mocks
type AuditRecorder interface {
	Record(ctx context.Context, entry *domain.AuditEntry) error
}

// AuditLogger buffers entries and writes them from a fixed set of workers.
// A full buffer drops the entry; a failed write is logged and counted.
type AuditLogger struct {
	recorder     AuditRecorder
	logger       *logger.Logger
	queue        chan *domain.AuditEntry
	writeTimeout time.Duration
	wg           sync.WaitGroup
	mu           sync.RWMutex
	closed       bool
}

func NewAuditLogger(recorder AuditRecorder, logger *logger.Logger, buffer, workers int) *AuditLogger {
	if buffer <= 0 {
		buffer = 1
	}
	if workers <= 0 {
		workers = 1
	}
	a := &AuditLogger{
		recorder:     recorder,
		logger:       logger,
		queue:        make(chan *domain.AuditEntry, buffer),
		writeTimeout: 5 * time.Second,
	}
	for i := 0; i < workers; i++ {
		a.wg.Add(1)
		go a.worker(i)
	}
	return a
}

func (a *AuditLogger) Log(entry *domain.AuditEntry) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		metrics.AuditDroppedTotal.Inc()
		return
	}
	select {
	case a.queue <- entry:
		metrics.AuditQueueDepth.Inc()
	default:
		metrics.AuditDroppedTotal.Inc()
		a.logger.Warn("Audit buffer full, dropping entry",
			zap.String("tenant_id", entry.TenantID),
			zap.String("action", string(entry.Action)),
			zap.String("code", entry.Code))
	}
}

// Close stops accepting entries and waits until the buffer is drained.
func (a *AuditLogger) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	close(a.queue)
	a.mu.Unlock()

	a.wg.Wait()
}

func (a *AuditLogger) worker(id int) {
	defer a.wg.Done()

	for entry := range a.queue {
		metrics.AuditQueueDepth.Dec()
		ctx, cancel := context.WithTimeout(context.Background(), a.writeTimeout)
		if err := a.recorder.Record(ctx, entry); err != nil {
			metrics.BookkeepingFailure(metrics.OpAudit)
			a.logger.Error("Failed to write audit entry", err,
				zap.Int("worker_id", id),
				zap.String("tenant_id", entry.TenantID),
				zap.String("code", entry.Code))
		}
		cancel()
	}
}
