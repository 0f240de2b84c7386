package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kingrain94/tenant-guard/internal/config"
	"github.com/kingrain94/tenant-guard/internal/domain"
	"github.com/kingrain94/tenant-guard/internal/mocks"
	"github.com/kingrain94/tenant-guard/internal/service/queue"
	"github.com/kingrain94/tenant-guard/pkg/logger"
)

type fakeQueue struct {
	mu       sync.Mutex
	messages []queue.ReceivedMessage
	deleted  []string
	cleanups []string
}

func (q *fakeQueue) ReceiveMessages(context.Context, string, int32, int32) ([]queue.ReceivedMessage, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.messages
	q.messages = nil
	return out, nil
}

func (q *fakeQueue) DeleteMessage(_ context.Context, _ string, handle *string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.deleted = append(q.deleted, aws.ToString(handle))
	return nil
}

func (q *fakeQueue) SendCleanupMessage(_ context.Context, tenantID string, _ time.Time) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.cleanups = append(q.cleanups, tenantID)
	return nil
}

type fakeObjectStore struct {
	keys   []string
	bodies [][]byte
	err    error
}

func (s *fakeObjectStore) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if s.err != nil {
		return nil, s.err
	}
	body, _ := io.ReadAll(in.Body)
	s.keys = append(s.keys, aws.ToString(in.Key))
	s.bodies = append(s.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

func received(handle string, msg queue.Message) queue.ReceivedMessage {
	return queue.ReceivedMessage{Message: msg, ReceiptHandle: aws.String(handle)}
}

func entries(n int) []domain.AuditEntry {
	out := make([]domain.AuditEntry, n)
	for i := range out {
		out[i] = domain.AuditEntry{ID: string(rune('a' + i)), TenantID: "acme", Code: domain.CodeRateLimit}
	}
	return out
}

var cutoff = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestIndexWorker_SingleAndBulk(t *testing.T) {
	search := mocks.NewOpenSearchRepository(t)
	q := &fakeQueue{}
	w := NewIndexWorker(q, "index-url", search, logger.NewNop(), 1, time.Second)

	search.On("Index", mock.Anything, mock.MatchedBy(func(e *domain.AuditEntry) bool { return e.ID == "a" })).Return(nil)
	search.On("BulkIndex", mock.Anything, mock.MatchedBy(func(es []domain.AuditEntry) bool { return len(es) == 3 })).Return(nil)

	q.messages = []queue.ReceivedMessage{
		received("h1", queue.Message{Type: queue.MessageTypeIndex, Entries: entries(1)}),
		received("h2", queue.Message{Type: queue.MessageTypeIndex, Entries: entries(3)}),
	}
	require.NoError(t, w.processMessages(context.Background()))

	assert.Equal(t, []string{"h1", "h2"}, q.deleted)
}

func TestIndexWorker_FailedMessageIsKept(t *testing.T) {
	search := mocks.NewOpenSearchRepository(t)
	q := &fakeQueue{}
	w := NewIndexWorker(q, "index-url", search, logger.NewNop(), 1, time.Second)

	search.On("Index", mock.Anything, mock.Anything).Return(errors.New("cluster red"))

	q.messages = []queue.ReceivedMessage{
		received("h1", queue.Message{Type: queue.MessageTypeIndex, Entries: entries(1)}),
		received("h2", queue.Message{Type: queue.MessageTypeIndex}),
		received("h3", queue.Message{Type: queue.MessageTypeCleanup, BeforeDate: cutoff}),
	}
	require.NoError(t, w.processMessages(context.Background()))

	assert.Empty(t, q.deleted)
}

func TestArchiveWorker_BatchesThenSchedulesCleanup(t *testing.T) {
	repo := mocks.NewAuditEntryRepository(t)
	q := &fakeQueue{}
	store := &fakeObjectStore{}
	s3cfg := &config.S3Config{BucketName: "archive", KeyPrefix: "audit"}
	w := NewArchiveWorker(q, "archive-url", repo, store, s3cfg, q, logger.NewNop(), 1, time.Second)
	w.batchSize = 2

	repo.On("ListBefore", mock.Anything, "acme", cutoff, 2, 0).Return(entries(2), nil).Once()
	repo.On("ListBefore", mock.Anything, "acme", cutoff, 2, 2).Return(entries(1), nil).Once()

	err := w.process(context.Background(), queue.Message{Type: queue.MessageTypeArchive, TenantID: "acme", BeforeDate: cutoff})
	require.NoError(t, err)

	assert.Equal(t, []string{"audit/acme/2025-01-01/batch-0000.json", "audit/acme/2025-01-01/batch-0001.json"}, store.keys)
	var first archiveBatch
	require.NoError(t, json.Unmarshal(store.bodies[0], &first))
	assert.Equal(t, 2, first.Count)
	assert.Equal(t, "acme", first.TenantID)
	assert.Equal(t, []string{"acme"}, q.cleanups)
}

func TestArchiveWorker_NothingToArchiveStillCleansUp(t *testing.T) {
	repo := mocks.NewAuditEntryRepository(t)
	q := &fakeQueue{}
	store := &fakeObjectStore{}
	w := NewArchiveWorker(q, "archive-url", repo, store, &config.S3Config{KeyPrefix: "audit"}, q, logger.NewNop(), 1, time.Second)

	repo.On("ListBefore", mock.Anything, "", cutoff, defaultArchiveBatchSize, 0).Return(nil, nil)

	require.NoError(t, w.process(context.Background(), queue.Message{Type: queue.MessageTypeArchive, BeforeDate: cutoff}))

	assert.Empty(t, store.keys)
	assert.Equal(t, []string{""}, q.cleanups)
}

func TestArchiveWorker_UploadFailureSkipsCleanup(t *testing.T) {
	repo := mocks.NewAuditEntryRepository(t)
	q := &fakeQueue{}
	store := &fakeObjectStore{err: errors.New("access denied")}
	w := NewArchiveWorker(q, "archive-url", repo, store, &config.S3Config{KeyPrefix: "audit"}, q, logger.NewNop(), 1, time.Second)

	repo.On("ListBefore", mock.Anything, "acme", cutoff, defaultArchiveBatchSize, 0).Return(entries(1), nil)

	err := w.process(context.Background(), queue.Message{Type: queue.MessageTypeArchive, TenantID: "acme", BeforeDate: cutoff})

	assert.ErrorContains(t, err, "access denied")
	assert.Empty(t, q.cleanups)
}

func TestCleanupWorker_DeletesStoreAndIndex(t *testing.T) {
	repo := mocks.NewAuditEntryRepository(t)
	search := mocks.NewOpenSearchRepository(t)
	q := &fakeQueue{}
	w := NewCleanupWorker(q, "cleanup-url", repo, search, logger.NewNop(), 1, time.Second)

	repo.On("DeleteBeforeDate", mock.Anything, "acme", cutoff).Return(int64(12), nil)
	search.On("DeleteBefore", mock.Anything, "acme", cutoff).Return(int64(12), nil)

	q.messages = []queue.ReceivedMessage{
		received("h1", queue.Message{Type: queue.MessageTypeCleanup, TenantID: "acme", BeforeDate: cutoff}),
	}
	require.NoError(t, w.processMessages(context.Background()))

	assert.Equal(t, []string{"h1"}, q.deleted)
}

func TestCleanupWorker_IndexFailureRetries(t *testing.T) {
	repo := mocks.NewAuditEntryRepository(t)
	search := mocks.NewOpenSearchRepository(t)
	w := NewCleanupWorker(&fakeQueue{}, "cleanup-url", repo, search, logger.NewNop(), 1, time.Second)

	repo.On("DeleteBeforeDate", mock.Anything, "acme", cutoff).Return(int64(3), nil)
	search.On("DeleteBefore", mock.Anything, "acme", cutoff).Return(int64(0), errors.New("timeout"))

	err := w.process(context.Background(), queue.Message{Type: queue.MessageTypeCleanup, TenantID: "acme", BeforeDate: cutoff})

	assert.Error(t, err)
}

func TestPoller_StartStop(t *testing.T) {
	q := &fakeQueue{}
	var handled sync.WaitGroup
	handled.Add(1)
	p := newPoller("Test", q, "url", queue.MessageTypeIndex, func(context.Context, queue.Message) error {
		handled.Done()
		return nil
	}, logger.NewNop(), 2, 10*time.Millisecond)

	q.messages = []queue.ReceivedMessage{received("h1", queue.Message{Type: queue.MessageTypeIndex})}
	p.Start()
	handled.Wait()
	p.Stop()

	assert.Equal(t, []string{"h1"}, q.deleted)
}
