package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kingrain94/tenant-guard/internal/service/queue"
	"github.com/kingrain94/tenant-guard/pkg/logger"
)

const (
	defaultMaxMessages = 10 // Process up to 10 messages at a time
	defaultWaitTime    = 20 // Long polling: wait up to 20 seconds for messages
)

// Queue is the consumer side of queue.SQSService.
type Queue interface {
	ReceiveMessages(ctx context.Context, queueURL string, maxMessages int32, waitTimeSeconds int32) ([]queue.ReceivedMessage, error)
	DeleteMessage(ctx context.Context, queueURL string, receiptHandle *string) error
}

type handlerFunc func(ctx context.Context, msg queue.Message) error

// poller runs workerCount goroutines that long-poll one queue and hand each
// message to handle. A message is deleted only after handle succeeds, so
// failures are redelivered once the visibility timeout expires.
type poller struct {
	name         string
	queue        Queue
	queueURL     string
	accepts      queue.MessageType
	handle       handlerFunc
	logger       *logger.Logger
	workerCount  int
	pollInterval time.Duration
	maxMessages  int32
	waitTime     int32
	ctx          context.Context
	cancel       context.CancelFunc
	waitGroup    sync.WaitGroup
}

func newPoller(name string, q Queue, queueURL string, accepts queue.MessageType, handle handlerFunc,
	logger *logger.Logger, workerCount int, pollInterval time.Duration) *poller {
	ctx, cancel := context.WithCancel(context.Background())
	return &poller{
		name:         name,
		queue:        q,
		queueURL:     queueURL,
		accepts:      accepts,
		handle:       handle,
		logger:       logger,
		workerCount:  max(workerCount, 1),
		pollInterval: pollInterval,
		maxMessages:  defaultMaxMessages,
		waitTime:     defaultWaitTime,
		ctx:          ctx,
		cancel:       cancel,
	}
}

func (p *poller) Start() {
	p.logger.Infof("Starting %s workers...", p.name)

	for i := 0; i < p.workerCount; i++ {
		p.waitGroup.Add(1)
		go p.runWorker(i)
	}
}

func (p *poller) Stop() {
	p.logger.Infof("Stopping %s workers...", p.name)
	p.cancel()
	p.waitGroup.Wait()
	p.logger.Infof("All %s workers stopped", p.name)
}

func (p *poller) runWorker(workerID int) {
	defer p.waitGroup.Done()

	p.logger.Infof("%s worker %d started", p.name, workerID)

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			p.logger.Infof("%s worker %d shutting down", p.name, workerID)
			return
		case <-ticker.C:
			if err := p.processMessages(p.ctx); err != nil && p.ctx.Err() == nil {
				p.logger.Errorf("%s worker %d failed to process messages: %v", p.name, workerID, err)
			}
		}
	}
}

func (p *poller) processMessages(ctx context.Context) error {
	messages, err := p.queue.ReceiveMessages(ctx, p.queueURL, p.maxMessages, p.waitTime)
	if err != nil {
		return fmt.Errorf("failed to receive messages: %w", err)
	}

	for _, msg := range messages {
		if msg.Message.Type != p.accepts {
			p.logger.Warnf("%s worker ignoring %s message", p.name, msg.Message.Type)
			continue
		}
		if err := p.handle(ctx, msg.Message); err != nil {
			p.logger.Errorf("Failed to process %s message for tenant %q: %v", msg.Message.Type, msg.Message.TenantID, err)
			continue
		}

		if err := p.queue.DeleteMessage(ctx, p.queueURL, msg.ReceiptHandle); err != nil {
			p.logger.Errorf("Failed to delete message: %v", err)
		}
	}

	return nil
}
