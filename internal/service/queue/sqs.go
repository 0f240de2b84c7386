package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/kingrain94/tenant-guard/internal/config"
	"github.com/kingrain94/tenant-guard/internal/domain"
)

type MessageType string

const (
	MessageTypeIndex   MessageType = "INDEX"
	MessageTypeArchive MessageType = "ARCHIVE"
	MessageTypeCleanup MessageType = "CLEANUP"
)

type Message struct {
	Type      MessageType         `json:"type"`
	TenantID  string              `json:"tenant_id"`
	Entries   []domain.AuditEntry `json:"entries,omitempty"`
	Timestamp time.Time           `json:"timestamp"`

	// archive and cleanup only; an empty TenantID means every tenant
	BeforeDate time.Time `json:"before_date,omitempty"`
}

type ReceivedMessage struct {
	Message       Message
	ReceiptHandle *string
}

// Client is the subset of the SQS API the service uses.
type Client interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

type SQSService struct {
	client          Client
	indexQueueURL   string
	archiveQueueURL string
	cleanupQueueURL string
}

func NewSQSService(client Client, config *config.SQSConfig) *SQSService {
	return &SQSService{
		client:          client,
		indexQueueURL:   config.IndexQueueURL,
		archiveQueueURL: config.ArchiveQueueURL,
		cleanupQueueURL: config.CleanupQueueURL,
	}
}

func (s *SQSService) SendIndexMessage(ctx context.Context, entry *domain.AuditEntry) error {
	msg := Message{
		Type:      MessageTypeIndex,
		TenantID:  entry.TenantID,
		Entries:   []domain.AuditEntry{*entry},
		Timestamp: entry.CreatedAt,
	}

	return s.sendMessage(ctx, msg, s.indexQueueURL)
}

func (s *SQSService) SendArchiveMessage(ctx context.Context, tenantID string, beforeDate time.Time) error {
	msg := Message{
		Type:       MessageTypeArchive,
		TenantID:   tenantID,
		BeforeDate: beforeDate,
		Timestamp:  time.Now(),
	}

	return s.sendMessage(ctx, msg, s.archiveQueueURL)
}

func (s *SQSService) SendCleanupMessage(ctx context.Context, tenantID string, beforeDate time.Time) error {
	msg := Message{
		Type:       MessageTypeCleanup,
		TenantID:   tenantID,
		BeforeDate: beforeDate,
		Timestamp:  time.Now(),
	}

	return s.sendMessage(ctx, msg, s.cleanupQueueURL)
}

func (s *SQSService) sendMessage(ctx context.Context, msg Message, queueURL string) error {
	msgBody, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	input := &sqs.SendMessageInput{
		MessageBody: aws.String(string(msgBody)),
		QueueUrl:    aws.String(queueURL),
	}

	if _, err := s.client.SendMessage(ctx, input); err != nil {
		return fmt.Errorf("failed to send %s message: %w", msg.Type, err)
	}

	return nil
}

func (s *SQSService) ReceiveMessages(ctx context.Context, queueURL string, maxMessages int32, waitTimeSeconds int32) ([]ReceivedMessage, error) {
	input := &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(queueURL),
		MaxNumberOfMessages: maxMessages,
		WaitTimeSeconds:     waitTimeSeconds,
	}

	output, err := s.client.ReceiveMessage(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to receive messages: %w", err)
	}

	messages := make([]ReceivedMessage, 0, len(output.Messages))
	for _, msg := range output.Messages {
		var message Message
		if err := json.Unmarshal([]byte(aws.ToString(msg.Body)), &message); err != nil {
			return nil, fmt.Errorf("failed to unmarshal message: %w", err)
		}
		messages = append(messages, ReceivedMessage{
			Message:       message,
			ReceiptHandle: msg.ReceiptHandle,
		})
	}

	return messages, nil
}

func (s *SQSService) DeleteMessage(ctx context.Context, queueURL string, receiptHandle *string) error {
	input := &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(queueURL),
		ReceiptHandle: receiptHandle,
	}

	if _, err := s.client.DeleteMessage(ctx, input); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}

	return nil
}
