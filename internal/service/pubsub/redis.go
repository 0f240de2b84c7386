package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kingrain94/tenant-guard/internal/api/dto"
	"github.com/kingrain94/tenant-guard/pkg/logger"
)

// AllTenants subscribes to every tenant's channel.
const AllTenants = "*"

type RedisPubSub struct {
	client       *redis.Client
	logger       *logger.Logger
	prefix       string
	subscribers  map[string]*redis.PubSub // keyed by tenant ID or AllTenants
	subscriberMu sync.RWMutex
}

func NewRedisPubSub(client *redis.Client, channelPrefix string, logger *logger.Logger) *RedisPubSub {
	return &RedisPubSub{
		client:      client,
		logger:      logger,
		prefix:      channelPrefix,
		subscribers: make(map[string]*redis.PubSub),
	}
}

func (ps *RedisPubSub) channelName(tenantID string) string {
	return ps.prefix + ":" + tenantID
}

// Publish sends an audit entry to its tenant's channel.
func (ps *RedisPubSub) Publish(ctx context.Context, entry *dto.AuditEntryResponse) error {
	message, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}

	channel := ps.channelName(entry.TenantID)
	if err := ps.client.Publish(ctx, channel, message).Err(); err != nil {
		return fmt.Errorf("failed to publish to Redis channel %s: %w", channel, err)
	}

	return nil
}

// Subscribe delivers entries for tenantID, or for every tenant when tenantID is AllTenants,
// until ctx is done or Unsubscribe is called. Subscribing twice to the same key is a no-op.
func (ps *RedisPubSub) Subscribe(ctx context.Context, tenantID string, callback func(*dto.AuditEntryResponse)) error {
	channel := ps.channelName(tenantID)

	ps.subscriberMu.Lock()
	if _, exists := ps.subscribers[tenantID]; exists {
		ps.subscriberMu.Unlock()
		return nil
	}
	var sub *redis.PubSub
	if tenantID == AllTenants {
		sub = ps.client.PSubscribe(ctx, channel)
	} else {
		sub = ps.client.Subscribe(ctx, channel)
	}
	ps.subscribers[tenantID] = sub
	ps.subscriberMu.Unlock()

	go func() {
		defer ps.Unsubscribe(tenantID)

		ch := sub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var entry dto.AuditEntryResponse
				if err := json.Unmarshal([]byte(msg.Payload), &entry); err != nil {
					ps.logger.Error("Failed to unmarshal audit entry", err, zap.String("channel", msg.Channel))
					continue
				}
				callback(&entry)

			case <-ctx.Done():
				return
			}
		}
	}()

	ps.logger.Info("Subscribed to guard event channel", zap.String("channel", channel))
	return nil
}

func (ps *RedisPubSub) Unsubscribe(tenantID string) {
	ps.subscriberMu.Lock()
	defer ps.subscriberMu.Unlock()

	if sub, exists := ps.subscribers[tenantID]; exists {
		sub.Close()
		delete(ps.subscribers, tenantID)
		ps.logger.Info("Unsubscribed from guard event channel", zap.String("channel", ps.channelName(tenantID)))
	}
}

func (ps *RedisPubSub) Close() {
	ps.subscriberMu.Lock()
	defer ps.subscriberMu.Unlock()

	for tenantID, sub := range ps.subscribers {
		sub.Close()
		delete(ps.subscribers, tenantID)
	}
}
