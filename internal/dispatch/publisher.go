package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/balaji0322/smart-ai-triage/pkg/config"
	"github.com/balaji0322/smart-ai-triage/pkg/logger"
	"github.com/balaji0322/smart-ai-triage/pkg/types"
)

const alertChannelPrefix = "alerts:"

// RedisPublisher fans dispatched alerts out to hospital dashboard consumers
// over Redis pub/sub. Each hospital subscribes to its own channel, so a
// dashboard only sees the alerts routed to it.
type RedisPublisher struct {
	client *redis.Client
	logger *logger.Logger
}

// NewRedisPublisher connects to Redis and verifies the connection
func NewRedisPublisher(cfg *config.RedisConfig, log *logger.Logger) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("Redis alert publisher connected")
	return &RedisPublisher{
		client: client,
		logger: log,
	}, nil
}

// Publish sends the alert to the target hospital's channel
func (p *RedisPublisher) Publish(ctx context.Context, alert *types.Alert) error {
	if alert == nil {
		return types.NewValidationError(types.ErrCodeInvalidInput, "alert is required", nil)
	}

	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	channel := alertChannelPrefix + alert.TargetHospitalID
	if err := p.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish alert to %s: %w", channel, err)
	}

	p.logger.WithAlertID(alert.ID).WithField("hospital_id", alert.TargetHospitalID).Debug("Alert published")
	return nil
}

// Close releases the Redis connection
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

// NoopPublisher satisfies the publisher interface when Redis fan-out is
// disabled. Dashboards fall back to polling the alert endpoints.
type NoopPublisher struct{}

// Publish discards the alert
func (NoopPublisher) Publish(ctx context.Context, alert *types.Alert) error { return nil }

// Close is a no-op
func (NoopPublisher) Close() error { return nil }
