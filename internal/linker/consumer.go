package linker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/discfound/discfound-backend/pkg/enums"
	"github.com/discfound/discfound-backend/pkg/logger"
)

const identityConsumerName = "identity-linker"

type identityLinker interface {
	HandleIdentityCreated(ctx context.Context, identity Identity) error
}

type idempotencyChecker interface {
	CheckAndMarkProcessed(ctx context.Context, consumer string, eventID uuid.UUID) (bool, error)
	Delete(ctx context.Context, consumer string, eventID uuid.UUID) error
}

// Consumer receives identity events published by the auth platform and feeds
// them into the linker while honoring Redis idempotency.
type Consumer struct {
	subscription *gcppubsub.Subscriber
	service      identityLinker
	manager      idempotencyChecker
	logg         *logger.Logger
}

// NewConsumer builds an identity-event consumer.
func NewConsumer(subscription *gcppubsub.Subscriber, service identityLinker, manager idempotencyChecker, logg *logger.Logger) (*Consumer, error) {
	if subscription == nil {
		return nil, errors.New("identity subscription is required")
	}
	if service == nil {
		return nil, errors.New("linker service is required")
	}
	if manager == nil {
		return nil, errors.New("idempotency manager is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Consumer{
		subscription: subscription,
		service:      service,
		manager:      manager,
		logg:         logg,
	}, nil
}

// identityMessage is the auth platform's published payload.
type identityMessage struct {
	EventID     string     `json:"eventId"`
	EventType   string     `json:"eventType"`
	IdentityID  string     `json:"identityId"`
	Email       string     `json:"email"`
	DisplayName *string    `json:"displayName,omitempty"`
	OccurredAt  *time.Time `json:"occurredAt,omitempty"`
}

type processResult struct {
	nack bool
}

// Run starts consuming identity messages until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return c.subscription.Receive(ctx, func(innerCtx context.Context, msg *gcppubsub.Message) {
		if c.process(innerCtx, msg).nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

func (c *Consumer) process(ctx context.Context, msg *gcppubsub.Message) processResult {
	fields := map[string]any{"message_id": msg.ID}
	logCtx := c.logg.WithFields(ctx, fields)

	var message identityMessage
	if err := json.Unmarshal(msg.Data, &message); err != nil {
		fields["error"] = err.Error()
		c.logg.Warn(c.logg.WithFields(ctx, fields), "invalid identity message")
		return processResult{}
	}
	fields["event_id"] = message.EventID
	fields["event_type"] = message.EventType
	logCtx = c.logg.WithFields(ctx, fields)

	if message.EventType != string(enums.EventIdentityCreated) {
		c.logg.Info(logCtx, "event not handled by identity linker")
		return processResult{}
	}

	identity, err := c.buildIdentity(message)
	if err != nil {
		fields["error"] = err.Error()
		c.logg.Warn(c.logg.WithFields(ctx, fields), "unusable identity message")
		return processResult{}
	}

	eventID, err := uuid.Parse(message.EventID)
	if err != nil {
		c.logg.Warn(logCtx, "invalid event id")
		return processResult{}
	}

	already, err := c.manager.CheckAndMarkProcessed(logCtx, identityConsumerName, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return processResult{}
	}

	if err := c.service.HandleIdentityCreated(logCtx, identity); err != nil {
		c.logg.Error(logCtx, "identity link failed", err)
		_ = c.manager.Delete(logCtx, identityConsumerName, eventID)
		return processResult{nack: true}
	}

	c.logg.Info(logCtx, "identity event handled")
	return processResult{}
}

func (c *Consumer) buildIdentity(message identityMessage) (Identity, error) {
	identityID, err := uuid.Parse(message.IdentityID)
	if err != nil {
		return Identity{}, fmt.Errorf("parse identity id: %w", err)
	}
	if message.Email == "" {
		return Identity{}, errors.New("email missing")
	}
	return Identity{
		ID:          identityID,
		Email:       message.Email,
		DisplayName: message.DisplayName,
	}, nil
}
