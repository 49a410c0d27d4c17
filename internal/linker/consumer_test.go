package linker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/discfound/discfound-backend/pkg/logger"
)

type stubLinker struct {
	called   bool
	identity Identity
	err      error
}

func (s *stubLinker) HandleIdentityCreated(ctx context.Context, identity Identity) error {
	s.called = true
	s.identity = identity
	return s.err
}

type stubManager struct {
	checkResult bool
	checkErr    error
	checked     []uuid.UUID
	deleted     []uuid.UUID
}

func (s *stubManager) CheckAndMarkProcessed(ctx context.Context, consumer string, eventID uuid.UUID) (bool, error) {
	s.checked = append(s.checked, eventID)
	return s.checkResult, s.checkErr
}

func (s *stubManager) Delete(ctx context.Context, consumer string, eventID uuid.UUID) error {
	s.deleted = append(s.deleted, eventID)
	return nil
}

func newTestConsumer(service *stubLinker, manager *stubManager) *Consumer {
	return &Consumer{
		service: service,
		manager: manager,
		logg:    logger.New(logger.Options{ServiceName: "linker-test", Output: io.Discard}),
	}
}

func buildIdentityMessage(t *testing.T, message identityMessage) *gcppubsub.Message {
	t.Helper()
	data, err := json.Marshal(message)
	if err != nil {
		t.Fatalf("marshal message: %v", err)
	}
	return &gcppubsub.Message{ID: "msg-1", Data: data}
}

func TestConsumerProcessLinksIdentity(t *testing.T) {
	service := &stubLinker{}
	manager := &stubManager{}
	consumer := newTestConsumer(service, manager)

	identityID := uuid.New()
	msg := buildIdentityMessage(t, identityMessage{
		EventID:     uuid.NewString(),
		EventType:   "identity_created",
		IdentityID:  identityID.String(),
		Email:       "jane@example.com",
		DisplayName: stringPtr("Jane D"),
	})

	res := consumer.process(context.Background(), msg)
	if res.nack {
		t.Fatal("expected ack")
	}
	if !service.called {
		t.Fatal("expected linker invoked")
	}
	if service.identity.ID != identityID || service.identity.Email != "jane@example.com" {
		t.Fatalf("unexpected identity %+v", service.identity)
	}
	if service.identity.DisplayName == nil || *service.identity.DisplayName != "Jane D" {
		t.Fatalf("expected display name carried, got %v", service.identity.DisplayName)
	}
	if len(manager.checked) != 1 {
		t.Fatalf("expected idempotency check, got %d", len(manager.checked))
	}
}

func TestConsumerIgnoresOtherEventTypes(t *testing.T) {
	service := &stubLinker{}
	manager := &stubManager{}
	consumer := newTestConsumer(service, manager)

	msg := buildIdentityMessage(t, identityMessage{
		EventID:    uuid.NewString(),
		EventType:  "identity_deleted",
		IdentityID: uuid.NewString(),
		Email:      "jane@example.com",
	})

	res := consumer.process(context.Background(), msg)
	if res.nack {
		t.Fatal("unhandled event types should ack")
	}
	if service.called {
		t.Fatal("linker should not run for other event types")
	}
	if len(manager.checked) != 0 {
		t.Fatal("idempotency manager should not be touched")
	}
}

func TestConsumerProcessAlreadyProcessed(t *testing.T) {
	service := &stubLinker{}
	manager := &stubManager{checkResult: true}
	consumer := newTestConsumer(service, manager)

	msg := buildIdentityMessage(t, identityMessage{
		EventID:    uuid.NewString(),
		EventType:  "identity_created",
		IdentityID: uuid.NewString(),
		Email:      "jane@example.com",
	})

	res := consumer.process(context.Background(), msg)
	if res.nack {
		t.Fatal("expected ack for duplicate")
	}
	if service.called {
		t.Fatal("linker should not run twice")
	}
}

func TestConsumerProcessInvalidPayloadAcks(t *testing.T) {
	service := &stubLinker{}
	manager := &stubManager{}
	consumer := newTestConsumer(service, manager)

	res := consumer.process(context.Background(), &gcppubsub.Message{ID: "msg-1", Data: []byte("not json")})
	if res.nack {
		t.Fatal("malformed payloads should ack, redelivery cannot fix them")
	}
	if service.called {
		t.Fatal("linker should not run")
	}
}

func TestConsumerProcessServiceErrorNacks(t *testing.T) {
	service := &stubLinker{err: errors.New("queue full")}
	manager := &stubManager{}
	consumer := newTestConsumer(service, manager)

	msg := buildIdentityMessage(t, identityMessage{
		EventID:    uuid.NewString(),
		EventType:  "identity_created",
		IdentityID: uuid.NewString(),
		Email:      "jane@example.com",
	})

	res := consumer.process(context.Background(), msg)
	if !res.nack {
		t.Fatal("expected nack so the message is redelivered")
	}
	if len(manager.deleted) != 1 {
		t.Fatal("expected idempotency mark rolled back")
	}
}
