package queue

import (
	"context"
	"reflect"
	"testing"
)

func TestMessageRoundTrip(t *testing.T) {
	msg := Message{
		ExternalID:   "abc123/def456_report.pdf",
		StorageClass: "raw",
		RequestID:    "request-456",
		EnqueuedAt:   "2026-08-29T22:00:00Z",
		Version:      1,
	}

	payload, err := EncodeMessage(msg)
	if err != nil {
		t.Fatalf("encode message: %v", err)
	}

	got, err := DecodeMessage(payload)
	if err != nil {
		t.Fatalf("decode message: %v", err)
	}

	if !reflect.DeepEqual(got, msg) {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, msg)
	}
}

func TestMemoryClientSendReceiveAck(t *testing.T) {
	client := NewMemoryClient()
	ctx := context.Background()

	if err := client.Send(ctx, Message{ExternalID: "ext-1", StorageClass: "image"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := client.Send(ctx, Message{ExternalID: "ext-2", StorageClass: "raw"}); err != nil {
		t.Fatalf("Send: %v", err)
	}

	received, err := client.Receive(ctx, 10)
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if len(received) != 2 {
		t.Fatalf("received %d messages, want 2", len(received))
	}
	first, err := DecodeMessage([]byte(received[0].Body))
	if err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if first.ExternalID != "ext-1" {
		t.Fatalf("first message = %+v", first)
	}

	if err := client.Ack(ctx, received[0].ReceiptHandle); err != nil {
		t.Fatalf("Ack: %v", err)
	}
	if client.Len() != 1 {
		t.Fatalf("queue length = %d after ack, want 1", client.Len())
	}
}
