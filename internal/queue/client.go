package queue

import "context"

// Client sends reclaim messages to a queue backend.
type Client interface {
	Send(ctx context.Context, msg Message) error
}

// Receiver pulls reclaim messages off a queue backend; the worker consumes
// through it. Bodies are delivered raw so the worker owns decoding and can
// report malformed payloads.
type Receiver interface {
	// Receive returns up to max messages with their backend receipt
	// handles. An empty slice means the queue had nothing to deliver.
	Receive(ctx context.Context, max int) ([]Received, error)
	// Ack removes a delivered message so it is not redelivered.
	Ack(ctx context.Context, receiptHandle string) error
}

// Received pairs a raw message body with its backend receipt handle.
type Received struct {
	Body          string
	ReceiptHandle string
}
