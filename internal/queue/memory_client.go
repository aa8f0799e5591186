package queue

import (
	"context"
	"strconv"
	"sync"
)

// MemoryClient is an in-process queue used for dev mode and tests.
type MemoryClient struct {
	mu       sync.Mutex
	next     int
	messages []Received
}

// NewMemoryClient constructs a MemoryClient.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{}
}

// Send appends a message to the in-memory queue.
func (m *MemoryClient) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := EncodeMessage(msg)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	m.messages = append(m.messages, Received{
		Body:          string(payload),
		ReceiptHandle: strconv.Itoa(m.next),
	})
	return nil
}

// Receive returns up to max queued messages without removing them.
func (m *MemoryClient) Receive(ctx context.Context, max int) ([]Received, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if max <= 0 || max > len(m.messages) {
		max = len(m.messages)
	}
	out := make([]Received, max)
	copy(out, m.messages[:max])
	return out, nil
}

// Ack removes a delivered message.
func (m *MemoryClient) Ack(ctx context.Context, receiptHandle string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, msg := range m.messages {
		if msg.ReceiptHandle == receiptHandle {
			m.messages = append(m.messages[:i], m.messages[i+1:]...)
			return nil
		}
	}
	return nil
}

// Len reports the number of queued messages.
func (m *MemoryClient) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

var (
	_ Client   = (*MemoryClient)(nil)
	_ Receiver = (*MemoryClient)(nil)
)
