// Package bus carries inbound chat messages from the platform adapter
// to the command router. A single consumer goroutine drains the queue,
// which serializes all message-driven handling.
package bus

import "context"

// InboundMessage is a chat message as seen by the command router.
type InboundMessage struct {
	GuildID       string
	ChannelID     string
	MessageID     string
	AuthorID      string
	AuthorMention string
	Content       string
	Bot           bool // authored by a bot account
}

// Queue is a buffered inbound message queue.
type Queue struct {
	inbound chan InboundMessage
}

// NewQueue creates a Queue with the given buffer size.
// If bufSize is 0, defaults to 100.
func NewQueue(bufSize int) *Queue {
	if bufSize <= 0 {
		bufSize = 100
	}
	return &Queue{inbound: make(chan InboundMessage, bufSize)}
}

// Publish puts a message onto the queue.
func (q *Queue) Publish(msg InboundMessage) {
	q.inbound <- msg
}

// Consume blocks until a message is available or ctx is cancelled.
func (q *Queue) Consume(ctx context.Context) (InboundMessage, error) {
	select {
	case msg, ok := <-q.inbound:
		if !ok {
			return InboundMessage{}, context.Canceled
		}
		return msg, nil
	case <-ctx.Done():
		return InboundMessage{}, ctx.Err()
	}
}

// Close closes the queue.
func (q *Queue) Close() {
	close(q.inbound)
}
