package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/alanyoungcy/predledger/internal/domain"
)

// streamMaxLen is the approximate maximum length for the instruction stream,
// enforced via XADD MAXLEN ~.
const streamMaxLen int64 = 100000

// InstructionStream implements domain.InstructionStream on a Redis stream,
// giving the host a durable, ordered instruction feed.
type InstructionStream struct {
	rdb    *redis.Client
	stream string
}

// NewInstructionStream creates an InstructionStream on the named Redis
// stream.
func NewInstructionStream(c *Client, stream string) *InstructionStream {
	return &InstructionStream{rdb: c.Underlying(), stream: stream}
}

// Append publishes an instruction payload with XADD, trimming the stream to
// an approximate maximum length.
func (is *InstructionStream) Append(ctx context.Context, payload []byte) error {
	args := &redis.XAddArgs{
		Stream: is.stream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]interface{}{
			"payload": payload,
		},
	}
	if err := is.rdb.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("redis: stream append %s: %w", is.stream, err)
	}
	return nil
}

// Read fetches up to count messages after lastID. Use "0" as lastID to read
// from the beginning, or "$" to read only new messages. It returns an empty
// slice (not an error) when no messages are available.
func (is *InstructionStream) Read(ctx context.Context, lastID string, count int) ([]domain.StreamMessage, error) {
	args := &redis.XReadArgs{
		Streams: []string{is.stream, lastID},
		Count:   int64(count),
		Block:   -1,
	}

	results, err := is.rdb.XRead(ctx, args).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis: stream read %s: %w", is.stream, err)
	}

	var messages []domain.StreamMessage
	for _, s := range results {
		for _, msg := range s.Messages {
			payload, ok := msg.Values["payload"]
			if !ok {
				continue
			}

			var data []byte
			switch v := payload.(type) {
			case string:
				data = []byte(v)
			case []byte:
				data = v
			default:
				continue
			}

			messages = append(messages, domain.StreamMessage{
				ID:      msg.ID,
				Payload: data,
			})
		}
	}

	return messages, nil
}

// Compile-time interface check.
var _ domain.InstructionStream = (*InstructionStream)(nil)
