// Package eventbus carries site events between the webhook endpoint and the
// background rebuild worker inside one process.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"spacetraveling/cmd/internal/logger"
	"spacetraveling/cmd/internal/trace"
)

const TopicRebuildRequested = "site.rebuild_requested"

const metadataRequestID = "request_id"

// RebuildRequestedEvent 정적 사이트 재생성 요청 이벤트
type RebuildRequestedEvent struct {
	ID          string    `json:"id"`
	Reason      string    `json:"reason"`
	Source      string    `json:"source"`
	RequestedAt time.Time `json:"requested_at"`
}

// RebuildHandler 는 이벤트 하나를 처리한다. 에러는 로깅만 되고 재시도하지 않는다.
type RebuildHandler func(ctx context.Context, event RebuildRequestedEvent) error

type Bus struct {
	pubsub *gochannel.GoChannel
}

func New() *Bus {
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 16}, watermillLogger{}),
	}
}

// PublishRebuild publishes a rebuild request. With no subscriber the event is dropped.
func (b *Bus) PublishRebuild(ctx context.Context, reason, source string) (RebuildRequestedEvent, error) {
	event := RebuildRequestedEvent{
		ID:          watermill.NewUUID(),
		Reason:      reason,
		Source:      source,
		RequestedAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return RebuildRequestedEvent{}, fmt.Errorf("marshal rebuild event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	if requestID := trace.RequestIDFromContext(ctx); requestID != "" {
		msg.Metadata.Set(metadataRequestID, requestID)
	}
	if err := b.pubsub.Publish(TopicRebuildRequested, msg); err != nil {
		return RebuildRequestedEvent{}, fmt.Errorf("publish %s: %w", TopicRebuildRequested, err)
	}
	return event, nil
}

// SubscribeRebuild registers handler and processes events in a goroutine until
// ctx is cancelled or the bus is closed. The returned channel closes when it stops.
func (b *Bus) SubscribeRebuild(ctx context.Context, handler RebuildHandler) (<-chan struct{}, error) {
	messages, err := b.pubsub.Subscribe(ctx, TopicRebuildRequested)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", TopicRebuildRequested, err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range messages {
			b.dispatch(ctx, msg, handler)
		}
	}()
	return done, nil
}

func (b *Bus) dispatch(ctx context.Context, msg *message.Message, handler RebuildHandler) {
	// 재시도 정책이 없으므로 처리 결과와 무관하게 항상 ack 한다.
	defer msg.Ack()

	fields := logger.Fields{
		"topic":      TopicRebuildRequested,
		"message_id": msg.UUID,
		"request_id": msg.Metadata.Get(metadataRequestID),
	}

	var event RebuildRequestedEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		fields["error"] = err.Error()
		logger.ErrorWithFields("drop malformed rebuild event", fields)
		return
	}
	if err := handler(ctx, event); err != nil {
		fields["error"] = err.Error()
		logger.ErrorWithFields("rebuild event handler failed", fields)
		return
	}
	logger.DebugWithFields("rebuild event handled", fields)
}

func (b *Bus) Close() error {
	return b.pubsub.Close()
}

// watermillLogger routes watermill's internal logs into the process logger.
type watermillLogger struct {
	fields watermill.LogFields
}

func (l watermillLogger) merge(fields watermill.LogFields) logger.Fields {
	out := logger.Fields{"component": "watermill"}
	for k, v := range l.fields {
		out[k] = v
	}
	for k, v := range fields {
		out[k] = v
	}
	return out
}

func (l watermillLogger) Error(msg string, err error, fields watermill.LogFields) {
	f := l.merge(fields)
	if err != nil {
		f["error"] = err.Error()
	}
	logger.ErrorWithFields(msg, f)
}

func (l watermillLogger) Info(msg string, fields watermill.LogFields) {
	logger.InfoWithFields(msg, l.merge(fields))
}

func (l watermillLogger) Debug(msg string, fields watermill.LogFields) {
	logger.DebugWithFields(msg, l.merge(fields))
}

func (l watermillLogger) Trace(msg string, fields watermill.LogFields) {
	logger.DebugWithFields(msg, l.merge(fields))
}

func (l watermillLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return watermillLogger{fields: l.fields.Add(fields)}
}
