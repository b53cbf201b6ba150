package trace

import (
	"context"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-Id"
	HeaderSpanID    = "X-Span-Id"
)

type ctxKey string

const ctxKeyTrace ctxKey = "trace_info"

// Info 는 하나의 inbound 요청에 대한 트레이싱 정보다.
// spanSeq 는 같은 RequestID 안에서 outbound 호출마다 1씩 증가한다.
type Info struct {
	RequestID string
	spanSeq   int64
}

func GenerateID() string {
	return uuid.NewString()
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKeyTrace, &Info{RequestID: requestID})
}

func infoFromContext(ctx context.Context) *Info {
	if ctx == nil {
		return nil
	}
	v, _ := ctx.Value(ctxKeyTrace).(*Info)
	return v
}

func RequestIDFromContext(ctx context.Context) string {
	if info := infoFromContext(ctx); info != nil {
		return info.RequestID
	}
	return ""
}

// CurrentSpanID does not advance the sequence.
func CurrentSpanID(ctx context.Context) string {
	info := infoFromContext(ctx)
	if info == nil {
		return "0"
	}
	return strconv.FormatInt(atomic.LoadInt64(&info.spanSeq), 10)
}

// NextSpanID advances the span sequence and returns (requestID, spanID).
// Outside a traced request a fresh request id with span "1" is returned.
func NextSpanID(ctx context.Context) (string, string) {
	info := infoFromContext(ctx)
	if info == nil {
		return GenerateID(), "1"
	}
	val := atomic.AddInt64(&info.spanSeq, 1)
	return info.RequestID, strconv.FormatInt(val, 10)
}
