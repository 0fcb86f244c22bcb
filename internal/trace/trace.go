package trace

import (
	"context"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// 컨텍스트 키 타입은 외부에서 직접 사용하지 못하게 unexported로 둔다.
type ctxKey string

const ctxKeyTrace ctxKey = "trace_info"

// Info는 스토어 디스패치 하나에 대한 트레이싱 정보를 담는다.
// - RequestID: 디스패치 단위로 고유
// - Task: 디스패치한 task kind 이름 (예: posts/fetchPosts)
// - spanSeq: 동일 RequestID 내에서 outbound 호출마다 1,2,3,... 순차 증가
type Info struct {
	RequestID string
	Task      string
	spanSeq   int64
}

// GenerateID는 트레이싱에 사용할 랜덤 ID를 생성한다.
func GenerateID() string {
	return uuid.NewString()
}

// WithTask는 새 Request ID와 task 이름을 컨텍스트에 저장한 새 컨텍스트를 반환한다.
func WithTask(ctx context.Context, task string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	info := &Info{RequestID: GenerateID(), Task: task}
	return context.WithValue(ctx, ctxKeyTrace, info)
}

func infoFromContext(ctx context.Context) *Info {
	if ctx == nil {
		return nil
	}
	v, _ := ctx.Value(ctxKeyTrace).(*Info)
	return v
}

// RequestIDFromContext는 컨텍스트에서 Request ID를 조회한다.
func RequestIDFromContext(ctx context.Context) string {
	info := infoFromContext(ctx)
	if info == nil {
		return ""
	}
	return info.RequestID
}

// TaskFromContext는 컨텍스트에 기록된 task kind 이름을 조회한다.
func TaskFromContext(ctx context.Context) string {
	info := infoFromContext(ctx)
	if info == nil {
		return ""
	}
	return info.Task
}

// NextSpanID는 동일한 RequestID 내에서 spanSeq를 1 증가시키고 (requestID, spanID)를 반환한다.
func NextSpanID(ctx context.Context) (string, string) {
	info := infoFromContext(ctx)
	if info == nil {
		// 스토어 바깥에서 클라이언트를 직접 호출한 경우
		return GenerateID(), "1"
	}
	val := atomic.AddInt64(&info.spanSeq, 1)
	if val <= 0 {
		val = 1
	}
	return info.RequestID, strconv.FormatInt(val, 10)
}

// WithRequestID는 외부에서 전달받은 Request ID를 그대로 사용하는 컨텍스트를 반환한다.
// 개발 서버가 inbound 요청의 X-Request-Id 를 로그에 남길 때 사용한다.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if requestID == "" {
		requestID = GenerateID()
	}
	return context.WithValue(ctx, ctxKeyTrace, &Info{RequestID: requestID})
}
