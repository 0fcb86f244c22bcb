// Package task 는 한 종류의 비동기 작업 수명주기를 추적한다.
//
// Task 는 소유자(store)의 락을 공유한다. Run 을 제외한 모든 메서드는 그 락을 잡은
// 상태에서 호출해야 한다. Run 은 pending 전환과 결과 반영 구간에서만 락을 잡고,
// 요청이 진행되는 동안에는 풀어 둔다.
//
// 조회 task(New)는 가장 마지막에 발행된 요청만 관찰된다. 새 요청은 이전 요청의
// context 를 취소하고, 더 이상 최신이 아닌 순번의 결과는 버린다.
//
// 변경 task(NewMutation)는 결과를 버리지 않는다. 서버가 이미 적용했으므로
// 응답이 온 요청은 모두 반영하고, 진행 중인 요청이 하나라도 있으면 pending 이다.
package task

import (
	"context"
	"errors"
	"sync"

	"inkwell/internal/logger"
	"inkwell/internal/trace"
	"inkwell/resource"
)

type Status string

const (
	StatusIdle      Status = "idle"
	StatusPending   Status = "pending"
	StatusFulfilled Status = "fulfilled"
	StatusRejected  Status = "rejected"
)

// ErrSuperseded 는 결과가 오기 전에 같은 종류의 새 요청이 발행됐거나
// Invalidate 됐을 때 Run 이 반환한다.
var ErrSuperseded = errors.New("task: superseded by a newer dispatch")

// State 는 task 의 관찰 가능한 필드 복사본이다.
type State[T any] struct {
	Name   string
	Status Status
	Result *T
	Err    *resource.Error
	Seq    uint64
}

// Observer 는 상태가 바뀔 때마다 소유자 락 밖에서 호출된다.
type Observer func(name string, status Status)

type Task[T any] struct {
	name     string
	guard    sync.Locker
	observer Observer

	mutation bool

	status   Status
	result   *T
	err      *resource.Error
	issued   uint64
	inflight int
	cancel   context.CancelFunc
}

// New 는 소유자 락으로 보호되는 idle 상태의 조회 task 를 만든다.
func New[T any](name string, guard sync.Locker, observer Observer) *Task[T] {
	return &Task[T]{
		name:     name,
		guard:    guard,
		observer: observer,
		status:   StatusIdle,
	}
}

// NewMutation 은 idle 상태의 변경 task 를 만든다.
func NewMutation[T any](name string, guard sync.Locker, observer Observer) *Task[T] {
	t := New[T](name, guard, observer)
	t.mutation = true
	return t
}

func (t *Task[T]) Name() string { return t.name }

// Run 은 op 를 실행한다. op 가 성공하면 소유자 락을 잡은 채 commit 을 호출한다.
// 조회 task 는 이 요청이 여전히 최신일 때만 commit 한다.
// 반환 값은 nil, ErrSuperseded, 또는 분류된 *resource.Error 다.
func (t *Task[T]) Run(ctx context.Context, op func(context.Context) (T, error), commit func(T)) error {
	if ctx == nil {
		ctx = context.Background()
	}
	runCtx, cancel := context.WithCancel(trace.WithTask(ctx, t.name))
	defer cancel()

	t.guard.Lock()
	if !t.mutation && t.cancel != nil {
		t.cancel()
	}
	t.issued++
	seq := t.issued
	if t.mutation {
		t.inflight++
	} else {
		t.cancel = cancel
	}
	t.status = StatusPending
	t.err = nil
	t.guard.Unlock()
	t.notify(StatusPending)

	v, opErr := op(runCtx)

	t.guard.Lock()
	if t.mutation {
		t.inflight--
	} else if seq != t.issued {
		t.guard.Unlock()
		logger.DebugWithFields("task result discarded", logger.Fields{
			"task":       t.name,
			"seq":        seq,
			"request_id": trace.RequestIDFromContext(runCtx),
		})
		return ErrSuperseded
	}
	if !t.mutation {
		t.cancel = nil
	}

	var classified *resource.Error
	if opErr != nil {
		classified = resource.Classify(t.name, opErr)
		t.status = StatusRejected
		t.err = classified
	} else {
		t.status = StatusFulfilled
		t.err = nil
		t.result = &v
		if commit != nil {
			commit(v)
		}
	}
	if t.mutation && t.inflight > 0 {
		t.status = StatusPending
	}
	status := t.status
	t.guard.Unlock()

	if classified != nil {
		logger.WarnWithFields("task rejected", logger.Fields{
			"task":       t.name,
			"kind":       string(classified.Kind),
			"status":     classified.Status,
			"error":      classified.Error(),
			"request_id": trace.RequestIDFromContext(runCtx),
		})
	}
	t.notify(status)
	if classified != nil {
		return classified
	}
	return nil
}

// Reject 는 요청 없이 err 를 기록한다 (로컬 검증 실패).
// 진행 중인 조회 요청은 무효가 된다. 호출자가 소유자 락을 잡고 있어야 한다.
func (t *Task[T]) Reject(err *resource.Error) {
	t.invalidate()
	t.status = StatusRejected
	t.err = err
}

// Invalidate 는 진행 중인 조회 요청을 취소하고 그 결과가 관찰되지 않게 한다.
// pending 이던 조회 task 는 idle 로 돌아간다. 변경 task 에는 아무 영향이 없다.
// 호출자가 소유자 락을 잡고 있어야 한다.
func (t *Task[T]) Invalidate() {
	if t.mutation {
		return
	}
	t.invalidate()
	if t.status == StatusPending {
		t.status = StatusIdle
	}
}

func (t *Task[T]) invalidate() {
	if t.mutation {
		return
	}
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.issued++
}

// Reset 은 task 를 무효화하고 결과와 에러 없는 idle 상태로 되돌린다.
// 호출자가 소유자 락을 잡고 있어야 한다.
func (t *Task[T]) Reset() {
	t.invalidate()
	t.status = StatusIdle
	t.result = nil
	t.err = nil
}

// ClearError 는 상태와 결과는 그대로 두고 마지막 에러만 지운다.
// 호출자가 소유자 락을 잡고 있어야 한다.
func (t *Task[T]) ClearError() {
	t.err = nil
}

// Pending 은 요청이 진행 중인지 알려준다. 호출자가 소유자 락을 잡고 있어야 한다.
func (t *Task[T]) Pending() bool { return t.status == StatusPending }

// Err 는 마지막으로 분류된 에러를 반환한다. 호출자가 소유자 락을 잡고 있어야 한다.
func (t *Task[T]) Err() *resource.Error { return t.err }

// State 는 관찰 가능한 필드의 복사본을 반환한다. 호출자가 소유자 락을 잡고 있어야 한다.
func (t *Task[T]) State() State[T] {
	s := State[T]{
		Name:   t.name,
		Status: t.status,
		Err:    t.err,
		Seq:    t.issued,
	}
	if t.result != nil {
		r := *t.result
		s.Result = &r
	}
	return s
}

func (t *Task[T]) notify(status Status) {
	if t.observer != nil {
		t.observer(t.name, status)
	}
}
