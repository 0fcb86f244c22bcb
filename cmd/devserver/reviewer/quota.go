package reviewer

import (
	"context"
	"errors"
	"sync"
	"time"

	"inkwell/models"
)

// ErrQuotaExceeded 는 모델 일일 한도를 모두 썼을 때 반환된다.
var ErrQuotaExceeded = errors.New("review quota exceeded")

// QuotaLimiter 는 모델 호출에 대한 분당/일일 한도를 관리한다.
// 개발 서버 프로세스 하나를 전제로 인메모리로 동작하며, 재시작하면 카운터가 초기화된다.
type QuotaLimiter struct {
	mu sync.Mutex

	dailyLimit int
	usedToday  int
	dayKey     string

	interval time.Duration
	lastCall time.Time

	now func() time.Time
}

// NewQuotaLimiter 는 분당/일일 한도로 리미터를 만든다. 0 이하인 값은 해당 방향의 제한을 두지 않는다.
func NewQuotaLimiter(requestsPerMinute, requestsPerDay int) *QuotaLimiter {
	if requestsPerDay < 0 {
		requestsPerDay = 0
	}
	var interval time.Duration
	if requestsPerMinute > 0 {
		interval = time.Minute / time.Duration(requestsPerMinute)
	}
	return &QuotaLimiter{dailyLimit: requestsPerDay, interval: interval, now: time.Now}
}

// WaitAndReserve 는 호출 전에 한도를 적용한다.
// - 일일 한도 소진: (false, nil). 호출자는 모델 호출을 건너뛴다.
// - 컨텍스트 취소: (false, ctx.Err()).
func (l *QuotaLimiter) WaitAndReserve(ctx context.Context) (bool, error) {
	for {
		l.mu.Lock()

		now := l.now().UTC()
		todayKey := now.Format("2006-01-02")
		if l.dayKey != todayKey {
			l.dayKey = todayKey
			l.usedToday = 0
		}

		if l.dailyLimit > 0 && l.usedToday >= l.dailyLimit {
			l.mu.Unlock()
			return false, nil
		}

		var delay time.Duration
		if l.interval > 0 && !l.lastCall.IsZero() {
			delay = l.lastCall.Add(l.interval).Sub(now)
		}

		if delay <= 0 {
			l.usedToday++
			l.lastCall = now
			l.mu.Unlock()
			return true, nil
		}

		// 락을 풀고 대기한 뒤 상태를 다시 평가한다.
		l.mu.Unlock()
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
}

// Limited 는 다른 Reviewer 앞에 QuotaLimiter 를 적용한다.
type Limited struct {
	Next    Reviewer
	Limiter *QuotaLimiter
}

var _ Reviewer = Limited{}

func (l Limited) reserve(ctx context.Context) error {
	if l.Limiter == nil {
		return nil
	}
	ok, err := l.Limiter.WaitAndReserve(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return ErrQuotaExceeded
	}
	return nil
}

func (l Limited) Review(ctx context.Context, req models.ReviewRequest) (models.AIReview, error) {
	if err := l.reserve(ctx); err != nil {
		return models.AIReview{}, err
	}
	return l.Next.Review(ctx, req)
}

func (l Limited) Suggest(ctx context.Context, prompt string) ([]string, error) {
	if err := l.reserve(ctx); err != nil {
		return nil, err
	}
	return l.Next.Suggest(ctx, prompt)
}
