package task

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/resource"
)

type httpStatusErr int

func (e httpStatusErr) Error() string        { return "status" }
func (e httpStatusErr) HTTPStatus() int      { return int(e) }
func (e httpStatusErr) ResponseBody() string { return "" }

func TestRunFulfilled(t *testing.T) {
	var mu sync.Mutex
	var seen []Status
	tk := New[int]("demo/fetch", &mu, func(name string, s Status) {
		assert.Equal(t, "demo/fetch", name)
		seen = append(seen, s)
	})

	mu.Lock()
	assert.Equal(t, StatusIdle, tk.State().Status)
	mu.Unlock()

	var committed int
	err := tk.Run(context.Background(), func(ctx context.Context) (int, error) {
		mu.Lock()
		assert.True(t, tk.Pending())
		mu.Unlock()
		return 42, nil
	}, func(v int) { committed = v })
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	st := tk.State()
	assert.Equal(t, StatusFulfilled, st.Status)
	require.NotNil(t, st.Result)
	assert.Equal(t, 42, *st.Result)
	assert.Nil(t, st.Err)
	assert.Equal(t, 42, committed)
	assert.Equal(t, []Status{StatusPending, StatusFulfilled}, seen)
}

func TestRunRejectedThenRedispatchClearsError(t *testing.T) {
	var mu sync.Mutex
	tk := New[string]("demo/get", &mu, nil)

	err := tk.Run(context.Background(), func(ctx context.Context) (string, error) {
		return "", httpStatusErr(404)
	}, func(string) { t.Fatalf("commit must not run on failure") })

	var re *resource.Error
	require.True(t, errors.As(err, &re))
	assert.Equal(t, resource.KindNotFound, re.Kind)

	mu.Lock()
	assert.Equal(t, StatusRejected, tk.State().Status)
	assert.Equal(t, resource.KindNotFound, tk.Err().Kind)
	mu.Unlock()

	release := make(chan struct{})
	done := make(chan error)
	go func() {
		done <- tk.Run(context.Background(), func(ctx context.Context) (string, error) {
			<-release
			return "ok", nil
		}, nil)
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return tk.Pending()
	}, time.Second, time.Millisecond)

	mu.Lock()
	assert.Nil(t, tk.Err(), "dispatch clears the previous error")
	mu.Unlock()

	close(release)
	require.NoError(t, <-done)
}

func TestRunLatestIssuedWins(t *testing.T) {
	var mu sync.Mutex
	tk := New[string]("demo/list", &mu, nil)

	firstRelease := make(chan struct{})
	firstCtx := make(chan context.Context, 1)
	firstDone := make(chan error)
	go func() {
		firstDone <- tk.Run(context.Background(), func(ctx context.Context) (string, error) {
			firstCtx <- ctx
			<-firstRelease
			return "first", nil
		}, func(string) { t.Errorf("stale commit must be discarded") })
	}()
	ctx1 := <-firstCtx

	var committed string
	err := tk.Run(context.Background(), func(ctx context.Context) (string, error) {
		return "second", nil
	}, func(v string) { committed = v })
	require.NoError(t, err)
	assert.Equal(t, "second", committed)

	assert.ErrorIs(t, ctx1.Err(), context.Canceled, "newer dispatch cancels the older one")

	close(firstRelease)
	assert.ErrorIs(t, <-firstDone, ErrSuperseded)

	mu.Lock()
	defer mu.Unlock()
	st := tk.State()
	assert.Equal(t, StatusFulfilled, st.Status)
	assert.Equal(t, "second", *st.Result)
}

func TestRunSupersededSettlesInEitherOrder(t *testing.T) {
	testCases := []struct {
		name        string
		olderFirst  bool
		wantPending bool
	}{
		{name: "newer settles first", olderFirst: false},
		{name: "older settles first", olderFirst: true, wantPending: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var mu sync.Mutex
			tk := New[string]("demo/list", &mu, nil)

			olderRelease := make(chan struct{})
			newerRelease := make(chan struct{})
			olderStarted := make(chan struct{})
			olderDone := make(chan error, 1)
			newerDone := make(chan error, 1)

			go func() {
				olderDone <- tk.Run(context.Background(), func(ctx context.Context) (string, error) {
					close(olderStarted)
					<-olderRelease
					return "older", nil
				}, nil)
			}()
			<-olderStarted
			go func() {
				newerDone <- tk.Run(context.Background(), func(ctx context.Context) (string, error) {
					<-newerRelease
					return "newer", nil
				}, nil)
			}()
			require.Eventually(t, func() bool {
				mu.Lock()
				defer mu.Unlock()
				return tk.State().Seq == 2
			}, time.Second, time.Millisecond)

			var olderErr, newerErr error
			if tc.olderFirst {
				close(olderRelease)
				olderErr = <-olderDone
			} else {
				close(newerRelease)
				newerErr = <-newerDone
			}

			mu.Lock()
			assert.Equal(t, tc.wantPending, tk.Pending(), "only the latest dispatch settles the task")
			mu.Unlock()

			if tc.olderFirst {
				close(newerRelease)
				newerErr = <-newerDone
			} else {
				close(olderRelease)
				olderErr = <-olderDone
			}
			assert.ErrorIs(t, olderErr, ErrSuperseded)
			require.NoError(t, newerErr)

			mu.Lock()
			defer mu.Unlock()
			st := tk.State()
			assert.Equal(t, StatusFulfilled, st.Status)
			require.NotNil(t, st.Result)
			assert.Equal(t, "newer", *st.Result)
		})
	}
}

func TestInvalidateDiscardsInFlight(t *testing.T) {
	var mu sync.Mutex
	tk := New[int]("demo/list", &mu, nil)

	release := make(chan struct{})
	done := make(chan error)
	go func() {
		done <- tk.Run(context.Background(), func(ctx context.Context) (int, error) {
			<-release
			return 1, nil
		}, func(int) { t.Errorf("invalidated commit must be discarded") })
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return tk.Pending()
	}, time.Second, time.Millisecond)

	mu.Lock()
	tk.Invalidate()
	assert.Equal(t, StatusIdle, tk.State().Status)
	mu.Unlock()

	close(release)
	assert.ErrorIs(t, <-done, ErrSuperseded)
}

func TestRejectAndReset(t *testing.T) {
	var mu sync.Mutex
	tk := New[int]("demo/create", &mu, nil)

	mu.Lock()
	defer mu.Unlock()
	tk.Reject(resource.Validation("demo/create", errors.New("title is required")))
	assert.Equal(t, StatusRejected, tk.State().Status)
	assert.Equal(t, resource.KindValidation, tk.Err().Kind)

	tk.ClearError()
	assert.Nil(t, tk.Err())
	assert.Equal(t, StatusRejected, tk.State().Status)

	tk.Reset()
	st := tk.State()
	assert.Equal(t, StatusIdle, st.Status)
	assert.Nil(t, st.Result)
}

func TestMutationCommitsEveryAck(t *testing.T) {
	var mu sync.Mutex
	tk := NewMutation[string]("demo/like", &mu, nil)

	release := make(chan struct{})
	started := make(chan struct{}, 2)
	done := make(chan error, 2)
	var committed []string
	for _, id := range []string{"a", "b"} {
		id := id
		go func() {
			done <- tk.Run(context.Background(), func(ctx context.Context) (string, error) {
				started <- struct{}{}
				<-release
				return id, ctx.Err()
			}, func(v string) { committed = append(committed, v) })
		}()
	}
	<-started
	<-started

	mu.Lock()
	tk.Invalidate()
	assert.True(t, tk.Pending(), "mutations are not invalidated")
	mu.Unlock()

	close(release)
	require.NoError(t, <-done)
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"a", "b"}, committed)
	assert.Equal(t, StatusFulfilled, tk.State().Status)
}
