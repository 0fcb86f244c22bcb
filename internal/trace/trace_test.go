package trace

import (
	"context"
	"testing"
)

func TestNextSpanIDIncrementsWithinTask(t *testing.T) {
	ctx := WithTask(context.Background(), "posts/fetchPosts")

	reqID := RequestIDFromContext(ctx)
	if reqID == "" {
		t.Fatalf("expected request id to be set")
	}
	if got := TaskFromContext(ctx); got != "posts/fetchPosts" {
		t.Fatalf("expected task %q, got %q", "posts/fetchPosts", got)
	}

	for i, want := range []string{"1", "2", "3"} {
		gotReq, gotSpan := NextSpanID(ctx)
		if gotReq != reqID {
			t.Fatalf("call %d: expected request id %q, got %q", i, reqID, gotReq)
		}
		if gotSpan != want {
			t.Fatalf("call %d: expected span %q, got %q", i, want, gotSpan)
		}
	}
}

func TestNextSpanIDWithoutTask(t *testing.T) {
	reqID, span := NextSpanID(context.Background())
	if reqID == "" {
		t.Fatalf("expected generated request id")
	}
	if span != "1" {
		t.Fatalf("expected span 1, got %q", span)
	}
	if RequestIDFromContext(context.Background()) != "" {
		t.Fatalf("expected empty request id for bare context")
	}
}

func TestWithRequestIDKeepsInboundID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-123")
	if got := RequestIDFromContext(ctx); got != "req-123" {
		t.Fatalf("expected request id %q, got %q", "req-123", got)
	}
	if got := TaskFromContext(ctx); got != "" {
		t.Fatalf("expected no task, got %q", got)
	}

	if got := RequestIDFromContext(WithRequestID(context.Background(), "")); got == "" {
		t.Fatalf("expected a generated request id")
	}
}
