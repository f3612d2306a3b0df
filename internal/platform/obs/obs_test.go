package obs

import (
	"context"
	"errors"
	"testing"
)

func TestWithRequestID(t *testing.T) {
	ctx, id := WithRequestID(context.Background(), "")
	if id == "" {
		t.Fatal("expected generated request id")
	}
	if got := RequestID(ctx); got != id {
		t.Fatalf("RequestID = %q, want %q", got, id)
	}

	ctx, id = WithRequestID(context.Background(), "abc")
	if id != "abc" || RequestID(ctx) != "abc" {
		t.Fatalf("explicit id not kept: %q", RequestID(ctx))
	}

	if RequestID(context.Background()) != "" {
		t.Fatal("expected empty id on bare context")
	}
}

func TestTimeAcceptsNilAndError(t *testing.T) {
	ctx, _ := WithRequestID(context.Background(), "t1")
	Time(ctx, "test.ok")(nil)

	err := errors.New("boom")
	Time(ctx, "test.err")(&err)
}
