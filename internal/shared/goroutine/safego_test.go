package goroutine

import (
	"testing"
	"time"

	"github.com/orris-inc/deskhub/internal/shared/logger"
)

func TestSafeGo_RunsFunction(t *testing.T) {
	done := make(chan struct{})
	SafeGo(logger.NewNopLogger(), "test", func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("function did not run")
	}
}

func TestSafeGo_RecoversPanic(t *testing.T) {
	after := make(chan struct{})
	SafeGo(logger.NewNopLogger(), "panicky", func() {
		defer close(after)
		panic("boom")
	})

	select {
	case <-after:
	case <-time.After(time.Second):
		t.Fatal("deferred close did not run")
	}
}
