package hermes

import (
	"testing"
	"time"
)

func TestWaitClosedReturnsOnClose(t *testing.T) {
	closed := make(chan struct{})
	go func() {
		time.Sleep(10 * time.Millisecond)
		close(closed)
	}()
	if !waitClosed(closed, time.Second) {
		t.Fatal("expected close to be observed before the timeout")
	}
}

func TestWaitClosedTimesOut(t *testing.T) {
	start := time.Now()
	if waitClosed(make(chan struct{}), 20*time.Millisecond) {
		t.Fatal("expected timeout with an open channel")
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("returned after %s, before the timeout", elapsed)
	}
}
