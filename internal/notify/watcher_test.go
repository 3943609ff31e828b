package notify

import (
	"testing"
	"time"
)

func TestRetryBackoff_GrowsAndCaps(t *testing.T) {
	short := time.Second // sesion que fallo enseguida

	backoff := time.Duration(0)
	want := []time.Duration{
		time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		30 * time.Second,
		30 * time.Second,
	}
	for i, expected := range want {
		backoff = retryBackoff(backoff, short)
		if backoff != expected {
			t.Fatalf("step %d: expected %v, got %v", i, expected, backoff)
		}
	}
}

func TestRetryBackoff_ResetsAfterHealthySession(t *testing.T) {
	// Pinneado en el maximo por una rafaga de fallos.
	backoff := watcherMaxBackoff

	backoff = retryBackoff(backoff, watcherHealthySession+time.Minute)
	if backoff != time.Second {
		t.Fatalf("expected reset to 1s after healthy session, got %v", backoff)
	}

	backoff = retryBackoff(backoff, time.Millisecond)
	if backoff != 2*time.Second {
		t.Fatalf("expected growth to resume from the bottom, got %v", backoff)
	}
}
