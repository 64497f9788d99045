package middleware

import (
	"testing"
)

func TestRateLimiterBurstThenDeny(t *testing.T) {
	l := NewRateLimiter(1, 2) // 1/min with burst of 2

	if !l.Allow("EMP123") {
		t.Fatal("first request should be allowed")
	}
	if !l.Allow("EMP123") {
		t.Fatal("second request should be allowed (burst)")
	}
	if l.Allow("EMP123") {
		t.Error("third immediate request should be denied")
	}

	// A different user has an independent budget.
	if !l.Allow("SUP001") {
		t.Error("other user's first request should be allowed")
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	l := NewRateLimiter(0, 0)
	for i := 0; i < 100; i++ {
		if !l.Allow("EMP123") {
			t.Fatal("disabled limiter should always allow")
		}
	}
}
