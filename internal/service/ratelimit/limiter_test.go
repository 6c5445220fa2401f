package ratelimit

import "testing"

func TestAllowConsumesTokens(t *testing.T) {
	l := New()

	for i := 0; i < 3; i++ {
		if !l.Allow("client", 3, 0) {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	if l.Allow("client", 3, 0) {
		t.Fatal("request over capacity should be denied")
	}
}

func TestAllowIsolatesKeys(t *testing.T) {
	l := New()

	if !l.Allow("a", 1, 0) {
		t.Fatal("first request for a should be allowed")
	}
	if l.Allow("a", 1, 0) {
		t.Fatal("second request for a should be denied")
	}
	if !l.Allow("b", 1, 0) {
		t.Fatal("first request for b should be allowed")
	}
}
