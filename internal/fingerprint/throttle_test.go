package fingerprint

import "testing"

func TestThrottleFiresStrictlyAfterInterval(t *testing.T) {
	th := NewThrottle(100)
	th.Record(100)
	if th.ShouldNotify() {
		t.Fatal("exactly one interval must not notify")
	}
	th.Record(1)
	if !th.ShouldNotify() {
		t.Fatal("expected notification after crossing the interval")
	}
	th.MarkNotified()
	if th.ShouldNotify() {
		t.Fatal("expected baseline reset after MarkNotified")
	}
	th.Record(100)
	if th.ShouldNotify() {
		t.Fatal("expected no notification at baseline+interval")
	}
	th.Record(1)
	if !th.ShouldNotify() {
		t.Fatal("expected second notification")
	}
	if th.Hashed() != 202 {
		t.Fatalf("Hashed() = %d, want 202", th.Hashed())
	}
}

func TestThrottleDefaultsInterval(t *testing.T) {
	th := NewThrottle(0)
	th.Record(DefaultProgressInterval)
	if th.ShouldNotify() {
		t.Fatal("default interval should not fire at exactly 1,000,000 bytes")
	}
	th.Record(1)
	if !th.ShouldNotify() {
		t.Fatal("default interval should fire past 1,000,000 bytes")
	}
}

func TestThrottleWithoutMarkKeepsFiring(t *testing.T) {
	th := NewThrottle(10)
	th.Record(11)
	if !th.ShouldNotify() || !th.ShouldNotify() {
		t.Fatal("ShouldNotify must not change state on its own")
	}
}
