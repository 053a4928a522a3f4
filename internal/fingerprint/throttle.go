package fingerprint

// DefaultProgressInterval is the minimum number of bytes hashed between two
// progress notifications.
const DefaultProgressInterval int64 = 1_000_000

// Throttle tracks hashed bytes and decides when a progress notification is
// due. It never performs I/O or calls the notification sink itself.
type Throttle struct {
	interval     int64
	hashed       int64
	lastNotified int64
}

// NewThrottle returns a throttle that fires at most once per interval
// bytes. A non-positive interval selects DefaultProgressInterval.
func NewThrottle(interval int64) *Throttle {
	if interval <= 0 {
		interval = DefaultProgressInterval
	}
	return &Throttle{interval: interval}
}

// Record adds n bytes to the running total.
func (t *Throttle) Record(n int64) {
	t.hashed += n
}

// ShouldNotify reports whether more than one interval has been hashed
// since the last notification. Callers that act on a true result must call
// MarkNotified.
func (t *Throttle) ShouldNotify() bool {
	return t.hashed > t.lastNotified+t.interval
}

// MarkNotified moves the notification baseline to the current total.
func (t *Throttle) MarkNotified() {
	t.lastNotified = t.hashed
}

// Hashed returns the running byte total.
func (t *Throttle) Hashed() int64 {
	return t.hashed
}
