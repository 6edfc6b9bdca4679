package engine

// QuotaEnforcer counts presses of one search and enforces an optional
// upper limit.
//
// A period search over a subsystem whose state never repeats would run
// forever. The quota turns that into a QUOTA_EXCEEDED RuntimeError. A limit
// of 0 disables the check.
type QuotaEnforcer struct {
	maxPresses int64
	current    int64
}

// NewQuotaEnforcer creates a quota enforcer with the given limit.
// maxPresses of 0 means unbounded.
func NewQuotaEnforcer(maxPresses int64) *QuotaEnforcer {
	return &QuotaEnforcer{maxPresses: maxPresses}
}

// Check increments the press counter and validates it against the limit.
// Call it before each press.
func (q *QuotaEnforcer) Check(entry string) error {
	q.current++
	if q.maxPresses > 0 && q.current > q.maxPresses {
		return NewQuotaError(entry, q.current, q.maxPresses)
	}
	return nil
}

// Reset resets the press counter to 0.
func (q *QuotaEnforcer) Reset() {
	q.current = 0
}

// Current returns the current press count.
func (q *QuotaEnforcer) Current() int64 {
	return q.current
}

// MaxPresses returns the press limit, 0 when unbounded.
func (q *QuotaEnforcer) MaxPresses() int64 {
	return q.maxPresses
}
