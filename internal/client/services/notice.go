package services

import "time"

const (
	SuccessNoticeTTL = 3 * time.Second
	ErrorNoticeTTL   = 5 * time.Second
)

// Notice is a transient message. A zero Expires means it stays until
// replaced or cleared.
type Notice struct {
	Text    string
	Expires time.Time
}

// Active reports whether the notice should be shown at now.
func (n *Notice) Active(now time.Time) bool {
	if n == nil || n.Text == "" {
		return false
	}
	return n.Expires.IsZero() || now.Before(n.Expires)
}

func newNotice(text string, now time.Time, ttl time.Duration) *Notice {
	n := &Notice{Text: text}
	if ttl > 0 {
		n.Expires = now.Add(ttl)
	}
	return n
}
