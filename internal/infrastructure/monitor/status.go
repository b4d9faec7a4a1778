package monitor

import "time"

// Status is the last observed state of every configured dependency.
type Status struct {
	Dependencies map[string]bool `json:"dependencies"`
	Outbox       bool            `json:"outbox"`
	OutboxSize   int             `json:"outbox_size"`
	LastCheck    time.Time       `json:"last_check"`
}

// Healthy reports whether every dependency answered its last probe.
func (s Status) Healthy() bool {
	if s.LastCheck.IsZero() {
		return false
	}
	for _, up := range s.Dependencies {
		if !up {
			return false
		}
	}
	return s.Outbox
}
