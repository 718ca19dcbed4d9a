package notify

import "sync"

// Recorded is one notice captured by a Recorder.
type Recorded struct {
	Message  string
	Severity Severity
}

// Recorder is a Notifier that keeps every notice, in order, with no
// timers. It is meant for tests and for callers that render notices
// themselves.
type Recorder struct {
	mu      sync.Mutex
	notices []Recorded
}

func (r *Recorder) Notify(message string, severity Severity) {
	r.mu.Lock()
	r.notices = append(r.notices, Recorded{Message: message, Severity: severity})
	r.mu.Unlock()
}

// All returns a copy of the recorded notices.
func (r *Recorder) All() []Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Recorded(nil), r.notices...)
}
