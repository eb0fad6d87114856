package clipjob

import "sync/atomic"

// Stop is the cooperative cancellation flag shared between the control
// surface and the worker. A nil *Stop never reports a request, so
// callers that do not care pass nil.
type Stop struct {
	flag atomic.Bool
}

func (s *Stop) Request() {
	if s != nil {
		s.flag.Store(true)
	}
}

func (s *Stop) Requested() bool {
	return s != nil && s.flag.Load()
}
