package web

// Recorder receives business-level counters from the handlers. The app wires
// a Prometheus-backed implementation; tests use NopRecorder.
type Recorder interface {
	LoginSucceeded()
	LoginFailed()
	SignupCompleted()
	ClubJoined()
}

// NopRecorder discards all counters.
type NopRecorder struct{}

func (NopRecorder) LoginSucceeded()  {}
func (NopRecorder) LoginFailed()     {}
func (NopRecorder) SignupCompleted() {}
func (NopRecorder) ClubJoined()      {}
