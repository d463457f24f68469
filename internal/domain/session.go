package domain

// SessionState holds the cross-component signalling flags of one session.
// It is owned by the session runner goroutine: event handlers and the sequencer
// both run there, so a flag set while applying an event is observed on the
// sequencer's next poll.
type SessionState struct {
	current          *ExerciseConfig
	preparationOK    bool
	restartRequested bool
	clientConnected  bool
}

// NewSessionState constructs an empty state.
func NewSessionState() *SessionState {
	return &SessionState{}
}

// Current returns the active exercise or nil before the demo phase.
func (s *SessionState) Current() *ExerciseConfig {
	return s.current
}

// SetCurrent points the session at a stored configuration.
func (s *SessionState) SetCurrent(cfg ExerciseConfig) {
	s.current = &cfg
}

// RequestRestart raises the restart flag. Raising it again before it is
// cleared has no further effect.
func (s *SessionState) RequestRestart() {
	s.restartRequested = true
}

// RestartRequested reports the restart flag.
func (s *SessionState) RestartRequested() bool {
	return s.restartRequested
}

// ClearRestart lowers the restart flag once the sequencer has acted on it.
func (s *SessionState) ClearRestart() {
	s.restartRequested = false
}

// MarkPreparationSuccessful raises the preparation flag.
func (s *SessionState) MarkPreparationSuccessful() {
	s.preparationOK = true
}

// ResetPreparation lowers the preparation flag.
func (s *SessionState) ResetPreparation() {
	s.preparationOK = false
}

// PreparationSuccessful reports the preparation flag.
func (s *SessionState) PreparationSuccessful() bool {
	return s.preparationOK
}

// SetClientConnected records the latest connection status of the headset client.
func (s *SessionState) SetClientConnected(connected bool) {
	s.clientConnected = connected
}

// ClientConnected reports whether the headset client is connected.
func (s *SessionState) ClientConnected() bool {
	return s.clientConnected
}
