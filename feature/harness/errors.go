package harness

import "errors"

// Error kinds. Every failure returned by the harness is a *StepError whose
// Kind is one of these.
var (
	// ErrConfiguration marks malformed port or type configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrPortUnavailable marks a port that is taken or cannot be allocated.
	ErrPortUnavailable = errors.New("port unavailable")
	// ErrServerStart marks a bind, application or type registration failure.
	ErrServerStart = errors.New("server start failed")
	// ErrServerStop marks a failed stop. The harness is left in StateFailed.
	ErrServerStop = errors.New("server stop failed")
	// ErrSession marks a session that could not be opened.
	ErrSession = errors.New("session error")
)

// Lifecycle steps named in errors and logs.
const (
	StepConfigure     = "configure"
	StepResolvePort   = "resolve port"
	StepLoadTypes     = "load types"
	StepStopServer    = "stop server"
	StepCheckPort     = "check port"
	StepStartServer   = "start server"
	StepRegisterTypes = "register types"
	StepOpenSession   = "open session"
)

// StepError identifies the lifecycle step that failed.
type StepError struct {
	Step string
	Kind error
	Err  error
}

func (e *StepError) Error() string {
	return e.Step + ": " + e.Kind.Error() + ": " + e.Err.Error()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *StepError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func stepErr(step string, kind, err error) *StepError {
	return &StepError{Step: step, Kind: kind, Err: err}
}
