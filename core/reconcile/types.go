package reconcile

import "cmis-harness/core/server"

// Current is the state of the running embedded server.
type Current struct {
	// Running is true while a server instance accepts requests.
	Running bool

	// Port is the bound port of the running instance.
	Port int

	// TypeIDs are the custom types registered on the running instance.
	TypeIDs []string

	// CMISVersion is the protocol version the running instance advertises.
	CMISVersion string
}

// Desired is what an initialising suite needs from the server.
type Desired struct {
	// Port is the requested port; a dynamic request accepts any bound port.
	Port server.PortRequest

	// TypeIDs are the custom types the suite expects to be registered.
	TypeIDs []string

	// CMISVersion is the protocol version the suite needs. Empty accepts any.
	CMISVersion string
}

// ActionType represents a lifecycle step.
type ActionType string

const (
	// ActionStop stops the running instance.
	ActionStop ActionType = "stop"
	// ActionStart starts a new instance.
	ActionStart ActionType = "start"
	// ActionRegisterType creates a custom type on the fresh instance.
	ActionRegisterType ActionType = "register_type"
)

// Restart reasons, also used as metric labels.
const (
	ReasonPortChanged    = "port_changed"
	ReasonTypesMissing   = "types_missing"
	ReasonVersionChanged = "cmis_version_changed"
)

// Action represents a planned lifecycle step.
type Action struct {
	// Type specifies the step to perform.
	Type ActionType `json:"type"`

	// Key is the type id for register actions, empty otherwise.
	Key string `json:"key,omitempty"`

	// Reason explains why this step is needed.
	Reason string `json:"reason"`
}

// Plan is the outcome of comparing Desired against Current.
type Plan struct {
	// Restart is true when the running instance must be stopped first.
	Restart bool `json:"restart"`

	// Start is true when a new instance must be started.
	Start bool `json:"start"`

	// RestartReasons lists the reason codes behind Restart.
	RestartReasons []string `json:"restart_reasons"`

	// MissingTypes are desired ids the running instance does not have.
	MissingTypes []string `json:"missing_types"`

	// StaleTypes are registered ids no longer desired.
	StaleTypes []string `json:"stale_types"`

	// Register are the ids to create after a start, in desired order
	// followed by carried-over ids.
	Register []string `json:"register"`

	// Actions are the steps in execution order.
	Actions []Action `json:"actions"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`
}

// PlanSummary provides aggregate statistics for a plan.
type PlanSummary struct {
	// MissingTypes counts desired types absent from the running instance.
	MissingTypes int `json:"missing_types"`

	// StaleTypes counts registered types no longer desired.
	StaleTypes int `json:"stale_types"`

	// Registrations counts planned type registrations.
	Registrations int `json:"registrations"`
}

// Options controls how a plan treats previously registered types.
type Options struct {
	// PruneStaleTypes drops registered types that the current suite does not
	// ask for when a restart happens. By default they are carried over.
	PruneStaleTypes bool
}
