package reconcile

import (
	"fmt"
	"strings"
)

// NeedsRestart reports whether the running instance must be restarted to
// satisfy desired. It is false when nothing runs: that case is a fresh start.
func NeedsRestart(current Current, desired Desired) bool {
	return Decide(current, desired, Options{}).Restart
}

// Decide compares desired against current and plans the lifecycle steps.
// A restart is forced only by a port change, a CMIS version change or a
// desired type the running instance lacks. A desired subset of the registered
// types never restarts.
func Decide(current Current, desired Desired, opts Options) Plan {
	plan := Plan{
		RestartReasons: []string{},
		MissingTypes:   []string{},
		StaleTypes:     []string{},
		Register:       []string{},
		Actions:        []Action{},
	}

	desiredIDs := dedupe(desired.TypeIDs)

	if !current.Running {
		plan.Start = true
		plan.MissingTypes = desiredIDs
		plan.Register = desiredIDs
		plan.Actions = append(plan.Actions, Action{Type: ActionStart, Reason: "no server running"})
		plan.Actions = append(plan.Actions, registerActions(plan.Register)...)
		plan.Summary = summarize(plan)
		return plan
	}

	registered := toSet(current.TypeIDs)
	wanted := toSet(desiredIDs)

	for _, id := range desiredIDs {
		if _, ok := registered[id]; !ok {
			plan.MissingTypes = append(plan.MissingTypes, id)
		}
	}
	for _, id := range dedupe(current.TypeIDs) {
		if _, ok := wanted[id]; !ok {
			plan.StaleTypes = append(plan.StaleTypes, id)
		}
	}

	if !desired.Port.Matches(current.Port) {
		plan.RestartReasons = append(plan.RestartReasons, ReasonPortChanged)
	}
	if desired.CMISVersion != "" && desired.CMISVersion != current.CMISVersion {
		plan.RestartReasons = append(plan.RestartReasons, ReasonVersionChanged)
	}
	if len(plan.MissingTypes) > 0 {
		plan.RestartReasons = append(plan.RestartReasons, ReasonTypesMissing)
	}

	if len(plan.RestartReasons) == 0 {
		plan.Summary = summarize(plan)
		return plan
	}

	plan.Restart = true
	plan.Start = true
	plan.Register = append(plan.Register, desiredIDs...)
	if !opts.PruneStaleTypes {
		plan.Register = append(plan.Register, plan.StaleTypes...)
	}

	plan.Actions = append(plan.Actions,
		Action{Type: ActionStop, Reason: strings.Join(plan.RestartReasons, ",")},
		Action{Type: ActionStart, Reason: "restart"},
	)
	plan.Actions = append(plan.Actions, registerActions(plan.Register)...)
	plan.Summary = summarize(plan)
	return plan
}

// Describe renders the restart reasons for logs and errors.
func (p Plan) Describe(current Current, desired Desired) string {
	if !p.Restart {
		if p.Start {
			return "fresh start"
		}
		return "running instance satisfies request"
	}
	var parts []string
	for _, r := range p.RestartReasons {
		switch r {
		case ReasonPortChanged:
			parts = append(parts, fmt.Sprintf("port %d -> %s", current.Port, desired.Port))
		case ReasonVersionChanged:
			parts = append(parts, fmt.Sprintf("cmis version %s -> %s", current.CMISVersion, desired.CMISVersion))
		case ReasonTypesMissing:
			parts = append(parts, fmt.Sprintf("missing types %v", p.MissingTypes))
		}
	}
	return strings.Join(parts, "; ")
}

func registerActions(ids []string) []Action {
	actions := make([]Action, 0, len(ids))
	for _, id := range ids {
		actions = append(actions, Action{Type: ActionRegisterType, Key: id, Reason: "type required"})
	}
	return actions
}

func summarize(p Plan) PlanSummary {
	return PlanSummary{
		MissingTypes:  len(p.MissingTypes),
		StaleTypes:    len(p.StaleTypes),
		Registrations: len(p.Register),
	}
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// dedupe keeps the first occurrence of every id, preserving order.
func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
