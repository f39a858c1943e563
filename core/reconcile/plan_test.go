package reconcile

import (
	"math/rand"
	"testing"

	"cmis-harness/core/server"

	"github.com/stretchr/testify/assert"
)

func TestDecide_NotRunning(t *testing.T) {
	plan := Decide(Current{}, Desired{Port: server.Fixed(8080), TypeIDs: []string{"tst:doctype"}}, Options{})

	assert.False(t, plan.Restart)
	assert.True(t, plan.Start)
	assert.Equal(t, []string{"tst:doctype"}, plan.Register)
	assert.Equal(t, []Action{
		{Type: ActionStart, Reason: "no server running"},
		{Type: ActionRegisterType, Key: "tst:doctype", Reason: "type required"},
	}, plan.Actions)
	assert.Equal(t, "fresh start", plan.Describe(Current{}, Desired{}))
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name        string
		current     Current
		desired     Desired
		opts        Options
		wantRestart bool
		wantReasons []string
		wantMissing []string
		wantStale   []string
		wantReg     []string
	}{
		{
			name:        "SamePortNoTypes",
			current:     Current{Running: true, Port: 8080},
			desired:     Desired{Port: server.Fixed(8080)},
			wantReasons: []string{},
			wantMissing: []string{},
			wantStale:   []string{},
			wantReg:     []string{},
		},
		{
			name:        "SamePortSubset",
			current:     Current{Running: true, Port: 8080, TypeIDs: []string{"a", "b"}},
			desired:     Desired{Port: server.Fixed(8080), TypeIDs: []string{"a"}},
			wantReasons: []string{},
			wantMissing: []string{},
			wantStale:   []string{"b"},
			wantReg:     []string{},
		},
		{
			name:        "PortChanged",
			current:     Current{Running: true, Port: 8080},
			desired:     Desired{Port: server.Fixed(9090)},
			wantRestart: true,
			wantReasons: []string{ReasonPortChanged},
			wantMissing: []string{},
			wantStale:   []string{},
			wantReg:     []string{},
		},
		{
			name:        "DynamicAcceptsBoundPort",
			current:     Current{Running: true, Port: 41234, TypeIDs: []string{"a"}},
			desired:     Desired{Port: server.Dynamic(), TypeIDs: []string{"a"}},
			wantReasons: []string{},
			wantMissing: []string{},
			wantStale:   []string{},
			wantReg:     []string{},
		},
		{
			name:        "MissingTypeCarriesStale",
			current:     Current{Running: true, Port: 8080, TypeIDs: []string{"tst:doctype"}},
			desired:     Desired{Port: server.Fixed(8080), TypeIDs: []string{"tst:doctype2"}},
			wantRestart: true,
			wantReasons: []string{ReasonTypesMissing},
			wantMissing: []string{"tst:doctype2"},
			wantStale:   []string{"tst:doctype"},
			wantReg:     []string{"tst:doctype2", "tst:doctype"},
		},
		{
			name:        "MissingTypePruneStale",
			current:     Current{Running: true, Port: 8080, TypeIDs: []string{"tst:doctype"}},
			desired:     Desired{Port: server.Fixed(8080), TypeIDs: []string{"tst:doctype2"}},
			opts:        Options{PruneStaleTypes: true},
			wantRestart: true,
			wantReasons: []string{ReasonTypesMissing},
			wantMissing: []string{"tst:doctype2"},
			wantStale:   []string{"tst:doctype"},
			wantReg:     []string{"tst:doctype2"},
		},
		{
			name:        "VersionChanged",
			current:     Current{Running: true, Port: 8080, TypeIDs: []string{"a"}, CMISVersion: "1.1"},
			desired:     Desired{Port: server.Fixed(8080), TypeIDs: []string{"a"}, CMISVersion: "1.0"},
			wantRestart: true,
			wantReasons: []string{ReasonVersionChanged},
			wantMissing: []string{},
			wantStale:   []string{},
			wantReg:     []string{"a"},
		},
		{
			name:        "AnyVersionAccepted",
			current:     Current{Running: true, Port: 8080, CMISVersion: "1.0"},
			desired:     Desired{Port: server.Fixed(8080)},
			wantReasons: []string{},
			wantMissing: []string{},
			wantStale:   []string{},
			wantReg:     []string{},
		},
		{
			name:        "PortAndTypes",
			current:     Current{Running: true, Port: 8080, TypeIDs: []string{"a"}},
			desired:     Desired{Port: server.Fixed(9090), TypeIDs: []string{"a", "b", "b"}},
			wantRestart: true,
			wantReasons: []string{ReasonPortChanged, ReasonTypesMissing},
			wantMissing: []string{"b"},
			wantStale:   []string{},
			wantReg:     []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := Decide(tt.current, tt.desired, tt.opts)
			assert.Equal(t, tt.wantRestart, plan.Restart)
			assert.Equal(t, tt.wantRestart, plan.Start)
			assert.Equal(t, tt.wantReasons, plan.RestartReasons)
			assert.Equal(t, tt.wantMissing, plan.MissingTypes)
			assert.Equal(t, tt.wantStale, plan.StaleTypes)
			assert.Equal(t, tt.wantReg, plan.Register)
			assert.Equal(t, len(tt.wantReg), plan.Summary.Registrations)
			assert.Equal(t, tt.wantRestart, NeedsRestart(tt.current, tt.desired))
		})
	}
}

func TestDecide_RestartActionsOrder(t *testing.T) {
	current := Current{Running: true, Port: 8080, TypeIDs: []string{"a"}}
	desired := Desired{Port: server.Fixed(9090), TypeIDs: []string{"a"}}

	plan := Decide(current, desired, Options{})

	assert.Equal(t, []ActionType{ActionStop, ActionStart, ActionRegisterType}, actionTypes(plan.Actions))
	assert.Equal(t, "port 8080 -> 9090", plan.Describe(current, desired))
}

func TestDecide_Describe(t *testing.T) {
	current := Current{Running: true, Port: 8080}
	desired := Desired{Port: server.Fixed(8080), TypeIDs: []string{"x"}}

	assert.Equal(t, "missing types [x]", Decide(current, desired, Options{}).Describe(current, desired))

	desired.TypeIDs = nil
	assert.Equal(t, "running instance satisfies request", Decide(current, desired, Options{}).Describe(current, desired))

	current.CMISVersion = "1.1"
	desired.CMISVersion = "1.0"
	assert.Equal(t, "cmis version 1.1 -> 1.0", Decide(current, desired, Options{}).Describe(current, desired))
}

// Same port plus a subset of the registered ids never restarts; a different
// port always restarts; any unregistered id always restarts.
func TestNeedsRestart_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	universe := []string{"t:a", "t:b", "t:c", "t:d", "t:e", "t:f"}

	for i := 0; i < 500; i++ {
		port := 1024 + rng.Intn(60000)
		registered := randomSubset(rng, universe)
		current := Current{Running: true, Port: port, TypeIDs: registered}

		subset := randomSubset(rng, registered)
		assert.False(t, NeedsRestart(current, Desired{Port: server.Fixed(port), TypeIDs: subset}),
			"subset %v of %v on same port", subset, registered)

		other := port + 1 + rng.Intn(100)
		assert.True(t, NeedsRestart(current, Desired{Port: server.Fixed(other), TypeIDs: subset}),
			"port %d -> %d", port, other)

		extra := append(append([]string{}, subset...), "t:unregistered")
		assert.True(t, NeedsRestart(current, Desired{Port: server.Fixed(port), TypeIDs: extra}),
			"extra id on top of %v", subset)
	}
}

func randomSubset(rng *rand.Rand, from []string) []string {
	out := []string{}
	for _, id := range from {
		if rng.Intn(2) == 0 {
			out = append(out, id)
		}
	}
	return out
}

func actionTypes(actions []Action) []ActionType {
	out := make([]ActionType, 0, len(actions))
	for _, a := range actions {
		out = append(out, a.Type)
	}
	return out
}
