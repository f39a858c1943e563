// Package loader provides the plugin-like feature loading system.
//
// The embedded server mounts its hosted application as a set of features under
// the context path: the in-memory repository (browser binding endpoints) and the
// web archive (static content and landing page). Each feature implements the
// Feature interface.
//
// # Feature Interface
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(router fiber.Router) error
//	}
//
// # Manager
//
// The Manager struct holds the registry of available features. It handles:
//   - Registration of features via Register()
//   - Loading of enabled features, in registration order, via LoadAll()
package loader
