package harness

import (
	"cmis-harness/core/config"
	"cmis-harness/core/metrics"
	"cmis-harness/core/storage"
	"cmis-harness/feature/repository"
	"cmis-harness/feature/types"

	"go.uber.org/zap"
)

// Version is reported as the hosted repository's product version.
const Version = "1.0.0"

// Options configures a Harness.
type Options struct {
	// Config is the full configuration; zero value fields take the defaults
	// of config.Default when Config is nil.
	Config *config.Config
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
	// Types are registered for every suite, in addition to types.files.
	Types []types.TypeDefinition
	// PruneStaleTypes drops types no longer requested when a restart happens.
	// By default types registered by earlier suites are carried over.
	PruneStaleTypes bool
	// Metrics defaults to a fresh private registry.
	Metrics *metrics.Metrics
	// Store overrides the type store selected by database.driver.
	Store repository.Store
	// Storage overrides the object storage client used for archive.object.
	Storage storage.Client
}

// Desired is what one suite needs from the embedded server.
type Desired struct {
	// Port is a port number or "dynamic". Empty falls back to server.port.
	Port string
	// TypeFiles are YAML or JSON definition files for this suite.
	TypeFiles []string
	// Types are definitions built in code for this suite.
	Types []types.TypeDefinition
	// CMISVersion is "1.0" or "1.1". Empty falls back to server.cmis_version.
	CMISVersion string
}
