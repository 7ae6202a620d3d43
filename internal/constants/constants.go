// Package constants provides named defaults and fixed names used throughout
// qharness. Run-time values flow through config.HarnessConfig; these are only
// the documented fallbacks.
package constants

// Repetition defaults
const (
	// DefaultTests is the number of repetitions per configuration.
	DefaultTests = 20

	// DefaultShots is the number of single-shot executions per repetition.
	DefaultShots = 1000000

	// DefaultRepetitionWorkers runs repetitions of one configuration sequentially.
	DefaultRepetitionWorkers = 1
)

// Artifact naming
const (
	// ArtifactExt is the extension of every artifact file.
	ArtifactExt = ".csv"

	// DefaultIdentifierWidth is the number of characters of a parameter's
	// decimal text kept in an artifact identifier.
	DefaultIdentifierWidth = 5
)

// Family output locations, relative to the output root.
const (
	GeneralDir  = "general"
	RotationDir = "rotation"
	RNGDir      = "RNG"

	// RNGSummaryFile is the summary written by the analysis pass.
	RNGSummaryFile = "RNGResults.csv"

	RotationPrefix = "Rotation"
	AnglePrefix    = "Angle"
)
