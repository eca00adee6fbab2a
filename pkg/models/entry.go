package models

// Side identifies one of the two trees being compared
type Side string

const (
	// SideLeft is the first root given on the command line
	SideLeft Side = "left"
	// SideRight is the second root given on the command line
	SideRight Side = "right"
)

// OutcomeKind classifies a file that is not identical on both sides
type OutcomeKind string

const (
	// OutcomeLeftOnly indicates the file exists only under the left root
	OutcomeLeftOnly OutcomeKind = "left_only"
	// OutcomeDifferent indicates the file exists on both sides with different content
	OutcomeDifferent OutcomeKind = "different"
	// OutcomeRightOnly indicates the file exists only under the right root
	OutcomeRightOnly OutcomeKind = "right_only"
)

// Outcome is a single classification produced by a scan.
// Identical files never produce an outcome.
type Outcome struct {
	Kind         OutcomeKind
	RelativePath string
}

// LeftOnly builds a left-only outcome
func LeftOnly(rel string) Outcome {
	return Outcome{Kind: OutcomeLeftOnly, RelativePath: rel}
}

// Different builds a content-differs outcome
func Different(rel string) Outcome {
	return Outcome{Kind: OutcomeDifferent, RelativePath: rel}
}

// RightOnly builds a right-only outcome
func RightOnly(rel string) Outcome {
	return Outcome{Kind: OutcomeRightOnly, RelativePath: rel}
}
