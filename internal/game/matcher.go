package game

import "fmt"

// Verdict is the outcome of evaluating one detected color.
type Verdict uint8

const (
	// Ignored means the input changed nothing visible: either it was Unknown
	// or it was a first, tolerated mismatch.
	Ignored Verdict = iota
	// StepCorrect means the color matched and the pattern is not done yet.
	StepCorrect
	// FullSuccess means the last color of the pattern matched.
	FullSuccess
	// FullFailure means two wrong colors were read in a row.
	FullFailure
)

// String returns the name of the verdict.
func (v Verdict) String() string {
	switch v {
	case Ignored:
		return "ignored"
	case StepCorrect:
		return "step-correct"
	case FullSuccess:
		return "full-success"
	case FullFailure:
		return "full-failure"
	default:
		return fmt.Sprintf("Verdict(%d)", v)
	}
}

// FailureThreshold is the number of consecutive wrong colors that fail the
// pattern. A single wrong read is treated as a misread.
const FailureThreshold = 2

// MatcherState is the progress of the player through the pattern.
type MatcherState struct {
	// CurrentIndex is the index of the next expected color.
	CurrentIndex int
	// ConsecutiveFailures counts wrong, known colors since the last match.
	ConsecutiveFailures int
}

// Transition computes the next state and verdict for detected.
//
//   - Unknown leaves the state untouched.
//   - The expected color clears the failure count and advances; reaching the
//     end of the pattern wraps to the start with FullSuccess.
//   - A wrong color counts a failure; reaching FailureThreshold resets the
//     state with FullFailure, anything less is Ignored.
//
// A CurrentIndex outside the pattern restarts the pattern from its first
// color.
func Transition(p Pattern, s MatcherState, detected Color) (MatcherState, Verdict) {
	if detected == Unknown {
		return s, Ignored
	}

	if s.CurrentIndex < 0 || s.CurrentIndex >= len(p) {
		s.CurrentIndex = 0
	}

	if detected == p[s.CurrentIndex] {
		s.ConsecutiveFailures = 0
		s.CurrentIndex++
		if s.CurrentIndex == len(p) {
			s.CurrentIndex = 0
			return s, FullSuccess
		}
		return s, StepCorrect
	}

	s.ConsecutiveFailures++
	if s.ConsecutiveFailures >= FailureThreshold {
		return MatcherState{}, FullFailure
	}
	return s, Ignored
}

// SequenceMatcher judges detected colors against the current pattern.
type SequenceMatcher struct {
	pattern Pattern
	state   MatcherState
}

// NewSequenceMatcher creates a matcher armed with p.
func NewSequenceMatcher(p Pattern) *SequenceMatcher {
	return &SequenceMatcher{pattern: p}
}

// Arm replaces the pattern and resets the state.
func (m *SequenceMatcher) Arm(p Pattern) {
	m.pattern = p
	m.state = MatcherState{}
}

// Pattern returns the pattern being matched.
func (m *SequenceMatcher) Pattern() Pattern { return m.pattern }

// State returns the current state.
func (m *SequenceMatcher) State() MatcherState { return m.state }

// Evaluate applies detected to the matcher. See Transition.
func (m *SequenceMatcher) Evaluate(detected Color) Verdict {
	var v Verdict
	m.state, v = Transition(m.pattern, m.state, detected)
	return v
}
