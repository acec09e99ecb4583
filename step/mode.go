package step

import "strings"

// Mode selects which specs a run executes and how far the reporting goes.
type Mode string

const (
	ModeSmoke      Mode = "smoke"
	ModeRegression Mode = "all"
	ModePostToJira Mode = "post-to-jira"
	ModeSingle     Mode = "single"
)

// ParseMode accepts the mode with or without a leading "--", anything unknown runs the smoke set.
func ParseMode(arg string) Mode {
	switch mode := Mode(strings.TrimPrefix(strings.TrimSpace(arg), "--")); mode {
	case ModeSmoke, ModeRegression, ModePostToJira, ModeSingle:
		return mode
	default:
		return ModeSmoke
	}
}

// TestSet is the label the run is announced with.
func (m Mode) TestSet() string {
	switch m {
	case ModeRegression:
		return "Regression"
	case ModeSingle:
		return "Specific"
	default:
		return "Smoke"
	}
}

// Spec returns the runner's spec pattern for the mode.
func (m Mode) Spec(input Input) string {
	switch m {
	case ModeRegression:
		return valueOrDefault(input.RegressionSpecs, defaultSpecs)
	case ModeSingle:
		return input.SingleSpec
	default:
		return valueOrDefault(input.SmokeSpecs, defaultSpecs)
	}
}

// Announces reports whether the run is posted to chat, post-to-jira only updates the tracker.
func (m Mode) Announces() bool {
	return m != ModePostToJira
}
