package report

import (
	"path"
	"strings"
	"time"

	"github.com/viaphoton/e2e-harness/junit"
)

// FailedCase is the normalized description of one failing spec, used to compose notifications.
type FailedCase struct {
	Ticket         string
	Name           string
	File           string
	FailureType    string
	FailureMessage string
	Timestamp      time.Time
	Elapsed        time.Duration
}

// ExtractFailures returns one FailedCase per shard report flagged as failed, in input order.
// All files are parsed before anything is returned: a malformed file yields a ParseError
// and no records.
func ExtractFailures(paths []string) ([]FailedCase, error) {
	reports := make([]junit.Report, 0, len(paths))
	for _, pth := range paths {
		r, err := junit.DecodeFile(pth)
		if err != nil {
			return nil, &ParseError{Path: pth, Err: err}
		}
		reports = append(reports, r)
	}

	var failures []FailedCase
	for i, r := range reports {
		if !r.Failed() {
			continue
		}

		failure, err := failedCase(paths[i], r)
		if err != nil {
			return nil, err
		}
		failures = append(failures, failure)
	}

	return failures, nil
}

// ExtractFailuresFromReport does the same as ExtractFailures on a merged report,
// where every context suite opens the next shard.
func ExtractFailuresFromReport(pth string) ([]FailedCase, error) {
	merged, err := junit.DecodeFile(pth)
	if err != nil {
		return nil, &ParseError{Path: pth, Err: err}
	}

	var failures []FailedCase
	for _, shard := range splitShards(merged) {
		if !shard.Failed() {
			continue
		}

		failure, err := failedCase(pth, shard)
		if err != nil {
			return nil, err
		}
		failures = append(failures, failure)
	}

	return failures, nil
}

// TicketFromFile derives the tracker reference from a spec path:
// the part of the base name before the first underscore.
func TicketFromFile(file string) string {
	base := path.Base(strings.ReplaceAll(file, `\`, "/"))
	ticket, _, _ := strings.Cut(base, "_")
	return ticket
}

func failedCase(pth string, r junit.Report) (FailedCase, error) {
	context, err := r.ContextSuite()
	if err != nil {
		return FailedCase{}, &StructureError{Path: pth, Reason: err.Error()}
	}

	failing, found := firstFailingCase(r.AssertionSuites())
	if !found {
		return FailedCase{}, &StructureError{Path: pth, Reason: "flagged as failed, but no test case carries a failure (" + context.File + ")"}
	}
	if failing.Failure.Type == "" || failing.Failure.Message == "" {
		return FailedCase{}, &StructureError{Path: pth, Reason: "failure of " + failing.DisplayName() + " has no type or message"}
	}

	timestamp, err := context.ParsedTimestamp()
	if err != nil {
		return FailedCase{}, &StructureError{Path: pth, Reason: "invalid context suite timestamp: " + err.Error()}
	}

	return FailedCase{
		Ticket:         TicketFromFile(context.File),
		Name:           failing.DisplayName(),
		File:           context.File,
		FailureType:    failing.Failure.Type,
		FailureMessage: failing.Failure.Message,
		Timestamp:      timestamp,
		Elapsed:        context.Duration(),
	}, nil
}

func firstFailingCase(suites []junit.Suite) (junit.TestCase, bool) {
	for _, suite := range suites {
		for _, tc := range suite.TestCases {
			if !tc.Failure.IsEmpty() {
				return tc, true
			}
		}
	}
	return junit.TestCase{}, false
}

func splitShards(merged junit.Report) []junit.Report {
	var shards []junit.Report
	for _, suite := range merged.Suites {
		if suite.File != "" || len(shards) == 0 {
			shards = append(shards, junit.Report{})
		}

		current := &shards[len(shards)-1]
		current.Suites = append(current.Suites, suite)
		current.Tests += suite.Tests
		current.Failures += suite.Failures
		if suite.HasFailure() && suite.Failures == 0 {
			current.Failures++
		}
	}
	return shards
}
