package report

import (
	"path/filepath"
	"sort"
	"time"

	"github.com/viaphoton/e2e-harness/junit"
)

const (
	// ShardFilesDir is where the runner deposits one result file per execution shard.
	ShardFilesDir = "files"
	// MergedReportName ...
	MergedReportName = "test-results-all.xml"
)

// Stats are the pass/fail numbers of a run.
type Stats struct {
	Tests    int
	Passed   int
	Failed   int
	Skipped  int
	Duration time.Duration
}

// ComputeStats counts the cases of a (merged) report.
func ComputeStats(r junit.Report) Stats {
	var stats Stats
	var suitesTime time.Duration
	for _, suite := range r.Suites {
		suitesTime += suite.Duration()
		for _, tc := range suite.TestCases {
			stats.Tests++
			switch {
			case !tc.Failure.IsEmpty():
				stats.Failed++
			case tc.Skipped != nil:
				stats.Skipped++
			default:
				stats.Passed++
			}
		}
	}

	if r.Time > 0 {
		stats.Duration = time.Duration(r.Time * float64(time.Second))
	} else {
		stats.Duration = suitesTime
	}

	return stats
}

// ShardFilesPath ...
func ShardFilesPath(resultsDir string) string {
	return filepath.Join(resultsDir, ShardFilesDir)
}

// MergedReportPath ...
func MergedReportPath(resultsDir string) string {
	return filepath.Join(resultsDir, MergedReportName)
}

// CollectShardFiles lists the shard result files of a run in a stable order.
func CollectShardFiles(resultsDir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(ShardFilesPath(resultsDir), "*.xml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}
