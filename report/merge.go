package report

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"

	"github.com/viaphoton/e2e-harness/junit"
)

// rawSuite keeps a suite byte-for-byte (attributes and inner XML), so merging does not
// drop anything the model does not know about (properties, system-out, ...).
type rawSuite struct {
	XMLName xml.Name   `xml:"testsuite"`
	Attrs   []xml.Attr `xml:",any,attr"`
	Inner   string     `xml:",innerxml"`
}

type rawReport struct {
	XMLName xml.Name   `xml:"testsuites"`
	Suites  []rawSuite `xml:"testsuite"`
}

type mergedReport struct {
	XMLName  xml.Name   `xml:"testsuites"`
	Tests    int        `xml:"tests,attr"`
	Failures int        `xml:"failures,attr"`
	Errors   int        `xml:"errors,attr"`
	Skipped  int        `xml:"skipped,attr"`
	Time     float64    `xml:"time,attr"`
	Suites   []rawSuite `xml:"testsuite"`
}

// MergeSummary describes a committed merge.
type MergeSummary struct {
	Files    int
	Suites   int
	Tests    int
	Failures int
}

// Merge combines the shard result files at srcPaths into a single document at dstPath.
// Every source is read and decoded before the destination is touched, and the destination
// is replaced atomically, so a failed merge never leaves a partial or corrupted file behind.
// Sources are only read.
func Merge(srcPaths []string, dstPath string) (MergeSummary, error) {
	merged := mergedReport{}
	summary := MergeSummary{Files: len(srcPaths)}

	for _, pth := range srcPaths {
		content, err := os.ReadFile(pth)
		if err != nil {
			return MergeSummary{}, &MergeError{Path: pth, Err: err}
		}

		typed, err := junit.Decode(bytes.NewReader(content))
		if err != nil {
			return MergeSummary{}, &MergeError{Path: pth, Err: err}
		}

		var raw rawReport
		if err := xml.Unmarshal(content, &raw); err != nil {
			return MergeSummary{}, &MergeError{Path: pth, Err: err}
		}

		var suitesTime float64
		for _, suite := range typed.Suites {
			merged.Tests += suite.Tests
			merged.Failures += suite.Failures
			merged.Errors += suite.Errors
			merged.Skipped += suite.Skipped
			suitesTime += suite.Time
		}
		if typed.Time > 0 {
			merged.Time += typed.Time
		} else {
			merged.Time += suitesTime
		}

		merged.Suites = append(merged.Suites, raw.Suites...)
	}

	summary.Suites = len(merged.Suites)
	summary.Tests = merged.Tests
	summary.Failures = merged.Failures

	content, err := xml.MarshalIndent(merged, "", "  ")
	if err != nil {
		return MergeSummary{}, &MergeError{Err: err}
	}

	if err := writeFileAtomic(dstPath, append([]byte(xml.Header), content...)); err != nil {
		return MergeSummary{}, &MergeError{Path: dstPath, Err: err}
	}

	return summary, nil
}

func writeFileAtomic(pth string, content []byte) error {
	dir := filepath.Dir(pth)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(pth)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPth := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPth)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPth, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPth, pth); err != nil {
		return fmt.Errorf("failed to commit merged report: %w", err)
	}

	committed = true
	return nil
}
