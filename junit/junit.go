package junit

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Timestamp layouts written by the mocha junit reporter and by other JUnit producers.
var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

// Report is a result file root (<testsuites>).
type Report struct {
	XMLName  xml.Name `xml:"testsuites"`
	Name     string   `xml:"name,attr,omitempty"`
	Tests    int      `xml:"tests,attr"`
	Failures int      `xml:"failures,attr"`
	Errors   int      `xml:"errors,attr,omitempty"`
	Skipped  int      `xml:"skipped,attr,omitempty"`
	Time     float64  `xml:"time,attr"`
	Suites   []Suite  `xml:"testsuite"`
}

// Suite ...
type Suite struct {
	XMLName   xml.Name   `xml:"testsuite"`
	Name      string     `xml:"name,attr"`
	Timestamp string     `xml:"timestamp,attr,omitempty"`
	Tests     int        `xml:"tests,attr"`
	Failures  int        `xml:"failures,attr"`
	Errors    int        `xml:"errors,attr,omitempty"`
	Skipped   int        `xml:"skipped,attr,omitempty"`
	Time      float64    `xml:"time,attr"`
	File      string     `xml:"file,attr,omitempty"`
	TestCases []TestCase `xml:"testcase"`
}

// TestCase ...
type TestCase struct {
	XMLName   xml.Name `xml:"testcase"`
	Name      string   `xml:"name,attr"`
	ClassName string   `xml:"classname,attr"`
	Time      float64  `xml:"time,attr"`
	Failure   *Failure `xml:"failure,omitempty"`
	Skipped   *Skipped `xml:"skipped,omitempty"`
}

// Failure ...
type Failure struct {
	XMLName xml.Name `xml:"failure"`
	Type    string   `xml:"type,attr,omitempty"`
	Message string   `xml:"message,attr,omitempty"`
	Value   string   `xml:",chardata"`
}

// Skipped ...
type Skipped struct {
	XMLName xml.Name `xml:"skipped"`
	Message string   `xml:"message,attr,omitempty"`
}

// ErrNoContextSuite is returned when a report has no suite carrying the spec file path.
var ErrNoContextSuite = errors.New("no context suite (testsuite with a file attribute) found")

// ErrTrailingContent is returned when a document continues after its root element.
var ErrTrailingContent = errors.New("content after the root element")

// Decode reads a single result document. Only comments, processing instructions and
// whitespace may follow the root element.
func Decode(r io.Reader) (Report, error) {
	decoder := xml.NewDecoder(r)

	var report Report
	if err := decoder.Decode(&report); err != nil {
		return Report{}, err
	}

	if err := ensureEnd(decoder); err != nil {
		return Report{}, err
	}
	return report, nil
}

func ensureEnd(decoder *xml.Decoder) error {
	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch t := token.(type) {
		case xml.StartElement:
			return fmt.Errorf("%w: element <%s>", ErrTrailingContent, t.Name.Local)
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return fmt.Errorf("%w: text %q", ErrTrailingContent, strings.TrimSpace(string(t)))
			}
		case xml.Directive:
			return fmt.Errorf("%w: directive", ErrTrailingContent)
		}
	}
}

// DecodeFile ...
func DecodeFile(pth string) (Report, error) {
	f, err := os.Open(pth)
	if err != nil {
		return Report{}, err
	}
	defer func() {
		_ = f.Close()
	}()

	return Decode(f)
}

// Failed reports whether the runner flagged the document as failing.
func (r Report) Failed() bool {
	return r.Failures > 0
}

// ContextSuite returns the suite that carries the spec file metadata.
// The mocha junit reporter writes it first, as the root suite of the spec file.
func (r Report) ContextSuite() (Suite, error) {
	if len(r.Suites) == 0 || r.Suites[0].File == "" {
		return Suite{}, ErrNoContextSuite
	}
	return r.Suites[0], nil
}

// AssertionSuites returns every suite except the context suite.
func (r Report) AssertionSuites() []Suite {
	if _, err := r.ContextSuite(); err != nil {
		return r.Suites
	}
	return r.Suites[1:]
}

// HasFailure is true iff at least one case carries a non-empty failure.
func (s Suite) HasFailure() bool {
	for _, tc := range s.TestCases {
		if tc.Failure.IsEmpty() {
			continue
		}
		return true
	}
	return false
}

// ParsedTimestamp ...
func (s Suite) ParsedTimestamp() (time.Time, error) {
	if s.Timestamp == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s.Timestamp); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp format: %s", s.Timestamp)
}

// Duration converts the suite's time attribute (seconds).
func (s Suite) Duration() time.Duration {
	return secondsToDuration(s.Time)
}

// Duration converts the case's time attribute (seconds).
func (tc TestCase) Duration() time.Duration {
	return secondsToDuration(tc.Time)
}

// DisplayName prefers the classname, which mocha sets to the test title.
func (tc TestCase) DisplayName() string {
	if tc.ClassName != "" {
		return tc.ClassName
	}
	return tc.Name
}

// IsEmpty ...
func (f *Failure) IsEmpty() bool {
	if f == nil {
		return true
	}
	return f.Type == "" && f.Message == "" && strings.TrimSpace(f.Value) == ""
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
