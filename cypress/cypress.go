package cypress

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bitrise-io/go-utils/errorutil"
	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/log"
	version "github.com/hashicorp/go-version"
)

const (
	npx = "npx"

	minSupportedMajorVersion = 10

	// ShardFilePattern is the mocha-junit file name template, the reporter replaces [hash] per spec file.
	ShardFilePattern = "test-results.[hash].xml"
)

var versionPattern = regexp.MustCompile(`(?m)^Cypress package version:\s*(\S+)`)

// Output ...
type Output struct {
	RawOut   []byte
	ExitCode int
}

// RunParams ...
type RunParams struct {
	WorkDir   string
	Browser   string
	Spec      string
	FilesDir  string
	ExtraArgs []string
}

// Runner ...
type Runner interface {
	CheckInstall() (*version.Version, error)
	Run(params RunParams) (Output, error)
}

type cypressRunner struct {
	logger         log.Logger
	commandFactory command.Factory
	stdout         io.Writer
}

// NewRunner ...
func NewRunner(logger log.Logger, commandFactory command.Factory) Runner {
	return &cypressRunner{
		logger:         logger,
		commandFactory: commandFactory,
		stdout:         os.Stdout,
	}
}

func (r *cypressRunner) CheckInstall() (*version.Version, error) {
	r.logger.Println()
	r.logger.Infof("Checking test runner (cypress) version")

	versionCmd := r.commandFactory.Create(npx, []string{"cypress", "--version"}, nil)

	out, err := versionCmd.RunAndReturnTrimmedOutput()
	if err != nil {
		if errorutil.IsExitStatusError(err) {
			return nil, fmt.Errorf("cypress version command failed: %w", err)
		}

		return nil, fmt.Errorf("failed to run cypress command: %w", err)
	}

	ver, err := parseVersion(out)
	if err != nil {
		return nil, err
	}

	if ver.Segments()[0] < minSupportedMajorVersion {
		return nil, fmt.Errorf("invalid cypress major version (%d), should not be less then min supported: %d", ver.Segments()[0], minSupportedMajorVersion)
	}

	return ver, nil
}

func (r *cypressRunner) Run(params RunParams) (Output, error) {
	var outBuffer bytes.Buffer
	outWriter := io.MultiWriter(&outBuffer, r.stdout)

	cmd := r.commandFactory.Create(npx, RunArgs(params), &command.Opts{
		Stdout: outWriter,
		Stderr: outWriter,
		Dir:    params.WorkDir,
	})

	r.logger.TPrintf("$ %s", cmd.PrintableCommandArgs())

	exitCode, err := cmd.RunAndReturnExitCode()
	if err != nil && exitCode <= 0 {
		return Output{RawOut: outBuffer.Bytes(), ExitCode: exitCode}, fmt.Errorf("failed to run cypress: %w", err)
	}

	// A positive exit code is the number of failed specs, reported through the result files.
	return Output{
		RawOut:   outBuffer.Bytes(),
		ExitCode: exitCode,
	}, nil
}

// RunArgs builds the npx arguments of a headless junit-reporting run.
func RunArgs(params RunParams) []string {
	reporterOptions := []string{
		"mochaFile=" + filepath.Join(params.FilesDir, ShardFilePattern),
		"testCaseSwitchClassnameAndName=false",
	}

	args := []string{
		"cypress", "run",
		"--browser", params.Browser,
		"--headless",
		"--spec", params.Spec,
		"--reporter", "junit",
		"--reporter-options", strings.Join(reporterOptions, ","),
	}

	return append(args, params.ExtraArgs...)
}

func parseVersion(out string) (*version.Version, error) {
	raw := strings.TrimSpace(out)
	if match := versionPattern.FindStringSubmatch(out); match != nil {
		raw = match[1]
	}

	ver, err := version.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cypress version (%s): %w", out, err)
	}

	return ver, nil
}
