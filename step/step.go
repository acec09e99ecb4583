package step

import (
	"context"
	"fmt"
	"os"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/viaphoton/e2e-harness/cypress"
	"github.com/viaphoton/e2e-harness/fileremover"
	"github.com/viaphoton/e2e-harness/gitlab"
	"github.com/viaphoton/e2e-harness/junit"
	"github.com/viaphoton/e2e-harness/metrics"
	"github.com/viaphoton/e2e-harness/output"
	"github.com/viaphoton/e2e-harness/report"
	"github.com/viaphoton/e2e-harness/slack"
	"github.com/viaphoton/e2e-harness/xray"
)

// E2ETestRunner ...
type E2ETestRunner struct {
	logger          log.Logger
	testRunner      cypress.Runner
	fileRemover     fileremover.FileRemover
	tracker         xray.Client
	notifier        slack.Notifier
	versionProvider gitlab.VersionProvider
	metricsPusher   metrics.Pusher
	outputExporter  output.Exporter
}

// NewE2ETestRunner builds the run pipeline, metricsPusher may be nil when no gateway is configured.
func NewE2ETestRunner(logger log.Logger, testRunner cypress.Runner, fileRemover fileremover.FileRemover, tracker xray.Client, notifier slack.Notifier, versionProvider gitlab.VersionProvider, metricsPusher metrics.Pusher, outputExporter output.Exporter) E2ETestRunner {
	return E2ETestRunner{
		logger:          logger,
		testRunner:      testRunner,
		fileRemover:     fileRemover,
		tracker:         tracker,
		notifier:        notifier,
		versionProvider: versionProvider,
		metricsPusher:   metricsPusher,
		outputExporter:  outputExporter,
	}
}

// Result ...
type Result struct {
	RunnerOutput   string
	RunnerExitCode int

	FilesDir         string
	ShardFiles       []string
	MergedReportPath string
	Merged           bool

	Stats         report.Stats
	Failures      []report.FailedCase
	TrackerKey    string
	ModuleVersion string
}

// Failed reports whether the run had failing tests.
func (r Result) Failed() bool {
	return r.RunnerExitCode > 0 || r.Stats.Failed > 0
}

// InstallDeps ...
func (s E2ETestRunner) InstallDeps(cfg Config) error {
	if cfg.PreferCache {
		return nil
	}

	cypressVersion, err := s.testRunner.CheckInstall()
	if err != nil {
		return fmt.Errorf("an error occurred during checking the test runner: %w", err)
	}
	s.logger.Printf("- cypressVersion: %s", cypressVersion.String())
	s.logger.Println()

	return nil
}

// Run executes the specs of the mode, merges their result files and reports the outcome.
// Only a failing runner and a failing merge abort the run, the notifications are best-effort.
func (s E2ETestRunner) Run(ctx context.Context, cfg Config) (Result, error) {
	result := Result{
		FilesDir:         report.ShardFilesPath(cfg.ResultsDir),
		MergedReportPath: report.MergedReportPath(cfg.ResultsDir),
	}

	if cfg.PreferCache {
		s.logger.Infof("Reusing the result files of the previous run (%s)", result.FilesDir)
	} else {
		if err := s.runTests(cfg, &result); err != nil {
			return result, err
		}
	}

	shards, err := report.CollectShardFiles(cfg.ResultsDir)
	if err != nil {
		return result, fmt.Errorf("failed to list result files: %w", err)
	}
	result.ShardFiles = shards
	if len(shards) == 0 {
		s.logger.Warnf("No result files found in %s", result.FilesDir)
	}

	summary, err := report.Merge(shards, result.MergedReportPath)
	if err != nil {
		s.logger.Errorf("Merging Files Failed!")
		return result, err
	}
	result.Merged = true
	s.logger.Donef("Merging Files Successful!")
	s.logger.Debugf("Merged %d file(s), %d suite(s), %d test(s) into %s", summary.Files, summary.Suites, summary.Tests, result.MergedReportPath)

	merged, err := junit.DecodeFile(result.MergedReportPath)
	if err != nil {
		return result, &report.ParseError{Path: result.MergedReportPath, Err: err}
	}
	result.Stats = report.ComputeStats(merged)

	s.logger.Println()
	s.logger.Printf("%s", resultsTable(merged, result.Stats))

	result.TrackerKey = s.postResults(ctx, cfg, result.MergedReportPath)

	if cfg.Mode.Announces() {
		s.announce(ctx, cfg, &result)
	}

	s.pushMetrics(ctx, cfg, result.Stats)

	return result, nil
}

// Export ...
func (s E2ETestRunner) Export(cfg Config, result Result) error {
	if cfg.DeployDir == "" {
		s.logger.Debugf("No deploy dir configured, skipping exports")
		return nil
	}

	s.logger.Println()
	s.logger.Infof("Exporting outputs")

	s.outputExporter.ExportTestRunResult(cfg.DeployDir, result.Failed())

	if result.Merged {
		if err := s.outputExporter.ExportMergedReport(cfg.DeployDir, result.MergedReportPath); err != nil {
			return err
		}
	}

	if len(result.ShardFiles) > 0 {
		if err := s.outputExporter.ExportResultsArchive(cfg.DeployDir, result.FilesDir); err != nil {
			return err
		}
	}

	if result.RunnerOutput != "" {
		if err := s.outputExporter.ExportRunnerLog(cfg.DeployDir, result.RunnerOutput); err != nil {
			return err
		}
	}

	s.logger.Donef("Outputs are available in %s", cfg.DeployDir)

	return nil
}

func (s E2ETestRunner) runTests(cfg Config, result *Result) error {
	if err := s.fileRemover.RemoveAll(cfg.ResultsDir); err != nil {
		return fmt.Errorf("failed to remove previous results: %w", err)
	}
	if err := s.fileRemover.ResetDir(result.FilesDir); err != nil {
		return err
	}

	s.logger.Infof("Running %s Test(s)!", cfg.TestSet)

	out, err := s.testRunner.Run(cypress.RunParams{
		Browser:   cfg.Browser,
		Spec:      cfg.Spec,
		FilesDir:  result.FilesDir,
		ExtraArgs: cfg.CypressOptions,
	})
	result.RunnerOutput = string(out.RawOut)
	result.RunnerExitCode = out.ExitCode

	if err != nil {
		s.printLastLinesOfRunnerLog(result.RunnerOutput, false)
		return fmt.Errorf("test runner failed: %w", err)
	}
	if out.ExitCode > 0 {
		s.logger.Warnf("%d spec(s) failed", out.ExitCode)
	}

	return nil
}

func (s E2ETestRunner) postResults(ctx context.Context, cfg Config, mergedReportPath string) string {
	s.logger.Println()
	s.logger.Infof("Posting results to Jira (%s)", cfg.Ticket)

	token, err := s.tracker.Authenticate(ctx)
	if err != nil {
		s.logger.Warnf("Auth failed with XRay: %s", err)
		return ""
	}
	s.logger.Donef("Auth with XRay Successful!")

	content, err := os.ReadFile(mergedReportPath)
	if err != nil {
		s.logger.Warnf("Unable to read the merged report: %s", err)
		return ""
	}

	imported, err := s.tracker.ImportResults(ctx, token, cfg.Ticket, content)
	if err != nil {
		s.logger.Warnf("Unable to post results to Jira: %s", err)
		return ""
	}
	s.logger.Donef("Posting Results to Jira Successful! (%s)", imported.Key)

	return imported.Key
}

func (s E2ETestRunner) announce(ctx context.Context, cfg Config, result *Result) {
	s.logger.Println()
	s.logger.Infof("Announcing results")

	moduleVersion, err := s.versionProvider.LatestVersion(ctx)
	if err != nil {
		s.logger.Warnf("Unable to get project version: %s", err)
	} else {
		moduleVersion = gitlab.NormalizeVersion(moduleVersion)
	}
	result.ModuleVersion = moduleVersion
	s.logger.Printf("- version: %s", moduleVersion)

	msg, err := slack.SummaryMessage(slack.Summary{
		Branch:        cfg.CICommitBranch,
		JobName:       cfg.CIJobName,
		JobURL:        cfg.CIJobURL,
		ModuleName:    cfg.ModuleName,
		ModuleVersion: moduleVersion,
		TriggeredBy:   cfg.TriggeredBy,
		Environment:   cfg.Environment,
		TestSet:       cfg.TestSet,
		Ticket:        cfg.Ticket,
		BrowseURL:     cfg.BrowseURL,
		Stats:         result.Stats,
	})
	if err != nil {
		s.logger.Errorf("%s", err)
		return
	}

	for i, err := range s.notifier.PostWebhooks(ctx, cfg.SlackWebhooks, msg) {
		if err != nil {
			s.logger.Warnf("Failed to post to webhook #%d: %s", i+1, err)
		}
	}

	thread, err := s.notifier.PostMessage(ctx, msg)
	if err != nil {
		s.logger.Warnf("Error while sending stats message: %s", err)
		return
	}
	s.logger.Donef("Posting Stats to Slack Successful!")

	failures, err := report.ExtractFailuresFromReport(result.MergedReportPath)
	if err != nil {
		s.logger.Warnf("Error while replying to stats message: %s", err)
		return
	}
	result.Failures = failures
	if len(failures) == 0 {
		return
	}
	s.logger.Donef("Parsing failed tests list Successful!")
	s.logger.Printf("%s", failuresTable(failures))

	var replyFailed bool
	for _, err := range s.notifier.ReplyFailedList(ctx, thread, failures) {
		if err != nil {
			replyFailed = true
			s.logger.Warnf("Error while replying to stats message: %s", err)
		}
	}
	if !replyFailed {
		s.logger.Donef("Sending failing list as a reply, Successful!")
	}
}

func (s E2ETestRunner) pushMetrics(ctx context.Context, cfg Config, stats report.Stats) {
	if s.metricsPusher == nil {
		return
	}

	if err := s.metricsPusher.Push(ctx, metrics.NewRun(cfg.Environment, cfg.TestSet), stats); err != nil {
		s.logger.Warnf("%s", err)
		return
	}
	s.logger.Debugf("Run statistics pushed to %s", cfg.PushgatewayURL)
}
