package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/ziputil"
	"github.com/joho/godotenv"
)

const (
	// DotenvFileName is the file the outputs are collected in, a GitLab dotenv report artifact.
	DotenvFileName = "e2e.env"

	TestResultKey         = "E2E_TEST_RESULT"
	MergedReportPathKey   = "E2E_MERGED_REPORT_PATH"
	ResultsArchivePathKey = "E2E_RESULTS_ARCHIVE_PATH"
	RunnerLogPathKey      = "E2E_RUNNER_LOG_PATH"

	resultsArchiveName = "test-results.zip"
	runnerLogName      = "cypress_run.log"
)

// Exporter ...
type Exporter interface {
	ExportTestRunResult(deployDir string, failed bool)
	ExportMergedReport(deployDir, mergedReportPath string) error
	ExportResultsArchive(deployDir, filesDir string) error
	ExportRunnerLog(deployDir, rawOutput string) error
}

type exporter struct {
	envRepository env.Repository
	logger        log.Logger
	fileManager   fileutil.FileManager
}

// NewExporter ...
func NewExporter(envRepository env.Repository, logger log.Logger, fileManager fileutil.FileManager) Exporter {
	return &exporter{
		envRepository: envRepository,
		logger:        logger,
		fileManager:   fileManager,
	}
}

func (e exporter) ExportTestRunResult(deployDir string, failed bool) {
	status := "succeeded"
	if failed {
		status = "failed"
	}
	if err := e.export(deployDir, TestResultKey, status); err != nil {
		e.logger.Warnf("Failed to export: %s: %s", TestResultKey, err)
	}
}

func (e exporter) ExportMergedReport(deployDir, mergedReportPath string) error {
	if err := os.MkdirAll(deployDir, 0755); err != nil {
		return fmt.Errorf("failed to create deploy dir: %w", err)
	}

	deployPth := filepath.Join(deployDir, filepath.Base(mergedReportPath))
	if err := e.copyFile(mergedReportPath, deployPth); err != nil {
		return fmt.Errorf("failed to copy merged report from (%s) to (%s): %w", mergedReportPath, deployPth, err)
	}

	if err := e.export(deployDir, MergedReportPathKey, deployPth); err != nil {
		e.logger.Warnf("Failed to export: %s: %s", MergedReportPathKey, err)
	}

	return nil
}

func (e exporter) ExportResultsArchive(deployDir, filesDir string) error {
	archivePth := filepath.Join(deployDir, resultsArchiveName)
	if err := ziputil.ZipDir(filesDir, archivePth, true); err != nil {
		return fmt.Errorf("failed to compress result files: %w", err)
	}

	if err := e.export(deployDir, ResultsArchivePathKey, archivePth); err != nil {
		e.logger.Warnf("Failed to export: %s: %s", ResultsArchivePathKey, err)
	}

	return nil
}

func (e exporter) ExportRunnerLog(deployDir, rawOutput string) error {
	pth, err := saveRawOutputToLogFile(rawOutput)
	if err != nil {
		return fmt.Errorf("failed to save the raw output: %w", err)
	}

	if err := os.MkdirAll(deployDir, 0755); err != nil {
		return fmt.Errorf("failed to create deploy dir: %w", err)
	}

	deployPth := filepath.Join(deployDir, runnerLogName)
	if err := e.copyFile(pth, deployPth); err != nil {
		return fmt.Errorf("failed to copy cypress output log file from (%s) to (%s): %w", pth, deployPth, err)
	}

	if err := e.export(deployDir, RunnerLogPathKey, deployPth); err != nil {
		e.logger.Warnf("Failed to export: %s: %s", RunnerLogPathKey, err)
	}

	return nil
}

func (e exporter) copyFile(src, dst string) error {
	return e.fileManager.CopyFile(src, dst, &fileutil.CopyOptions{Overwrite: true})
}

// export sets key for the rest of the process and records it in the deploy dir's dotenv file.
func (e exporter) export(deployDir, key, value string) error {
	if err := e.envRepository.Set(key, value); err != nil {
		return err
	}

	dotenvPth := filepath.Join(deployDir, DotenvFileName)
	values, err := godotenv.Read(dotenvPth)
	if errors.Is(err, os.ErrNotExist) {
		values = map[string]string{}
	} else if err != nil {
		return fmt.Errorf("failed to read %s: %w", dotenvPth, err)
	}

	values[key] = value
	if err := os.MkdirAll(deployDir, 0755); err != nil {
		return err
	}
	return godotenv.Write(values, dotenvPth)
}
