package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/viaphoton/e2e-harness/output/mocks"
)

type testingMocks struct {
	envRepository *mocks.Repository
}

func Test_GivenSuccessfulTest_WhenExportingTestRunResults_ThenSetsEnvVariableToSuccess(t *testing.T) {
	// Given
	deployDir := t.TempDir()
	exporter, mocks := createSutAndMocks()

	// When
	exporter.ExportTestRunResult(deployDir, false)

	// Then
	mocks.envRepository.AssertCalled(t, "Set", TestResultKey, "succeeded")
	assert.Equal(t, map[string]string{TestResultKey: "succeeded"}, readDotenv(t, deployDir))
}

func Test_GivenFailedTest_WhenExportingTestRunResults_ThenSetsEnvVariableToFailure(t *testing.T) {
	// Given
	deployDir := t.TempDir()
	exporter, mocks := createSutAndMocks()

	// When
	exporter.ExportTestRunResult(deployDir, true)

	// Then
	mocks.envRepository.AssertCalled(t, "Set", TestResultKey, "failed")
	assert.Equal(t, map[string]string{TestResultKey: "failed"}, readDotenv(t, deployDir))
}

func Test_GivenMergedReport_WhenExporting_ThenCopiesItAndSetsEnvVariable(t *testing.T) {
	// Given
	tempDir := t.TempDir()
	deployDir := filepath.Join(tempDir, "deploy")
	reportPath := filepath.Join(tempDir, "results", "test-results-all.xml")
	require.NoError(t, fileutil.NewFileManager().Write(reportPath, "<testsuites/>", 0644))

	exporter, mocks := createSutAndMocks()
	exporter.ExportTestRunResult(deployDir, true)

	// When
	err := exporter.ExportMergedReport(deployDir, reportPath)

	// Then
	require.NoError(t, err)
	deployedPath := filepath.Join(deployDir, "test-results-all.xml")
	mocks.envRepository.AssertCalled(t, "Set", MergedReportPathKey, deployedPath)
	assert.True(t, isPathExists(deployedPath))
	assert.Equal(t, map[string]string{
		TestResultKey:       "failed",
		MergedReportPathKey: deployedPath,
	}, readDotenv(t, deployDir))
}

func Test_GivenMissingMergedReport_WhenExporting_ThenFails(t *testing.T) {
	// Given
	deployDir := t.TempDir()
	exporter, mocks := createSutAndMocks()

	// When
	err := exporter.ExportMergedReport(deployDir, filepath.Join(deployDir, "missing.xml"))

	// Then
	require.Error(t, err)
	mocks.envRepository.AssertNotCalled(t, "Set", MergedReportPathKey, mock.Anything)
}

func Test_GivenResultFiles_WhenExportingArchive_ThenZipsThem(t *testing.T) {
	// Given
	tempDir := t.TempDir()
	filesDir := filepath.Join(tempDir, "files")
	shard := filepath.Join(filesDir, "test-results.a1.xml")
	require.NoError(t, fileutil.NewFileManager().Write(shard, "<testsuites/>", 0644))

	exporter, mocks := createSutAndMocks()

	// When
	err := exporter.ExportResultsArchive(tempDir, filesDir)

	// Then
	require.NoError(t, err)
	archivePath := filepath.Join(tempDir, "test-results.zip")
	mocks.envRepository.AssertCalled(t, "Set", ResultsArchivePathKey, archivePath)
	assert.True(t, isPathExists(archivePath))
}

func Test_GivenRunnerLog_WhenExporting_ThenCopiesItAndSetsEnvVariable(t *testing.T) {
	// Given
	deployDir := t.TempDir()
	logPath := filepath.Join(deployDir, "cypress_run.log")

	exporter, mocks := createSutAndMocks()

	// When
	err := exporter.ExportRunnerLog(deployDir, "cypress run log")

	// Then
	require.NoError(t, err)
	mocks.envRepository.AssertCalled(t, "Set", RunnerLogPathKey, logPath)

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, "cypress run log", string(content))
}

func Test_GivenPreviouslyExportedReport_WhenExporting_ThenReplacesIt(t *testing.T) {
	// Given
	tempDir := t.TempDir()
	deployDir := filepath.Join(tempDir, "deploy")
	reportPath := filepath.Join(tempDir, "results", "test-results-all.xml")
	deployedPath := filepath.Join(deployDir, "test-results-all.xml")
	require.NoError(t, fileutil.NewFileManager().Write(reportPath, "<testsuites tests=\"2\"/>", 0644))
	require.NoError(t, fileutil.NewFileManager().Write(deployedPath, "<testsuites tests=\"1\"/>", 0644))

	exporter, _ := createSutAndMocks()

	// When
	err := exporter.ExportMergedReport(deployDir, reportPath)

	// Then
	require.NoError(t, err)
	content, err := os.ReadFile(deployedPath)
	require.NoError(t, err)
	assert.Equal(t, "<testsuites tests=\"2\"/>", string(content))
}

func Test_GivenUnwritableTempDir_WhenExportingRunnerLog_ThenFailsWithSaveError(t *testing.T) {
	// Given
	deployDir := t.TempDir()
	t.Setenv("TMPDIR", filepath.Join(deployDir, "missing"))

	exporter, mocks := createSutAndMocks()

	// When
	err := exporter.ExportRunnerLog(deployDir, "cypress run log")

	// Then
	require.ErrorContains(t, err, "failed to save the raw output")
	mocks.envRepository.AssertNotCalled(t, "Set", RunnerLogPathKey, mock.Anything)
	assert.False(t, isPathExists(filepath.Join(deployDir, "cypress_run.log")))
}

// Helpers

func createSutAndMocks() (Exporter, testingMocks) {
	envRepository := new(mocks.Repository)
	envRepository.On("Set", mock.Anything, mock.Anything).Return(nil)

	exporter := NewExporter(envRepository, log.NewLogger(), fileutil.NewFileManager())

	return exporter, testingMocks{
		envRepository: envRepository,
	}
}

func readDotenv(t *testing.T, deployDir string) map[string]string {
	values, err := godotenv.Read(filepath.Join(deployDir, DotenvFileName))
	require.NoError(t, err)
	return values
}

func isPathExists(path string) bool {
	isExist, _ := pathutil.NewPathChecker().IsPathExists(path)
	return isExist
}
