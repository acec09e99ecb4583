package output

import (
	"fmt"
	"path/filepath"

	"github.com/bitrise-io/go-utils/fileutil"
	"github.com/bitrise-io/go-utils/pathutil"
)

func saveRawOutputToLogFile(rawOutput string) (string, error) {
	tmpDir, err := pathutil.NormalizedOSTempDirPath("cypress-output")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir, error: %s", err)
	}
	logFileName := "raw-cypress-output.log"
	logPth := filepath.Join(tmpDir, logFileName)
	if err := fileutil.WriteStringToFile(logPth, rawOutput); err != nil {
		return "", fmt.Errorf("failed to write cypress output to file, error: %s", err)
	}

	return logPth, nil
}
