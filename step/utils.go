package step

import (
	"github.com/bitrise-io/go-utils/colorstring"
	"github.com/bitrise-io/go-utils/stringutil"
)

func (s E2ETestRunner) printLastLinesOfRunnerLog(rawOutput string, isRunSuccess bool) {
	const lastLines = "\nLast lines of the test runner log:"
	if !isRunSuccess {
		s.logger.Errorf(lastLines)
	} else {
		s.logger.Infof(lastLines)
	}

	s.logger.Printf("%s", stringutil.LastNLines(rawOutput, 20))

	if !isRunSuccess {
		s.logger.Warnf("If you can't find the reason of the error in the log, please check the cypress_run.log.")
	}

	s.logger.Infof(colorstring.Magenta(`
The log file is stored in $E2E_DEPLOY_DIR, and its full path
is available in the $E2E_RUNNER_LOG_PATH variable of the e2e.env report.`))
}
