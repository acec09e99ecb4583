package step

import (
	"errors"
	"testing"

	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/viaphoton/e2e-harness/step/mocks"
)

type configParserMocks struct {
	pathModifier *mocks.PathModifier
}

func Test_GivenDefaultEnv_WhenParsesConfig_ThenUsesDefaults(t *testing.T) {
	// Given
	configParser, mocks := createConfigParser(t, defaultEnvValues())
	mocks.pathModifier.On("AbsPath", "results").Return("/abs/results", nil)

	// When
	config, err := configParser.ProcessConfig(ModeSmoke, false)

	// Then
	require.NoError(t, err)
	assert.Equal(t, ModeSmoke, config.Mode)
	assert.Equal(t, "Smoke", config.TestSet)
	assert.Equal(t, "cypress/e2e/**/*", config.Spec)
	assert.Equal(t, "staging", config.Environment)
	assert.Equal(t, "QA-100", config.Ticket)
	assert.Equal(t, "https://viaphoton.atlassian.net/browse", config.BrowseURL)
	assert.Equal(t, "electron", config.Browser)
	assert.Equal(t, "/abs/results", config.ResultsDir)
	assert.Equal(t, "Jane", config.TriggeredBy)
	assert.Equal(t, "xray-secret", config.XrayClientSecret)
	assert.Empty(t, config.CypressOptions)
}

func Test_GivenMultipleWebhooks_WhenParsesConfig_ThenSplitsThem(t *testing.T) {
	// Given
	envValues := defaultEnvValues()
	envValues["SLACK_WEBHOOK_INTERNAL"] = "https://hooks.slack.test/a| https://hooks.slack.test/b |"
	configParser, mocks := createConfigParser(t, envValues)
	mocks.pathModifier.On("AbsPath", mock.Anything).Return("/abs/results", nil)

	// When
	config, err := configParser.ProcessConfig(ModeSmoke, false)

	// Then
	require.NoError(t, err)
	assert.Equal(t, []string{"https://hooks.slack.test/a", "https://hooks.slack.test/b"}, config.SlackWebhooks)
}

func Test_GivenProductionEnvironment_WhenParsesConfig_ThenUsesItsTicket(t *testing.T) {
	// Given
	envValues := defaultEnvValues()
	envValues["TEST_ENVIRONMENT"] = "production"
	envValues["PRODUCTION_TICKET"] = "QA-300"
	configParser, mocks := createConfigParser(t, envValues)
	mocks.pathModifier.On("AbsPath", mock.Anything).Return("/abs/results", nil)

	// When
	config, err := configParser.ProcessConfig(ModeRegression, false)

	// Then
	require.NoError(t, err)
	assert.Equal(t, "QA-300", config.Ticket)
	assert.Equal(t, "Regression", config.TestSet)
}

func Test_GivenMissingEnvironmentTicket_WhenParsesConfig_ThenFails(t *testing.T) {
	// Given
	envValues := defaultEnvValues()
	delete(envValues, "STAGING_TICKET")
	configParser, _ := createConfigParser(t, envValues)

	// When
	_, err := configParser.ProcessConfig(ModeSmoke, false)

	// Then
	var configErr *ConfigError
	require.True(t, errors.As(err, &configErr))
	assert.Equal(t, "STAGING_TICKET", configErr.Variable)
	assert.True(t, errors.Is(err, ErrRequired))
	assert.EqualError(t, err, "STAGING_TICKET is required to be in .env file!")
}

func Test_GivenMissingRequiredInput_WhenParsesConfig_ThenFails(t *testing.T) {
	// Given
	envValues := defaultEnvValues()
	delete(envValues, "SLACK_WEBHOOK_INTERNAL")
	configParser, _ := createConfigParser(t, envValues)

	// When
	_, err := configParser.ProcessConfig(ModeSmoke, false)

	// Then
	var configErr *ConfigError
	require.True(t, errors.As(err, &configErr))
	assert.Contains(t, err.Error(), "SLACK_WEBHOOK_INTERNAL")
}

func Test_GivenSingleModeWithoutSpec_WhenParsesConfig_ThenFails(t *testing.T) {
	// Given
	configParser, _ := createConfigParser(t, defaultEnvValues())

	// When
	_, err := configParser.ProcessConfig(ModeSingle, false)

	// Then
	var configErr *ConfigError
	require.True(t, errors.As(err, &configErr))
	assert.Equal(t, "CYPRESS_SINGLE_SPEC", configErr.Variable)
}

func Test_GivenSingleModeWithSpec_WhenParsesConfig_ThenRunsIt(t *testing.T) {
	// Given
	envValues := defaultEnvValues()
	envValues["CYPRESS_SINGLE_SPEC"] = "cypress/e2e/Logs/FOS-889_LogsVerifyingPopupUI.cy.js"
	configParser, mocks := createConfigParser(t, envValues)
	mocks.pathModifier.On("AbsPath", mock.Anything).Return("/abs/results", nil)

	// When
	config, err := configParser.ProcessConfig(ModeSingle, true)

	// Then
	require.NoError(t, err)
	assert.Equal(t, "Specific", config.TestSet)
	assert.Equal(t, "cypress/e2e/Logs/FOS-889_LogsVerifyingPopupUI.cy.js", config.Spec)
	assert.True(t, config.PreferCache)
}

func Test_GivenCypressOptions_WhenParsesConfig_ThenSplitsThemShellStyle(t *testing.T) {
	// Given
	envValues := defaultEnvValues()
	envValues["CYPRESS_OPTIONS"] = `--config "video=false,retries=2" --record`
	configParser, mocks := createConfigParser(t, envValues)
	mocks.pathModifier.On("AbsPath", mock.Anything).Return("/abs/results", nil)

	// When
	config, err := configParser.ProcessConfig(ModeSmoke, false)

	// Then
	require.NoError(t, err)
	assert.Equal(t, []string{"--config", "video=false,retries=2", "--record"}, config.CypressOptions)
}

func Test_GivenUnbalancedCypressOptions_WhenParsesConfig_ThenFails(t *testing.T) {
	// Given
	envValues := defaultEnvValues()
	envValues["CYPRESS_OPTIONS"] = `--config "video=false`
	configParser, _ := createConfigParser(t, envValues)

	// When
	_, err := configParser.ProcessConfig(ModeSmoke, false)

	// Then
	var configErr *ConfigError
	require.True(t, errors.As(err, &configErr))
	assert.Equal(t, "CYPRESS_OPTIONS", configErr.Variable)
}

func Test_GivenNoGitlabUser_WhenRunsAsRoot_ThenTriggeredByCI(t *testing.T) {
	// Given
	envValues := defaultEnvValues()
	delete(envValues, "GITLAB_USER_NAME")
	configParser, mocks := createConfigParser(t, envValues)
	configParser.osUsername = func() (string, error) { return "root", nil }
	mocks.pathModifier.On("AbsPath", mock.Anything).Return("/abs/results", nil)

	// When
	config, err := configParser.ProcessConfig(ModeSmoke, false)

	// Then
	require.NoError(t, err)
	assert.Equal(t, "GitLab CI", config.TriggeredBy)
}

func TestTriggeredBy(t *testing.T) {
	tests := []struct {
		username string
		want     string
	}{
		{username: "root", want: "GitLab CI"},
		{username: "Root", want: "GitLab CI"},
		{username: "jane", want: "Jane"},
		{username: "éva", want: "Éva"},
		{username: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			assert.Equal(t, tt.want, TriggeredBy(tt.username))
		})
	}
}

// Helpers

func defaultEnvValues() map[string]string {
	return map[string]string{
		"TEST_ENVIRONMENT":       "staging",
		"STAGING_TICKET":         "QA-100",
		"XRAY_CLOUD_JIRA_URL":    "https://xray.test/api/v2/import/execution/junit",
		"XRAY_CLOUD_AUTH_URL":    "https://xray.test/api/v2/authenticate",
		"XRAY_CLIENT_ID":         "xray-id",
		"XRAY_CLIENT_SECRET":     "xray-secret",
		"SLACK_WEBHOOK_INTERNAL": "https://hooks.slack.test/a",
		"SLACK_POST_MESSAGE_URL": "https://slack.test/api/chat.postMessage",
		"SLACK_ACCESS_TOKEN":     "xoxb-token",
		"SLACK_CHANNEL_ID":       "C0123",
		"TEST_MODULE_NAME":       "floor-tracking",
		"GITLAB_PROJECT_ID":      "42",
		"PRIVATE_TOKEN":          "glpat-token",
		"GITLAB_TAGS_URL":        "https://gitlab.test/api/v4/projects/GITLAB_PROJECT_ID/repository/tags",
		"GITLAB_USER_NAME":       "Jane",
	}
}

func createConfigParser(t *testing.T, envValues map[string]string) (E2EConfigParser, configParserMocks) {
	envRepository := mocks.NewRepository(t)

	if envValues != nil {
		call := envRepository.On("Get", mock.Anything)
		call.RunFn = func(arguments mock.Arguments) {
			key := arguments[0].(string)
			value := envValues[key]
			call.ReturnArguments = mock.Arguments{value, nil}
		}
	}

	logger := log.NewLogger()
	inputParser := stepconf.NewInputParser(envRepository)
	pathModifier := mocks.NewPathModifier(t)

	configParser := NewE2EConfigParser(inputParser, envRepository, logger, pathModifier)
	mocks := configParserMocks{
		pathModifier: pathModifier,
	}

	return configParser, mocks
}
