package step

import (
	"errors"
	"fmt"
	"os/user"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/kballard/go-shellquote"
)

const (
	defaultTestEnvironment = "staging"
	defaultBrowseURL       = "https://viaphoton.atlassian.net/browse"
	defaultResultsDir      = "results"
	defaultBrowser         = "electron"
	defaultSpecs           = "cypress/e2e/**/*"

	ciUserName      = "Root"
	ciTriggeredBy   = "GitLab CI"
	ticketKeySuffix = "_TICKET"
)

// ErrRequired ...
var ErrRequired = errors.New("required variable is not present")

// ConfigError is a missing or invalid configuration variable, the run cannot start.
type ConfigError struct {
	Variable string
	Err      error
}

func (e *ConfigError) Error() string {
	if e.Variable == "" {
		return fmt.Sprintf("invalid configuration: %s", e.Err)
	}
	if errors.Is(e.Err, ErrRequired) {
		return fmt.Sprintf("%s is required to be in .env file!", e.Variable)
	}
	return fmt.Sprintf("invalid configuration (%s): %s", e.Variable, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Input ...
type Input struct {
	TestEnvironment string `env:"TEST_ENVIRONMENT"`

	// Issue tracker
	XrayCloudJiraURL string          `env:"XRAY_CLOUD_JIRA_URL,required"`
	XrayCloudAuthURL string          `env:"XRAY_CLOUD_AUTH_URL,required"`
	XrayClientID     string          `env:"XRAY_CLIENT_ID,required"`
	XrayClientSecret stepconf.Secret `env:"XRAY_CLIENT_SECRET,required"`
	JiraBrowseURL    string          `env:"JIRA_BROWSE_URL"`

	// Chat
	SlackWebhooks       []string        `env:"SLACK_WEBHOOK_INTERNAL,required"`
	SlackPostMessageURL string          `env:"SLACK_POST_MESSAGE_URL,required"`
	SlackAccessToken    stepconf.Secret `env:"SLACK_ACCESS_TOKEN,required"`
	SlackChannelID      string          `env:"SLACK_CHANNEL_ID,required"`

	// Module under test
	TestModuleName  string          `env:"TEST_MODULE_NAME,required"`
	GitlabProjectID string          `env:"GITLAB_PROJECT_ID,required"`
	PrivateToken    stepconf.Secret `env:"PRIVATE_TOKEN,required"`
	GitlabTagsURL   string          `env:"GITLAB_TAGS_URL,required"`
	GitlabUserName  string          `env:"GITLAB_USER_NAME"`

	// CI decoration
	CIJobURL       string `env:"CI_JOB_URL"`
	CIJobName      string `env:"CI_JOB_NAME"`
	CICommitBranch string `env:"CI_COMMIT_BRANCH"`

	// Test runner
	ResultsDir      string `env:"CYPRESS_RESULTS_DIR"`
	Browser         string `env:"CYPRESS_BROWSER"`
	SmokeSpecs      string `env:"CYPRESS_SMOKE_SPECS"`
	RegressionSpecs string `env:"CYPRESS_REGRESSION_SPECS"`
	SingleSpec      string `env:"CYPRESS_SINGLE_SPEC"`
	CypressOptions  string `env:"CYPRESS_OPTIONS"`

	// Output export
	PushgatewayURL string `env:"PROMETHEUS_PUSHGATEWAY_URL"`
	DeployDir      string `env:"E2E_DEPLOY_DIR"`

	// Debug
	Verbose bool `env:"VERBOSE"`
}

// Config ...
type Config struct {
	Mode        Mode
	TestSet     string
	Spec        string
	PreferCache bool

	Environment string
	Ticket      string

	XrayCloudURL     string
	XrayAuthURL      string
	XrayClientID     string
	XrayClientSecret string
	BrowseURL        string

	SlackWebhooks       []string
	SlackPostMessageURL string
	SlackAccessToken    string
	SlackChannelID      string

	ModuleName      string
	GitlabProjectID string
	PrivateToken    string
	GitlabTagsURL   string
	TriggeredBy     string

	CIJobURL       string
	CIJobName      string
	CICommitBranch string

	ResultsDir     string
	Browser        string
	CypressOptions []string

	PushgatewayURL string
	DeployDir      string
}

// E2EConfigParser ...
type E2EConfigParser struct {
	inputParser   stepconf.InputParser
	envRepository env.Repository
	logger        log.Logger
	pathModifier  pathutil.PathModifier
	osUsername    func() (string, error)
}

// NewE2EConfigParser ...
func NewE2EConfigParser(inputParser stepconf.InputParser, envRepository env.Repository, logger log.Logger, pathModifier pathutil.PathModifier) E2EConfigParser {
	return E2EConfigParser{
		inputParser:   inputParser,
		envRepository: envRepository,
		logger:        logger,
		pathModifier:  pathModifier,
		osUsername:    currentOSUsername,
	}
}

// ProcessConfig ...
func (p E2EConfigParser) ProcessConfig(mode Mode, preferCache bool) (Config, error) {
	var input Input
	if err := p.inputParser.Parse(&input); err != nil {
		return Config{}, &ConfigError{Err: err}
	}

	stepconf.Print(input)
	p.logger.Println()

	p.logger.EnableDebugLog(input.Verbose)

	environment := valueOrDefault(input.TestEnvironment, defaultTestEnvironment)
	ticketKey := strings.ToUpper(environment) + ticketKeySuffix
	ticket := p.envRepository.Get(ticketKey)
	if ticket == "" {
		return Config{}, &ConfigError{Variable: ticketKey, Err: ErrRequired}
	}

	spec, testSet := mode.Spec(input), mode.TestSet()
	if spec == "" {
		return Config{}, &ConfigError{Variable: "CYPRESS_SINGLE_SPEC", Err: ErrRequired}
	}

	cypressOptions, err := shellquote.Split(input.CypressOptions)
	if err != nil {
		return Config{}, &ConfigError{Variable: "CYPRESS_OPTIONS", Err: fmt.Errorf("provided options (%s) are not shell-quoted: %w", input.CypressOptions, err)}
	}

	resultsDir, err := p.pathModifier.AbsPath(valueOrDefault(input.ResultsDir, defaultResultsDir))
	if err != nil {
		return Config{}, &ConfigError{Variable: "CYPRESS_RESULTS_DIR", Err: err}
	}

	triggeredBy := input.GitlabUserName
	if triggeredBy == "" {
		username, err := p.osUsername()
		if err != nil {
			p.logger.Warnf("Failed to get the current user: %s", err)
		}
		triggeredBy = TriggeredBy(username)
	}

	p.logger.Printf("- environment: %s (%s)", environment, ticket)
	p.logger.Printf("- test set: %s (%s)", testSet, spec)
	p.logger.Printf("- triggered by: %s", triggeredBy)
	p.logger.Println()

	return Config{
		Mode:        mode,
		TestSet:     testSet,
		Spec:        spec,
		PreferCache: preferCache,

		Environment: environment,
		Ticket:      ticket,

		XrayCloudURL:     input.XrayCloudJiraURL,
		XrayAuthURL:      input.XrayCloudAuthURL,
		XrayClientID:     input.XrayClientID,
		XrayClientSecret: string(input.XrayClientSecret),
		BrowseURL:        valueOrDefault(input.JiraBrowseURL, defaultBrowseURL),

		SlackWebhooks:       nonEmpty(input.SlackWebhooks),
		SlackPostMessageURL: input.SlackPostMessageURL,
		SlackAccessToken:    string(input.SlackAccessToken),
		SlackChannelID:      input.SlackChannelID,

		ModuleName:      input.TestModuleName,
		GitlabProjectID: input.GitlabProjectID,
		PrivateToken:    string(input.PrivateToken),
		GitlabTagsURL:   input.GitlabTagsURL,
		TriggeredBy:     triggeredBy,

		CIJobURL:       input.CIJobURL,
		CIJobName:      input.CIJobName,
		CICommitBranch: input.CICommitBranch,

		ResultsDir:     resultsDir,
		Browser:        valueOrDefault(input.Browser, defaultBrowser),
		CypressOptions: cypressOptions,

		PushgatewayURL: input.PushgatewayURL,
		DeployDir:      input.DeployDir,
	}, nil
}

// TriggeredBy names who started the run from the OS user name; CI runners run as root.
func TriggeredBy(username string) string {
	name := capitalize(username)
	if name == ciUserName {
		return ciTriggeredBy
	}
	return name
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func currentOSUsername() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return u.Username, nil
}

func valueOrDefault(value, defaultValue string) string {
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	return value
}

func nonEmpty(values []string) []string {
	var filtered []string
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			filtered = append(filtered, value)
		}
	}
	return filtered
}
