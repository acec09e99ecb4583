package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/viaphoton/e2e-harness/cypress"
	"github.com/viaphoton/e2e-harness/fileremover"
	"github.com/viaphoton/e2e-harness/gitlab"
	"github.com/viaphoton/e2e-harness/metrics"
	"github.com/viaphoton/e2e-harness/output"
	"github.com/viaphoton/e2e-harness/slack"
	"github.com/viaphoton/e2e-harness/step"
	"github.com/viaphoton/e2e-harness/xray"
)

var errTestsFailed = errors.New("there are failing tests")

type modeFlag struct {
	mode step.Mode
	set  *bool
}

func main() {
	if err := newRootCommand(log.NewLogger()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(logger log.Logger) *cobra.Command {
	var (
		preferCache bool
		envFile     string
		modeFlags   []modeFlag
	)

	cmd := &cobra.Command{
		Use:   "e2e-harness [smoke|all|post-to-jira|single]",
		Short: "Runs the Cypress E2E suite and reports the results",
		Long: `Runs the Cypress E2E specs of the selected mode, merges the per-spec JUnit result
files, uploads the merged report to Xray and announces the run on Slack.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
				logger.Warnf("Failed to load %s: %s", envFile, err)
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return run(ctx, logger, selectedMode(args, modeFlags), preferCache)
		},
	}

	cmd.Flags().BoolVar(&preferCache, "prefer-cache", false, "skip the test run and report the result files of the previous run")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the configuration is parsed")
	for _, mode := range []step.Mode{step.ModeSmoke, step.ModeRegression, step.ModePostToJira, step.ModeSingle} {
		modeFlags = append(modeFlags, modeFlag{
			mode: mode,
			set:  cmd.Flags().Bool(string(mode), false, "same as the "+string(mode)+" argument"),
		})
	}

	return cmd
}

// selectedMode prefers the positional mode over the mode flags, the first set flag wins.
func selectedMode(args []string, modeFlags []modeFlag) step.Mode {
	if len(args) > 0 {
		return step.ParseMode(args[0])
	}
	for _, flag := range modeFlags {
		if *flag.set {
			return flag.mode
		}
	}
	return step.ModeSmoke
}

func run(ctx context.Context, logger log.Logger, mode step.Mode, preferCache bool) error {
	envRepository := env.NewRepository()
	inputParser := stepconf.NewInputParser(envRepository)
	pathModifier := pathutil.NewPathModifier()

	configParser := step.NewE2EConfigParser(inputParser, envRepository, logger, pathModifier)
	config, err := configParser.ProcessConfig(mode, preferCache)
	if err != nil {
		logger.Errorf("%s", err)
		return err
	}

	e2eTestRunner := createStep(logger, envRepository, config)

	if err := e2eTestRunner.InstallDeps(config); err != nil {
		logger.Errorf("%s", err)
		return err
	}

	result, runErr := e2eTestRunner.Run(ctx, config)

	if err := e2eTestRunner.Export(config, result); err != nil {
		logger.Warnf("Failed to export outputs: %s", err)
	}

	if runErr != nil {
		logger.Errorf("%s", runErr)
		return runErr
	}

	if result.Failed() {
		logger.Println()
		logger.Errorf("%d of %d test(s) failed", result.Stats.Failed, result.Stats.Tests)
		return errTestsFailed
	}

	logger.Println()
	logger.Donef("All tests passed")

	return nil
}

func createStep(logger log.Logger, envRepository env.Repository, config step.Config) step.E2ETestRunner {
	commandFactory := command.NewFactory(envRepository)

	testRunner := cypress.NewRunner(logger, commandFactory)
	fileRemover := fileremover.NewFileRemover()
	tracker := xray.NewClient(config.XrayAuthURL, config.XrayCloudURL, xray.Credentials{
		ClientID:     config.XrayClientID,
		ClientSecret: config.XrayClientSecret,
	})
	notifier := slack.NewNotifier(slack.Config{
		PostMessageURL: config.SlackPostMessageURL,
		AccessToken:    config.SlackAccessToken,
		ChannelID:      config.SlackChannelID,
		BrowseURL:      config.BrowseURL,
	})
	versionProvider := gitlab.NewVersionProvider(config.GitlabTagsURL, config.GitlabProjectID, config.PrivateToken)
	outputExporter := output.NewExporter(envRepository, logger, fileutil.NewFileManager())

	var metricsPusher metrics.Pusher
	if config.PushgatewayURL != "" {
		metricsPusher = metrics.NewPusher(config.PushgatewayURL)
	}

	return step.NewE2ETestRunner(logger, testRunner, fileRemover, tracker, notifier, versionProvider, metricsPusher, outputExporter)
}
