package main

import (
	"fmt"
	"os"

	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/spf13/cobra"
	"github.com/viaphoton/e2e-harness/templategen"
)

func main() {
	if err := newCommand(log.NewLogger()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newCommand(logger log.Logger) *cobra.Command {
	cypressDir := env.NewRepository().Get("CYPRESS_DIR")
	if cypressDir == "" {
		cypressDir = "cypress"
	}

	return &cobra.Command{
		Use:   "templategen <testCaseName> [fixture|--fixture]",
		Short: "Scaffolds a new Cypress test case",
		// -h, --help, help and --fixture are positional arguments of the tool.
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, showHelp := templategen.ParseArgs(args)
			if showHelp {
				fmt.Fprint(cmd.OutOrStdout(), templategen.Help())
				return nil
			}

			generator := templategen.NewGenerator(logger, templategen.NewPrompter(), pathutil.NewPathChecker(), fileutil.NewFileManager(), cypressDir)
			result, err := generator.Generate(opts)
			if err != nil {
				logger.Errorf("%s", err)
				fmt.Fprint(cmd.OutOrStdout(), templategen.Help())
				return err
			}

			logger.Println()
			logger.Donef("%d file(s) created, %d already existed", len(result.Created), len(result.Existing))
			return nil
		},
	}
}
