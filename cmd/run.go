// -- cmd/run.go --
package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/perchlabs/deskpilot/internal/agent"
	"github.com/perchlabs/deskpilot/internal/chat"
	"github.com/perchlabs/deskpilot/internal/observability"
	"github.com/perchlabs/deskpilot/internal/scenario"
	"github.com/perchlabs/deskpilot/internal/screen"
	"github.com/perchlabs/deskpilot/internal/tools"
)

var runCmd = &cobra.Command{
	Use:   "run <scenario#>",
	Short: "Run a predefined scenario against the desktop.",
	Long: `Runs the agent loop for the scenario with the given 1-based number.
Use "deskpilot scenarios" to list the available scenarios.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("scenario number must be an integer, got %q", args[0])
		}
		sc, err := scenario.ByIndex(n)
		if err != nil {
			return err
		}

		cfg := appConfig
		logger := observability.GetLogger()
		logger.Info("Running scenario",
			zap.Int("number", n),
			zap.String("name", sc.Name))

		var exchange *chat.ExchangeLog
		if cfg.Agent.ExchangeLog != "" {
			exchange = chat.NewExchangeLog(cfg.Agent.ExchangeLog, cfg.Logger.MaxSize, cfg.Logger.MaxBackups)
			defer exchange.Close()
		}

		client := chat.NewClient(chat.Options{
			Endpoint:    cfg.Model.Endpoint,
			Model:       cfg.Model.Name,
			Timeout:     cfg.Model.Timeout,
			Temperature: cfg.Model.Temperature,
			MaxTokens:   cfg.Model.MaxTokens,
			Exchange:    exchange,
		}, logger)

		driver, err := screen.NewCDPDriver(cmd.Context(), screen.Options{
			Headless: cfg.Browser.Headless,
			StartURL: cfg.Browser.StartURL,
			ExecArgs: cfg.Browser.ExecArgs,
		}, logger)
		if err != nil {
			return fmt.Errorf("failed to start browser: %w", err)
		}
		defer driver.Close()

		// The geometry holds the last observed screen size; actions before
		// the first capture fall back to a common desktop resolution.
		geo := &screen.Geometry{Width: 1920, Height: 1080}
		dump := &tools.DumpState{
			Dir:       cfg.Capture.DumpDir,
			Prefix:    cfg.Capture.DumpPrefix,
			NextIndex: cfg.Capture.DumpStart,
			TargetW:   cfg.Capture.TargetWidth,
			TargetH:   cfg.Capture.TargetHeight,
		}
		dispatcher := tools.NewDispatcher(driver, geo, dump, logger)

		loop := agent.New(client, dispatcher, tools.Schema(), agent.Options{
			MaxSteps:        cfg.Agent.MaxSteps,
			StepDelay:       cfg.Agent.StepDelay,
			KeepScreenshots: cfg.Agent.KeepScreenshots,
			KeepThinks:      cfg.Agent.KeepThinks,
		}, logger)

		answer, err := loop.Run(cmd.Context(), scenario.SystemPrompt, sc.TaskPrompt)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), answer)
		return nil
	},
}

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List the available scenarios.",
	Run: func(cmd *cobra.Command, _ []string) {
		for i, sc := range scenario.List() {
			fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, sc.Name)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scenariosCmd)
}
