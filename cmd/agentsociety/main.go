// Command agentsociety runs and pokes at networked agents: start a roster
// from YAML, send single frames, and render or evaluate deliberation
// prompts.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/agentsociety/config"
	"github.com/hupe1980/agentsociety/logging"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "agentsociety",
		Short:        "AgentSociety: loopback agents that talk and deliberate",
		Long:         "AgentSociety runs agents that exchange framed messages over loopback TCP and judge plans and results through a reasoning backend.",
		SilenceUsage: true,
	}

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newListenCmd())
	cmd.AddCommand(newTalkCmd())
	cmd.AddCommand(newPromptCmd())
	cmd.AddCommand(newVerdictCmd())
	cmd.AddCommand(newDeliberateCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "agentsociety %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}

// loadConfig reads .env, then the YAML file at path, or the environment
// alone when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if err := config.LoadEnv(); err != nil {
		return nil, err
	}
	if path == "" {
		return config.FromEnv(os.LookupEnv)
	}
	return config.Load(path)
}

func newLogger(cfg config.Logging, out io.Writer) logging.Logger {
	return logging.NewLogger(&logging.LoggerConfig{
		Level:     logging.ParseLevel(cfg.Level),
		Format:    cfg.Format,
		Output:    out,
		AddSource: cfg.AddSource,
	})
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}
