package cli

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/branchflow/branchflow/config"
	"github.com/branchflow/branchflow/flow"
	"github.com/branchflow/branchflow/git"
	"github.com/branchflow/branchflow/logging"
)

// CommandOptions holds common options for branchflow commands
type CommandOptions struct {
	ConfigFile string
	Verbose    bool
	JSONOutput bool
}

// NewStandardCommand creates a new command with standard branchflow flags
func NewStandardCommand(use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
	}

	// Standard flags for all subcommands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to branchflow.yml config file")

	return cmd
}

// GetLogger creates a logger based on command flags
func GetLogger(cmd *cobra.Command) *logrus.Logger {
	entry := logging.NewLogger("cli")
	logger := entry.Logger

	var opts []LoggerOption
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		opts = append(opts, WithLevel(logrus.DebugLevel))
	}
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		opts = append(opts, WithFormatter(&logrus.JSONFormatter{}))
	}
	Apply(logger, opts...)

	return logger
}

// GetOptions extracts common options from a command
func GetOptions(cmd *cobra.Command) CommandOptions {
	configFile, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	return CommandOptions{
		ConfigFile: configFile,
		Verbose:    verbose,
		JSONOutput: jsonOutput,
	}
}

// OpenStore resolves the configuration store from the --config flag or the
// usual discovery path. A missing file loads as the default seed.
func OpenStore(cmd *cobra.Command) (config.Store, error) {
	opts := GetOptions(cmd)
	if opts.ConfigFile != "" {
		return config.WithDefaults(config.NewFileStore(opts.ConfigFile)), nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return config.WithDefaults(config.DefaultStore(cwd)), nil
}

// NewEngine builds a workflow engine rooted at the working directory
func NewEngine(cmd *cobra.Command) (*flow.Engine, error) {
	store, err := OpenStore(cmd)
	if err != nil {
		return nil, err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return flow.New(git.Open(cwd), store), nil
}
