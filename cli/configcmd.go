package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/branchflow/branchflow/config"
	"github.com/branchflow/branchflow/errors"
)

// NewConfigCommand creates the config command group
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and manage the branchflow configuration",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigValidateCommand())
	cmd.AddCommand(newConfigResetCommand())
	cmd.AddCommand(newConfigSchemaCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := OpenStore(cmd)
			if err != nil {
				return err
			}
			cfg, err := store.Load()
			if err != nil {
				return NewErrorHandler(GetOptions(cmd).Verbose).Handle(err)
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func newConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration and report every problem",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := OpenStore(cmd)
			if err != nil {
				return err
			}
			cfg, err := store.Load()
			if err != nil {
				return NewErrorHandler(GetOptions(cmd).Verbose).Handle(err)
			}

			if problems := cfg.Validate(); len(problems) > 0 {
				return NewErrorHandler(GetOptions(cmd).Verbose).Handle(errors.ConfigInvalid(problems))
			}

			fmt.Fprintln(cmd.OutOrStdout(), "✅ Configuration is valid")
			return nil
		},
	}
}

func newConfigResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Replace the configuration with the default seed",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := OpenStore(cmd)
			if err != nil {
				return err
			}

			if err := store.Save(config.Default()); err != nil {
				return NewErrorHandler(GetOptions(cmd).Verbose).Handle(err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "✅ Configuration reset to defaults")
			return nil
		},
	}
}

func newConfigSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.GenerateSchema()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
