// Package main provides the CLI entry point for genconf, the
// scenario-driven configuration generator.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/genconf/genconf/generate"
	"github.com/genconf/genconf/log"
	"github.com/genconf/genconf/profile"
	"github.com/genconf/genconf/scenario"
	"github.com/genconf/genconf/schema"
	"github.com/genconf/genconf/version"
)

const defaultConfigPath = "template/scenario/config.json"

func main() {
	logCfg := log.NewConfig()
	profCfg := profile.NewConfig()

	var (
		check   bool
		envFile string
	)

	rootCmd := &cobra.Command{
		Use:   "genconf [flags] [config.json]",
		Short: "Generate YAML and Ansible INI files from scenario schema overlays",
		Long: `genconf merges JSON schema overlays selected by environment triggers and
renders the result as YAML documents and Ansible INI inventories. Outputs
mirror the overlay layout relative to the working directory; existing
files are never overwritten.`,
		Version:       version.String(),
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			handler, err := logCfg.NewHandler(os.Stderr)
			if err != nil {
				return err
			}

			slog.SetDefault(slog.New(handler))

			return nil
		},
		RunE: func(_ *cobra.Command, args []string) error {
			configPath := defaultConfigPath
			if len(args) == 1 {
				configPath = args[0]
			}

			return run(configPath, check, envFile, profCfg)
		},
	}

	rootCmd.Flags().BoolVar(&check, "check", false,
		"validate every schema document referenced by the config instead of generating")
	rootCmd.Flags().StringVar(&envFile, "env-file", "",
		"load additional environment variables from a dotenv file")

	logCfg.RegisterFlags(rootCmd.PersistentFlags())
	profCfg.RegisterFlags(rootCmd.PersistentFlags())

	completionErr := logCfg.RegisterCompletions(rootCmd)
	if completionErr != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", completionErr)
	}

	completionErr = profCfg.RegisterCompletions(rootCmd)
	if completionErr != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", completionErr)
	}

	rootCmd.AddCommand(newSchemaCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, check bool, envFile string, profCfg *profile.Config) error {
	profiler := profCfg.NewProfiler()
	if err := profiler.Start(); err != nil {
		return err
	}

	defer func() {
		if err := profiler.Stop(); err != nil {
			slog.Error("stopping profiler", slog.Any("error", err))
		}
	}()

	fsys := afero.NewOsFs()

	cfg, err := scenario.LoadConfig(fsys, configPath)
	if err != nil {
		return err
	}

	env := scenario.EnvFromOS()

	if envFile != "" {
		fileEnv, err := scenario.ReadEnvFile(fsys, envFile)
		if err != nil {
			return err
		}

		env, err = env.Merge(fileEnv)
		if err != nil {
			return err
		}
	}

	if check {
		return generate.Check(fsys, cfg, env)
	}

	return generate.Run(fsys, cfg, env, "")
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema [document|config]",
		Short: "Print the JSON Schema for schema documents or the orchestrator config",
		Long: `schema prints a JSON Schema (draft-07). "document" describes the schema
document grammar (.yml.json / .ini.json files); "config" describes the
orchestrator config format. The default is "document".`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(_ *cobra.Command, args []string) error {
			which := "document"
			if len(args) == 1 {
				which = args[0]
			}

			var s any

			switch which {
			case "document":
				s = schema.MetaSchema()
			case "config":
				s = schema.ConfigSchema()
			default:
				return fmt.Errorf("unknown schema %q (want %q or %q)", which, "document", "config")
			}

			out, err := json.MarshalIndent(s, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling schema: %w", err)
			}

			out = append(out, '\n')

			_, err = os.Stdout.Write(out)
			if err != nil {
				return fmt.Errorf("writing schema: %w", err)
			}

			return nil
		},
	}
}
