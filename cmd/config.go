package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/ionut-t/nlsql/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// configFlags are the string keys settable from the command line, in the
// order they are reported.
var configFlags = []struct {
	key   string
	short string
	usage string
}{
	{config.EditorKey, "e", "Set the editor to use for editing config"},
	{config.LLMProviderKey, "p", "Set the LLM provider (ollama, gemini, vertexai)"},
	{config.LLMModelKey, "m", "Set the LLM model"},
	{config.OllamaHostKey, "H", "Set the Ollama host"},
	{config.KeepAliveKey, "k", "Set how long the backend keeps the model loaded (e.g. 24h)"},
	{config.ListenAddrKey, "l", "Set the HTTP listen address"},
	{config.ColumnMappingKey, "c", "Set a YAML file overriding the column mapping"},
	{config.LogLevelKey, "L", "Set the log level (debug, info, warn, error)"},
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := config.InitialiseConfigFile()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := config.GetConfigFilePath()
			out := cmd.OutOrStdout()

			settings := map[string]any{}

			for _, f := range configFlags {
				value, _ := cmd.Flags().GetString(f.key)
				if value == "" {
					continue
				}

				settings[f.key] = value
				fmt.Fprintf(out, "%s set to: %s\n", f.key, value)
			}

			if cmd.Flags().Changed(config.TemperatureKey) {
				temperature, _ := cmd.Flags().GetFloat64(config.TemperatureKey)
				settings[config.TemperatureKey] = temperature
				fmt.Fprintf(out, "%s set to: %v\n", config.TemperatureKey, temperature)
			}

			if len(settings) == 0 {
				return openInEditor(configPath)
			}

			for key, value := range settings {
				viper.Set(key, value)
			}

			if _, err := config.Load(viper.GetViper()); err != nil {
				return err
			}

			return config.SaveSettings(configPath, settings)
		},
	}

	for _, f := range configFlags {
		cmd.Flags().StringP(f.key, f.short, "", f.usage)
	}
	cmd.Flags().Float64(config.TemperatureKey, 0, "Set the sampling temperature")

	return cmd
}

func openInEditor(configPath string) error {
	editor := config.GetEditor()

	cmd := exec.Command(editor, configPath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("error opening editor: %w", err)
	}

	return nil
}
