package cmd

import (
	"fmt"
	"os"

	"github.com/kweku404/intervue/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  "View and update configuration settings",
}

var validConfigKeys = []string{"openai_key", "anthropic_key", "ai_provider", "default_model", "ollama_url", "lmstudio_url"}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(titleStyle.Render("Configuration"))
		fmt.Printf("%s %s\n", labelStyle.Render("Config File:"), config.GetConfigPath())
		fmt.Printf("%s %s\n", labelStyle.Render("AI Provider:"), config.AppConfig.AIProvider)
		fmt.Printf("%s %s\n", labelStyle.Render("Default Model:"), config.AppConfig.DefaultModel)

		// Show if API keys are configured (but don't show the actual keys)
		if config.AppConfig.OpenAIKey != "" {
			fmt.Printf("%s %s\n", labelStyle.Render("OpenAI Key:"), "✓ Configured")
		} else {
			fmt.Printf("%s %s\n", labelStyle.Render("OpenAI Key:"), "✗ Not configured")
		}

		if config.AppConfig.AnthropicKey != "" {
			fmt.Printf("%s %s\n", labelStyle.Render("Anthropic Key:"), "✓ Configured")
		} else {
			fmt.Printf("%s %s\n", labelStyle.Render("Anthropic Key:"), "✗ Not configured")
		}
	},
}

var setConfigCmd = &cobra.Command{
	Use:   "set",
	Short: "Update a configuration value",
	Example: `  intervue config set --key openai_key --value sk-...
  intervue config set --key ai_provider --value anthropic
  intervue config set --key default_model --value gpt-4o`,
	Run: func(cmd *cobra.Command, args []string) {
		key, _ := cmd.Flags().GetString("key")
		value, _ := cmd.Flags().GetString("value")

		if key == "" || value == "" {
			fmt.Println("Both --key and --value are required")
			return
		}

		if !isValidConfigKey(key) {
			fmt.Printf("Invalid key. Must be one of: %v\n", validConfigKeys)
			return
		}

		if err := config.Set(key, value); err != nil {
			fmt.Fprintf(os.Stderr, "Error updating config: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("✓ Configuration updated: %s\n", key)

		// Reload config
		if err := config.Initialize(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Could not reload config: %v\n", err)
		}
	},
}

var getConfigCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Read a configuration value",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]
		if !isValidConfigKey(key) {
			fmt.Printf("Invalid key. Must be one of: %v\n", validConfigKeys)
			return
		}
		fmt.Println(config.Get(key))
	},
}

func isValidConfigKey(key string) bool {
	for _, k := range validConfigKeys {
		if k == key {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(showConfigCmd)
	configCmd.AddCommand(setConfigCmd)
	configCmd.AddCommand(getConfigCmd)

	// Flags for set command
	setConfigCmd.Flags().String("key", "", "Configuration key")
	setConfigCmd.Flags().String("value", "", "Configuration value")
}
