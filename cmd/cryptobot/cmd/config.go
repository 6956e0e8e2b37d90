package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/cryptobot/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage configuration files for the bot.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  cryptobot config init -o bot.yaml
  cryptobot config validate -f bot.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	RunE:  runConfigValidate,
}

var (
	configInitOutput   string
	configValidatePath string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "bot.yaml", "output config file path")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", "", "path to config file (required)")
	configValidateCmd.MarkFlagRequired("file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := cfg.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("Created default configuration: %s\n", configInitOutput)
	fmt.Println("\nEdit the file and run with:")
	fmt.Printf("  cryptobot backtest -f %s --data <bars.csv>\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configValidatePath)
	if err != nil {
		return err
	}

	fmt.Printf("Configuration is valid: %s\n", configValidatePath)
	fmt.Printf("  Symbol:   %s\n", cfg.Trading.Symbol)
	fmt.Printf("  Balance:  %.2f %s\n", cfg.Account.Balance, cfg.Account.QuoteAsset)
	fmt.Printf("  Interval: %s\n", cfg.Trading.Interval)
	fmt.Printf("  Journal:  %s\n", cfg.Journal.Type)
	return nil
}
