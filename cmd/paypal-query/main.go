package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/brettcs/paypal-rest/internal/cli"
	"github.com/brettcs/paypal-rest/internal/config"
	"github.com/brettcs/paypal-rest/internal/paypal"
)

var (
	cfgFile       string
	configSection string
	beginArg      string
	endArg        string
	txnFieldArgs  []string
	subFieldArgs  []string
	version       = "dev"

	rootCmd = &cobra.Command{
		Use:   "paypal-query [flags] [ID ...]",
		Short: "Query PayPal transactions and subscriptions",
		Long: `paypal-query looks up PayPal transactions and subscriptions through the
REST API and dumps each one as YAML. With no IDs it instead lists every
transaction in the date range (default: the last 24 hours), one summary
per transaction.

The reporting API cannot fetch a transaction by ID, so lookups scan
backward through history in 30-day windows until the ID turns up.`,
		Args:              cobra.ArbitraryArgs,
		PersistentPreRunE: initConfig,
		RunE:              runQuery,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
)

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "C", "", "config file (default: $HOME/.config/paypal-query/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")

	// Bind flags to viper
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))

	// Query flags
	rootCmd.Flags().StringVarP(&configSection, "config-section", "c", config.DefaultSection, "read credentials from this section of the config file")
	rootCmd.Flags().StringVarP(&beginArg, "begin", "b", "", "datetime to begin the search, in ISO 8601 format")
	rootCmd.Flags().StringVarP(&endArg, "end", "e", "", "datetime to end the search, in ISO 8601 format")
	rootCmd.Flags().StringSliceVarP(&txnFieldArgs, "transaction-fields", "T", nil,
		fmt.Sprintf("only show these field group(s) in transaction results; repeatable; choices are %s",
			strings.Join(paypal.TransactionFieldChoices(), ", ")))
	rootCmd.Flags().StringSliceVarP(&subFieldArgs, "subscription-fields", "S", nil,
		fmt.Sprintf("only show these field group(s) in subscription results; repeatable; choices are %s",
			strings.Join(paypal.SubscriptionFieldChoices(), ", ")))

	rootCmd.AddCommand(versionCmd())
}

func main() {
	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel() // Always cleanup

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err.Error()))
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	// Set up config file
	if cfgFile != "" {
		viper.SetConfigFile(config.ExpandPath(cfgFile))
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		// Search for config in standard locations
		viper.AddConfigPath(fmt.Sprintf("%s/.config/paypal-query", home))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("PAYPAL_QUERY")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, credentials may come from the environment
	}

	// Set up logging
	if err := setupLogging(); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	return nil
}

func setupLogging() error {
	level := viper.GetString("logging.level")
	format := viper.GetString("logging.format")

	// Parse log level
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return fmt.Errorf("invalid log level: %s", level)
	}

	// Create handler based on format
	var handler slog.Handler
	opts := &slog.HandlerOptions{
		Level: slogLevel,
	}

	switch format {
	case "console":
		handler = slog.NewTextHandler(os.Stderr, opts)
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("invalid log format: %s", format)
	}

	// Set default logger
	slog.SetDefault(slog.New(handler))

	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			slog.Info("paypal-query version", "version", version)
		},
	}
}
