package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	orderflow "github.com/nexustrade/orderflow"
	"github.com/nexustrade/orderflow/internal/config"
	"github.com/nexustrade/orderflow/internal/logging"
	"github.com/nexustrade/orderflow/pkg/adapters/csvfile"
	"github.com/nexustrade/orderflow/pkg/adapters/openai"
	redisstore "github.com/nexustrade/orderflow/pkg/adapters/redis"
	"github.com/nexustrade/orderflow/pkg/ports"
)

var rootCmd = &cobra.Command{
	Use:   "orderflow",
	Short: "Orderflow is a model-driven order processing service",
	Long:  `Orderflow routes natural-language order requests through a fixed workflow: intent extraction, inventory, shipping, payment, and finalization, with a tool-calling loop for cancellations.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the configuration file (YAML or JSON)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

// buildEngine assembles the engine from the configuration file, wiring the
// CSV catalog, the order store (Redis when configured, in-memory otherwise)
// and the chat model client.
func buildEngine(cmd *cobra.Command, jsonLogs bool, extra ...orderflow.Option) (*orderflow.Engine, config.Config, *slog.Logger, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, config.Config{}, nil, err
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := logging.New(level, jsonLogs)

	catalog, err := csvfile.Load(cfg.Data.InventoryPath, cfg.Data.CustomersPath)
	if err != nil {
		return nil, config.Config{}, nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	var store ports.OrderStore
	if cfg.Redis.Addr != "" {
		storeOpts := []redisstore.Option{}
		if cfg.Redis.Prefix != "" {
			storeOpts = append(storeOpts, redisstore.WithPrefix(cfg.Redis.Prefix))
		}
		store = redisstore.New(cfg.Redis.Addr, "", 0, storeOpts...)
		logger.Info("using redis order store", "addr", cfg.Redis.Addr)
	}

	model := openai.New(cfg.Model.BaseURL, cfg.Model.Name,
		openai.WithAPIKey(os.Getenv(cfg.Model.APIKeyEnv)),
		openai.WithTemperature(cfg.Model.Temperature),
	)

	opts := []orderflow.Option{
		orderflow.WithCatalog(catalog),
		orderflow.WithLogger(logger),
		orderflow.WithShippingRates(cfg.Shipping.Rates),
		orderflow.WithDefaultLocation(cfg.Shipping.DefaultLocation),
		orderflow.WithMaxCancelRounds(cfg.Cancel.MaxRounds),
	}
	if store != nil {
		opts = append(opts, orderflow.WithStore(store))
	}
	opts = append(opts, extra...)

	engine, err := orderflow.New(model, opts...)
	if err != nil {
		return nil, config.Config{}, nil, err
	}
	return engine, cfg, logger, nil
}
