// Package main provides the Proxy Toggle entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rennerdo30/proxy-toggle/internal/api"
	"github.com/rennerdo30/proxy-toggle/internal/config"
	"github.com/rennerdo30/proxy-toggle/internal/logging"
	"github.com/rennerdo30/proxy-toggle/internal/manager"
	"github.com/rennerdo30/proxy-toggle/internal/metrics"
	"github.com/rennerdo30/proxy-toggle/internal/profile"
	"github.com/rennerdo30/proxy-toggle/internal/sysproxy"
	"github.com/rennerdo30/proxy-toggle/internal/tray"
	"github.com/rennerdo30/proxy-toggle/internal/version"
)

var (
	configFile string

	// Config init flags
	initOutput string
	initForce  bool

	rootCmd = &cobra.Command{
		Use:   "proxytoggle",
		Short: "Proxy Toggle",
		Long:  `Proxy Toggle maintains named proxy profiles and switches the operating system's proxy setting between them.`,
		RunE:  run,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (omit to use built-in defaults)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.Full())
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configFile == "" {
				return fmt.Errorf("no config file given (use --config)")
			}
			cfg := config.DefaultAppConfig()
			if err := config.LoadAndValidate(configFile, &cfg); err != nil {
				return fmt.Errorf("configuration invalid: %w", err)
			}
			fmt.Println("Configuration is valid")
			return nil
		},
	})

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a sample configuration file",
		Long: `Generate a sample configuration file with sensible defaults.

The generated configuration includes:
  - The profiles file location
  - The local control API listener
  - System tray, metrics, refresh and logging settings`,
		RunE: runConfigInit,
	}

	initCmd.Flags().StringVarP(&initOutput, "output", "o", "proxytoggle.yaml", "output file path")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing file")

	configCmd.AddCommand(initCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if !initForce {
		if _, err := os.Stat(initOutput); err == nil {
			return fmt.Errorf("file %s already exists (use --force to overwrite)", initOutput)
		}
	}

	cfg := config.DefaultAppConfig()
	if err := config.Save(initOutput, &cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("Generated configuration: %s\n\n", initOutput)
	fmt.Println("Next steps:")
	fmt.Printf("  1. Review and customize the configuration\n")
	fmt.Printf("  2. Start the widget: proxytoggle -c %s\n", initOutput)

	return nil
}

func run(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultAppConfig()
	if configFile != "" {
		if err := config.LoadAndValidate(configFile, &cfg); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}

	if err := logging.Setup(cfg.Logging); err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer logging.Close()

	profilesPath := cfg.Profiles.Path
	if profilesPath == "" {
		var err error
		profilesPath, err = profile.DefaultPath()
		if err != nil {
			return fmt.Errorf("resolve profiles path: %w", err)
		}
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	store := profile.NewStore(profilesPath)
	mgr, err := manager.New(store, sysproxy.New(), manager.WithMetrics(m))
	if err != nil {
		return fmt.Errorf("create manager: %w", err)
	}

	logging.Info("Proxy Toggle started",
		"version", version.Short(),
		"profiles", profilesPath,
		"active_index", mgr.ActiveIndex())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logging.Info("Received signal", "signal", sig)
		cancel()
	}()

	var server *http.Server
	if cfg.API.Enabled {
		a := api.New(api.Config{
			Manager: mgr,
			Metrics: m,
			Token:   cfg.API.Token,
		})
		server = &http.Server{
			Addr:              cfg.API.Listen,
			Handler:           a.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logging.Info("API listening", "address", cfg.API.Listen)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Error("API server failed", "error", err)
				cancel()
			}
		}()
	}

	if cfg.Tray.Enabled {
		t := tray.New(tray.Config{
			Manager:      mgr,
			RefreshEvery: time.Duration(cfg.Refresh.Interval),
			OnQuit:       cancel,
		})
		// Blocks until quit or signal.
		t.Run(ctx)
	} else {
		<-ctx.Done()
	}

	if server != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logging.Warn("API shutdown failed", "error", err)
		}
	}

	logging.Info("Proxy Toggle stopped")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
