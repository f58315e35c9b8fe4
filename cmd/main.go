package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mwielgos/kinoteka/internal/api"
	"github.com/mwielgos/kinoteka/internal/auth"
	"github.com/mwielgos/kinoteka/internal/avatar"
	"github.com/mwielgos/kinoteka/internal/browse"
	"github.com/mwielgos/kinoteka/internal/config"
	"github.com/mwielgos/kinoteka/internal/database"
	"github.com/mwielgos/kinoteka/internal/external/tmdb"
	"github.com/mwielgos/kinoteka/internal/logger"
	"github.com/mwielgos/kinoteka/internal/shutdown"
	"github.com/mwielgos/kinoteka/internal/users"
	"github.com/mwielgos/kinoteka/internal/watchlist"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "kinoteka",
	Short: "Kinoteka serves a multi-locale movie and TV discovery API",
	Long: `Kinoteka exposes browse, search and watchlist endpoints backed by TMDB
metadata and a PostgreSQL store, with credentials and Google sign-in.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := serve(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of Kinoteka",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Kinoteka v%s\n", version)
	},
}

var configFile string

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is ./config.yml)")
	cobra.OnInitialize(initConfig)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	// Skip config loading for version command
	if len(os.Args) > 1 && os.Args[1] == "version" {
		return
	}

	if err := config.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
}

func serve() error {
	cfg := config.Get()
	logger.InitializeLoggers(cfg.GetAppLogLevel(), cfg.GetDatabaseLogLevel(), cfg.Logging.Format)
	log := logger.AppLogger()

	if err := database.Initialize(); err != nil {
		return fmt.Errorf("database initialization failed: %w", err)
	}
	db := database.Get()

	metadata := tmdb.NewClient(tmdb.Config{
		APIKey:  cfg.TMDB.APIKey,
		BaseURL: cfg.TMDB.BaseURL,
		Timeout: time.Duration(cfg.TMDB.TimeoutSeconds) * time.Second,
	})
	if !metadata.Configured() {
		log.Warn("no TMDB API key configured, browse results will be empty")
	}

	server := api.NewServer(api.Deps{
		Config:    cfg,
		Browse:    browse.NewService(metadata),
		Metadata:  metadata,
		Watchlist: watchlist.NewService(db),
		Users:     users.NewService(db),
		Tokens:    auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.SessionMaxDays),
		Google: auth.NewGoogleProvider(auth.GoogleConfig{
			ClientID:     cfg.Auth.Google.ClientID,
			ClientSecret: cfg.Auth.Google.ClientSecret,
			RedirectURL:  cfg.Auth.Google.RedirectURL,
		}),
		Avatars:     avatar.NewStore(cfg.Uploads.AvatarDir, cfg.Uploads.MaxAvatarBytes),
		HealthCheck: database.HealthCheck,
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.Handler(),
	}

	handler := shutdown.New(15 * time.Second)
	handler.Register(func(ctx context.Context) error {
		return httpServer.Shutdown(ctx)
	})
	handler.Register(func(ctx context.Context) error {
		return database.Close()
	})

	errChan := make(chan error, 1)
	go func() {
		log.WithFields(map[string]interface{}{
			"port": cfg.Server.Port,
		}).Info("server starting")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	go func() {
		if err := <-errChan; err != nil {
			log.Error("server failed", err)
			handler.TriggerShutdown()
		}
	}()

	handler.Wait()
	log.Info("server stopped")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
