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

	"aerogrow/config"
	"aerogrow/controllers"
	"aerogrow/logger"
	"aerogrow/mqtt"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

var configPath string

func main() {
	// Load environment variables
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "aerogrow",
		Short:         "AeroGrow monitoring and geology scanner backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("CONFIG_PATH"), "path to a YAML config file")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server, WebSocket hub and telemetry simulation",
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema",
			RunE:  runMigrate,
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Insert the default dataset into empty tables",
			RunE:  runSeed,
		},
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// bootstrap loads settings, installs the logger and opens the database.
func bootstrap() (*config.Settings, *gorm.DB, error) {
	settings, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := logger.Init(&settings.Logger); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := config.NewDBConnection(settings.Database, logger.Get().With("component", "gorm"))
	if err != nil {
		return nil, nil, err
	}
	config.DB = db
	return settings, db, nil
}

func runMigrate(_ *cobra.Command, _ []string) error {
	_, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer config.CloseDB(db)

	if err := controllers.MigrateModels(db); err != nil {
		return err
	}
	logger.Get().Info("Database migrated")
	return nil
}

func runSeed(_ *cobra.Command, _ []string) error {
	_, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer config.CloseDB(db)

	if err := controllers.MigrateModels(db); err != nil {
		return err
	}
	return controllers.SeedDefaults(db)
}

func runServe(_ *cobra.Command, _ []string) error {
	settings, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer config.CloseDB(db)
	log := logger.Get()

	if err := controllers.MigrateModels(db); err != nil {
		return err
	}
	if err := controllers.SeedDefaults(db); err != nil {
		return err
	}
	if err := config.InitAutomationState(db); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := controllers.NewHub()
	defer hub.Close()

	var publisher controllers.ReadingPublisher
	if settings.MQTT.Enabled {
		bridge, err := mqtt.Connect(settings.MQTT, func(target, action string) error {
			_, err := controllers.ExecuteCommand(hub, target, action)
			return err
		})
		if err != nil {
			log.Error("MQTT bridge unavailable, continuing without it", "error", err)
		} else {
			defer bridge.Close()
			publisher = bridge
		}
	}

	if settings.Logger.LogLevel != config.LogLevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              ":" + settings.Server.Port,
		Handler:           controllers.SetupRouter(settings, hub, publisher),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	if settings.Simulation.Enabled {
		sim := controllers.NewSimulator(hub, settings.Simulation, publisher)
		g.Go(func() error {
			return sim.Run(gctx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		hub.Close()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
