package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/anonto42/circles/backend/internal/repositories"
	"github.com/anonto42/circles/backend/internal/router"
	"github.com/anonto42/circles/backend/pkg/config"
	"github.com/anonto42/circles/backend/pkg/firebase"
	"github.com/anonto42/circles/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "circles",
		Short: "Circles social backend",
	}
	root.AddCommand(serveCmd(), migrateCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the relational schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			db, err := config.InitDB(cfg)
			if err != nil {
				return err
			}
			defer db.CloseDB()

			if err := repositories.AutoMigrate(db.Postgres); err != nil {
				return err
			}
			log.Println("PostgreSQL auto-migrations completed for all models.")
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if port != "" {
				cfg.Port = port
			}

			// Initialize database connections
			db, err := config.InitDB(cfg)
			if err != nil {
				log.Fatalf("Failed to initialize databases: %v", err)
			}
			defer db.CloseDB()

			if err := repositories.AutoMigrate(db.Postgres); err != nil {
				log.Fatalf("Failed to auto migrate models: %v", err)
			}
			log.Println("PostgreSQL auto-migrations completed for all models.")

			ctx := cmd.Context()
			deps := router.Dependencies{DB: db.Postgres}

			if db.Mongo != nil {
				modlog := repositories.NewMongoModerationLogRepository(db.Mongo.Database(cfg.MongoDatabase))
				idxCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
				if err := modlog.EnsureIndexes(idxCtx); err != nil {
					log.Printf("Failed to create moderation log indexes: %v", err)
				}
				cancel()
				deps.ModerationLog = modlog
			}

			if cfg.FirebaseCredentialsPath != "" {
				firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
				if err != nil {
					log.Fatalf("Failed to initialize Firebase: %v", err)
				}
				deps.Verifier = firebaseApp
			} else {
				log.Println("FIREBASE_CREDENTIALS_PATH not set, federated login disabled.")
			}

			e := echo.New()
			e.Validator = validators.NewValidator()
			config.SetupMiddleware(e)
			router.SetupRoutes(e, cfg, deps)

			e.Logger.Fatal(e.Start(":" + cfg.Port))
			return nil
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	return cmd
}
