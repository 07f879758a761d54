package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/dmitrijs2005/travelapp/internal/awsx"
	"github.com/dmitrijs2005/travelapp/internal/server"
	"github.com/dmitrijs2005/travelapp/internal/server/config"
	"github.com/dmitrijs2005/travelapp/internal/server/manage"
	"github.com/dmitrijs2005/travelapp/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/travelapp/internal/server/services"
	"github.com/dmitrijs2005/travelapp/internal/server/storage"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "travelctl",
		Short:         "Management commands for the travel app",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Read by config.LoadConfig straight from os.Args; declared here so cobra
	// accepts them.
	rootCmd.PersistentFlags().StringP("config", "c", "", "JSON config file")
	rootCmd.PersistentFlags().String("env", "", "dotenv file")
	rootCmd.PersistentFlags().StringP("dsn", "d", "", "database DSN")

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(createAdminCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(uploadPhotoCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			db, err := server.OpenDB(cmd.Context(), cfg, repomanager.NewPostgresRepositoryManager())
			if err != nil {
				return err
			}
			defer db.Close()

			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied.")
			return nil
		},
	}
}

func createAdminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create-admin",
		Short: "Create the default admin account if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			rm := repomanager.NewPostgresRepositoryManager()
			db, err := server.OpenDB(cmd.Context(), cfg, rm)
			if err != nil {
				return err
			}
			defer db.Close()

			return manage.CreateAdmin(cmd.Context(), services.NewAccountService(db, rm, cfg), cfg, cmd.OutOrStdout())
		},
	}
}

func seedCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the database with sample listings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			rm := repomanager.NewPostgresRepositoryManager()
			db, err := server.OpenDB(cmd.Context(), cfg, rm)
			if err != nil {
				return err
			}
			defer db.Close()

			rng := rand.New(rand.NewSource(time.Now().UnixNano()))
			return manage.Seed(cmd.Context(), db, rm, count, rng, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 10, "number of listings")

	return cmd
}

func uploadPhotoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload-photo <listing-id> <file>",
		Short: "Upload a listing photo to object storage as the configured admin",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.LoadConfig()
			rm := repomanager.NewPostgresRepositoryManager()
			db, err := server.OpenDB(ctx, cfg, rm)
			if err != nil {
				return err
			}
			defer db.Close()

			admin, err := rm.Accounts(db).GetByEmail(ctx, services.NormalizeEmail(cfg.AdminEmail))
			if err != nil {
				return fmt.Errorf("admin account %q: %w", cfg.AdminEmail, err)
			}

			awsCfg, err := awsx.LoadConfig(ctx, cfg.AWSRegion, cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey)
			if err != nil {
				return err
			}

			listings := services.NewListingService(db, rm, storage.NewS3Storage(awsCfg, cfg.S3Bucket, cfg.S3BaseEndpoint))
			actor := &services.Actor{ID: admin.ID, Role: admin.Role}
			return manage.UploadPhoto(ctx, listings, actor, args[0], args[1], cmd.OutOrStdout())
		},
	}
}
