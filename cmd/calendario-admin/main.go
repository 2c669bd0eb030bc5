package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	"calendario/backend/internal/config"
	"calendario/backend/internal/domain"
	"calendario/backend/internal/store/postgres"
)

var databaseURL string

var rootCmd = &cobra.Command{
	Use:          "calendario-admin",
	Short:        "Administrative tasks for the calendario backend",
	SilenceUsage: true,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "Postgres URL (defaults to CALENDARIO_DATABASE_URL)")
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(spacesCmd())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func openDB() (*bun.DB, error) {
	url := databaseURL
	if url == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		url = cfg.DatabaseURL
	}
	return postgres.Open(url, postgres.PoolConfig{MaxOpenConns: 2})
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create tables and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer postgres.Close(db)

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			if err := postgres.CreateSchema(ctx, db); err != nil {
				return err
			}
			fmt.Println("schema up to date")
			return nil
		},
	}
}

// The canonical coworking spaces created on first install.
var seedSpaces = []domain.Space{
	{Name: "Escritorio 1", Type: "Escritorio Fijo", Capacity: 1},
	{Name: "Escritorio 2", Type: "Escritorio Fijo", Capacity: 1},
	{Name: "Sala 1", Type: "Sala de Reuniones", Capacity: 1},
	{Name: "Mesa Compartida 1", Type: "Mesa compartida", Capacity: 6},
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default bookable spaces (idempotent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer postgres.Close(db)

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			repo := postgres.NewSpaceAdminRepo(db)
			for _, s := range seedSpaces {
				s.Status = domain.SpaceStatusActive
				created, err := repo.UpsertSpaceByName(ctx, s)
				if err != nil {
					return fmt.Errorf("seed %q: %w", s.Name, err)
				}
				fmt.Printf("%-20s id=%d capacity=%d\n", created.Name, created.ID, created.Capacity)
			}
			return nil
		},
	}
}

func spacesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "spaces",
		Short: "List every space, including inactive ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer postgres.Close(db)

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			rows, err := postgres.NewSpaceAdminRepo(db).ListSpaces(ctx)
			if err != nil {
				return err
			}
			for _, s := range rows {
				fmt.Printf("%-4d %-20s %-20s cap=%-3d %s\n", s.ID, s.Name, s.Type, s.Capacity, s.Status)
			}
			return nil
		},
	}
}
