package system

import (
	"errors"
	"fmt"
	"os"

	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/backup"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/cli"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/storage/postgres"
)

type InitCmd struct {
	Force bool `help:"Delete an existing SQLite database before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	dbPath := ctx.Store.GetConfigPath()
	if c.Force {
		if _, ok := ctx.Store.(*postgres.Store); ok {
			return errors.New("--force only applies to SQLite databases")
		}
		if _, err := os.Stat(dbPath); err == nil {
			info, err := backup.NewManager(dbPath).Create(ctx.Ctx)
			if err != nil {
				return fmt.Errorf("failed to back up existing database: %w", err)
			}
			fmt.Printf("Backed up existing database to: %s\n", info.Path)
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(ctx.Ctx); err != nil {
		return err
	}
	fmt.Printf("✓ Initialized cyborg storage at: %s\n", dbPath)
	return nil
}
