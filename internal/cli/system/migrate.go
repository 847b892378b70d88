package system

import (
	"fmt"

	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/cli"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/storage"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	migrator, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return fmt.Errorf("storage backend does not support migrations")
	}

	// Snapshot SQLite databases first so a failed migration can be rolled back by hand
	if mgr, err := backupManager(ctx); err == nil {
		info, err := mgr.Create(ctx.Ctx)
		if err != nil {
			return fmt.Errorf("failed to back up database before migrating: %w", err)
		}
		fmt.Printf("Backed up database to %s\n", info.Path)
	}

	count, err := migrator.Migrate(ctx.Ctx, func(msg string) {
		fmt.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		fmt.Println("No migrations to apply. Database is up to date.")
	} else {
		fmt.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
