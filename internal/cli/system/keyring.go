package system

import (
	"errors"
	"fmt"

	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/cli"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/keyring"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/storage/postgres"
)

// KeyringSetCmd stores the PostgreSQL connection string in the OS keyring.
type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in keyring"`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	if !postgres.IsConnString(cmd.ConnectionString) {
		return errors.New("not a PostgreSQL connection string; expected postgres://... or key=value form")
	}

	if err := postgres.ValidateConnString(cmd.ConnectionString); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		// Embedded passwords are fine here; the keyring is encrypted.
		fmt.Println("⚠️  Warning: Connection string contains embedded credentials.")
		fmt.Println("   It will be stored as-is in the encrypted OS keyring.")
	}

	if err := keyring.ConnectionEntry().Set(cmd.ConnectionString); err != nil {
		return err
	}

	fmt.Println("✓ Stored connection string in the OS keyring")
	fmt.Println("  You can now use cyborg without the --db flag")
	return nil
}

type KeyringGetCmd struct{}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	connStr, err := keyring.ConnectionEntry().Get()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("keyring holds no connection string; store one with 'cyborg keyring set'")
		}
		return err
	}

	fmt.Println(keyring.MaskPassword(connStr))
	return nil
}

type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.ConnectionEntry().Delete(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("keyring holds no connection string")
		}
		return err
	}
	fmt.Println("✓ Removed connection string from the OS keyring")
	return nil
}

type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	entry := keyring.ConnectionEntry()
	if !entry.Available() {
		fmt.Println("❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}
	fmt.Println("✓ OS keyring is available")

	if _, err := entry.Get(); err == nil {
		fmt.Println("✓ Connection string stored")
	} else if errors.Is(err, keyring.ErrNotFound) {
		fmt.Println("ℹ No connection string stored")
	}
	return nil
}
