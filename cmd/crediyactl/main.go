// Command crediyactl runs database maintenance and other one-off operations
// against a CrediYa deployment.
package main

import (
	"fmt"
	"os"

	"crediya/internal/config"
	"crediya/internal/infrastructure/db"
	"crediya/internal/infrastructure/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	cfg *config.Config
	log *zap.Logger

	// openDB is swapped in tests.
	openDB = func(c *config.Config) (*gorm.DB, error) { return db.Open(c.DBDriver, c.DSN()) }
)

var rootCmd = &cobra.Command{
	Use:           "crediyactl",
	Short:         "CrediYa operations CLI",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		l, err := logger.New(c.LogLevel, "console")
		if err != nil {
			return err
		}
		cfg, log = c, l
		zap.ReplaceGlobals(l)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd, seedCmd, resetCmd, hashPasswordCmd, createUserCmd, sweepCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
