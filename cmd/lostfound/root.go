package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/erazemk/lostfound/internal/config"
	"github.com/erazemk/lostfound/internal/db"
	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/repo"
)

var (
	cfgFile string
	envFile string
	dbPath  string
	addr    string
	logPath string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "lostfound",
	Short: "Campus lost and found service",
	Long: `lostfound keeps reports of lost and found items on campus, lets
signed-in students comment on and track them, and notifies them when a
found item might be one they lost.

Without a subcommand it runs the HTTP server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: lostfound.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file path")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "SQLite database path")
	rootCmd.PersistentFlags().StringVarP(&logPath, "log", "l", "", "log file path (default: stdout/stderr only)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address")

	serveCmd.Flags().AddFlag(rootCmd.Flags().Lookup("addr"))
	rootCmd.AddCommand(serveCmd, seedCmd, importLegacyCmd, matchesCmd)
}

// app holds what every subcommand needs.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	db        *sql.DB
	validator *model.Validator
	items     *repo.Items
	closeLog  func()
}

// setup loads the configuration, applies flag overrides, starts logging and
// opens the migrated database.
func setup(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(cfgFile, envFile)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DB = dbPath
	}
	if f := flags.Lookup("addr"); f != nil && f.Changed {
		cfg.Addr = addr
	}
	if flags.Changed("log") {
		cfg.Log = logPath
	}

	logger, closeLog, err := setupLogger(cfg.Log, verbose)
	if err != nil {
		return nil, err
	}

	database, err := db.Open(cfg.DB)
	if err != nil {
		closeLog()
		return nil, err
	}
	if err := db.Migrate(database); err != nil {
		database.Close()
		closeLog()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	logger.Info("database ready", "path", cfg.DB)

	v := model.NewValidator(cfg.EmailDomain)
	return &app{
		cfg:       cfg,
		logger:    logger,
		db:        database,
		validator: v,
		items:     repo.NewItems(database, v, logger),
		closeLog:  closeLog,
	}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", "error", err)
	}
	a.closeLog()
}
