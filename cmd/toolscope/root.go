package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sakif/toolscope/internal/apperror"
	"github.com/sakif/toolscope/internal/config"
	sqliteRepo "github.com/sakif/toolscope/internal/repository/sqlite"
	"github.com/sakif/toolscope/internal/savedset"
	"github.com/sakif/toolscope/internal/service"
	"github.com/sakif/toolscope/internal/storage/boltkv"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	v          *viper.Viper
	configFile string
	cfg        *config.Config
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.NewViper()}

	root := &cobra.Command{
		Use:           "toolscope",
		Short:         "Directory of AI tools",
		Long:          "toolscope keeps a catalog of AI tools, lets you search and filter it, and remembers the tools you saved.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "path to config file (default $XDG_CONFIG_HOME/toolscope/config.yaml)")
	flags.String("log-level", config.DefaultLogLevel, "debug, info, warn or error")
	flags.String("catalog-db", "", "catalog SQLite file (default $XDG_DATA_HOME/toolscope/catalog.db)")
	flags.String("saved-db", "", "saved-tools store (default $XDG_DATA_HOME/toolscope/saved.db)")
	bindFlag(a.v, root, true, "log_level", "log-level")
	bindFlag(a.v, root, true, "catalog_db", "catalog-db")
	bindFlag(a.v, root, true, "saved_db", "saved-db")

	root.AddCommand(
		newVersionCmd(),
		newServeCmd(a),
		newImportCmd(a),
		newBrowseCmd(a),
		newTagsCmd(a),
		newSavedCmd(a),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "toolscope %s (commit: %s)\n", version, commit)
		},
	}
}

// load resolves the config and builds the logger. Logs go to stderr so
// command output on stdout stays pipeable.
func (a *app) load() error {
	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}
	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return nil
}

// stack is the service graph the one-shot commands share with the server.
type stack struct {
	tools  *service.ToolService
	browse *service.BrowseService
	saved  *service.SavedService
	close  func()
}

func (a *app) openStack() (*stack, error) {
	db, err := sqliteRepo.New(a.cfg.CatalogDB)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	kv, err := boltkv.Open(a.cfg.SavedDB)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("opening saved store: %w", err)
	}

	set := savedset.New(kv, a.logger)
	tools := service.NewToolService(db, service.NewValidator(), a.logger)

	return &stack{
		tools:  tools,
		browse: service.NewBrowseService(tools, set, nil, a.logger),
		saved:  service.NewSavedService(tools, set, nil, a.logger),
		close: func() {
			kv.Close()
			db.Close()
		},
	}, nil
}

// describe turns a domain error into a one-line message for the terminal.
func describe(err error) error {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		return err
	}
	switch {
	case appErr.Retryable():
		return fmt.Errorf("%s (the catalog is unreachable: %v)", appErr.Message, appErr.Cause)
	case len(appErr.Fields) > 0:
		return errors.New(appErr.Message)
	default:
		return appErr
	}
}

// bindFlag lets a flag override the config key. An unset flag falls through
// to env, file and defaults.
func bindFlag(v *viper.Viper, cmd *cobra.Command, persistent bool, key, name string) {
	flags := cmd.Flags()
	if persistent {
		flags = cmd.PersistentFlags()
	}
	if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
		panic(fmt.Sprintf("binding --%s: %v", name, err))
	}
}
