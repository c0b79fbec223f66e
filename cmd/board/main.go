package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/baiirun/board/internal/action"
	"github.com/baiirun/board/internal/board"
	"github.com/baiirun/board/internal/config"
	"github.com/baiirun/board/internal/db"
	"github.com/baiirun/board/internal/events"
	"github.com/baiirun/board/internal/logging"
	"github.com/baiirun/board/internal/tui"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app holds the state shared by every command.
type app struct {
	configPath string
	dbPath     string
	jsonOut    bool
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
	store  *db.DB
	nc     *nats.Conn
	svc    *board.Service
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "board",
		Short: "Kanban board with keyword-triggered actions",
		Long: `A card board for project ideas: cards move idea -> todo -> in-progress -> done,
anyone can vote or comment, and processing a card runs the actions its title asks for.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Name() == "serve")
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ~/.board/config.yaml)")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "database path (overrides config)")
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "output JSON")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newInitCmd(a),
		newServeCmd(a),
		newProjectsCmd(a),
		newListCmd(a),
		newAddCmd(a),
		newShowCmd(a),
		newUpdateCmd(a),
		newMoveCmd(a),
		newStatusCmd(a),
		newDeleteCmd(a),
		newClearCmd(a),
		newVoteCmd(a),
		newCommentCmd(a),
		newCommentsCmd(a),
		newProcessCmd(a),
		newExecCmd(a),
		newTUICmd(a),
	)
	return root
}

// setup loads config, opens the database and wires the service. Only the
// server logs at the configured level; other commands stay quiet unless
// --verbose is set.
func (a *app) setup(server bool) error {
	path := a.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.DB.Path = a.dbPath
	}
	a.cfg = cfg

	level := "warn"
	if server {
		level = cfg.Log.Level
	}
	if a.verbose {
		level = "debug"
	}
	a.logger, err = logging.New(level, cfg.Log.Format)
	if err != nil {
		return err
	}

	a.store, err = db.Open(cfg.DB.Path)
	if err != nil {
		return err
	}
	if err := a.store.Init(); err != nil {
		return err
	}

	opts := []board.Option{board.WithLogger(a.logger)}
	if cfg.NATS.URL != "" {
		a.nc, err = events.Connect(cfg.NATS.URL, a.logger)
		if err != nil {
			return err
		}
		opts = append(opts, board.WithNotifier(events.NewPublisher(a.nc, cfg.NATS.SubjectPrefix, a.logger)))
	}

	router := action.NewRouter(cfg.Social.Credentials(), action.WithLogger(a.logger))
	a.svc = board.NewService(a.store, router, opts...)
	return nil
}

func (a *app) close() {
	if a.nc != nil {
		_ = a.nc.Drain()
	}
	if a.store != nil {
		_ = a.store.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(a.svc)
		},
	}
}

func main() {
	a := &app{}
	err := newRootCmd(a).Execute()
	a.close()
	if err != nil {
		os.Exit(1)
	}
}
