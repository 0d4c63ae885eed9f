package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/HeatedDotCom/heated/internal/adapters/backend"
	"github.com/HeatedDotCom/heated/internal/adapters/session"
	"github.com/HeatedDotCom/heated/internal/adapters/wordgen"
	"github.com/HeatedDotCom/heated/internal/cli"
	"github.com/HeatedDotCom/heated/internal/config"
	"github.com/HeatedDotCom/heated/internal/domain/model"
	"github.com/HeatedDotCom/heated/internal/game"
	"github.com/HeatedDotCom/heated/internal/simulate"
	"github.com/HeatedDotCom/heated/internal/store"
	"github.com/HeatedDotCom/heated/pkg/logger"
	"github.com/HeatedDotCom/heated/pkg/metrics"
)

const metricsReadHeaderTimeout = 5 * time.Second

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "heated",
		Short:         "HeatedDotCom — hot takes, voted on by people with no chill",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newPlayCommand(),
		newBoardCommand(),
		newSimulateCommand(),
		newLoginCommand(),
		newSignupCommand(),
		newLogoutCommand(),
	)

	return root
}

// deps is the wired application graph.
type deps struct {
	cfg *config.Config
	app *cli.App
	dal *store.Store
}

// setup loads configuration and wires the application graph. The
// returned app reads stdin and writes stdout; logs go to stderr.
func setup(ctx context.Context) (*deps, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	sessions, err := session.NewStore(cfg.SessionPath)
	if err != nil {
		return nil, err
	}

	client := backend.New(cfg.BackendURL, cfg.BackendAnonKey,
		backend.WithSessions(sessions),
		backend.WithLogger(log.Named("backend")),
	)

	words := wordgen.New(cfg.WordgenURL, cfg.WordgenAPIKey,
		wordgen.WithModel(cfg.WordgenModel),
		wordgen.WithLogger(log.Named("wordgen")),
	)

	dal := store.New(client, store.WithLogger(log.Named("store")))

	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, cfg.MetricsAddr)
	}

	term := cli.NewTerminal(os.Stdin, os.Stdout)
	app := cli.NewApp(dal, words, client, term, os.Stdout,
		cli.WithLogger(log.Named("cli")),
		cli.WithGameOptions(
			game.WithLogger(log.Named("game")),
			game.WithRevealDelay(time.Duration(cfg.WordRevealSeconds)*time.Second),
			game.WithWritingTime(time.Duration(cfg.WritingSeconds)*time.Second),
			game.WithOwnTakeSkip(time.Duration(cfg.OwnTakeSkipSeconds)*time.Second),
			game.WithPollInterval(time.Duration(cfg.PollIntervalMS)*time.Millisecond),
		),
	)

	return &deps{cfg: cfg, app: app, dal: dal}, nil
}

func serveMetrics(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: metricsReadHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	logger.Get().Info(ctx, "serving metrics", logger.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Get().Warn(ctx, "metrics server failed", logger.Error(err))
	}
}

func newPlayCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play a game from the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			return d.app.Play(cmd.Context())
		},
	}
}

func newBoardCommand() *cobra.Command {
	var (
		topic string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show the leaderboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			if limit <= 0 {
				limit = d.cfg.LeaderboardLimit
			}
			return d.app.Board(cmd.Context(), topic, limit)
		},
	}

	cmd.Flags().StringVarP(&topic, "topic", "t", model.TopicAll, "topic to rank (politics, philosophy, social, random, all)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of entries to show")

	return cmd
}

func newSimulateCommand() *cobra.Command {
	var bots int

	cmd := &cobra.Command{
		Use:   "simulate <room-code>",
		Short: "Fill a room with bot players for testing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := setup(cmd.Context())
			if err != nil {
				return err
			}

			runner := simulate.New(d.dal,
				simulate.WithBots(bots),
				simulate.WithPollInterval(time.Duration(d.cfg.PollIntervalMS)*time.Millisecond),
				simulate.WithLogger(logger.Named("simulate")),
			)
			_, err = runner.Run(cmd.Context(), args[0])
			return err
		},
	}

	cmd.Flags().IntVarP(&bots, "bots", "b", 1, "number of bots to add")

	return cmd
}

func newLoginCommand() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			return d.app.Login(cmd.Context(), email, password)
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newSignupCommand() *cobra.Command {
	var email, password, username string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			return d.app.Signup(cmd.Context(), email, password, username)
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	cmd.Flags().StringVarP(&username, "username", "u", "", "display name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			return d.app.Logout(cmd.Context())
		},
	}
}
