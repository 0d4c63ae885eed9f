package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/HeatedDotCom/heated/internal/domain/model"
	"github.com/HeatedDotCom/heated/internal/game"
	"github.com/HeatedDotCom/heated/internal/view"
	"github.com/HeatedDotCom/heated/pkg/logger"
)

// Store is the data access surface the app needs: everything the game
// controller uses plus leaderboard reads.
type Store interface {
	game.Store
	Leaderboard(ctx context.Context, field string, limit int) ([]model.LeaderboardEntry, error)
}

// Auth is the slice of the backend client the app uses for identity.
type Auth interface {
	CurrentUser() (model.User, bool)
	SignInAnonymously(ctx context.Context) (model.User, error)
	SignIn(ctx context.Context, email, password string) (model.User, error)
	SignUp(ctx context.Context, email, password, username string) error
	SignOut(ctx context.Context) error
}

// App ties the terminal, auth, store and game controller into the
// binary's commands.
type App struct {
	store Store
	words game.WordSource
	auth  Auth
	term  *Terminal
	out   io.Writer
	log   logger.Logger

	gameOpts []game.Option
}

// NewApp builds the application.
func NewApp(s Store, words game.WordSource, auth Auth, term *Terminal, out io.Writer, opts ...AppOption) *App {
	a := &App{
		store: s,
		words: words,
		auth:  auth,
		term:  term,
		out:   out,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.log == nil {
		a.log = logger.Get().Named("cli")
	}

	return a
}

// ensureUser restores a persisted session or falls back to a fresh
// anonymous identity.
func (a *App) ensureUser(ctx context.Context) (model.User, error) {
	if user, ok := a.auth.CurrentUser(); ok {
		return user, nil
	}
	return a.auth.SignInAnonymously(ctx)
}

// Play runs the homepage loop until the player quits or input ends.
func (a *App) Play(ctx context.Context) error {
	user, err := a.ensureUser(ctx)
	if err != nil {
		return fmt.Errorf("establish identity: %w", err)
	}
	a.term.printf("Welcome, %s.\n", user.DisplayName())

	for {
		a.term.printf(`
—— HeatedDotCom ——
  [1] create a room
  [2] join a room by code
  [3] join a random room
  [4] leaderboard
  [q] quit
> `)
		choice, ok := a.term.ReadLine(ctx)
		if !ok {
			return ctx.Err()
		}

		switch choice {
		case "1":
			a.playGame(ctx, user, func(ctx context.Context, c *game.Controller) error {
				topic, ok := a.promptTopic(ctx)
				if !ok {
					return context.Canceled
				}
				return c.CreateRoom(ctx, topic)
			})
		case "2":
			a.playGame(ctx, user, func(ctx context.Context, c *game.Controller) error {
				a.term.printf("Room code: ")
				code, ok := a.term.ReadLine(ctx)
				if !ok {
					return context.Canceled
				}
				if code == "" {
					a.term.Notify("room code is required")
					return ErrEmptyRoomCode
				}
				return c.JoinRoom(ctx, code)
			})
		case "3":
			a.playGame(ctx, user, func(ctx context.Context, c *game.Controller) error {
				return c.JoinRandomRoom(ctx)
			})
		case "4":
			if err := a.Board(ctx, model.TopicAll, 0); err != nil {
				a.term.Notify("could not load leaderboard")
			}
		case "q", "quit", "exit":
			a.term.printf("Later.\n")
			return nil
		default:
			a.term.printf("Pick one of the options.\n")
		}
	}
}

func (a *App) promptTopic(ctx context.Context) (string, bool) {
	for {
		a.term.printf("Topic (")
		for i, topic := range model.Topics {
			if i > 0 {
				a.term.printf("/")
			}
			a.term.printf("%s", topic)
		}
		a.term.printf("): ")

		topic, ok := a.term.ReadLine(ctx)
		if !ok {
			return "", false
		}
		if model.ValidTopic(topic) {
			return topic, true
		}
		a.term.printf("Not a topic.\n")
	}
}

// playGame enters a room via enter and drives it lobby-to-leaderboard.
func (a *App) playGame(ctx context.Context, user model.User, enter func(context.Context, *game.Controller) error) {
	c := game.New(a.store, a.words, a.term, user, a.gameOpts...)

	if err := enter(ctx, c); err != nil {
		// enterLobby already notified; just stay on the homepage.
		a.log.Debug(ctx, "room entry failed", logger.Error(err))
		return
	}

	if err := a.runGame(ctx, c); err != nil && ctx.Err() == nil {
		a.term.Notify("the game ended unexpectedly")
		a.log.Warn(ctx, "game aborted", logger.Error(err))
	}
}

func (a *App) runGame(ctx context.Context, c *game.Controller) error {
	for c.Phase() == game.PhaseLobby {
		a.term.printf("\n[r] ready up/down  [l] leave\n> ")
		choice, ok := a.term.ReadLine(ctx)
		if !ok {
			return ctx.Err()
		}

		switch choice {
		case "r":
			if err := c.ToggleReady(ctx); err != nil {
				continue
			}
			if c.Phase() == game.PhaseLobby && c.Ready() {
				a.term.printf("Waiting for the room to ready up…\n")
				if err := c.WaitForStart(ctx); err != nil {
					if err == game.ErrLobbyTimeout {
						a.term.Notify("nobody showed up; leaving the room")
						return c.Leave(ctx)
					}
					return err
				}
			}
		case "l":
			return c.Leave(ctx)
		default:
			a.term.printf("Pick one of the options.\n")
		}
	}

	if c.Phase() != game.PhaseWordReveal {
		return nil
	}

	if err := c.PlayRound(ctx); err != nil {
		return err
	}

	a.term.printf("\n[enter] next round\n")
	if _, ok := a.term.ReadLine(ctx); !ok {
		return ctx.Err()
	}
	if err := c.NextRound(ctx); err != nil {
		return err
	}
	return c.Leave(ctx)
}

// Board prints the topic leaderboard. Topic "all" spans every topic;
// a non-positive limit uses the store default.
func (a *App) Board(ctx context.Context, topic string, limit int) error {
	if topic != model.TopicAll && !model.ValidTopic(topic) {
		return fmt.Errorf("%w: %q", ErrUnknownTopic, topic)
	}

	entries, err := a.store.Leaderboard(ctx, topic, limit)
	if err != nil {
		return err
	}

	view.RenderLeaderboard(a.out, topic, entries)
	return nil
}

// Login signs in with credentials and reports the outcome.
func (a *App) Login(ctx context.Context, email, password string) error {
	user, err := a.auth.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed in as %s.\n", user.DisplayName())
	return nil
}

// Signup registers an account. The backend mails a confirmation link;
// no session is created here.
func (a *App) Signup(ctx context.Context, email, password, username string) error {
	if err := a.auth.SignUp(ctx, email, password, username); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Account created for %s. Check %s to confirm it, then log in.\n", username, email)
	return nil
}

// Logout clears the persisted session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.SignOut(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}
