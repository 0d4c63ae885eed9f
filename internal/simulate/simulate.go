// Package simulate fills a room with synthetic players so a game can
// be exercised end to end without a second human: bots join, ready up,
// submit canned takes, and vote at random. Useful for trying the
// client against a real backend and for load-testing room flows.
package simulate

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/HeatedDotCom/heated/internal/domain/model"
	"github.com/HeatedDotCom/heated/pkg/logger"
)

// store is the slice of the data access layer the bots drive.
type store interface {
	GetRoom(ctx context.Context, roomCode string) (model.Room, error)
	JoinRoom(ctx context.Context, roomCode, playerID, username string) (model.Room, error)
	GetRoomPlayers(ctx context.Context, roomCode string) ([]model.Player, error)
	UpdatePlayerReady(ctx context.Context, roomCode, playerID string, ready bool) error
	SubmitTake(ctx context.Context, roomCode string, roundNumber int, playerID, takeText string) error
	GetRoundTakes(ctx context.Context, roomCode string, roundNumber int) ([]model.Take, error)
	SubmitVote(ctx context.Context, roomCode string, roundNumber int, takeID, voterID, voteType string) error
	LeaveRoom(ctx context.Context, roomCode, playerID string) error
}

var voteTypes = []string{model.VoteFire, model.VoteOK, model.VoteBad}

// Stats summarizes one simulation run.
type Stats struct {
	BotsJoined     int
	TakesSubmitted int
	VotesCast      int
	StartTime      time.Time
	Duration       time.Duration
}

// Runner drives a set of bots through a single game.
type Runner struct {
	store store
	log   logger.Logger
	rng   *rand.Rand

	bots         int
	pollInterval time.Duration
	maxWait      time.Duration

	mu    sync.Mutex
	stats Stats
}

// New builds a Runner over the data access layer.
func New(s store, opts ...Option) *Runner {
	r := &Runner{
		store:        s,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		bots:         1,
		pollInterval: time.Second,
		maxWait:      5 * time.Minute,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.log == nil {
		r.log = logger.Get().Named("simulate")
	}

	return r
}

// Run joins the room with every bot and plays the round out. It
// returns once all bots finished voting or the wait budget ran out.
func (r *Runner) Run(ctx context.Context, roomCode string) (Stats, error) {
	r.mu.Lock()
	r.stats = Stats{StartTime: time.Now()}
	r.mu.Unlock()

	if _, err := r.store.GetRoom(ctx, roomCode); err != nil {
		return r.snapshot(), fmt.Errorf("room lookup: %w", err)
	}

	r.log.Info(ctx, "starting simulation",
		logger.String("room", roomCode),
		logger.Int("bots", r.bots),
	)

	var wg sync.WaitGroup
	errs := make(chan error, r.bots)
	for i := 0; i < r.bots; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if err := r.runBot(ctx, roomCode, n); err != nil {
				errs <- fmt.Errorf("bot %d: %w", n, err)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	r.mu.Lock()
	r.stats.Duration = time.Since(r.stats.StartTime)
	r.mu.Unlock()

	for err := range errs {
		return r.snapshot(), err
	}

	stats := r.snapshot()
	r.log.Info(ctx, "simulation finished",
		logger.Int("botsJoined", stats.BotsJoined),
		logger.Int("takesSubmitted", stats.TakesSubmitted),
		logger.Int("votesCast", stats.VotesCast),
		logger.String("duration", stats.Duration.String()),
	)
	return stats, nil
}

// runBot plays one bot: join, ready, take, vote.
func (r *Runner) runBot(ctx context.Context, roomCode string, n int) error {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	botID := "anon_" + raw[:9]
	botName := fmt.Sprintf("Bot_%d_%s", n+1, raw[9:13])

	if _, err := r.store.JoinRoom(ctx, roomCode, botID, botName); err != nil {
		return fmt.Errorf("join: %w", err)
	}
	defer func() {
		// Best-effort cleanup so the room does not fill with ghosts.
		if err := r.store.LeaveRoom(context.Background(), roomCode, botID); err != nil {
			r.log.Warn(ctx, "bot could not leave room", logger.Error(err))
		}
	}()
	r.count(func(s *Stats) { s.BotsJoined++ })

	if err := r.store.UpdatePlayerReady(ctx, roomCode, botID, true); err != nil {
		return fmt.Errorf("ready: %w", err)
	}

	// Wait for a human (or another bot race) to start the game.
	if err := r.waitFor(ctx, func(ctx context.Context) (bool, error) {
		room, err := r.store.GetRoom(ctx, roomCode)
		if err != nil {
			return false, nil // transient; keep polling
		}
		return room.Status == model.RoomStatusPlaying, nil
	}); err != nil {
		return fmt.Errorf("wait for start: %w", err)
	}

	take := r.pickTake()
	if err := r.store.SubmitTake(ctx, roomCode, 1, botID, take); err != nil {
		return fmt.Errorf("submit take: %w", err)
	}
	r.count(func(s *Stats) { s.TakesSubmitted++ })

	// Wait until everyone's take is in, then vote on each foreign take.
	var takes []model.Take
	if err := r.waitFor(ctx, func(ctx context.Context) (bool, error) {
		players, err := r.store.GetRoomPlayers(ctx, roomCode)
		if err != nil {
			return false, nil
		}
		takes, err = r.store.GetRoundTakes(ctx, roomCode, 1)
		if err != nil {
			return false, nil
		}
		return len(takes) >= len(players), nil
	}); err != nil {
		return fmt.Errorf("wait for takes: %w", err)
	}

	for _, t := range takes {
		if t.PlayerID == botID {
			continue
		}
		vote := r.pickVote()
		if err := r.store.SubmitVote(ctx, roomCode, 1, t.ID, botID, vote); err != nil {
			r.log.Warn(ctx, "bot vote failed", logger.Error(err))
			continue
		}
		r.count(func(s *Stats) { s.VotesCast++ })
	}

	return nil
}

// waitFor polls cond until it reports done, the wait budget runs out,
// or ctx ends.
func (r *Runner) waitFor(ctx context.Context, cond func(context.Context) (bool, error)) error {
	deadline := time.Now().Add(r.maxWait)
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		done, err := cond(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if time.Now().After(deadline) {
			return ErrWaitTimeout
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (r *Runner) pickTake() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cannedTakes[r.rng.Intn(len(cannedTakes))]
}

func (r *Runner) pickVote() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return voteTypes[r.rng.Intn(len(voteTypes))]
}

func (r *Runner) count(apply func(*Stats)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	apply(&r.stats)
}

func (r *Runner) snapshot() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}
