// Package game drives the round flow: lobby, word reveal, writing,
// voting, results, final leaderboard. Coordination with other clients
// is poll-only; every client runs the same condition checks against
// shared state and duplicate effects are tolerated rather than locked
// out.
package game

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"github.com/HeatedDotCom/heated/internal/adapters/wordgen"
	"github.com/HeatedDotCom/heated/internal/domain/model"
	"github.com/HeatedDotCom/heated/internal/domain/scoring"
	"github.com/HeatedDotCom/heated/pkg/logger"
	"github.com/HeatedDotCom/heated/pkg/metrics"
)

const minPlayersToStart = 2

// Store is the slice of the data access layer the controller uses.
type Store interface {
	CreateRoom(ctx context.Context, hostID, topicField string) (string, error)
	JoinRoom(ctx context.Context, roomCode, playerID, username string) (model.Room, error)
	GetRoomPlayers(ctx context.Context, roomCode string) ([]model.Player, error)
	UpdatePlayerReady(ctx context.Context, roomCode, playerID string, ready bool) error
	UpdateRoomStatus(ctx context.Context, roomCode, status string) error
	LeaveRoom(ctx context.Context, roomCode, playerID string) error
	StartRound(ctx context.Context, roomCode, word, definition, wordType string) (model.Round, error)
	SubmitTake(ctx context.Context, roomCode string, roundNumber int, playerID, takeText string) error
	GetRoundTakes(ctx context.Context, roomCode string, roundNumber int) ([]model.Take, error)
	SubmitVote(ctx context.Context, roomCode string, roundNumber int, takeID, voterID, voteType string) error
	GetRoundVotes(ctx context.Context, roomCode string, roundNumber int) ([]model.Vote, error)
	UpdatePlayerScore(ctx context.Context, playerID, field string, points int) error
	AvailableRooms(ctx context.Context) ([]model.Room, error)
}

// WordSource generates the round's word.
type WordSource interface {
	Generate(ctx context.Context, topic string) (wordgen.Word, error)
}

// Controller owns one player's trip through a game.
type Controller struct {
	store Store
	words WordSource
	view  View
	log   logger.Logger
	rng   *rand.Rand

	revealDelay  time.Duration
	writingTime  time.Duration
	ownTakeSkip  time.Duration
	pollInterval time.Duration
	maxLobbyWait time.Duration

	phase   Phase
	user    model.User
	room    model.Room
	round   model.Round
	players []model.Player
	ready   bool
}

// New builds a Controller in the homepage phase.
func New(s Store, words WordSource, view View, user model.User, opts ...Option) *Controller {
	c := &Controller{
		store:        s,
		words:        words,
		view:         view,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		revealDelay:  5 * time.Second,
		writingTime:  60 * time.Second,
		ownTakeSkip:  3 * time.Second,
		pollInterval: time.Second,
		maxLobbyWait: 10 * time.Minute,
		phase:        PhaseHomepage,
		user:         user,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.log == nil {
		c.log = logger.Get().Named("game")
	}

	return c
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase { return c.phase }

// Room returns the joined room. Zero before a room is joined.
func (c *Controller) Room() model.Room { return c.room }

// Round returns the active round. Zero before the round starts.
func (c *Controller) Round() model.Round { return c.round }

// Players returns the last fetched player list.
func (c *Controller) Players() []model.Player { return c.players }

// Ready reports the local player's ready flag.
func (c *Controller) Ready() bool { return c.ready }

func (c *Controller) transition(next Phase) error {
	if !c.phase.CanTransition(next) {
		c.log.Error(context.Background(), "illegal phase transition",
			logger.String("from", c.phase.String()),
			logger.String("to", next.String()),
		)
		return ErrInvalidTransition
	}
	c.log.Debug(context.Background(), "phase transition",
		logger.String("from", c.phase.String()),
		logger.String("to", next.String()),
	)
	c.phase = next
	return nil
}

// notifyErr surfaces a failure as a transient message and logs it.
// Flow continues; no store failure is fatal to the game.
func (c *Controller) notifyErr(ctx context.Context, msg string, err error) {
	c.log.Warn(ctx, msg, logger.Error(err))
	c.view.Notify(msg)
}

// CreateRoom creates a room on the chosen topic and enters its lobby
// as host.
func (c *Controller) CreateRoom(ctx context.Context, topicField string) error {
	code, err := c.store.CreateRoom(ctx, c.user.ID, topicField)
	if err != nil {
		c.notifyErr(ctx, "could not create room", err)
		return err
	}
	return c.enterLobby(ctx, code)
}

// JoinRoom joins an existing room's lobby by code.
func (c *Controller) JoinRoom(ctx context.Context, roomCode string) error {
	return c.enterLobby(ctx, roomCode)
}

// JoinRandomRoom picks a random available lobby and joins it.
func (c *Controller) JoinRandomRoom(ctx context.Context) error {
	rooms, err := c.store.AvailableRooms(ctx)
	if err != nil {
		c.notifyErr(ctx, "could not list rooms", err)
		return err
	}
	if len(rooms) == 0 {
		c.view.Notify("no open rooms right now")
		return ErrNoAvailableRooms
	}
	return c.enterLobby(ctx, rooms[c.rng.Intn(len(rooms))].Code)
}

func (c *Controller) enterLobby(ctx context.Context, roomCode string) error {
	room, err := c.store.JoinRoom(ctx, roomCode, c.user.ID, c.user.DisplayName())
	if err != nil {
		c.notifyErr(ctx, "could not join room", err)
		return err
	}

	c.room = room
	c.ready = false
	if err := c.transition(PhaseLobby); err != nil {
		return err
	}
	return c.refreshLobby(ctx)
}

func (c *Controller) refreshLobby(ctx context.Context) error {
	players, err := c.store.GetRoomPlayers(ctx, c.room.Code)
	if err != nil {
		c.notifyErr(ctx, "could not fetch players", err)
		return err
	}
	c.players = players
	c.view.ShowLobby(c.room, c.players)
	return nil
}

// ToggleReady flips the local ready flag, persists it, and re-runs the
// start condition check.
func (c *Controller) ToggleReady(ctx context.Context) error {
	if c.phase != PhaseLobby {
		return ErrInvalidTransition
	}

	next := !c.ready
	if err := c.store.UpdatePlayerReady(ctx, c.room.Code, c.user.ID, next); err != nil {
		c.notifyErr(ctx, "could not update ready state", err)
		return err
	}
	c.ready = next

	_, err := c.tryStart(ctx)
	return err
}

// tryStart checks the start condition (at least two players, all
// ready) and, when met, performs the full start sequence. Every client
// observing the condition runs this; a duplicate round insert from a
// racing client is accepted.
func (c *Controller) tryStart(ctx context.Context) (bool, error) {
	if err := c.refreshLobby(ctx); err != nil {
		return false, err
	}
	if !allReady(c.players) {
		return false, nil
	}

	if err := c.store.UpdateRoomStatus(ctx, c.room.Code, model.RoomStatusPlaying); err != nil {
		c.notifyErr(ctx, "could not start game", err)
		return false, err
	}

	// The word source never fails outward: a generation failure
	// already degraded to the topic's fallback word.
	word, _ := c.words.Generate(ctx, c.room.TopicField)

	round, err := c.store.StartRound(ctx, c.room.Code, word.Word, word.Definition, word.Type)
	if err != nil {
		c.notifyErr(ctx, "could not start round", err)
		return false, err
	}
	c.round = round

	if err := c.transition(PhaseWordReveal); err != nil {
		return false, err
	}
	c.view.ShowWordReveal(c.round)
	return true, nil
}

func allReady(players []model.Player) bool {
	if len(players) < minPlayersToStart {
		return false
	}
	for _, p := range players {
		if !p.Ready {
			return false
		}
	}
	return true
}

// WaitForStart polls the lobby until the start condition fires, the
// wait budget runs out, or ctx is cancelled. It is the fallback for
// ready changes made by other clients; there is no push channel.
func (c *Controller) WaitForStart(ctx context.Context) error {
	deadline := time.Now().Add(c.maxLobbyWait)
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for c.phase == PhaseLobby {
		if time.Now().After(deadline) {
			return ErrLobbyTimeout
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if started, err := c.tryStart(ctx); err != nil {
			continue // transient; keep polling
		} else if started {
			return nil
		}
	}
	return nil
}

// PlayRound runs word reveal through results. It blocks for the whole
// round, driving the view for input.
func (c *Controller) PlayRound(ctx context.Context) error {
	if c.phase != PhaseWordReveal {
		return ErrInvalidTransition
	}

	if err := sleep(ctx, c.revealDelay); err != nil {
		return err
	}
	if err := c.transition(PhaseWriting); err != nil {
		return err
	}

	if err := c.writingPhase(ctx); err != nil {
		return err
	}

	takes, err := c.waitForTakes(ctx)
	if err != nil {
		return err
	}

	ShuffleTakes(c.rng, takes)
	if err := c.transition(PhaseVoting); err != nil {
		return err
	}
	if err := c.votingPhase(ctx, takes); err != nil {
		return err
	}

	if err := c.transition(PhaseResults); err != nil {
		return err
	}
	return c.resultsPhase(ctx)
}

// writingPhase collects the local take under the writing countdown. A
// countdown expiry forces an empty submission so the round can finish.
func (c *Controller) writingPhase(ctx context.Context) error {
	writeCtx, cancel := context.WithTimeout(ctx, c.writingTime)
	defer cancel()

	text, submitted := c.view.PromptTake(writeCtx, c.round)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	forced := !submitted
	if forced {
		text = ""
	}

	if err := c.store.SubmitTake(ctx, c.room.Code, c.round.RoundNumber, c.user.ID, text); err != nil {
		c.notifyErr(ctx, "could not submit take", err)
		return err
	}
	metrics.RecordTakeSubmitted(forced)
	return nil
}

// waitForTakes polls until every player's take is in. The threshold is
// len(takes) >= len(players) at the time of each check.
func (c *Controller) waitForTakes(ctx context.Context) ([]model.Take, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		takes, err := c.store.GetRoundTakes(ctx, c.room.Code, c.round.RoundNumber)
		if err != nil {
			c.notifyErr(ctx, "could not fetch takes", err)
		} else {
			c.view.ShowWaitingForTakes(len(takes), len(c.players))
			if len(takes) >= len(c.players) {
				return takes, nil
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// votingPhase shows takes one at a time in shuffled order. The local
// player's own takes auto-advance after the skip delay without
// recording a vote.
func (c *Controller) votingPhase(ctx context.Context, takes []model.Take) error {
	for i, take := range takes {
		if take.PlayerID == c.user.ID {
			c.view.ShowOwnTake(take, i+1, len(takes))
			if err := sleep(ctx, c.ownTakeSkip); err != nil {
				return err
			}
			continue
		}

		voteType, ok := c.view.PromptVote(ctx, take, i+1, len(takes))
		if !ok {
			return ctx.Err()
		}
		if err := c.store.SubmitVote(ctx, c.room.Code, c.round.RoundNumber, take.ID, c.user.ID, voteType); err != nil {
			c.notifyErr(ctx, "could not submit vote", err)
		}
	}
	return nil
}

// resultsPhase tallies the round and pushes each author's score to the
// topic leaderboard. Updates are best-effort and independent: one
// player's failure does not block the others, and every client in the
// room performs the same updates without de-duplication.
func (c *Controller) resultsPhase(ctx context.Context) error {
	takes, err := c.store.GetRoundTakes(ctx, c.room.Code, c.round.RoundNumber)
	if err != nil {
		c.notifyErr(ctx, "could not fetch takes", err)
		return err
	}
	votes, err := c.store.GetRoundVotes(ctx, c.room.Code, c.round.RoundNumber)
	if err != nil {
		c.notifyErr(ctx, "could not fetch votes", err)
		return err
	}

	results := scoring.Tally(takes, votes)
	c.applyScores(results)
	c.view.ShowResults(c.round, results, c.players)

	for _, result := range results {
		if err := c.store.UpdatePlayerScore(ctx, result.PlayerID, c.room.TopicField, result.Score); err != nil {
			c.notifyErr(ctx, "could not update leaderboard", err)
		}
	}
	return nil
}

// applyScores folds tallied round scores into the locally known
// players, for the final leaderboard.
func (c *Controller) applyScores(results []scoring.PlayerResult) {
	byID := make(map[string]int, len(results))
	for _, r := range results {
		byID[r.PlayerID] = r.Score
	}
	for i := range c.players {
		c.players[i].Score += byID[c.players[i].PlayerID]
	}
}

// NextRound ends the game. The multi-round scaffolding in the room
// record never advances; advancing past round one is a known gap kept
// intact.
func (c *Controller) NextRound(ctx context.Context) error {
	if c.phase != PhaseResults {
		return ErrInvalidTransition
	}
	return c.EndGame(ctx)
}

// EndGame sorts the locally known players by score and shows the
// final leaderboard.
func (c *Controller) EndGame(_ context.Context) error {
	if err := c.transition(PhaseFinalLeaderboard); err != nil {
		return err
	}

	sorted := make([]model.Player, len(c.players))
	copy(sorted, c.players)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	c.view.ShowFinalLeaderboard(sorted)
	return nil
}

// Leave exits the current room and returns to the homepage.
func (c *Controller) Leave(ctx context.Context) error {
	if c.room.Code == "" {
		return ErrNotInRoom
	}

	if err := c.store.LeaveRoom(ctx, c.room.Code, c.user.ID); err != nil {
		c.notifyErr(ctx, "could not leave room", err)
	}

	c.room = model.Room{}
	c.round = model.Round{}
	c.players = nil
	c.ready = false
	c.phase = PhaseHomepage
	return nil
}

// ShuffleTakes permutes takes uniformly in place.
func ShuffleTakes(rng *rand.Rand, takes []model.Take) {
	rng.Shuffle(len(takes), func(i, j int) {
		takes[i], takes[j] = takes[j], takes[i]
	})
}

// sleep waits d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
