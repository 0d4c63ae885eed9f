// Package store maps domain actions onto generic CRUD calls against
// the persistence backend. Invariants here are advisory: nothing is
// serialized server-side, and racing writes from other clients are
// accepted.
package store

import (
	"context"
	"crypto/rand"
	"strconv"
	"time"

	"github.com/HeatedDotCom/heated/internal/adapters/backend"
	"github.com/HeatedDotCom/heated/internal/domain/model"
	"github.com/HeatedDotCom/heated/pkg/logger"
	"github.com/HeatedDotCom/heated/pkg/metrics"
)

// Backend table names.
const (
	tableRooms       = "rooms"
	tablePlayers     = "room_players"
	tableRounds      = "game_rounds"
	tableTakes       = "takes"
	tableVotes       = "votes"
	tableLeaderboard = "leaderboard"
)

const (
	roomCodeLength     = 6
	roomCodeAlphabet   = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	defaultMaxRounds   = 3
	firstRoundNumber   = 1
	roundStatusWriting = "writing"
	basednessThreshold = 1
)

// DefaultLeaderboardLimit caps leaderboard queries when the caller
// passes no explicit limit.
const DefaultLeaderboardLimit = 10

// rest is the CRUD surface the store needs from the backend client.
type rest interface {
	Insert(ctx context.Context, table string, record any) error
	Select(ctx context.Context, table string, q backend.Query, dest any) error
	Update(ctx context.Context, table string, patch any, q backend.Query) error
	Delete(ctx context.Context, table string, q backend.Query) error
}

// Store is the data access layer.
type Store struct {
	rest rest
	log  logger.Logger

	// optimisticCreate masks room insert failures: the generated code
	// is returned anyway so the flow stays usable against a flaky
	// backend ("optimistic room code" policy).
	optimisticCreate bool

	now func() time.Time
}

// New creates a Store over a backend client.
func New(r rest, opts ...Option) *Store {
	s := &Store{
		rest:             r,
		optimisticCreate: true,
		now:              time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.log == nil {
		s.log = logger.Get().Named("store")
	}

	return s
}

// NewRoomCode returns a 6-character uppercase base-36 room code.
// Uniqueness is not checked; colliding codes are possible and
// unhandled, matching the backend's lack of any constraint.
func NewRoomCode() string {
	buf := make([]byte, roomCodeLength)
	if _, err := rand.Read(buf); err != nil {
		panic("crypto/rand failure: " + err.Error())
	}
	out := make([]byte, roomCodeLength)
	for i := range out {
		out[i] = roomCodeAlphabet[int(buf[i])%len(roomCodeAlphabet)]
	}
	return string(out)
}

// CreateRoom creates a lobby room and returns its code. Under the
// optimistic room code policy an insert failure is logged and masked.
func (s *Store) CreateRoom(ctx context.Context, hostID, topicField string) (string, error) {
	room := model.Room{
		Code:         NewRoomCode(),
		HostID:       hostID,
		TopicField:   topicField,
		Status:       model.RoomStatusLobby,
		CreatedAt:    s.now(),
		CurrentRound: 0,
		MaxRounds:    defaultMaxRounds,
	}

	if err := s.rest.Insert(ctx, tableRooms, room); err != nil {
		if !s.optimisticCreate {
			return "", err
		}
		s.log.Warn(ctx, "room insert failed; returning code optimistically",
			logger.String("code", room.Code),
			logger.Error(err),
		)
	}

	metrics.RecordRoomCreated()
	return room.Code, nil
}

// GetRoom fetches a room by code. Returns ErrRoomNotFound when absent.
func (s *Store) GetRoom(ctx context.Context, roomCode string) (model.Room, error) {
	var rooms []model.Room
	if err := s.rest.Select(ctx, tableRooms, backend.NewQuery().Eq("code", roomCode), &rooms); err != nil {
		return model.Room{}, err
	}
	if len(rooms) == 0 {
		return model.Room{}, ErrRoomNotFound
	}
	return rooms[0], nil
}

// JoinRoom adds a player to a room. The room must exist; capacity is
// not enforced here.
func (s *Store) JoinRoom(ctx context.Context, roomCode, playerID, username string) (model.Room, error) {
	room, err := s.GetRoom(ctx, roomCode)
	if err != nil {
		return model.Room{}, err
	}

	player := model.Player{
		RoomCode: roomCode,
		PlayerID: playerID,
		Username: username,
		Ready:    false,
		Score:    0,
		JoinedAt: s.now(),
	}
	if err := s.rest.Insert(ctx, tablePlayers, player); err != nil {
		return model.Room{}, err
	}

	metrics.RecordRoomJoined()
	return room, nil
}

// GetRoomPlayers lists the players currently in a room.
func (s *Store) GetRoomPlayers(ctx context.Context, roomCode string) ([]model.Player, error) {
	var players []model.Player
	err := s.rest.Select(ctx, tablePlayers, backend.NewQuery().Eq("room_code", roomCode), &players)
	return players, err
}

// UpdatePlayerReady flips a player's ready flag.
func (s *Store) UpdatePlayerReady(ctx context.Context, roomCode, playerID string, ready bool) error {
	return s.rest.Update(ctx, tablePlayers,
		map[string]any{"ready": ready},
		backend.NewQuery().Eq("room_code", roomCode).Eq("player_id", playerID),
	)
}

// UpdateRoomStatus sets a room's status.
func (s *Store) UpdateRoomStatus(ctx context.Context, roomCode, status string) error {
	return s.rest.Update(ctx, tableRooms,
		map[string]any{"status": status},
		backend.NewQuery().Eq("code", roomCode),
	)
}

// LeaveRoom removes a player from a room.
func (s *Store) LeaveRoom(ctx context.Context, roomCode, playerID string) error {
	return s.rest.Delete(ctx, tablePlayers,
		backend.NewQuery().Eq("room_code", roomCode).Eq("player_id", playerID),
	)
}

// StartRound creates the round record. Round numbers are always 1;
// multi-round play never advances despite the max_rounds scaffolding.
func (s *Store) StartRound(ctx context.Context, roomCode, word, definition, wordType string) (model.Round, error) {
	round := model.Round{
		RoomCode:    roomCode,
		RoundNumber: firstRoundNumber,
		Word:        word,
		Definition:  definition,
		WordType:    wordType,
		Status:      roundStatusWriting,
		StartedAt:   s.now(),
	}

	if err := s.rest.Insert(ctx, tableRounds, round); err != nil {
		return model.Round{}, err
	}

	metrics.RecordRoundStarted()
	return round, nil
}

// SubmitTake records a player's take. Empty text is accepted; forced
// submissions on timer expiry write empty takes deliberately.
func (s *Store) SubmitTake(ctx context.Context, roomCode string, roundNumber int, playerID, takeText string) error {
	take := model.Take{
		RoomCode:    roomCode,
		RoundNumber: roundNumber,
		PlayerID:    playerID,
		TakeText:    takeText,
		SubmittedAt: s.now(),
	}
	return s.rest.Insert(ctx, tableTakes, take)
}

// GetRoundTakes lists the takes submitted for a round.
func (s *Store) GetRoundTakes(ctx context.Context, roomCode string, roundNumber int) ([]model.Take, error) {
	var takes []model.Take
	err := s.rest.Select(ctx, tableTakes,
		backend.NewQuery().Eq("room_code", roomCode).Eq("round_number", strconv.Itoa(roundNumber)),
		&takes,
	)
	return takes, err
}

// SubmitVote records one vote on a take.
func (s *Store) SubmitVote(ctx context.Context, roomCode string, roundNumber int, takeID, voterID, voteType string) error {
	vote := model.Vote{
		RoomCode:    roomCode,
		RoundNumber: roundNumber,
		TakeID:      takeID,
		VoterID:     voterID,
		VoteType:    voteType,
		VotedAt:     s.now(),
	}
	if err := s.rest.Insert(ctx, tableVotes, vote); err != nil {
		return err
	}

	metrics.RecordVoteCast(voteType)
	return nil
}

// GetRoundVotes lists all votes for a round.
func (s *Store) GetRoundVotes(ctx context.Context, roomCode string, roundNumber int) ([]model.Vote, error) {
	var votes []model.Vote
	err := s.rest.Select(ctx, tableVotes,
		backend.NewQuery().Eq("room_code", roomCode).Eq("round_number", strconv.Itoa(roundNumber)),
		&votes,
	)
	return votes, err
}

// UpdatePlayerScore additively updates a (player, topic) leaderboard
// entry. First award creates the entry; later awards add points and
// increment games_played once per call. Basedness increments only when
// this call's award exceeds 1 point.
func (s *Store) UpdatePlayerScore(ctx context.Context, playerID, field string, points int) error {
	q := backend.NewQuery().Eq("player_id", playerID).Eq("field", field)

	var existing []model.LeaderboardEntry
	if err := s.rest.Select(ctx, tableLeaderboard, q, &existing); err != nil {
		metrics.RecordLeaderboardError()
		return err
	}

	basedBump := 0
	if points > basednessThreshold {
		basedBump = 1
	}

	var err error
	if len(existing) > 0 {
		err = s.rest.Update(ctx, tableLeaderboard, map[string]any{
			"total_score":     existing[0].TotalScore + points,
			"basedness_score": existing[0].BasednessScore + basedBump,
			"games_played":    existing[0].GamesPlayed + 1,
			"updated_at":      s.now(),
		}, q)
	} else {
		err = s.rest.Insert(ctx, tableLeaderboard, model.LeaderboardEntry{
			PlayerID:       playerID,
			Field:          field,
			TotalScore:     points,
			BasednessScore: basedBump,
			GamesPlayed:    1,
			CreatedAt:      s.now(),
		})
	}

	if err != nil {
		metrics.RecordLeaderboardError()
		return err
	}

	metrics.RecordLeaderboardUpdate()
	return nil
}

// Leaderboard returns ranked entries for one topic, or across all
// topics when field is "all". Results are ordered by total score
// descending and capped at limit (default 10).
func (s *Store) Leaderboard(ctx context.Context, field string, limit int) ([]model.LeaderboardEntry, error) {
	if limit < 1 {
		limit = DefaultLeaderboardLimit
	}

	var q backend.Query
	if field == model.TopicAll {
		q = backend.NewQuery().SelectAll().OrderDesc("total_score").Limit(limit)
	} else {
		q = backend.NewQuery().Eq("field", field).OrderDesc("total_score").Limit(limit)
	}

	var entries []model.LeaderboardEntry
	err := s.rest.Select(ctx, tableLeaderboard, q, &entries)
	return entries, err
}

// AvailableRooms lists lobby rooms with free seats. Each candidate
// costs one extra player lookup, and nothing prevents a room filling
// up between this check and a join.
func (s *Store) AvailableRooms(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	if err := s.rest.Select(ctx, tableRooms, backend.NewQuery().Eq("status", model.RoomStatusLobby), &rooms); err != nil {
		return nil, err
	}

	available := make([]model.Room, 0, len(rooms))
	for _, room := range rooms {
		players, err := s.GetRoomPlayers(ctx, room.Code)
		if err != nil {
			return nil, err
		}
		if len(players) < model.MaxRoomPlayers {
			available = append(available, room)
		}
	}

	return available, nil
}
