package simulate_test

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/HeatedDotCom/heated/internal/domain/model"
	"github.com/HeatedDotCom/heated/internal/simulate"
	"github.com/HeatedDotCom/heated/pkg/logger"
)

func init() {
	_ = logger.Init()
}

// lockedStore is a thread-safe in-memory room; bots hit it
// concurrently.
type lockedStore struct {
	mu      sync.Mutex
	rooms   map[string]model.Room
	players map[string][]model.Player
	takes   []model.Take
	votes   []model.Vote
}

func newLockedStore() *lockedStore {
	return &lockedStore{
		rooms:   make(map[string]model.Room),
		players: make(map[string][]model.Player),
	}
}

func (s *lockedStore) addRoom(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[code] = model.Room{Code: code, Status: model.RoomStatusLobby, TopicField: model.TopicRandom}
}

func (s *lockedStore) setPlaying(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room := s.rooms[code]
	room.Status = model.RoomStatusPlaying
	s.rooms[code] = room
}

func (s *lockedStore) addHuman(code, playerID, takeText string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[code] = append(s.players[code], model.Player{RoomCode: code, PlayerID: playerID, Ready: true})
	s.takes = append(s.takes, model.Take{ID: uuid.NewString(), RoomCode: code, RoundNumber: 1, PlayerID: playerID, TakeText: takeText})
}

func (s *lockedStore) readyCount(code string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, p := range s.players[code] {
		if p.Ready {
			n++
		}
	}
	return n
}

func (s *lockedStore) GetRoom(_ context.Context, code string) (model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[code]
	if !ok {
		return model.Room{}, errors.New("room not found")
	}
	return room, nil
}

func (s *lockedStore) JoinRoom(_ context.Context, code, playerID, username string) (model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[code] = append(s.players[code], model.Player{RoomCode: code, PlayerID: playerID, Username: username})
	return s.rooms[code], nil
}

func (s *lockedStore) GetRoomPlayers(_ context.Context, code string) ([]model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Player, len(s.players[code]))
	copy(out, s.players[code])
	return out, nil
}

func (s *lockedStore) UpdatePlayerReady(_ context.Context, code, playerID string, ready bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.players[code] {
		if p.PlayerID == playerID {
			s.players[code][i].Ready = ready
		}
	}
	return nil
}

func (s *lockedStore) SubmitTake(_ context.Context, code string, roundNumber int, playerID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.takes = append(s.takes, model.Take{ID: uuid.NewString(), RoomCode: code, RoundNumber: roundNumber, PlayerID: playerID, TakeText: text})
	return nil
}

func (s *lockedStore) GetRoundTakes(_ context.Context, code string, roundNumber int) ([]model.Take, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Take
	for _, t := range s.takes {
		if t.RoomCode == code && t.RoundNumber == roundNumber {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *lockedStore) SubmitVote(_ context.Context, code string, roundNumber int, takeID, voterID, voteType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.votes = append(s.votes, model.Vote{RoomCode: code, RoundNumber: roundNumber, TakeID: takeID, VoterID: voterID, VoteType: voteType})
	return nil
}

func (s *lockedStore) LeaveRoom(_ context.Context, code, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.players[code][:0]
	for _, p := range s.players[code] {
		if p.PlayerID != playerID {
			kept = append(kept, p)
		}
	}
	s.players[code] = kept
	return nil
}

func TestSimulation(t *testing.T) {
	ctx := context.Background()

	Convey("Given a lobby and two bots", t, func() {
		fs := newLockedStore()
		fs.addRoom("ROOM01")

		runner := simulate.New(fs,
			simulate.WithBots(2),
			simulate.WithPollInterval(time.Millisecond),
			simulate.WithMaxWait(2*time.Second),
			simulate.WithRand(rand.New(rand.NewSource(3))),
		)

		Convey("Bots play through a round a human starts", func() {
			// Stand in for the human host: once both bots are in and
			// ready, join with a take and flip the room to playing.
			go func() {
				for fs.readyCount("ROOM01") < 2 {
					time.Sleep(time.Millisecond)
				}
				fs.addHuman("ROOM01", "p-human", "a human take")
				fs.setPlaying("ROOM01")
			}()

			stats, err := runner.Run(ctx, "ROOM01")

			So(err, ShouldBeNil)
			So(stats.BotsJoined, ShouldEqual, 2)
			So(stats.TakesSubmitted, ShouldEqual, 2)

			Convey("Each bot voted on every take but its own", func() {
				So(stats.VotesCast, ShouldEqual, 4)
				for _, v := range fs.votes {
					So(v.VoteType, ShouldBeIn, model.VoteFire, model.VoteOK, model.VoteBad)
				}
			})

			Convey("Bots left the room afterwards", func() {
				players, err := fs.GetRoomPlayers(ctx, "ROOM01")
				So(err, ShouldBeNil)
				So(players, ShouldHaveLength, 1)
				So(players[0].PlayerID, ShouldEqual, "p-human")
			})
		})

		Convey("Bots give up when nobody starts the game", func() {
			short := simulate.New(fs,
				simulate.WithBots(1),
				simulate.WithPollInterval(time.Millisecond),
				simulate.WithMaxWait(10*time.Millisecond),
			)

			_, err := short.Run(ctx, "ROOM01")
			So(err, ShouldWrap, simulate.ErrWaitTimeout)
		})

		Convey("A missing room fails before any bot joins", func() {
			stats, err := runner.Run(ctx, "NOPE12")

			So(err, ShouldNotBeNil)
			So(stats.BotsJoined, ShouldEqual, 0)
		})
	})
}
