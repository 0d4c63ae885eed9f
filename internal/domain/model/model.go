// Package model contains domain records passed between layers.
// Field tags mirror the backend table columns.
package model

import "time"

// Room statuses as stored in the rooms table.
const (
	RoomStatusLobby   = "lobby"
	RoomStatusPlaying = "playing"
)

// Vote categories as stored in the votes table.
const (
	VoteFire = "fire"
	VoteOK   = "ok"
	VoteBad  = "bad"
)

// MaxRoomPlayers caps how many players a room should hold. The backend
// does not enforce it; joins racing past the limit are accepted.
const MaxRoomPlayers = 8

// Room is a game room row.
type Room struct {
	Code         string    `json:"code"`
	HostID       string    `json:"host_id"`
	TopicField   string    `json:"topic_field"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	CurrentRound int       `json:"current_round"`
	MaxRounds    int       `json:"max_rounds"`
}

// Player is a room membership row, keyed by (room_code, player_id).
type Player struct {
	RoomCode string    `json:"room_code"`
	PlayerID string    `json:"player_id"`
	Username string    `json:"username"`
	Ready    bool      `json:"ready"`
	Score    int       `json:"score"`
	JoinedAt time.Time `json:"joined_at"`
}

// Round is a game round row. RoundNumber is always 1; multi-round play
// is scaffolded via Room.MaxRounds but never advances past round 1.
type Round struct {
	RoomCode    string    `json:"room_code"`
	RoundNumber int       `json:"round_number"`
	Word        string    `json:"word"`
	Definition  string    `json:"definition"`
	WordType    string    `json:"word_type"`
	Status      string    `json:"status"`
	StartedAt   time.Time `json:"started_at"`
}

// Take is a player's free-text submission for a round.
type Take struct {
	ID          string    `json:"id,omitempty"`
	RoomCode    string    `json:"room_code"`
	RoundNumber int       `json:"round_number"`
	PlayerID    string    `json:"player_id"`
	TakeText    string    `json:"take_text"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Vote is a single vote on a take.
type Vote struct {
	RoomCode    string    `json:"room_code"`
	RoundNumber int       `json:"round_number"`
	TakeID      string    `json:"take_id"`
	VoterID     string    `json:"voter_id"`
	VoteType    string    `json:"vote_type"`
	VotedAt     time.Time `json:"voted_at"`
}

// LeaderboardEntry is a cumulative score row keyed by (player_id, field).
type LeaderboardEntry struct {
	PlayerID       string    `json:"player_id"`
	Field          string    `json:"field"`
	TotalScore     int       `json:"total_score"`
	BasednessScore int       `json:"basedness_score"`
	GamesPlayed    int       `json:"games_played"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
	UpdatedAt      time.Time `json:"updated_at,omitempty"`
}

// User is an authenticated or anonymous identity.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
}

// DisplayName returns the best human-readable name for the user.
func (u User) DisplayName() string {
	switch {
	case u.Username != "":
		return u.Username
	case u.Email != "":
		return u.Email
	default:
		return "Anonymous"
	}
}
