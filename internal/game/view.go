package game

import (
	"context"

	"github.com/HeatedDotCom/heated/internal/domain/model"
	"github.com/HeatedDotCom/heated/internal/domain/scoring"
)

// View is the rendering and input surface the controller drives. All
// failures reach the player through Notify as transient messages;
// nothing rendered is load-bearing for game state.
type View interface {
	// Notify shows a transient, non-blocking message.
	Notify(message string)

	ShowLobby(room model.Room, players []model.Player)
	ShowWordReveal(round model.Round)

	// PromptTake collects the player's take. It must return when ctx
	// is done; ok is false when no take was entered in time.
	PromptTake(ctx context.Context, round model.Round) (text string, ok bool)

	ShowWaitingForTakes(submitted, total int)

	// PromptVote collects a vote category for someone else's take.
	// Implementations re-prompt on invalid input; ok is false only
	// when ctx is done.
	PromptVote(ctx context.Context, take model.Take, position, total int) (voteType string, ok bool)

	// ShowOwnTake is rendered while the player's own take auto-skips.
	ShowOwnTake(take model.Take, position, total int)

	ShowResults(round model.Round, results []scoring.PlayerResult, players []model.Player)
	ShowFinalLeaderboard(players []model.Player)
}
