// Package cli is the interactive terminal client: the homepage menu,
// the in-game rendering and input surface, and the auth and
// leaderboard commands behind the binary's subcommands.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/HeatedDotCom/heated/internal/domain/model"
	"github.com/HeatedDotCom/heated/internal/domain/scoring"
	"github.com/HeatedDotCom/heated/internal/view"
)

// Terminal renders game screens and collects line input. It is the
// game controller's view.
type Terminal struct {
	out   io.Writer
	lines chan string
}

// NewTerminal starts a reader goroutine over in and returns a
// Terminal writing to out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	t := &Terminal{
		out:   out,
		lines: make(chan string),
	}
	go t.readLoop(in)
	return t
}

func (t *Terminal) readLoop(in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		t.lines <- strings.TrimSpace(scanner.Text())
	}
	close(t.lines)
}

// ReadLine blocks for the next input line. ok is false when ctx ends
// or input is exhausted. A line typed after ctx expired stays queued
// for the next read.
func (t *Terminal) ReadLine(ctx context.Context) (string, bool) {
	select {
	case <-ctx.Done():
		return "", false
	case line, open := <-t.lines:
		return line, open
	}
}

func (t *Terminal) printf(format string, args ...any) {
	fmt.Fprintf(t.out, format, args...)
}

// Notify shows a transient message. Failures surface here and nowhere
// else; the game keeps going.
func (t *Terminal) Notify(message string) {
	t.printf("⚠ %s\n", message)
}

func (t *Terminal) ShowLobby(room model.Room, players []model.Player) {
	t.printf("\n—— Room %s · topic: %s ——\n", room.Code, room.TopicField)
	for _, p := range players {
		mark := " "
		if p.Ready {
			mark = "✓"
		}
		t.printf("  [%s] %s\n", mark, p.Username)
	}
	t.printf("(%d/%d players)\n", len(players), model.MaxRoomPlayers)
}

func (t *Terminal) ShowWordReveal(round model.Round) {
	t.printf("\n🔥 The word is: %s (%s)\n   %s\n", round.Word, round.WordType, round.Definition)
}

// PromptTake collects the player's take until ctx runs out the
// writing countdown.
func (t *Terminal) PromptTake(ctx context.Context, round model.Round) (string, bool) {
	t.printf("\nDrop your hottest take on %q — clock is running:\n> ", round.Word)
	return t.ReadLine(ctx)
}

func (t *Terminal) ShowWaitingForTakes(submitted, total int) {
	t.printf("Waiting for takes… %d/%d in\n", submitted, total)
}

// PromptVote asks for a vote category, re-prompting until the input
// is one of fire, ok, bad.
func (t *Terminal) PromptVote(ctx context.Context, take model.Take, position, total int) (string, bool) {
	t.printf("\nTake %d/%d:\n  %q\n", position, total, take.TakeText)
	for {
		t.printf("Vote [fire/ok/bad]: ")
		line, ok := t.ReadLine(ctx)
		if !ok {
			return "", false
		}
		switch strings.ToLower(line) {
		case model.VoteFire, model.VoteOK, model.VoteBad:
			return strings.ToLower(line), true
		}
		t.printf("That's not a vote.\n")
	}
}

func (t *Terminal) ShowOwnTake(take model.Take, position, total int) {
	t.printf("\nTake %d/%d:\n  %q\nThat one's yours — no self-votes.\n", position, total, take.TakeText)
}

func (t *Terminal) ShowResults(round model.Round, results []scoring.PlayerResult, players []model.Player) {
	names := make(map[string]string, len(players))
	for _, p := range players {
		names[p.PlayerID] = p.Username
	}

	t.printf("\n—— Results for %q ——\n", round.Word)
	for _, result := range results {
		name := names[result.PlayerID]
		if name == "" {
			name = result.PlayerID
		}
		t.printf("%s: %d point(s)\n", name, result.Score)
		for _, take := range result.Takes {
			t.printf("  %q — %d vote(s), %d point(s)\n", take.Take.TakeText, len(take.Votes), take.Score)
		}
	}
}

func (t *Terminal) ShowFinalLeaderboard(players []model.Player) {
	t.printf("\n")
	view.RenderFinal(t.out, players)
}
