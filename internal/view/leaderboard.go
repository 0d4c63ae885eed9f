// Package view renders read-only leaderboard screens for the
// terminal.
package view

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/HeatedDotCom/heated/internal/domain/model"
)

var medals = []string{"🥇", "🥈", "🥉"}

// rankLabel renders a medal for the top three and a plain number
// below that.
func rankLabel(rank int) string {
	if rank <= len(medals) {
		return medals[rank-1]
	}
	return strconv.Itoa(rank)
}

// displayName rewrites anonymous ids into their friendly form.
func displayName(id string) string {
	if rest, ok := strings.CutPrefix(id, "anon_"); ok {
		return "Anonymous_" + rest
	}
	return id
}

// RenderLeaderboard writes the ranked board for one topic (or all
// topics) to w.
func RenderLeaderboard(w io.Writer, topic string, entries []model.LeaderboardEntry) {
	fmt.Fprintf(w, "🔥 Leaderboard — %s\n\n", topic)

	if len(entries) == 0 {
		fmt.Fprintln(w, "No rankings yet. Go drop some takes.")
		return
	}

	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tPLAYER\tTOPIC\tGAMES\tSCORE\tBASEDNESS")
	for i, entry := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\n",
			rankLabel(i+1),
			displayName(entry.PlayerID),
			entry.Field,
			entry.GamesPlayed,
			entry.TotalScore,
			entry.BasednessScore,
		)
	}
	tw.Flush()
}

// RenderFinal writes the end-of-game room leaderboard to w. Players
// are expected in descending score order.
func RenderFinal(w io.Writer, players []model.Player) {
	fmt.Fprintln(w, "🏆 Final leaderboard")
	fmt.Fprintln(w)

	if len(players) == 0 {
		fmt.Fprintln(w, "Nobody played. Brutal.")
		return
	}

	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tPLAYER\tSCORE")
	for i, player := range players {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", rankLabel(i+1), displayName(player.Username), player.Score)
	}
	tw.Flush()
}
