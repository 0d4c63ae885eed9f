package view_test

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/HeatedDotCom/heated/internal/domain/model"
	"github.com/HeatedDotCom/heated/internal/view"
)

func TestRenderLeaderboard(t *testing.T) {
	Convey("Given leaderboard entries", t, func() {
		entries := []model.LeaderboardEntry{
			{PlayerID: "anon_ab12cd34e", Field: "politics", TotalScore: 12, BasednessScore: 3, GamesPlayed: 5},
			{PlayerID: "karl", Field: "politics", TotalScore: 8, BasednessScore: 1, GamesPlayed: 4},
			{PlayerID: "rosa", Field: "politics", TotalScore: 6, BasednessScore: 2, GamesPlayed: 2},
			{PlayerID: "vlad", Field: "politics", TotalScore: 1, BasednessScore: 0, GamesPlayed: 1},
		}

		Convey("Rendering medals the top three and numbers the rest", func() {
			var b strings.Builder
			view.RenderLeaderboard(&b, "politics", entries)
			out := b.String()

			So(out, ShouldContainSubstring, "🥇")
			So(out, ShouldContainSubstring, "🥈")
			So(out, ShouldContainSubstring, "🥉")
			So(out, ShouldContainSubstring, "4")
			So(out, ShouldContainSubstring, "politics")
		})

		Convey("Anonymous ids are rewritten for display", func() {
			var b strings.Builder
			view.RenderLeaderboard(&b, "politics", entries)

			So(b.String(), ShouldContainSubstring, "Anonymous_ab12cd34e")
			So(b.String(), ShouldNotContainSubstring, "anon_ab12cd34e")
		})

		Convey("An empty board renders a placeholder", func() {
			var b strings.Builder
			view.RenderLeaderboard(&b, "all", nil)

			So(b.String(), ShouldContainSubstring, "No rankings yet")
		})
	})
}

func TestRenderFinal(t *testing.T) {
	Convey("Given a finished game", t, func() {
		players := []model.Player{
			{Username: "rosa", Score: 4},
			{Username: "anon_ab12cd34e", Score: 2},
		}

		Convey("The final board lists players with scores", func() {
			var b strings.Builder
			view.RenderFinal(&b, players)
			out := b.String()

			So(out, ShouldContainSubstring, "Final leaderboard")
			So(out, ShouldContainSubstring, "rosa")
			So(out, ShouldContainSubstring, "Anonymous_ab12cd34e")
			So(out, ShouldContainSubstring, "🥇")
		})

		Convey("An empty game renders a placeholder", func() {
			var b strings.Builder
			view.RenderFinal(&b, nil)

			So(b.String(), ShouldContainSubstring, "Nobody played")
		})
	})
}
