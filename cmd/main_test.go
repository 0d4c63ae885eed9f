package main

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/HeatedDotCom/heated/internal/domain/model"
)

func TestRootCommand(t *testing.T) {
	Convey("Given the root command", t, func() {
		root := newRootCommand()

		Convey("All subcommands are registered", func() {
			names := map[string]bool{}
			for _, cmd := range root.Commands() {
				names[cmd.Name()] = true
			}

			for _, want := range []string{"play", "board", "simulate", "login", "signup", "logout"} {
				So(names[want], ShouldBeTrue)
			}
		})

		Convey("The board command defaults to the all topic", func() {
			board, _, err := root.Find([]string{"board"})

			So(err, ShouldBeNil)
			So(board.Flags().Lookup("topic").DefValue, ShouldEqual, model.TopicAll)
		})

		Convey("Login requires credentials", func() {
			login, _, err := root.Find([]string{"login"})

			So(err, ShouldBeNil)
			So(login.Flags().Lookup("email"), ShouldNotBeNil)
			So(login.Flags().Lookup("password"), ShouldNotBeNil)
		})
	})
}
