package metrics_test

import (
	"net/http/httptest"
	"testing"

	"github.com/HeatedDotCom/heated/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a metrics manager on a private registry", t, func() {
		reg := prometheus.NewRegistry()
		m := metrics.NewManager(
			metrics.WithRegistry(reg),
			metrics.WithNamespace("test"),
			metrics.WithSubsystem("game"),
		)

		Convey("Then construction should succeed", func() {
			So(m, ShouldNotBeNil)
		})

		Convey("And registering the same metrics twice should panic", func() {
			// promauto panics on duplicate registration, which guards
			// against accidentally building two managers per registry.
			So(func() {
				metrics.NewManager(
					metrics.WithRegistry(reg),
					metrics.WithNamespace("test"),
					metrics.WithSubsystem("game"),
				)
			}, ShouldPanic)
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording game events", func() {
			So(func() {
				metrics.RecordBackendRequest("rooms", "select", 0.01)
				metrics.RecordBackendError("rooms", "insert")
				metrics.RecordWordgenRequest()
				metrics.RecordWordgenFallback()
				metrics.RecordRoomCreated()
				metrics.RecordRoomJoined()
				metrics.RecordRoundStarted()
				metrics.RecordTakeSubmitted(true)
				metrics.RecordTakeSubmitted(false)
				metrics.RecordVoteCast("fire")
				metrics.RecordLeaderboardUpdate()
				metrics.RecordLeaderboardError()
			}, ShouldNotPanic)
		})

		Convey("Then the handler should expose them", func() {
			req := httptest.NewRequest("GET", "/metrics", nil)
			w := httptest.NewRecorder()
			metrics.Handler().ServeHTTP(w, req)
			So(w.Code, ShouldEqual, 200)
			So(w.Body.String(), ShouldContainSubstring, "heated_client_backend_requests_total")
		})
	})
}
