package backend_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/HeatedDotCom/heated/internal/adapters/backend"
	"github.com/HeatedDotCom/heated/internal/adapters/session"
	"github.com/HeatedDotCom/heated/internal/domain/model"
	"github.com/HeatedDotCom/heated/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

func TestQuery(t *testing.T) {
	Convey("Given the filter grammar builder", t, func() {
		Convey("Then single equality filters should render field=eq.value", func() {
			So(backend.NewQuery().Eq("code", "ABC123").Encode(), ShouldEqual, "code=eq.ABC123")
		})

		Convey("And chained filters should join with ampersands", func() {
			q := backend.NewQuery().Eq("room_code", "XYZ").Eq("round_number", "1")
			So(q.Encode(), ShouldEqual, "room_code=eq.XYZ&round_number=eq.1")
		})

		Convey("And list modifiers should append in order", func() {
			q := backend.NewQuery().SelectAll().OrderDesc("total_score").Limit(10)
			So(q.Encode(), ShouldEqual, "select=*&order=total_score.desc&limit=10")
		})

		Convey("And values should be URL-escaped", func() {
			So(backend.NewQuery().Eq("field", "a b").Encode(), ShouldEqual, "field=eq.a+b")
		})

		Convey("And the zero query should encode empty", func() {
			So(backend.NewQuery().Encode(), ShouldBeEmpty)
		})
	})
}

func TestClientCRUD(t *testing.T) {
	Convey("Given a backend server capturing requests", t, func() {
		type captured struct {
			method string
			path   string
			query  string
			auth   string
			apikey string
			prefer string
			body   []byte
		}
		var got captured
		status := http.StatusOK
		response := `[]`

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			got = captured{
				method: r.Method,
				path:   r.URL.Path,
				query:  r.URL.RawQuery,
				auth:   r.Header.Get("Authorization"),
				apikey: r.Header.Get("apikey"),
				prefer: r.Header.Get("Prefer"),
				body:   body,
			}
			w.WriteHeader(status)
			_, _ = w.Write([]byte(response))
		}))
		defer srv.Close()

		client := backend.New(srv.URL, "anon-key")

		Convey("When inserting a record", func() {
			room := model.Room{Code: "ABC123", Status: model.RoomStatusLobby}
			err := client.Insert(context.Background(), "rooms", room)

			Convey("Then it should POST to the table with the standard headers", func() {
				So(err, ShouldBeNil)
				So(got.method, ShouldEqual, http.MethodPost)
				So(got.path, ShouldEqual, "/rest/v1/rooms")
				So(got.auth, ShouldEqual, "Bearer anon-key")
				So(got.apikey, ShouldEqual, "anon-key")
				So(got.prefer, ShouldEqual, "return=minimal")

				var sent model.Room
				So(json.Unmarshal(got.body, &sent), ShouldBeNil)
				So(sent.Code, ShouldEqual, "ABC123")
			})
		})

		Convey("When selecting rows", func() {
			response = `[{"code":"ABC123","status":"lobby"}]`

			var rooms []model.Room
			err := client.Select(context.Background(), "rooms", backend.NewQuery().Eq("code", "ABC123"), &rooms)

			Convey("Then the filter should ride the query string and rows decode", func() {
				So(err, ShouldBeNil)
				So(got.method, ShouldEqual, http.MethodGet)
				So(got.query, ShouldEqual, "code=eq.ABC123")
				So(len(rooms), ShouldEqual, 1)
				So(rooms[0].Code, ShouldEqual, "ABC123")
			})
		})

		Convey("When updating rows", func() {
			err := client.Update(context.Background(), "room_players",
				map[string]any{"ready": true},
				backend.NewQuery().Eq("room_code", "ABC123").Eq("player_id", "p1"))

			Convey("Then it should PATCH with the filter applied", func() {
				So(err, ShouldBeNil)
				So(got.method, ShouldEqual, http.MethodPatch)
				So(got.query, ShouldEqual, "room_code=eq.ABC123&player_id=eq.p1")
			})
		})

		Convey("When deleting rows", func() {
			err := client.Delete(context.Background(), "room_players", backend.NewQuery().Eq("player_id", "p1"))

			Convey("Then it should DELETE with the filter applied", func() {
				So(err, ShouldBeNil)
				So(got.method, ShouldEqual, http.MethodDelete)
				So(got.query, ShouldEqual, "player_id=eq.p1")
			})
		})

		Convey("When the backend rejects a request", func() {
			status = http.StatusConflict
			err := client.Insert(context.Background(), "rooms", model.Room{})

			Convey("Then a request error should surface", func() {
				So(err, ShouldNotBeNil)
				So(err, ShouldWrap, backend.ErrRequestFailed)
			})
		})
	})
}

func TestAuth(t *testing.T) {
	Convey("Given a backend with auth endpoints and a session store", t, func() {
		var lastAuthHeader string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/auth/v1/token":
				_, _ = w.Write([]byte(`{
					"access_token": "token-abc",
					"user": {"id":"u1","email":"a@b.c","user_metadata":{"username":"alice"}}
				}`))
			case "/auth/v1/signup":
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{}`))
			default:
				lastAuthHeader = r.Header.Get("Authorization")
				_, _ = w.Write([]byte(`[]`))
			}
		}))
		defer srv.Close()

		store, err := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
		So(err, ShouldBeNil)

		client := backend.New(srv.URL, "anon-key", backend.WithSessions(store))

		Convey("When signing in with valid credentials", func() {
			user, err := client.SignIn(context.Background(), "a@b.c", "hunter2")

			Convey("Then the user should be returned", func() {
				So(err, ShouldBeNil)
				So(user.ID, ShouldEqual, "u1")
				So(user.Username, ShouldEqual, "alice")
			})

			Convey("And the bearer token should replace the anon key", func() {
				var rows []model.Room
				So(client.Select(context.Background(), "rooms", backend.NewQuery(), &rows), ShouldBeNil)
				So(lastAuthHeader, ShouldEqual, "Bearer token-abc")
			})

			Convey("And the session should be persisted", func() {
				st, ok, err := store.Load()
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(st.AccessToken, ShouldEqual, "token-abc")

				Convey("So a fresh client restores it", func() {
					fresh := backend.New(srv.URL, "anon-key", backend.WithSessions(store))
					restored, ok := fresh.CurrentUser()
					So(ok, ShouldBeTrue)
					So(restored.ID, ShouldEqual, "u1")
				})
			})

			Convey("And signing out should clear everything", func() {
				So(client.SignOut(context.Background()), ShouldBeNil)

				_, ok := client.CurrentUser()
				So(ok, ShouldBeFalse)

				var rows []model.Room
				So(client.Select(context.Background(), "rooms", backend.NewQuery(), &rows), ShouldBeNil)
				So(lastAuthHeader, ShouldEqual, "Bearer anon-key")
			})
		})

		Convey("When signing in anonymously", func() {
			user, err := client.SignInAnonymously(context.Background())

			Convey("Then a local identity should be fabricated", func() {
				So(err, ShouldBeNil)
				So(user.ID, ShouldStartWith, "anon_")
				So(user.Username, ShouldStartWith, "Anonymous_")
			})

			Convey("And it should persist without a token", func() {
				st, ok, err := store.Load()
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(st.AccessToken, ShouldBeEmpty)
				So(st.User.ID, ShouldEqual, user.ID)
			})
		})

		Convey("When signing up", func() {
			err := client.SignUp(context.Background(), "new@b.c", "hunter2", "newbie")

			Convey("Then it should succeed without establishing a session", func() {
				So(err, ShouldBeNil)
				_, ok := client.CurrentUser()
				So(ok, ShouldBeFalse)
			})
		})
	})

	Convey("Given a backend that rejects logins", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error_description":"Invalid login credentials"}`))
		}))
		defer srv.Close()

		client := backend.New(srv.URL, "anon-key")

		Convey("When signing in", func() {
			_, err := client.SignIn(context.Background(), "a@b.c", "wrong")

			Convey("Then an auth failure should surface with the backend message", func() {
				So(err, ShouldNotBeNil)
				So(err, ShouldWrap, backend.ErrAuthFailed)
				So(err.Error(), ShouldContainSubstring, "Invalid login credentials")
			})
		})
	})
}
