package wordgen_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/HeatedDotCom/heated/internal/adapters/wordgen"
	"github.com/HeatedDotCom/heated/internal/domain/model"
	"github.com/HeatedDotCom/heated/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

func completionBody(content string) string {
	return `{"choices":[{"message":{"content":` + mustJSON(content) + `}}]}`
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestGenerate(t *testing.T) {
	Convey("Given an endpoint returning a well-formed triple", t, func() {
		var gotAuth string
		var gotBody map[string]any

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &gotBody)
			_, _ = w.Write([]byte(completionBody(" demagogue | a leader who gains power by exploiting prejudice | noun ")))
		}))
		defer srv.Close()

		gen := wordgen.New(srv.URL, "api-key", wordgen.WithModel("test-model"))

		Convey("When generating a politics word", func() {
			word, err := gen.Generate(context.Background(), model.TopicPolitics)

			Convey("Then the fields should be split on pipes and trimmed", func() {
				So(err, ShouldBeNil)
				So(word.Word, ShouldEqual, "demagogue")
				So(word.Definition, ShouldEqual, "a leader who gains power by exploiting prejudice")
				So(word.Type, ShouldEqual, "noun")
			})

			Convey("And the request should carry the key and model", func() {
				So(gotAuth, ShouldEqual, "Bearer api-key")
				So(gotBody["model"], ShouldEqual, "test-model")

				messages, ok := gotBody["messages"].([]any)
				So(ok, ShouldBeTrue)
				So(len(messages), ShouldEqual, 1)
				first, ok := messages[0].(map[string]any)
				So(ok, ShouldBeTrue)
				So(first["content"], ShouldContainSubstring, "political")
			})
		})

		Convey("When generating for an unknown topic", func() {
			_, err := gen.Generate(context.Background(), "sports")

			Convey("Then the random prompt should be used", func() {
				So(err, ShouldBeNil)
				messages := gotBody["messages"].([]any)
				first := messages[0].(map[string]any)
				So(first["content"], ShouldContainSubstring, "any challenging vocabulary word")
			})
		})
	})

	Convey("Given an endpoint returning a malformed response", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(completionBody("just a word with no pipes")))
		}))
		defer srv.Close()

		gen := wordgen.New(srv.URL, "api-key")

		Convey("When generating a philosophy word", func() {
			word, err := gen.Generate(context.Background(), model.TopicPhilosophy)

			Convey("Then the philosophy fallback should be used without error", func() {
				So(err, ShouldBeNil)
				So(word.Word, ShouldEqual, "nihilism")
				So(word.Type, ShouldEqual, "noun")
			})
		})
	})

	Convey("Given an endpoint that is down", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		gen := wordgen.New(srv.URL, "api-key")

		Convey("When generating a social word", func() {
			word, err := gen.Generate(context.Background(), model.TopicSocial)

			Convey("Then the social fallback should be used", func() {
				So(err, ShouldBeNil)
				So(word.Word, ShouldEqual, "ostracize")
			})
		})

		Convey("And unknown topics should fall back to the random word", func() {
			word, err := gen.Generate(context.Background(), "sports")
			So(err, ShouldBeNil)
			So(word.Word, ShouldEqual, "ephemeral")
		})
	})

	Convey("Given an endpoint returning a server error", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		gen := wordgen.New(srv.URL, "api-key")

		Convey("When generating", func() {
			word, err := gen.Generate(context.Background(), model.TopicPolitics)

			Convey("Then the topic fallback should be used", func() {
				So(err, ShouldBeNil)
				So(word.Word, ShouldEqual, "hegemony")
			})
		})
	})

	Convey("Given an endpoint returning no choices", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}))
		defer srv.Close()

		gen := wordgen.New(srv.URL, "api-key")

		Convey("When generating", func() {
			word, err := gen.Generate(context.Background(), model.TopicRandom)

			Convey("Then the random fallback should be used", func() {
				So(err, ShouldBeNil)
				So(word.Word, ShouldEqual, "ephemeral")
			})
		})
	})
}
