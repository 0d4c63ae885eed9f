// Package wordgen produces the round's word/definition/type triple by
// calling an external chat-completion endpoint, falling back to a
// static per-topic table on any failure.
package wordgen

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/HeatedDotCom/heated/internal/domain/model"
	"github.com/HeatedDotCom/heated/pkg/logger"
	"github.com/HeatedDotCom/heated/pkg/metrics"
)

const (
	defaultModel     = "mistralai/mistral-7b-instruct:free"
	defaultTimeout   = 20 * time.Second
	defaultMaxTokens = 100

	wordFieldCount = 3
)

// Word is a generated word with its definition and part of speech.
type Word struct {
	Word       string
	Definition string
	Type       string
}

// prompts keyed by topic; unknown topics use the random prompt.
var prompts = map[string]string{
	model.TopicPolitics:   "Generate a challenging political vocabulary word that would spark good debate. Return only: word|definition|type (noun/verb/adjective)",
	model.TopicPhilosophy: "Generate a challenging philosophical vocabulary word that would spark good debate. Return only: word|definition|type (noun/verb/adjective)",
	model.TopicSocial:     "Generate a challenging social issues vocabulary word that would spark good debate. Return only: word|definition|type (noun/verb/adjective)",
	model.TopicRandom:     "Generate any challenging vocabulary word that would spark good debate. Return only: word|definition|type (noun/verb/adjective)",
}

// fallbacks keyed by topic; unknown topics use the random fallback.
var fallbacks = map[string]Word{
	model.TopicPolitics:   {Word: "hegemony", Definition: "dominance or influence of one group over others", Type: "noun"},
	model.TopicPhilosophy: {Word: "nihilism", Definition: "the belief that life is meaningless", Type: "noun"},
	model.TopicSocial:     {Word: "ostracize", Definition: "to exclude someone from a group", Type: "verb"},
	model.TopicRandom:     {Word: "ephemeral", Definition: "lasting for a very short time", Type: "adjective"},
}

// Fallback returns the static word for a topic.
func Fallback(topic string) Word {
	if w, ok := fallbacks[topic]; ok {
		return w
	}
	return fallbacks[model.TopicRandom]
}

// Generator calls the text-generation endpoint.
type Generator struct {
	url    string
	apiKey string
	model  string
	http   *http.Client
	log    logger.Logger
}

// New creates a Generator.
func New(url, apiKey string, opts ...Option) *Generator {
	g := &Generator{
		url:    url,
		apiKey: apiKey,
		model:  defaultModel,
		http:   &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.log == nil {
		g.log = logger.Get().Named("wordgen")
	}

	return g
}

type completionRequest struct {
	Model     string              `json:"model"`
	Messages  []completionMessage `json:"messages"`
	MaxTokens int                 `json:"max_tokens"`
}

type completionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate fetches a word for the topic. Failures of any kind return
// the static fallback word and no error; the round always proceeds.
func (g *Generator) Generate(ctx context.Context, topic string) (Word, error) {
	prompt, ok := prompts[topic]
	if !ok {
		prompt = prompts[model.TopicRandom]
	}

	metrics.RecordWordgenRequest()

	word, err := g.complete(ctx, prompt)
	if err != nil {
		metrics.RecordWordgenFallback()
		g.log.Warn(ctx, "word generation failed, using fallback",
			logger.String("topic", topic),
			logger.Error(err),
		)
		return Fallback(topic), nil
	}

	return word, nil
}

func (g *Generator) complete(ctx context.Context, prompt string) (Word, error) {
	body, err := json.Marshal(completionRequest{
		Model:     g.model,
		Messages:  []completionMessage{{Role: "user", Content: prompt}},
		MaxTokens: defaultMaxTokens,
	})
	if err != nil {
		return Word{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return Word{}, err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return Word{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Word{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Word{}, ErrGenerationFailed
	}

	var decoded completionResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return Word{}, err
	}
	if len(decoded.Choices) == 0 {
		return Word{}, ErrMalformedResponse
	}

	return parseWord(decoded.Choices[0].Message.Content)
}

// parseWord splits a pipe-delimited "word|definition|type" line into
// its three trimmed fields.
func parseWord(content string) (Word, error) {
	parts := strings.Split(strings.TrimSpace(content), "|")
	if len(parts) != wordFieldCount {
		return Word{}, ErrMalformedResponse
	}

	return Word{
		Word:       strings.TrimSpace(parts[0]),
		Definition: strings.TrimSpace(parts[1]),
		Type:       strings.TrimSpace(parts[2]),
	}, nil
}
