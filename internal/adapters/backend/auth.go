package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/HeatedDotCom/heated/internal/adapters/session"
	"github.com/HeatedDotCom/heated/internal/domain/model"
	"github.com/HeatedDotCom/heated/pkg/logger"
	"github.com/HeatedDotCom/heated/pkg/metrics"

	"github.com/google/uuid"
)

// Suffix lengths for fabricated anonymous identities.
const (
	anonIDSuffixLen   = 9
	anonNameSuffixLen = 5
)

// authUser mirrors the auth endpoint's user payload.
type authUser struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	UserMetadata struct {
		Username string `json:"username"`
	} `json:"user_metadata"`
}

func (u authUser) toModel() model.User {
	return model.User{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.UserMetadata.Username,
	}
}

// SignUp registers an email/password account. The backend sends a
// confirmation email; no session is established here.
func (c *Client) SignUp(ctx context.Context, email, password, username string) error {
	body := map[string]any{
		"email":    email,
		"password": password,
		"options": map[string]any{
			"data": map[string]any{"username": username},
		},
	}

	var result struct {
		Msg       string `json:"msg"`
		ErrorDesc string `json:"error_description"`
	}
	status, err := c.authPost(ctx, "/auth/v1/signup", body, &result, "signup")
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("%w: %s", ErrAuthFailed, firstNonEmpty(result.Msg, result.ErrorDesc, "signup rejected"))
	}
	return nil
}

// SignIn exchanges credentials for a bearer token and persists the
// session.
func (c *Client) SignIn(ctx context.Context, email, password string) (model.User, error) {
	body := map[string]any{"email": email, "password": password}

	var result struct {
		AccessToken string   `json:"access_token"`
		User        authUser `json:"user"`
		ErrorDesc   string   `json:"error_description"`
		Msg         string   `json:"msg"`
	}
	status, err := c.authPost(ctx, "/auth/v1/token?grant_type=password", body, &result, "signin")
	if err != nil {
		return model.User{}, err
	}
	if status < 200 || status > 299 || result.AccessToken == "" {
		return model.User{}, fmt.Errorf("%w: %s", ErrAuthFailed, firstNonEmpty(result.ErrorDesc, result.Msg, "login rejected"))
	}

	user := result.User.toModel()

	c.mu.Lock()
	c.bearer = result.AccessToken
	c.user = &user
	c.mu.Unlock()

	if c.sessions != nil {
		if err := c.sessions.Save(session.State{AccessToken: result.AccessToken, User: user}); err != nil {
			c.log.Warn(ctx, "failed to persist session", logger.Error(err))
		}
	}

	return user, nil
}

// SignInAnonymously fabricates a local identity with no server-side
// registration. The identity is persisted like a real session so it
// survives restarts.
func (c *Client) SignInAnonymously(ctx context.Context) (model.User, error) {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	user := model.User{
		ID:       "anon_" + raw[:anonIDSuffixLen],
		Username: "Anonymous_" + raw[anonIDSuffixLen:anonIDSuffixLen+anonNameSuffixLen],
	}

	c.mu.Lock()
	c.user = &user
	c.mu.Unlock()

	if c.sessions != nil {
		if err := c.sessions.Save(session.State{User: user}); err != nil {
			c.log.Warn(ctx, "failed to persist anonymous session", logger.Error(err))
		}
	}

	return user, nil
}

// SignOut clears the session and restores the anon-key bearer.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	c.user = nil
	c.bearer = c.anonKey
	c.mu.Unlock()

	if c.sessions != nil {
		if err := c.sessions.Clear(); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
	}
	return nil
}

// CurrentUser returns the signed-in user, restoring a persisted
// session on first use. Returns false when no session exists.
func (c *Client) CurrentUser() (model.User, bool) {
	c.mu.RLock()
	if c.user != nil {
		u := *c.user
		c.mu.RUnlock()
		return u, true
	}
	c.mu.RUnlock()

	if c.sessions == nil {
		return model.User{}, false
	}

	st, ok, err := c.sessions.Load()
	if err != nil || !ok {
		return model.User{}, false
	}

	c.mu.Lock()
	c.user = &st.User
	if st.AccessToken != "" {
		c.bearer = st.AccessToken
	}
	c.mu.Unlock()

	return st.User, true
}

func (c *Client) authPost(ctx context.Context, path string, body any, dest any, operation string) (int, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("encode auth request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return 0, fmt.Errorf("build auth request: %w", err)
	}
	c.setHeaders(req)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordBackendError("auth", operation)
		return 0, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordBackendError("auth", operation)
		return resp.StatusCode, fmt.Errorf("read auth response: %w", err)
	}

	metrics.RecordBackendRequest("auth", operation, time.Since(start).Seconds())

	// Auth endpoints return structured errors in the body; let callers
	// inspect both the status and the decoded payload.
	if len(data) > 0 {
		if err := json.Unmarshal(data, dest); err != nil {
			return resp.StatusCode, fmt.Errorf("decode auth response: %w", err)
		}
	}

	return resp.StatusCode, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
