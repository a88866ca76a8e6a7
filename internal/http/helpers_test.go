package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"avotrade/internal/config"
	"avotrade/internal/domain"
	"avotrade/internal/http/handlers"
	applog "avotrade/internal/log"
	"avotrade/internal/repos"
	"avotrade/internal/services"
)

const (
	adminUser = "admin"
	adminPass = "Passw0rd!"
)

type recordingNotifier struct {
	mu   sync.Mutex
	seen []domain.Enquiry
}

func (n *recordingNotifier) EnquiryCreated(e domain.Enquiry) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.seen = append(n.seen, e)
	return true
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.seen)
}

type testEnv struct {
	app      *fiber.App
	db       *sqlx.DB
	deps     *handlers.Deps
	notifier *recordingNotifier
	cfg      config.Config
}

func newTestEnv(t *testing.T, lim handlers.Limits) *testEnv {
	t.Helper()
	services.BcryptCost = bcrypt.MinCost
	applog.SetOutput(io.Discard)

	db := repos.NewTestDB(t)
	cfg := config.Config{JWTSecret: "test-secret", TokenTTL: time.Hour, CORSOrigins: "*"}
	n := &recordingNotifier{}
	deps := handlers.NewDeps(db, cfg, n)
	if _, err := deps.Auth.EnsureAdmin(context.Background(), adminUser, adminPass); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	return &testEnv{app: handlers.NewApp(deps, cfg, lim), db: db, deps: deps, notifier: n, cfg: cfg}
}

// do sends a JSON request and decodes a JSON response body into out when out is non-nil.
func (e *testEnv) do(t *testing.T, method, path string, body any, token string, out any) *http.Response {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	if out != nil {
		defer resp.Body.Close()
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return resp
}

func (e *testEnv) login(t *testing.T) string {
	t.Helper()
	var out struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expiresAt"`
	}
	resp := e.do(t, "POST", "/api/admin/login", map[string]string{"username": adminUser, "password": adminPass}, "", &out)
	if resp.StatusCode != fiber.StatusOK || out.Token == "" {
		t.Fatalf("login: status %d", resp.StatusCode)
	}
	return out.Token
}

func buyerBody(name string) map[string]any {
	return map[string]any{
		"name": name, "email": "john@acme.com", "company": "Acme",
		"product": "Crude Avocado Oil", "quantity": "Large (10 Tons+)",
	}
}

type enquiryResp struct {
	Success bool           `json:"success"`
	Enquiry domain.Enquiry `json:"enquiry"`
}

type errorResp struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	Kind   string         `json:"kind"`
	Status int            `json:"status"`
	ReqID  string         `json:"req_id"`
	UserID string         `json:"user_id"`
	Err    string         `json:"err"`
	Fields map[string]any `json:"fields"`
}

type lockedBuf struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	buf := &lockedBuf{}
	applog.SetOutput(buf)
	defer applog.SetOutput(io.Discard)

	fn()

	buf.mu.Lock()
	defer buf.mu.Unlock()
	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.b.String()), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
