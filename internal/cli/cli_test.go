package cli

import (
	"bytes"
	"context"
	"io"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"avotrade/internal/cli/output"
	"avotrade/internal/client"
	"avotrade/internal/config"
	"avotrade/internal/domain"
	"avotrade/internal/http/handlers"
	applog "avotrade/internal/log"
	"avotrade/internal/repos"
	"avotrade/internal/services"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := output.Out
	output.Out = &buf
	t.Cleanup(func() { output.Out = prev })
	return &buf
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

// startServer runs the API on a loopback port and points the CLI's config at it.
func startServer(t *testing.T) string {
	t.Helper()
	services.BcryptCost = bcrypt.MinCost
	applog.SetOutput(io.Discard)

	cfg := config.Config{JWTSecret: "cli-secret", TokenTTL: time.Hour, CORSOrigins: "*"}
	deps := handlers.NewDeps(repos.NewTestDB(t), cfg, nil)
	_, err := deps.Auth.EnsureAdmin(context.Background(), "admin", "Passw0rd!")
	require.NoError(t, err)
	app := handlers.NewApp(deps, cfg, handlers.Limits{Global: 1000, Login: 100})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go app.Listener(ln)
	t.Cleanup(func() { _ = app.Shutdown() })

	base := "http://" + ln.Addr().String()
	t.Setenv("API_URL", base)
	t.Setenv("API_TOKEN", "")
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD", "Passw0rd!")
	return base
}

func TestPositiveInt(t *testing.T) {
	n, err := positiveInt("days", " 14 ")
	require.NoError(t, err)
	assert.Equal(t, 14, n)

	for _, bad := range []string{"", "0", "-1", "week"} {
		_, err := positiveInt("days", bad)
		assert.Error(t, err, bad)
	}

	_, err = parseID("abc")
	assert.ErrorContains(t, err, `invalid id "abc"`)
}

func TestDayRowsScaleToBusiestDay(t *testing.T) {
	rows := dayRows([]domain.DayCount{
		{Date: "2026-10-01", Count: 10},
		{Date: "2026-10-02", Count: 5},
		{Date: "2026-10-03", Count: 0},
	})
	require.Len(t, rows, 3)
	assert.Equal(t, barWidth, len([]rune(rows[0][2])))
	assert.Equal(t, barWidth/2, len([]rune(rows[1][2])))
	assert.Empty(t, rows[2][2])

	assert.Empty(t, dayRows(nil))
}

func TestHashPasswordCommand(t *testing.T) {
	services.BcryptCost = bcrypt.MinCost
	buf := captureOutput(t)

	require.NoError(t, run(t, "hash-password", "S3cure-pass"))
	hash := strings.TrimSpace(buf.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("S3cure-pass")))

	assert.Error(t, run(t, "hash-password", "short"))
}

func TestMigrateStatusThenApply(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", t.TempDir()+"/cli.db")
	buf := captureOutput(t)

	require.NoError(t, run(t, "migrate", "status"))
	assert.Contains(t, buf.String(), "○ 0001_")
	assert.NotContains(t, buf.String(), "✓")

	buf.Reset()
	require.NoError(t, run(t, "migrate"))
	assert.Contains(t, buf.String(), "✓ 0001_")
	assert.Contains(t, buf.String(), "Schema is up to date")
}

func TestLeadsWorkflowAgainstRunningServer(t *testing.T) {
	base := startServer(t)
	ctx := context.Background()

	public := client.New(client.AgentTransport{BaseURL: base})
	lead, err := public.SubmitEnquiry(ctx, services.EnquiryInput{
		Name: "Thandi", Email: "thandi@example.co.za", Company: "Limpopo Oils",
		Product: strPtr("Cold-Pressed Avocado Oil"), Quantity: strPtr("2 tons"),
	})
	require.NoError(t, err)
	id := strconv.FormatInt(lead.ID, 10)

	buf := captureOutput(t)
	require.NoError(t, run(t, "leads", "advance", id))
	assert.Contains(t, buf.String(), "new → pending")
	require.NoError(t, run(t, "leads", "advance", id))
	assert.Contains(t, buf.String(), "pending → completed")
	assert.ErrorContains(t, run(t, "leads", "advance", id), "no next stage")

	buf.Reset()
	require.NoError(t, run(t, "leads", "list", "--status", "completed", "--limit", "10"))
	assert.Contains(t, buf.String(), "Limpopo Oils")
	assert.Contains(t, buf.String(), "completed")

	buf.Reset()
	require.NoError(t, run(t, "leads", "archive", id))
	assert.Contains(t, buf.String(), "is now archived")

	require.NoError(t, run(t, "leads", "delete", id))
	err = run(t, "leads", "advance", id)
	assert.Equal(t, 404, client.StatusOf(err))
}

func TestStatsAndProductsCommands(t *testing.T) {
	base := startServer(t)
	public := client.New(client.AgentTransport{BaseURL: base})
	require.NoError(t, public.TrackVisit(context.Background(), "/products", "cli-test"))

	buf := captureOutput(t)
	require.NoError(t, run(t, "stats", "--days", "3"))
	assert.Contains(t, buf.String(), "Last 3 days")
	assert.Contains(t, buf.String(), "Visits: 1")

	buf.Reset()
	require.NoError(t, run(t, "products", "list", "--category", "macadamia", "--search", ""))
	assert.Contains(t, buf.String(), "macadamia")
}

func TestOperatorCommandsNeedCredentials(t *testing.T) {
	startServer(t)
	t.Setenv("ADMIN_PASSWORD", "")
	assert.ErrorContains(t, run(t, "stats", "--days", "7"), "API_TOKEN or ADMIN_PASSWORD")
}

func strPtr(s string) *string { return &s }
