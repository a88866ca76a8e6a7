package log_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	applog "avotrade/internal/log"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestEntriesCarryRequestContext(t *testing.T) {
	var buf bytes.Buffer
	applog.SetOutput(&buf)
	t.Cleanup(func() { applog.SetOutput(&bytes.Buffer{}) })

	app := fiber.New()
	app.Use(requestid.New())
	app.Get("/x", func(c *fiber.Ctx) error {
		c.Status(fiber.StatusAccepted)
		applog.Audit(c, "lead.archive", map[string]any{"id": 7})
		applog.Error(c, "lead.fail", errors.New("boom"), nil)
		return nil
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/x", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)

	audit := lines[0]
	assert.Equal(t, "lead.archive", audit["action"])
	assert.Equal(t, "audit", audit["kind"])
	assert.Equal(t, "info", audit["level"])
	assert.Equal(t, "GET", audit["method"])
	assert.Equal(t, "/x", audit["path"])
	assert.NotEmpty(t, audit["req_id"])
	assert.Equal(t, float64(7), audit["fields"].(map[string]any)["id"])

	assert.Equal(t, "error", lines[1]["level"])
	assert.Equal(t, "boom", lines[1]["err"])
}

func TestNilContextAndLevel(t *testing.T) {
	var buf bytes.Buffer
	applog.SetOutput(&buf)
	t.Cleanup(func() {
		applog.SetLevel("debug")
		applog.SetOutput(&bytes.Buffer{})
	})

	applog.SetLevel("warn")
	applog.Info(nil, "quiet", nil)
	applog.Security(nil, "loud", map[string]any{"k": "v"})

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "loud", lines[0]["action"])
	assert.Equal(t, "warn", lines[0]["level"])
	assert.NotContains(t, lines[0], "path")
}
