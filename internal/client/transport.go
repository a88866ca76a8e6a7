package client

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Transport performs one HTTP exchange against the API. Paths are relative to the API root.
type Transport interface {
	Do(ctx context.Context, method, path string, body []byte, header map[string]string) (status int, resp []byte, err error)
}

// AgentTransport talks to a running server with Fiber's fasthttp client.
type AgentTransport struct {
	BaseURL string
	Timeout time.Duration
}

const defaultTimeout = 15 * time.Second

func (t AgentTransport) Do(ctx context.Context, method, path string, body []byte, header map[string]string) (int, []byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}
	timeout := t.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < timeout {
			timeout = left
		}
	}

	a := fiber.AcquireAgent()
	req := a.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(strings.TrimRight(t.BaseURL, "/") + path)
	for k, v := range header {
		a.Set(k, v)
	}
	if body != nil {
		a.ContentType(fiber.MIMEApplicationJSON)
		a.Body(body)
	}
	a.Timeout(timeout)
	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		return 0, nil, err
	}
	code, resp, errs := a.Bytes()
	if len(errs) > 0 {
		return 0, nil, errors.Join(errs...)
	}
	return code, resp, nil
}
