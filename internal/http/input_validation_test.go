package handlers_test

import (
	"net/http"
	"testing"

	"avotrade/internal/http/handlers"
)

func TestEnquiryValidation(t *testing.T) {
	env := newTestEnv(t, handlers.Limits{})

	cases := []struct {
		name  string
		body  any
		field string
	}{
		{"buyer without product", map[string]any{"name": "John", "email": "john@acme.com", "company": "Acme", "quantity": "1t"}, "product"},
		{"seller short message", map[string]any{"type": "seller", "name": "Dee", "email": "dee@mill.co", "company": "Mill", "message": "hi"}, "message"},
		{"bad email", map[string]any{"name": "John", "email": "john@", "company": "Acme", "product": "x", "quantity": "y"}, "email"},
		{"unknown type", map[string]any{"type": "broker", "name": "John", "email": "john@acme.com", "company": "Acme"}, "type"},
	}
	for _, tc := range cases {
		var out errorResp
		r := env.do(t, "POST", "/api/enquiries", tc.body, "", &out)
		if r.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: want 400, got %d", tc.name, r.StatusCode)
		}
		if out.Fields[tc.field] == "" {
			t.Fatalf("%s: expected field %q in %+v", tc.name, tc.field, out.Fields)
		}
	}
	if env.notifier.count() != 0 {
		t.Fatalf("rejected enquiries must not notify")
	}

	if r := env.do(t, "POST", "/api/enquiries", `{"name":`, "", nil); r.StatusCode != http.StatusBadRequest {
		t.Fatalf("malformed JSON: want 400, got %d", r.StatusCode)
	}
}

func TestSellerEnquiryAccepted(t *testing.T) {
	env := newTestEnv(t, handlers.Limits{})
	var out enquiryResp
	r := env.do(t, "POST", "/api/enquiries", map[string]any{
		"type": "seller", "name": "Dee", "email": "dee@mill.co", "company": "Mill", "message": "We press 40 tons monthly",
	}, "", &out)
	if r.StatusCode != http.StatusCreated || out.Enquiry.Type != "seller" || out.Enquiry.Product != nil {
		t.Fatalf("seller: %d %+v", r.StatusCode, out.Enquiry)
	}
}

func TestStatsDaysValidation(t *testing.T) {
	env := newTestEnv(t, handlers.Limits{})
	tok := env.login(t)
	for _, q := range []string{"0", "-3", "366", "week"} {
		var out errorResp
		r := env.do(t, "GET", "/api/analytics/stats?days="+q, nil, tok, &out)
		if r.StatusCode != http.StatusBadRequest || out.Fields["days"] == "" {
			t.Fatalf("days=%s: want 400 with field, got %d %+v", q, r.StatusCode, out)
		}
	}
	if r := env.do(t, "GET", "/api/analytics/stats", nil, tok, nil); r.StatusCode != http.StatusOK {
		t.Fatalf("default window: %d", r.StatusCode)
	}
}

func TestTrackVisitValidation(t *testing.T) {
	env := newTestEnv(t, handlers.Limits{})
	if r := env.do(t, "POST", "/api/analytics/visit", map[string]string{"path": ""}, "", nil); r.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty path: want 400, got %d", r.StatusCode)
	}
	if r := env.do(t, "POST", "/api/analytics/visit", map[string]string{"path": "/market"}, "", nil); r.StatusCode != http.StatusOK {
		t.Fatalf("alias route: want 200, got %d", r.StatusCode)
	}
}
