// Package search derives the shared catalogue/news search term from a URL and
// keeps it as an observable value with a single writer.
package search

import (
	"net/url"
	"strings"
)

// Param is the query parameter that carries the term across pages.
const Param = "search"

// Term is a pure function of the URL: the same URL always yields the same term.
func Term(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return FromQuery(u.Query())
}

func FromQuery(v url.Values) string {
	return strings.TrimSpace(v.Get(Param))
}

// Navigation describes how the location changes after a write. Replace means
// the current entry is rewritten in place; otherwise a new page is visited.
type Navigation struct {
	URL     string
	Replace bool
}

// Apply computes the location after writing term while at current. When target
// names another path the term travels there as a query parameter; otherwise
// the current URL is rewritten in place, keeping its other parameters.
func Apply(current, term, target string) (Navigation, error) {
	cur, err := url.Parse(current)
	if err != nil {
		return Navigation{}, err
	}
	term = strings.TrimSpace(term)

	if target != "" {
		dst, err := url.Parse(target)
		if err != nil {
			return Navigation{}, err
		}
		if dst.Path != cur.Path {
			q := dst.Query()
			setTerm(q, term)
			dst.RawQuery = q.Encode()
			return Navigation{URL: dst.String()}, nil
		}
	}

	q := cur.Query()
	setTerm(q, term)
	cur.RawQuery = q.Encode()
	return Navigation{URL: cur.String(), Replace: true}, nil
}

func setTerm(q url.Values, term string) {
	if term == "" {
		q.Del(Param)
		return
	}
	q.Set(Param, term)
}

// Match reports whether any field contains term, ignoring case. An empty term matches everything.
func Match(term string, fields ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// Filter keeps the items whose fields match term, preserving order.
func Filter[T any](items []T, term string, fields func(T) []string) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if Match(term, fields(it)...) {
			out = append(out, it)
		}
	}
	return out
}
