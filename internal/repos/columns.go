package repos

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02",
}

// dbTime accepts the timestamp shapes the three drivers hand back.
type dbTime struct{ time.Time }

func (t *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v.UTC()
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	}
	return fmt.Errorf("unsupported timestamp type %T", src)
}

func (t *dbTime) parse(s string) error {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			t.Time = ts.UTC()
			return nil
		}
	}
	return fmt.Errorf("unparseable timestamp %q", s)
}

// specsColumn decodes either a JSON array (sqlite, mysql) or a postgres TEXT[] literal.
type specsColumn []string

func (s *specsColumn) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*s = specsColumn{}
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("unsupported specs type %T", src)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		*s = specsColumn{}
		return nil
	}
	if strings.HasPrefix(raw, "{") {
		var arr pq.StringArray
		if err := arr.Scan(raw); err != nil {
			return err
		}
		*s = specsColumn(arr)
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return fmt.Errorf("decoding specs: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*s = out
	return nil
}
