package validate_test

import (
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"avotrade/internal/validate"
)

func TestEmail(t *testing.T) {
	c := qt.New(t)
	got, ok := validate.Email("  john@acme.com ")
	c.Assert(ok, qt.IsTrue)
	c.Assert(got, qt.Equals, "john@acme.com")

	for _, bad := range []string{"", "john", "john@", "john@acme", "a b@acme.com"} {
		_, ok := validate.Email(bad)
		c.Check(ok, qt.IsFalse, qt.Commentf("%q", bad))
	}
}

func TestQ(t *testing.T) {
	c := qt.New(t)
	got, ok := validate.Q("  cold-pressed oil ")
	c.Assert(ok, qt.IsTrue)
	c.Assert(got, qt.Equals, "cold-pressed oil")

	got, ok = validate.Q("")
	c.Assert(ok, qt.IsTrue)
	c.Assert(got, qt.Equals, "")

	_, ok = validate.Q("<script>")
	c.Assert(ok, qt.IsFalse)

	_, ok = validate.Q(strings.Repeat("a", 81))
	c.Assert(ok, qt.IsFalse)
}

func TestText(t *testing.T) {
	c := qt.New(t)
	_, ok := validate.Text(" J ", 2, 10)
	c.Assert(ok, qt.IsFalse)
	got, ok := validate.Text(" Jo ", 2, 10)
	c.Assert(ok, qt.IsTrue)
	c.Assert(got, qt.Equals, "Jo")
	_, ok = validate.Text("Ñandú", 5, 5)
	c.Assert(ok, qt.IsTrue)
}

func TestIDAndLimit(t *testing.T) {
	c := qt.New(t)
	id, ok := validate.ID("42")
	c.Assert(ok, qt.IsTrue)
	c.Assert(id, qt.Equals, int64(42))
	for _, bad := range []string{"", "0", "-1", "abc", "1.5"} {
		_, ok := validate.ID(bad)
		c.Check(ok, qt.IsFalse, qt.Commentf("%q", bad))
	}

	c.Assert(validate.Limit("", 50, 500), qt.Equals, 50)
	c.Assert(validate.Limit("x", 50, 500), qt.Equals, 50)
	c.Assert(validate.Limit("10", 50, 500), qt.Equals, 10)
	c.Assert(validate.Limit("9999", 50, 500), qt.Equals, 500)
}

func TestPathAndCredentials(t *testing.T) {
	c := qt.New(t)
	_, ok := validate.Path("/products?search=oil")
	c.Assert(ok, qt.IsTrue)
	_, ok = validate.Path("")
	c.Assert(ok, qt.IsFalse)
	_, ok = validate.Path("   ")
	c.Assert(ok, qt.IsFalse)
	_, ok = validate.Path("/" + strings.Repeat("a", 600))
	c.Assert(ok, qt.IsFalse)

	_, ok = validate.Username("admin")
	c.Assert(ok, qt.IsTrue)
	_, ok = validate.Username("a b")
	c.Assert(ok, qt.IsFalse)
	c.Assert(validate.Password("short"), qt.IsFalse)
	c.Assert(validate.Password("long enough"), qt.IsTrue)
}
