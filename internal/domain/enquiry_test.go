package domain_test

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"

	"avotrade/internal/domain"
)

func TestCanTransition(t *testing.T) {
	c := qt.New(t)

	cases := []struct {
		from, to domain.EnquiryStatus
		ok       bool
	}{
		{domain.StatusNew, domain.StatusPending, true},
		{domain.StatusNew, domain.StatusArchived, true},
		{domain.StatusNew, domain.StatusCompleted, false},
		{domain.StatusPending, domain.StatusCompleted, true},
		{domain.StatusPending, domain.StatusNew, false},
		{domain.StatusCompleted, domain.StatusArchived, true},
		{domain.StatusCompleted, domain.StatusPending, false},
		{domain.StatusArchived, domain.StatusNew, false},
		{domain.StatusArchived, domain.StatusPending, false},
		{domain.StatusArchived, domain.StatusArchived, true},
		{domain.StatusPending, domain.StatusPending, true},
		{"bogus", "bogus", false},
	}
	for _, tc := range cases {
		c.Check(domain.CanTransition(tc.from, tc.to), qt.Equals, tc.ok, qt.Commentf("%s -> %s", tc.from, tc.to))
	}
}

func TestSourcesFor(t *testing.T) {
	c := qt.New(t)
	c.Assert(domain.SourcesFor(domain.StatusArchived), qt.DeepEquals, domain.Statuses)
	c.Assert(domain.SourcesFor(domain.StatusPending), qt.DeepEquals,
		[]domain.EnquiryStatus{domain.StatusNew, domain.StatusPending})
	c.Assert(domain.SourcesFor(domain.StatusNew), qt.DeepEquals,
		[]domain.EnquiryStatus{domain.StatusNew})
}

func TestParseStatus(t *testing.T) {
	c := qt.New(t)
	st, ok := domain.ParseStatus("  Pending ")
	c.Assert(ok, qt.IsTrue)
	c.Assert(st, qt.Equals, domain.StatusPending)

	_, ok = domain.ParseStatus("closed")
	c.Assert(ok, qt.IsFalse)
}

func TestValidationErrorMessage(t *testing.T) {
	c := qt.New(t)
	v := &domain.ValidationError{}
	c.Assert(v.OrNil(), qt.IsNil)

	v.Add("name", "too short")
	v.Add("email", "invalid")
	v.Add("name", "ignored")
	err := v.OrNil()
	c.Assert(err, qt.ErrorMatches, "validation failed: email: invalid; name: too short")

	var ve *domain.ValidationError
	c.Assert(errors.As(err, &ve), qt.IsTrue)
	c.Assert(ve.Fields["name"], qt.Equals, "too short")
}

func TestPersistenceErrorUnwraps(t *testing.T) {
	c := qt.New(t)
	base := errors.New("connection reset")
	err := domain.Persistence("enquiry.create", base)
	c.Assert(errors.Is(err, base), qt.IsTrue)
	c.Assert(err, qt.ErrorMatches, "enquiry.create: connection reset")
	c.Assert(domain.Persistence("noop", nil), qt.IsNil)
}

func TestNextStatus(t *testing.T) {
	c := qt.New(t)
	for _, s := range domain.Statuses {
		next, ok := s.Next()
		if !ok {
			c.Check(s == domain.StatusCompleted || s == domain.StatusArchived, qt.IsTrue, qt.Commentf("%s", s))
			continue
		}
		c.Check(domain.CanTransition(s, next), qt.IsTrue, qt.Commentf("%s -> %s", s, next))
		c.Check(next, qt.Not(qt.Equals), domain.StatusArchived)
	}
}
