package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"avotrade/internal/domain"
	"avotrade/internal/validate"
)

const (
	DefaultStatsDays = 7
	MaxStatsDays     = 365
	maxUserAgent     = 512
)

type AnalyticsService struct {
	Visits    VisitStore
	Enquiries EnquiryStore
}

func NewAnalyticsService(v VisitStore, e EnquiryStore) *AnalyticsService {
	return &AnalyticsService{Visits: v, Enquiries: e}
}

// Track records a page view. userAgent is whatever the caller supplied,
// falling back to fallbackUA (normally the request header).
func (s *AnalyticsService) Track(ctx context.Context, path string, userAgent *string, fallbackUA string) error {
	p, ok := validate.Path(path)
	if !ok {
		return domain.Invalid("path", "must be a non-empty path of at most 512 characters")
	}
	ua := optional(userAgent)
	if ua == nil {
		if fb := strings.TrimSpace(fallbackUA); fb != "" {
			ua = &fb
		}
	}
	if ua != nil {
		cut := truncateUTF8(strings.ToValidUTF8(*ua, "\uFFFD"), maxUserAgent)
		ua = &cut
	}
	return s.Visits.Create(ctx, p, ua)
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// Stats aggregates visits and leads over the last days days. Zero means the
// default window.
func (s *AnalyticsService) Stats(ctx context.Context, days int) (domain.VisitStats, error) {
	if days == 0 {
		days = DefaultStatsDays
	}
	if days < 1 || days > MaxStatsDays {
		return domain.VisitStats{}, domain.Invalid("days", "must be between 1 and 365")
	}

	var st domain.VisitStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.Visits.CountSince(gctx, days)
		st.TotalVisits = n
		return err
	})
	g.Go(func() error {
		n, err := s.Enquiries.CountSince(gctx, days)
		st.TotalEnquiries = n
		return err
	})
	g.Go(func() error {
		byDay, err := s.Visits.ByDaySince(gctx, days)
		st.VisitsByDay = byDay
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.VisitStats{}, err
	}
	if st.VisitsByDay == nil {
		st.VisitsByDay = []domain.DayCount{}
	}
	return st, nil
}
