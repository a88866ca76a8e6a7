package services

import (
	"context"
	"strings"

	"avotrade/internal/domain"
)

// The services depend on these rather than on a concrete adapter so the same
// code runs against sqlite, postgres or mysql, and against fakes in tests.

type EnquiryStore interface {
	Create(ctx context.Context, in domain.NewEnquiry) (domain.Enquiry, error)
	Get(ctx context.Context, id int64) (domain.Enquiry, error)
	List(ctx context.Context, f domain.EnquiryFilter) ([]domain.Enquiry, error)
	UpdateStatus(ctx context.Context, id int64, status domain.EnquiryStatus) (domain.Enquiry, error)
	Delete(ctx context.Context, id int64) (bool, error)
	CountSince(ctx context.Context, days int) (int64, error)
}

type ProductStore interface {
	List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (domain.Product, error)
	Create(ctx context.Context, in domain.NewProduct) (domain.Product, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type VisitStore interface {
	Create(ctx context.Context, path string, userAgent *string) error
	CountSince(ctx context.Context, days int) (int64, error)
	ByDaySince(ctx context.Context, days int) ([]domain.DayCount, error)
}

type NewsStore interface {
	List(ctx context.Context) ([]domain.MarketNews, error)
}

type UserStore interface {
	ByUsername(ctx context.Context, username string) (*domain.User, error)
	Upsert(ctx context.Context, username, hash, role string) (*domain.User, error)
}

// EnquiryNotifier is told about every stored lead. It must not block.
type EnquiryNotifier interface {
	EnquiryCreated(e domain.Enquiry) bool
}

type noopNotifier struct{}

func (noopNotifier) EnquiryCreated(domain.Enquiry) bool { return false }

// optional trims s and maps an empty result to nil.
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
