package services

import (
	"context"
	"strings"

	"avotrade/internal/domain"
	"avotrade/internal/search"
	"avotrade/internal/validate"
)

const (
	DefaultEnquiryLimit = 50
	MaxEnquiryLimit     = 500
)

// EnquiryInput is the public form payload. Type selects which optional
// fields become required.
type EnquiryInput struct {
	Type     string  `json:"type"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Company  string  `json:"company"`
	Product  *string `json:"product"`
	Quantity *string `json:"quantity"`
	Message  *string `json:"message"`
}

type EnquiryService struct {
	Store    EnquiryStore
	Notifier EnquiryNotifier
}

func NewEnquiryService(store EnquiryStore, n EnquiryNotifier) *EnquiryService {
	if n == nil {
		n = noopNotifier{}
	}
	return &EnquiryService{Store: store, Notifier: n}
}

// Validate normalises in into a storable lead or returns a *domain.ValidationError.
func (in EnquiryInput) Validate() (domain.NewEnquiry, error) {
	v := &domain.ValidationError{}
	out := domain.NewEnquiry{
		Product:  optional(in.Product),
		Quantity: optional(in.Quantity),
		Message:  optional(in.Message),
	}

	switch t := domain.EnquiryType(strings.ToLower(strings.TrimSpace(in.Type))); t {
	case "":
		out.Type = domain.EnquiryBuyer
	case domain.EnquiryBuyer, domain.EnquirySeller:
		out.Type = t
	default:
		v.Add("type", "must be buyer or seller")
	}

	var ok bool
	if out.Name, ok = validate.Text(in.Name, 2, 120); !ok {
		v.Add("name", "must be between 2 and 120 characters")
	}
	if out.Company, ok = validate.Text(in.Company, 2, 160); !ok {
		v.Add("company", "must be between 2 and 160 characters")
	}
	if out.Email, ok = validate.Email(in.Email); !ok {
		v.Add("email", "must be a valid email address")
	}

	if out.Type == domain.EnquiryBuyer {
		if out.Product == nil {
			v.Add("product", "is required for buyer enquiries")
		}
		if out.Quantity == nil {
			v.Add("quantity", "is required for buyer enquiries")
		}
	}
	if out.Type == domain.EnquirySeller {
		if out.Message == nil || len([]rune(*out.Message)) < 10 {
			v.Add("message", "must be at least 10 characters for seller enquiries")
		}
	}
	if out.Message != nil && len([]rune(*out.Message)) > 5000 {
		v.Add("message", "must be at most 5000 characters")
	}
	for field, p := range map[string]*string{"product": out.Product, "quantity": out.Quantity} {
		if p != nil && len([]rune(*p)) > 255 {
			v.Add(field, "must be at most 255 characters")
		}
	}

	if err := v.OrNil(); err != nil {
		return domain.NewEnquiry{}, err
	}
	return out, nil
}

// Submit stores a new lead with status new and schedules the sales email.
// Notification problems never fail the submission.
func (s *EnquiryService) Submit(ctx context.Context, in EnquiryInput) (domain.Enquiry, error) {
	ne, err := in.Validate()
	if err != nil {
		return domain.Enquiry{}, err
	}
	e, err := s.Store.Create(ctx, ne)
	if err != nil {
		return domain.Enquiry{}, err
	}
	s.Notifier.EnquiryCreated(e)
	return e, nil
}

func (s *EnquiryService) Get(ctx context.Context, id int64) (domain.Enquiry, error) {
	return s.Store.Get(ctx, id)
}

// List applies the default and maximum page size before querying.
func (s *EnquiryService) List(ctx context.Context, f domain.EnquiryFilter) ([]domain.Enquiry, error) {
	switch {
	case f.Limit <= 0:
		f.Limit = DefaultEnquiryLimit
	case f.Limit > MaxEnquiryLimit:
		f.Limit = MaxEnquiryLimit
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, domain.Invalid("status", statusMsg)
	}
	q, ok := validate.Q(f.Search)
	if !ok {
		return nil, domain.Invalid("search", "contains unsupported characters or is too long")
	}
	if q == "" {
		return s.Store.List(ctx, f)
	}

	limit := f.Limit
	f.Limit, f.Search = 0, ""
	all, err := s.Store.List(ctx, f)
	if err != nil {
		return nil, err
	}
	hits := search.Filter(all, q, domain.Enquiry.SearchFields)
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

const statusMsg = "must be one of new, pending, completed, archived"

// UpdateStatus moves a lead through the workflow. An unknown status is
// rejected before the store is consulted.
func (s *EnquiryService) UpdateStatus(ctx context.Context, id int64, status string) (domain.Enquiry, error) {
	st, ok := domain.ParseStatus(status)
	if !ok {
		return domain.Enquiry{}, domain.Invalid("status", statusMsg)
	}
	return s.Store.UpdateStatus(ctx, id, st)
}

// Delete removes a lead permanently. Missing ids are not an error.
func (s *EnquiryService) Delete(ctx context.Context, id int64) (bool, error) {
	return s.Store.Delete(ctx, id)
}
