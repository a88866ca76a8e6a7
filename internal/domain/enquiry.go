package domain

import (
	"strings"
	"time"
)

type EnquiryType string

const (
	EnquiryBuyer  EnquiryType = "buyer"
	EnquirySeller EnquiryType = "seller"
)

type EnquiryStatus string

const (
	StatusNew       EnquiryStatus = "new"
	StatusPending   EnquiryStatus = "pending"
	StatusCompleted EnquiryStatus = "completed"
	StatusArchived  EnquiryStatus = "archived"
)

// Statuses lists every workflow stage in display order.
var Statuses = []EnquiryStatus{StatusNew, StatusPending, StatusCompleted, StatusArchived}

func (s EnquiryStatus) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// ParseStatus normalises case and surrounding space before checking membership.
func ParseStatus(s string) (EnquiryStatus, bool) {
	st := EnquiryStatus(strings.ToLower(strings.TrimSpace(s)))
	return st, st.Valid()
}

// Nothing leaves archived; every other stage moves forward one step or is archived.
var transitions = map[EnquiryStatus][]EnquiryStatus{
	StatusNew:       {StatusPending, StatusArchived},
	StatusPending:   {StatusCompleted, StatusArchived},
	StatusCompleted: {StatusArchived},
	StatusArchived:  {},
}

// CanTransition reports whether a lead may move from one stage to another.
// Re-applying the current stage is always allowed.
func CanTransition(from, to EnquiryStatus) bool {
	if from == to {
		return from.Valid()
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Next is the forward step from s. Completed and archived leads have none.
func (s EnquiryStatus) Next() (EnquiryStatus, bool) {
	switch s {
	case StatusNew:
		return StatusPending, true
	case StatusPending:
		return StatusCompleted, true
	}
	return s, false
}

// SourcesFor returns every stage from which `to` can be reached, `to` included.
// Stores use it to guard the status UPDATE in a single statement.
func SourcesFor(to EnquiryStatus) []EnquiryStatus {
	var out []EnquiryStatus
	for _, from := range Statuses {
		if CanTransition(from, to) {
			out = append(out, from)
		}
	}
	return out
}

// Enquiry is a buyer or seller lead. Product and Quantity are only required for buyers.
type Enquiry struct {
	ID        int64         `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Company   string        `json:"company"`
	Type      EnquiryType   `json:"type"`
	Product   *string       `json:"product"`
	Quantity  *string       `json:"quantity"`
	Message   *string       `json:"message"`
	Status    EnquiryStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
}

// NewEnquiry is the validated payload handed to a store for insertion.
type NewEnquiry struct {
	Name     string
	Email    string
	Company  string
	Type     EnquiryType
	Product  *string
	Quantity *string
	Message  *string
}

// EnquiryFilter narrows a lead listing. Stores apply Status and Limit; Search
// is matched by the service against Enquiry.SearchFields.
type EnquiryFilter struct {
	Limit  int
	Status EnquiryStatus
	Search string
}

func (e Enquiry) SearchFields() []string {
	f := []string{e.Name, e.Company, e.Email}
	if e.Product != nil {
		f = append(f, *e.Product)
	}
	return f
}
