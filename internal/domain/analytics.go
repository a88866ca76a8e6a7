package domain

import "time"

type PageVisit struct {
	ID        int64     `json:"id"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
	UserAgent *string   `json:"userAgent"`
}

type DayCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type VisitStats struct {
	TotalVisits    int64      `json:"totalVisits"`
	TotalEnquiries int64      `json:"totalEnquiries"`
	VisitsByDay    []DayCount `json:"visitsByDay"`
}
