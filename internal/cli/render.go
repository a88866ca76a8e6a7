package cli

import (
	"fmt"
	"strconv"
	"strings"

	"avotrade/internal/cli/output"
	"avotrade/internal/domain"
)

var (
	leadHeader    = []string{"ID", "STATUS", "TYPE", "NAME", "COMPANY", "EMAIL", "PRODUCT", "RECEIVED"}
	productHeader = []string{"ID", "SLUG", "CATEGORY", "PRICE", "NAME"}
)

const barWidth = 40

func leadRows(leads []domain.Enquiry) [][]string {
	rows := make([][]string, 0, len(leads))
	for _, e := range leads {
		product := "-"
		if e.Product != nil {
			product = *e.Product
		}
		rows = append(rows, []string{
			strconv.FormatInt(e.ID, 10),
			output.StatusIcon(string(e.Status)) + " " + string(e.Status),
			string(e.Type),
			e.Name,
			e.Company,
			e.Email,
			product,
			e.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	return rows
}

func productRows(products []domain.Product) [][]string {
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			p.Slug,
			string(p.Category),
			p.Price,
			p.Name,
		})
	}
	return rows
}

// dayRows renders each day with a bar scaled against the busiest day.
func dayRows(days []domain.DayCount) [][]string {
	var peak int64
	for _, d := range days {
		peak = max(peak, d.Count)
	}
	rows := make([][]string, 0, len(days))
	for _, d := range days {
		n := 0
		if peak > 0 {
			n = int(d.Count * barWidth / peak)
		}
		rows = append(rows, []string{d.Date, strconv.FormatInt(d.Count, 10), strings.Repeat("█", n)})
	}
	return rows
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func positiveInt(name, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("--%s must be a positive integer, got %q", name, s)
	}
	return n, nil
}
