package services

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// ReportDateLayout is the day-month-year format accepted by all date filters,
// matching the format printed on fichas and reports.
const ReportDateLayout = "02-01-2006"

// EntryFilter narrows production-ledger queries. All fields are optional.
// Operator is a case-insensitive substring match; DateFrom and DateTo are
// inclusive bounds in ReportDateLayout.
type EntryFilter struct {
	Operator string
	DateFrom string
	DateTo   string
}

// apply adds the filter's conditions to a production_entries query.
func (f EntryFilter) apply(query *gorm.DB) (*gorm.DB, error) {
	if f.Operator != "" {
		pattern := "%" + strings.ToLower(f.Operator) + "%"
		query = query.Where("LOWER(operator) LIKE ?", pattern)
	}

	if f.DateFrom != "" {
		from, err := time.Parse(ReportDateLayout, f.DateFrom)
		if err != nil {
			return nil, NewValidationError("invalid date %q, expected format dd-mm-yyyy", f.DateFrom)
		}
		query = query.Where("created_at >= ?", from)
	}

	if f.DateTo != "" {
		to, err := time.Parse(ReportDateLayout, f.DateTo)
		if err != nil {
			return nil, NewValidationError("invalid date %q, expected format dd-mm-yyyy", f.DateTo)
		}
		// inclusive upper bound: everything before the start of the next day
		query = query.Where("created_at < ?", to.AddDate(0, 0, 1))
	}

	return query, nil
}
