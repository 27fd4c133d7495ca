// Package query filters, counts and pages student listings.
//
// Everything here is pure: callers pass the enumerated records and the
// current time, and get back a page. Nothing is sorted; the page follows the
// order the records were given in.
package query

import (
	"strings"
	"time"

	"github.com/aanand-mishra/students-service/internal/types"
)

const (
	// DefaultPageNumber replaces any page number below 1.
	DefaultPageNumber = 1
	// MinPageSize replaces any page size below it, including positive
	// sizes such as 3. There is no upper bound.
	MinPageSize = 10
)

// Page is one slice of a filtered listing.
type Page struct {
	Students     []types.Student
	TotalRecords int
	PageNumber   int
	PageSize     int
}

// Normalize applies the paging defaults.
func Normalize(pageNumber, pageSize int) (int, int) {
	if pageNumber <= 0 {
		pageNumber = DefaultPageNumber
	}
	if pageSize < MinPageSize {
		pageSize = MinPageSize
	}
	return pageNumber, pageSize
}

// Age is the difference between the calendar years of now and birthDate.
// Month and day are ignored on both sides.
func Age(birthDate, now time.Time) int {
	return now.Year() - birthDate.Year()
}

// Matches reports whether student passes every filter that is set.
func Matches(student types.Student, filter types.StudentFilter, now time.Time) bool {
	if name := strings.TrimSpace(filter.Name); name != "" {
		full := strings.ToLower(student.FirstName + " " + student.LastName)
		// The untrimmed filter is matched, so "jo do" keeps its inner space.
		if !strings.Contains(full, strings.ToLower(filter.Name)) {
			return false
		}
	}

	age := Age(student.BirthDate, now)
	if filter.AgeFrom != nil && age < *filter.AgeFrom {
		return false
	}
	if filter.AgeTo != nil && age > *filter.AgeTo {
		return false
	}

	return true
}

// List filters source, counts the matches, then cuts page
// (pageNumber-1)*pageSize .. +pageSize out of them.
func List(filter types.StudentFilter, source []types.Student, now time.Time) Page {
	pageNumber, pageSize := Normalize(filter.PageNumber, filter.PageSize)

	matched := make([]types.Student, 0, len(source))
	for _, s := range source {
		if Matches(s, filter, now) {
			matched = append(matched, s)
		}
	}

	page := Page{
		Students:     []types.Student{},
		TotalRecords: len(matched),
		PageNumber:   pageNumber,
		PageSize:     pageSize,
	}

	// Compare against the remaining length instead of computing
	// skip+pageSize, which can overflow for huge page numbers.
	skip := pageNumber - 1
	if skip >= len(matched)/pageSize+1 {
		return page
	}
	skip *= pageSize
	if skip >= len(matched) {
		return page
	}

	end := len(matched)
	if pageSize < end-skip {
		end = skip + pageSize
	}
	page.Students = matched[skip:end]

	return page
}
