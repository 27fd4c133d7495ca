// Package mapper copies fields between the stored record and its request
// and response shapes. No validation happens here.
package mapper

import (
	"github.com/aanand-mishra/students-service/internal/types"
)

// ToResponse copies a stored record into its response shape.
func ToResponse(s types.Student) types.StudentResponse {
	return types.StudentResponse{
		ID:        s.ID,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		BirthDate: types.NewDate(s.BirthDate),
	}
}

// ToResponses never returns nil, so an empty page encodes as [].
func ToResponses(students []types.Student) []types.StudentResponse {
	out := make([]types.StudentResponse, 0, len(students))
	for _, s := range students {
		out = append(out, ToResponse(s))
	}
	return out
}

// FromCreateRequest builds a record without an id; storage assigns one.
func FromCreateRequest(req types.CreateStudentRequest) types.Student {
	return types.Student{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		BirthDate: req.BirthDate.Time,
	}
}
