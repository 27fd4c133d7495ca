// Package storage defines the Storage interface: the contract any database
// backend must satisfy to work with this application.
//
// The service layer depends only on this interface, so the sqlite and
// postgres backends are interchangeable and tests can pass a stub.
package storage

import (
	"context"
	"errors"

	"github.com/aanand-mishra/students-service/internal/types"
)

// ErrNotFound is returned by GetStudentByID when no row has the given id.
var ErrNotFound = errors.New("student not found")

// Storage is the persistence contract.
//
// Write methods report the number of rows they affected. Zero rows is not
// an error at this layer; the service decides what it means.
type Storage interface {
	// CreateStudent inserts student and sets student.ID to the generated key.
	CreateStudent(ctx context.Context, student *types.Student) (int64, error)

	// GetStudentByID returns ErrNotFound when the id does not exist.
	GetStudentByID(ctx context.Context, id int64) (types.Student, error)

	// GetStudents returns every student in the store's natural order.
	// Returns an empty slice (not nil) if there are no students.
	GetStudents(ctx context.Context) ([]types.Student, error)

	// UpdateStudent overwrites first name, last name and birth date of the
	// row identified by student.ID.
	UpdateStudent(ctx context.Context, student types.Student) (int64, error)

	// DeleteStudent removes a student record permanently.
	DeleteStudent(ctx context.Context, id int64) (int64, error)

	Ping(ctx context.Context) error
	Close() error
}
