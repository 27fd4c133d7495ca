// Package types holds the shared data structures used across the
// application. Keeping them in one place prevents import cycles:
// handlers, the service, the query engine and storage all import types
// without depending on each other.
package types

import (
	"time"
)

// Student is the stored record. ID is assigned by the storage backend on
// creation and never changes afterwards.
//
// The gorm tags are only read by the postgres backend; the sqlite backend
// maps columns by hand.
type Student struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	FirstName string    `gorm:"column:first_name;not null;check:first_name <> ''"`
	LastName  string    `gorm:"column:last_name;not null;check:last_name <> ''"`
	BirthDate time.Time `gorm:"column:birth_date;type:date;not null"`
}

// TableName pins the table name so both backends share one schema.
func (Student) TableName() string { return "students" }

// CreateStudentRequest is the body accepted by POST /api/student and
// PUT /api/student/{studentId}.
//
// validate:"..." rules are checked by go-playground/validator before the
// request reaches the service.
type CreateStudentRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"  validate:"required"`
	BirthDate Date   `json:"birthDate" validate:"required"`
}

// StudentResponse is the external representation of a Student.
type StudentResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	BirthDate Date   `json:"birthDate"`
}

// StudentFilter narrows GET /api/student/all. Nil bounds mean "not set";
// PageNumber and PageSize are normalised by the query engine, so any value
// (including zero) is accepted here.
type StudentFilter struct {
	Name       string `json:"name,omitempty"`
	AgeFrom    *int   `json:"from,omitempty"`
	AgeTo      *int   `json:"to,omitempty"`
	PageNumber int    `json:"pageNumber,omitempty"`
	PageSize   int    `json:"pageSize,omitempty"`
}
