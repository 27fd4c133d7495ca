// Package service sits between the HTTP handlers and storage. Each method
// logs what it does, talks to storage, and converts every outcome into a
// response envelope: storage errors never reach the caller.
package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aanand-mishra/students-service/internal/mapper"
	"github.com/aanand-mishra/students-service/internal/query"
	"github.com/aanand-mishra/students-service/internal/storage"
	"github.com/aanand-mishra/students-service/internal/types"
	"github.com/aanand-mishra/students-service/internal/utils/response"
)

// Messages returned in the envelope for the service's own outcomes.
const (
	MsgNotFound   = "Student is not found"
	MsgNotCreated = "Student not created"
	MsgNotUpdated = "Student not updated"
	MsgNotDeleted = "Student not deleted"
	MsgDeleted    = "Student deleted successfully"
)

// StudentService holds no per-request state and is safe for concurrent use.
type StudentService struct {
	storage storage.Storage
	log     *slog.Logger
	now     func() time.Time
}

// New returns a StudentService backed by storage, logging through log.
func New(storage storage.Storage, log *slog.Logger) *StudentService {
	return &StudentService{
		storage: storage,
		log:     log.With(slog.String("component", "student_service")),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the clock used for age filtering.
func (s *StudentService) WithClock(now func() time.Time) *StudentService {
	s.now = now
	return s
}

// CreateStudent stores a new student and echoes it back with its id.
func (s *StudentService) CreateStudent(ctx context.Context, req types.CreateStudentRequest) response.Response[types.StudentResponse] {
	s.log.InfoContext(ctx, "creating new student",
		slog.String("first_name", req.FirstName),
		slog.String("last_name", req.LastName))

	student := mapper.FromCreateRequest(req)

	affected, err := s.storage.CreateStudent(ctx, &student)
	if err != nil {
		s.log.ErrorContext(ctx, "error occurred while creating student", slog.String("error", err.Error()))
		return response.Fail[types.StudentResponse](http.StatusInternalServerError, response.MsgInternalError)
	}
	if affected == 0 {
		s.log.WarnContext(ctx, "failed to create student")
		return response.Fail[types.StudentResponse](http.StatusBadRequest, MsgNotCreated)
	}

	s.log.InfoContext(ctx, "student created", slog.Int64("id", student.ID))
	return response.OK(mapper.ToResponse(student))
}

// UpdateStudent overwrites names and birth date of an existing student.
// The id in the path wins; there is no id in the body. Submitting the
// values already stored writes nothing and answers 400 "Student not updated".
func (s *StudentService) UpdateStudent(ctx context.Context, id int64, req types.CreateStudentRequest) response.Response[types.StudentResponse] {
	s.log.InfoContext(ctx, "updating student",
		slog.Int64("id", id),
		slog.String("first_name", req.FirstName),
		slog.String("last_name", req.LastName))

	student, err := s.storage.GetStudentByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		s.log.WarnContext(ctx, "student to update not found", slog.Int64("id", id))
		return response.Fail[types.StudentResponse](http.StatusNotFound, MsgNotFound)
	}
	if err != nil {
		s.log.ErrorContext(ctx, "error occurred while updating student", slog.Int64("id", id), slog.String("error", err.Error()))
		return response.Fail[types.StudentResponse](http.StatusInternalServerError, response.MsgInternalError)
	}

	if unchanged(student, req) {
		s.log.WarnContext(ctx, "student update has no changes", slog.Int64("id", id))
		return response.Fail[types.StudentResponse](http.StatusBadRequest, MsgNotUpdated)
	}

	student.FirstName = req.FirstName
	student.LastName = req.LastName
	student.BirthDate = req.BirthDate.Time

	affected, err := s.storage.UpdateStudent(ctx, student)
	if err != nil {
		s.log.ErrorContext(ctx, "error occurred while updating student", slog.Int64("id", id), slog.String("error", err.Error()))
		return response.Fail[types.StudentResponse](http.StatusInternalServerError, response.MsgInternalError)
	}
	if affected == 0 {
		s.log.WarnContext(ctx, "failed to update student", slog.Int64("id", id))
		return response.Fail[types.StudentResponse](http.StatusBadRequest, MsgNotUpdated)
	}

	s.log.InfoContext(ctx, "student updated", slog.Int64("id", id))
	return response.OK(mapper.ToResponse(student))
}

// DeleteStudent removes an existing student by id.
func (s *StudentService) DeleteStudent(ctx context.Context, id int64) response.Response[string] {
	s.log.InfoContext(ctx, "deleting student", slog.Int64("id", id))

	if _, err := s.storage.GetStudentByID(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.log.WarnContext(ctx, "student to delete not found", slog.Int64("id", id))
			return response.Fail[string](http.StatusNotFound, MsgNotFound)
		}
		s.log.ErrorContext(ctx, "error occurred while deleting student", slog.Int64("id", id), slog.String("error", err.Error()))
		return response.Fail[string](http.StatusInternalServerError, response.MsgInternalError)
	}

	affected, err := s.storage.DeleteStudent(ctx, id)
	if err != nil {
		s.log.ErrorContext(ctx, "error occurred while deleting student", slog.Int64("id", id), slog.String("error", err.Error()))
		return response.Fail[string](http.StatusInternalServerError, response.MsgInternalError)
	}
	if affected == 0 {
		s.log.WarnContext(ctx, "failed to delete student", slog.Int64("id", id))
		return response.Fail[string](http.StatusBadRequest, MsgNotDeleted)
	}

	s.log.InfoContext(ctx, "student deleted", slog.Int64("id", id))
	return response.OK(MsgDeleted)
}

// GetStudents enumerates storage and hands the rows to the query engine.
func (s *StudentService) GetStudents(ctx context.Context, filter types.StudentFilter) response.PagedResponse[[]types.StudentResponse] {
	s.log.InfoContext(ctx, "getting students", filterAttrs(filter)...)

	all, err := s.storage.GetStudents(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "error occurred while getting students", slog.String("error", err.Error()))
		return response.PagedFail[[]types.StudentResponse](http.StatusInternalServerError, response.MsgInternalError)
	}

	page := query.List(filter, all, s.now())
	payload := mapper.ToResponses(page.Students)

	s.log.InfoContext(ctx, "retrieved students",
		slog.Int("count", len(payload)),
		slog.Int("total", page.TotalRecords))
	return response.Paged(payload, page.PageNumber, page.PageSize, page.TotalRecords)
}

func unchanged(stored types.Student, req types.CreateStudentRequest) bool {
	return stored.FirstName == req.FirstName &&
		stored.LastName == req.LastName &&
		stored.BirthDate.Equal(req.BirthDate.Time)
}

func filterAttrs(f types.StudentFilter) []any {
	attrs := []any{
		slog.String("name", f.Name),
		slog.Int("page_number", f.PageNumber),
		slog.Int("page_size", f.PageSize),
	}
	if f.AgeFrom != nil {
		attrs = append(attrs, slog.Int("from", *f.AgeFrom))
	}
	if f.AgeTo != nil {
		attrs = append(attrs, slog.Int("to", *f.AgeTo))
	}
	return attrs
}
