// Package student contains the HTTP handlers for the student resource.
//
// Each exported function is a factory: it receives its dependencies once at
// startup and returns the http.HandlerFunc the router calls per request.
//
//	router.HandleFunc("POST /api/student", student.New(svc))
//
// Handlers only decode and validate input. Every decision about the result
// is made by the service, whose envelope is written back verbatim with its
// statusCode as the HTTP status.
package student

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/students-service/internal/types"
	"github.com/aanand-mishra/students-service/internal/utils/response"
)

// Service is what the handlers need from the service layer.
type Service interface {
	CreateStudent(ctx context.Context, req types.CreateStudentRequest) response.Response[types.StudentResponse]
	UpdateStudent(ctx context.Context, id int64, req types.CreateStudentRequest) response.Response[types.StudentResponse]
	DeleteStudent(ctx context.Context, id int64) response.Response[string]
	GetStudents(ctx context.Context, filter types.StudentFilter) response.PagedResponse[[]types.StudentResponse]
}

// BasePath is the prefix of every student route.
const BasePath = "/api/student"

// Register mounts the four student routes on mux.
//
//	POST   /api/student               → create a student
//	PUT    /api/student/{studentId}   → update a student
//	DELETE /api/student/{studentId}   → delete a student
//	GET    /api/student/all           → filtered, paginated listing
func Register(mux *http.ServeMux, svc Service) {
	mux.HandleFunc("POST "+BasePath, New(svc))
	mux.HandleFunc("POST "+BasePath+"/{$}", New(svc))
	mux.HandleFunc("PUT "+BasePath+"/{studentId}", Update(svc))
	mux.HandleFunc("DELETE "+BasePath+"/{studentId}", Delete(svc))
	mux.HandleFunc("GET "+BasePath+"/all", GetList(svc))
}

// New handles POST /api/student.
//
// Request body:
//
//	{ "firstName": "Ann", "lastName": "Lee", "birthDate": "2000-01-01" }
//
// Success response (200):
//
//	{ "statusCode": 200, "payload": { "id": 1, "firstName": "Ann", ... } }
func New(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, bad := decodeCreateRequest(r)
		if bad != nil {
			response.Write(w, bad)
			return
		}

		response.Write(w, svc.CreateStudent(r.Context(), req))
	}
}

// Update handles PUT /api/student/{studentId}. The body has the same shape
// as for New and replaces first name, last name and birth date.
func Update(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			response.Write(w, response.BadRequest[types.StudentResponse](err))
			return
		}

		req, bad := decodeCreateRequest(r)
		if bad != nil {
			response.Write(w, bad)
			return
		}

		response.Write(w, svc.UpdateStudent(r.Context(), id, req))
	}
}

// Delete handles DELETE /api/student/{studentId}.
//
//	{ "statusCode": 200, "payload": "Student deleted successfully" }
//	{ "statusCode": 404, "message": "Student is not found" }
func Delete(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			response.Write(w, response.BadRequest[string](err))
			return
		}

		response.Write(w, svc.DeleteStudent(r.Context(), id))
	}
}

// GetList handles GET /api/student/all?name=&from=&to=&pageNumber=&pageSize=
//
// Every parameter is optional. from and to bound the age in years; paging
// values out of range are normalised by the service, not rejected.
func GetList(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseFilter(r.URL.Query())
		if err != nil {
			response.Write(w, response.PagedFail[[]types.StudentResponse](http.StatusBadRequest, err.Error()))
			return
		}

		response.Write(w, svc.GetStudents(r.Context(), filter))
	}
}

// decodeCreateRequest returns a non-nil envelope when the body is empty,
// malformed or fails validation.
func decodeCreateRequest(r *http.Request) (types.CreateStudentRequest, response.Status) {
	var req types.CreateStudentRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if errors.Is(err, io.EOF) {
		return req, response.BadRequest[types.StudentResponse](errors.New(response.MsgEmptyBody))
	}
	if err != nil {
		slog.DebugContext(r.Context(), "rejecting malformed body", slog.String("error", err.Error()))
		return req, response.BadRequest[types.StudentResponse](err)
	}

	if err := validate.Struct(req); err != nil {
		var validateErrs validator.ValidationErrors
		if errors.As(err, &validateErrs) {
			return req, response.ValidationError[types.StudentResponse](validateErrs)
		}
		return req, response.BadRequest[types.StudentResponse](err)
	}

	return req, nil
}

func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("studentId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid studentId %q: must be an integer", raw)
	}
	return id, nil
}

func parseFilter(q url.Values) (types.StudentFilter, error) {
	filter := types.StudentFilter{Name: q.Get("name")}

	var err error
	if filter.AgeFrom, err = optionalInt(q, "from"); err != nil {
		return filter, err
	}
	if filter.AgeTo, err = optionalInt(q, "to"); err != nil {
		return filter, err
	}

	pageNumber, err := optionalInt(q, "pageNumber")
	if err != nil {
		return filter, err
	}
	if pageNumber != nil {
		filter.PageNumber = *pageNumber
	}

	pageSize, err := optionalInt(q, "pageSize")
	if err != nil {
		return filter, err
	}
	if pageSize != nil {
		filter.PageSize = *pageSize
	}

	return filter, nil
}

// optionalInt returns nil when key is absent or empty.
func optionalInt(q url.Values, key string) (*int, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: must be an integer", key, raw)
	}
	return &v, nil
}
