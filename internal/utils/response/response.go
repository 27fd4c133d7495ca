// Package response holds the uniform envelope every endpoint returns and
// the helpers that write it.
//
// Every body looks like:
//
//	{ "statusCode": 404, "message": "Student is not found" }
//	{ "statusCode": 200, "payload": { ... } }
//
// and listings add pageNumber, pageSize and totalRecords.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Messages shared by the service and the handlers.
const (
	MsgInternalError = "Internal server error"
	MsgEmptyBody     = "request body is empty"
)

// Response is the standard envelope. Payload and Message are omitted from
// the JSON when empty.
type Response[T any] struct {
	StatusCode int    `json:"statusCode"`
	Payload    *T     `json:"payload,omitempty"`
	Message    string `json:"message,omitempty"`
}

// PagedResponse extends Response with the normalised paging values and
// the number of matches before slicing.
type PagedResponse[T any] struct {
	Response[T]
	PageNumber   int `json:"pageNumber"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
}

// Status is implemented by both envelope kinds so handlers can pick the
// HTTP status without knowing the payload type.
type Status interface {
	Code() int
}

func (r Response[T]) Code() int { return r.StatusCode }

// OK wraps payload in a 200 envelope.
func OK[T any](payload T) Response[T] {
	return Response[T]{StatusCode: http.StatusOK, Payload: &payload}
}

// Fail builds an envelope without payload.
func Fail[T any](status int, message string) Response[T] {
	return Response[T]{StatusCode: status, Message: message}
}

// Paged builds a 200 listing envelope.
func Paged[T any](payload T, pageNumber, pageSize, totalRecords int) PagedResponse[T] {
	return PagedResponse[T]{
		Response:     OK(payload),
		PageNumber:   pageNumber,
		PageSize:     pageSize,
		TotalRecords: totalRecords,
	}
}

// PagedFail is a listing envelope carrying only an error. The paging
// fields are zero.
func PagedFail[T any](status int, message string) PagedResponse[T] {
	return PagedResponse[T]{Response: Fail[T](status, message)}
}

// WriteJSON writes data as JSON with the given HTTP status code.
// Header() must be set before WriteHeader, which must come before the body.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// Write sends an envelope using its own status code as the HTTP status.
func Write(w http.ResponseWriter, env Status) error {
	return WriteJSON(w, env.Code(), env)
}

// BadRequest is the envelope for malformed input rejected before the
// service runs. T only fixes the payload type of the envelope.
func BadRequest[T any](err error) Response[T] {
	return Fail[T](http.StatusBadRequest, err.Error())
}

// ValidationError turns validator failures into one human-readable message.
//
//	{ "statusCode": 400, "message": "field firstName is required, field lastName is required" }
func ValidationError[T any](errs validator.ValidationErrors) Response[T] {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field()))
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return Fail[T](http.StatusBadRequest, strings.Join(errMessages, ", "))
}
