package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteUsesEnvelopeStatus(t *testing.T) {
	rec := httptest.NewRecorder()

	require.NoError(t, Write(rec, Fail[string](http.StatusNotFound, "Student is not found")))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"statusCode":404,"message":"Student is not found"}`, rec.Body.String())
}

func TestOKOmitsMessage(t *testing.T) {
	rec := httptest.NewRecorder()

	require.NoError(t, Write(rec, OK("Student deleted successfully")))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"statusCode":200,"payload":"Student deleted successfully"}`, rec.Body.String())
}

func TestPagedFlattensEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()

	require.NoError(t, Write(rec, Paged([]int{1, 2}, 2, 10, 12)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"statusCode":200,"payload":[1,2],"pageNumber":2,"pageSize":10,"totalRecords":12}`, rec.Body.String())
}

func TestPagedFail(t *testing.T) {
	rec := httptest.NewRecorder()

	require.NoError(t, Write(rec, PagedFail[[]int](http.StatusInternalServerError, MsgInternalError)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"statusCode":500,"message":"Internal server error","pageNumber":0,"pageSize":0,"totalRecords":0}`, rec.Body.String())
}
