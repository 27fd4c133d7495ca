package student

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-service/internal/config"
	"github.com/aanand-mishra/students-service/internal/service"
	"github.com/aanand-mishra/students-service/internal/storage/sqlite"
	"github.com/aanand-mishra/students-service/internal/types"
)

// envelope decodes any response body; Payload stays raw.
type envelope struct {
	StatusCode   int             `json:"statusCode"`
	Payload      json.RawMessage `json:"payload"`
	Message      string          `json:"message"`
	PageNumber   int             `json:"pageNumber"`
	PageSize     int             `json:"pageSize"`
	TotalRecords int             `json:"totalRecords"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := sqlite.New(&config.Config{Storage: config.Storage{DSN: ":memory:", MaxOpenConns: 1}})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(store, log).WithClock(func() time.Time {
		return time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)
	})

	mux := http.NewServeMux()
	Register(mux, svc)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(res.Body).Decode(&env))
	return res.StatusCode, env
}

func TestCreateThenListByName(t *testing.T) {
	srv := newTestServer(t)

	code, env := do(t, http.MethodPost, srv.URL+"/api/student",
		`{"firstName":"Ann","lastName":"Lee","birthDate":"2000-01-01"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, http.StatusOK, env.StatusCode)

	var created types.StudentResponse
	require.NoError(t, json.Unmarshal(env.Payload, &created))
	assert.Positive(t, created.ID)
	assert.Equal(t, "Ann", created.FirstName)
	assert.Equal(t, "2000-01-01", created.BirthDate.String())

	code, env = do(t, http.MethodGet, srv.URL+"/api/student/all?name=ann", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, env.TotalRecords)
	assert.Equal(t, 1, env.PageNumber)
	assert.Equal(t, 10, env.PageSize)

	var listed []types.StudentResponse
	require.NoError(t, json.Unmarshal(env.Payload, &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, created, listed[0])
}

func TestCreateWithTrailingSlash(t *testing.T) {
	srv := newTestServer(t)

	code, _ := do(t, http.MethodPost, srv.URL+"/api/student/",
		`{"firstName":"Ann","lastName":"Lee","birthDate":"2000-01-01"}`)
	assert.Equal(t, http.StatusOK, code)
}

func TestCreateRejectsBadBodies(t *testing.T) {
	srv := newTestServer(t)

	cases := map[string]struct {
		body    string
		message string
	}{
		"empty body":     {"", "request body is empty"},
		"malformed json": {`{"firstName":`, ""},
		"missing names":  {`{"birthDate":"2000-01-01"}`, "field firstName is required, field lastName is required"},
		"missing date":   {`{"firstName":"Ann","lastName":"Lee"}`, "field birthDate is required"},
		"bad date":       {`{"firstName":"Ann","lastName":"Lee","birthDate":"01/01/2000"}`, "invalid date"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			code, env := do(t, http.MethodPost, srv.URL+"/api/student", tc.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, http.StatusBadRequest, env.StatusCode)
			assert.Contains(t, env.Message, tc.message)
		})
	}
}

func TestUpdate(t *testing.T) {
	srv := newTestServer(t)

	_, env := do(t, http.MethodPost, srv.URL+"/api/student",
		`{"firstName":"Ann","lastName":"Lee","birthDate":"2000-01-01"}`)
	var created types.StudentResponse
	require.NoError(t, json.Unmarshal(env.Payload, &created))

	code, env := do(t, http.MethodPut, fmt.Sprintf("%s/api/student/%d", srv.URL, created.ID),
		`{"firstName":"Anna","lastName":"Li","birthDate":"2001-02-03"}`)
	require.Equal(t, http.StatusOK, code)

	var updated types.StudentResponse
	require.NoError(t, json.Unmarshal(env.Payload, &updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Anna", updated.FirstName)
	assert.Equal(t, "Li", updated.LastName)
	assert.Equal(t, "2001-02-03", updated.BirthDate.String())

	code, env = do(t, http.MethodPut, srv.URL+"/api/student/9999",
		`{"firstName":"Anna","lastName":"Li","birthDate":"2001-02-03"}`)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Student is not found", env.Message)

	code, _ = do(t, http.MethodPut, srv.URL+"/api/student/abc",
		`{"firstName":"Anna","lastName":"Li","birthDate":"2001-02-03"}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestUpdateWithSameValuesIsNotUpdated(t *testing.T) {
	srv := newTestServer(t)

	body := `{"firstName":"Ann","lastName":"Lee","birthDate":"2000-01-01"}`
	_, env := do(t, http.MethodPost, srv.URL+"/api/student", body)
	var created types.StudentResponse
	require.NoError(t, json.Unmarshal(env.Payload, &created))

	code, env := do(t, http.MethodPut, fmt.Sprintf("%s/api/student/%d", srv.URL, created.ID), body)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, http.StatusBadRequest, env.StatusCode)
	assert.Equal(t, "Student not updated", env.Message)

	code, _ = do(t, http.MethodPut, fmt.Sprintf("%s/api/student/%d", srv.URL, created.ID),
		`{"firstName":"Ann","lastName":"Lee","birthDate":"2000-01-02"}`)
	assert.Equal(t, http.StatusOK, code)
}

func TestDelete(t *testing.T) {
	srv := newTestServer(t)

	code, env := do(t, http.MethodDelete, srv.URL+"/api/student/12345", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, http.StatusNotFound, env.StatusCode)
	assert.Equal(t, "Student is not found", env.Message)

	_, env = do(t, http.MethodPost, srv.URL+"/api/student",
		`{"firstName":"Ann","lastName":"Lee","birthDate":"2000-01-01"}`)
	var created types.StudentResponse
	require.NoError(t, json.Unmarshal(env.Payload, &created))

	code, env = do(t, http.MethodDelete, fmt.Sprintf("%s/api/student/%d", srv.URL, created.ID), "")
	require.Equal(t, http.StatusOK, code)
	var msg string
	require.NoError(t, json.Unmarshal(env.Payload, &msg))
	assert.Equal(t, "Student deleted successfully", msg)

	_, env = do(t, http.MethodGet, srv.URL+"/api/student/all", "")
	assert.Zero(t, env.TotalRecords)
	assert.JSONEq(t, `[]`, string(env.Payload))
}

func TestListPagingAndAge(t *testing.T) {
	srv := newTestServer(t)

	for i := 0; i < 15; i++ {
		year := 2000
		if i%3 == 0 {
			year = 1980
		}
		body := fmt.Sprintf(`{"firstName":"S%d","lastName":"X","birthDate":"%d-12-31"}`, i, year)
		code, _ := do(t, http.MethodPost, srv.URL+"/api/student", body)
		require.Equal(t, http.StatusOK, code)
	}

	_, env := do(t, http.MethodGet, srv.URL+"/api/student/all?pageSize=3&pageNumber=0", "")
	assert.Equal(t, 1, env.PageNumber)
	assert.Equal(t, 10, env.PageSize)
	assert.Equal(t, 15, env.TotalRecords)

	var page []types.StudentResponse
	require.NoError(t, json.Unmarshal(env.Payload, &page))
	assert.Len(t, page, 10)

	_, env = do(t, http.MethodGet, srv.URL+"/api/student/all?pageNumber=2", "")
	require.NoError(t, json.Unmarshal(env.Payload, &page))
	assert.Len(t, page, 5)
	assert.Equal(t, 15, env.TotalRecords)

	// Born 2000-12-31 is 26 in 2026 regardless of the month.
	_, env = do(t, http.MethodGet, srv.URL+"/api/student/all?from=26&to=26", "")
	assert.Equal(t, 10, env.TotalRecords)

	_, env = do(t, http.MethodGet, srv.URL+"/api/student/all?from=40", "")
	assert.Equal(t, 5, env.TotalRecords)
}

func TestListRejectsNonIntegerParams(t *testing.T) {
	srv := newTestServer(t)

	code, env := do(t, http.MethodGet, srv.URL+"/api/student/all?from=ten", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Message, "from")
}

func TestParseFilter(t *testing.T) {
	filter, err := parseFilter(url.Values{
		"name":       {"jo do"},
		"from":       {"18"},
		"pageNumber": {"-1"},
		"pageSize":   {""},
	})
	require.NoError(t, err)

	assert.Equal(t, "jo do", filter.Name)
	require.NotNil(t, filter.AgeFrom)
	assert.Equal(t, 18, *filter.AgeFrom)
	assert.Nil(t, filter.AgeTo)
	assert.Equal(t, -1, filter.PageNumber)
	assert.Zero(t, filter.PageSize)

	_, err = parseFilter(url.Values{"pageSize": {"1.5"}})
	assert.Error(t, err)
}
