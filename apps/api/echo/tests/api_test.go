package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	app := setup(t)

	for _, path := range []string{"/health", "/api/health"} {
		req, rec := newRequest(http.MethodGet, path)
		app.server.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Status      string `json:"status"`
			Timestamp   string `json:"timestamp"`
			Environment string `json:"environment"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ok", body.Status)
		assert.Equal(t, "TEST", body.Environment)
		assert.NotEmpty(t, body.Timestamp)
	}
}

func TestLookup_invalidIDFormat(t *testing.T) {
	app := setup(t)

	tests := []httpTest{
		{
			name: "digits only", method: http.MethodPost, path: "/api/lookup",
			body:     []byte(`{"id":"101"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"success":false,"error":{"id":"must be the letter S followed by digits (e.g. S101)"}}`),
		},
		{
			name: "letters after prefix", method: http.MethodPost, path: "/api/lookup",
			body:     []byte(`{"id":"SA1"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"success":false,"error":{"id":"must be the letter S followed by digits (e.g. S101)"}}`),
		},
		{
			name: "empty id", method: http.MethodPost, path: "/api/lookup",
			body:     []byte(`{"id":""}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"success":false,"error":{"id":"this field is required"}}`),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	assert.Zero(t, app.studentRepo.readCount(), "format violations must not reach the store")
}

func TestLookup_unknownStudent(t *testing.T) {
	app := setup(t)

	tt := httpTest{
		method: http.MethodPost, path: "/api/lookup",
		body:     []byte(`{"id":"S999"}`),
		wantCode: http.StatusNotFound,
		wantData: []byte(`{"success":false,"error":"student not found"}`),
	}
	req, rec := newRequest(tt.method, tt.path, tt.body)
	app.server.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)
}

func TestLookup_ordering(t *testing.T) {
	app := setup(t)

	req, rec := newRequest(http.MethodPost, "/api/lookup", []byte(`{"id":"S101"}`))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Student struct {
			ID string `json:"id"`
		} `json:"student"`
		Materials []struct {
			ID string `json:"id"`
		} `json:"materials"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "S101", body.Student.ID)

	ids := make([]string, 0, len(body.Materials))
	for _, m := range body.Materials {
		ids = append(ids, m.ID)
	}
	// newest upload first; inactive M004 excluded
	assert.Equal(t, []string{"M002", "M001", "M003"}, ids)
}

func TestGetStudent(t *testing.T) {
	app := setup(t)

	tests := []httpTest{
		{
			name: "found", method: http.MethodGet, path: "/api/student/S102",
			wantCode: http.StatusOK,
		},
		{
			name: "not found", method: http.MethodGet, path: "/api/student/S999",
			wantCode: http.StatusNotFound,
			wantData: []byte(`{"success":false,"error":"student not found"}`),
		},
		{
			name: "invalid format", method: http.MethodGet, path: "/api/student/102",
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func TestDeliver_devFallbackRoundTrip(t *testing.T) {
	app := setup(t)

	req, rec := newRequest(http.MethodPost, "/api/deliver",
		[]byte(`{"studentId":"S101","materialIds":["M001"],"method":"email","contact":"aisha@example.edu"}`))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Status  string
		Details struct {
			Message       string `json:"message"`
			Recipient     string `json:"recipient"`
			MaterialCount int    `json:"materialCount"`
		} `json:"details"`
		Materials []struct {
			ID     string `json:"id"`
			Title  string `json:"title"`
			Type   string `json:"type"`
			Course string `json:"course"`
		} `json:"materials"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "sent", body.Status)
	assert.Contains(t, body.Details.Message, "development")
	assert.Equal(t, "aisha@example.edu", body.Details.Recipient)
	assert.Equal(t, 1, body.Details.MaterialCount)
	require.Len(t, body.Materials, 1)
	assert.Equal(t, "M001", body.Materials[0].ID)
	assert.Equal(t, "Intro Notes", body.Materials[0].Title)

	require.Len(t, app.emailConsole.Sent(), 1)
	assert.Equal(t, 1, app.audit.count())
}

func TestDeliver_whatsAppDevFallback(t *testing.T) {
	app := setup(t)

	req, rec := newRequest(http.MethodPost, "/api/deliver",
		[]byte(`{"studentId":"S101","materialIds":["M001","M003"],"method":"whatsapp","contact":"254711000101"}`))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	sent := app.chatConsole.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "254711000101", sent[0].Phone)
	assert.Equal(t, 2, sent[0].MaterialCount)
}

func TestDeliver_noDedup(t *testing.T) {
	app := setup(t)

	body := []byte(`{"studentId":"S101","materialIds":["M001"],"method":"email","contact":"aisha@example.edu"}`)
	for i := 0; i < 2; i++ {
		req, rec := newRequest(http.MethodPost, "/api/deliver", body)
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Equal(t, 2, app.audit.count(), "identical requests must both execute fully")
	assert.Len(t, app.emailConsole.Sent(), 2)
}

func TestDeliver_partialBatch(t *testing.T) {
	app := setup(t)

	req, rec := newRequest(http.MethodPost, "/api/deliver",
		[]byte(`{"studentId":"S101","materialIds":["M001","M999"],"method":"email","contact":"aisha@example.edu"}`))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Materials []struct {
			ID string `json:"id"`
		} `json:"materials"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Materials, 1)
	assert.Equal(t, "M001", body.Materials[0].ID)
}

func TestDeliver_errors(t *testing.T) {
	app := setup(t)

	tests := []httpTest{
		{
			name: "no material resolves", method: http.MethodPost, path: "/api/deliver",
			body:     []byte(`{"studentId":"S101","materialIds":["M999"],"method":"email","contact":"a@b.c"}`),
			wantCode: http.StatusNotFound,
			wantData: []byte(`{"success":false,"error":"no materials found"}`),
		},
		{
			name: "unknown student", method: http.MethodPost, path: "/api/deliver",
			body:     []byte(`{"studentId":"S999","materialIds":["M001"],"method":"email","contact":"a@b.c"}`),
			wantCode: http.StatusNotFound,
			wantData: []byte(`{"success":false,"error":"student not found"}`),
		},
		{
			name: "invalid method", method: http.MethodPost, path: "/api/deliver",
			body:     []byte(`{"studentId":"S101","materialIds":["M001"],"method":"pigeon","contact":"a@b.c"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "empty material list", method: http.MethodPost, path: "/api/deliver",
			body:     []byte(`{"studentId":"S101","materialIds":[],"method":"email","contact":"a@b.c"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "missing contact", method: http.MethodPost, path: "/api/deliver",
			body:     []byte(`{"studentId":"S101","materialIds":["M001"],"method":"email"}`),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func TestDownloadFile(t *testing.T) {
	app := setup(t)

	// deliver first so a signed link exists
	req, rec := newRequest(http.MethodPost, "/api/deliver",
		[]byte(`{"studentId":"S101","materialIds":["M001"],"method":"email","contact":"aisha@example.edu"}`))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	sent := app.emailConsole.Sent()
	require.Len(t, sent, 1)

	link, err := app.localIssuer.IssueURL(req.Context(), "materials/cs101/intro.pdf", app.conf.LinkExpiry)
	require.NoError(t, err)

	t.Run("valid link", func(t *testing.T) {
		dlReq, dlRec := newRequest(http.MethodGet, link)
		app.server.ServeHTTP(dlRec, dlReq)
		assert.Equal(t, http.StatusOK, dlRec.Code)
		assert.Contains(t, dlRec.Body.String(), "materials/cs101/intro.pdf")
	})

	t.Run("tampered signature", func(t *testing.T) {
		dlReq, dlRec := newRequest(http.MethodGet, link+"x")
		app.server.ServeHTTP(dlRec, dlReq)
		assert.Equal(t, http.StatusForbidden, dlRec.Code)
	})
}
