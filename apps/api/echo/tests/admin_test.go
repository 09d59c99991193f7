package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminLogin(t *testing.T) {
	app := setup(t)
	app.addAdmin(t, "Root", "root@example.edu", "s3cr3t")

	t.Run("valid credentials", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/auth/login",
			[]byte(`{"email":"root@example.edu","password":"s3cr3t"}`))
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Success bool   `json:"success"`
			Token   string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.NotEmpty(t, body.Token)
	})

	tests := []httpTest{
		{
			name: "wrong password", method: http.MethodPost, path: "/api/auth/login",
			body:     []byte(`{"email":"root@example.edu","password":"nope"}`),
			wantCode: http.StatusUnauthorized,
			wantData: []byte(`{"success":false,"error":"invalid credentials"}`),
		},
		{
			name: "unknown email", method: http.MethodPost, path: "/api/auth/login",
			body:     []byte(`{"email":"ghost@example.edu","password":"s3cr3t"}`),
			wantCode: http.StatusUnauthorized,
			wantData: []byte(`{"success":false,"error":"invalid credentials"}`),
		},
		{
			name: "missing password", method: http.MethodPost, path: "/api/auth/login",
			body:     []byte(`{"email":"root@example.edu"}`),
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

func TestAdminEndpointsRequireAuth(t *testing.T) {
	app := setup(t)

	tests := []httpTest{
		{name: "materials", method: http.MethodGet, path: "/api/materials", wantCode: http.StatusUnauthorized},
		{name: "students", method: http.MethodGet, path: "/api/students", wantCode: http.StatusUnauthorized},
		{name: "stats", method: http.MethodGet, path: "/api/stats", wantCode: http.StatusUnauthorized},
		{name: "create material", method: http.MethodPost, path: "/api/materials", body: []byte(`{}`), wantCode: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func TestAdminMaterialsCRUD(t *testing.T) {
	app := setup(t)
	token := app.addAdmin(t, "Root", "root@example.edu", "s3cr3t")

	t.Run("create", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/materials", token,
			[]byte(`{"id":"M100","course":"CS101","title":"New Notes","type":"document","filePath":"materials/cs101/new.pdf"}`))
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)

		var body struct {
			Material struct {
				ID         string `json:"id"`
				Visibility string `json:"visibility"`
				Size       string `json:"size"`
				CreatedBy  string `json:"createdBy"`
				UploadedAt string `json:"uploadedAt"`
			} `json:"material"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "M100", body.Material.ID)
		assert.Equal(t, "active", body.Material.Visibility, "server defaults visibility")
		assert.Equal(t, "Unknown", body.Material.Size, "server defaults size")
		assert.Equal(t, "root@example.edu", body.Material.CreatedBy)
		assert.NotEmpty(t, body.Material.UploadedAt, "server sets upload timestamp")
	})

	t.Run("bulk create", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/materials/bulk", token,
			[]byte(`{"materials":[
				{"id":"M101","course":"PHY110","title":"Lab Guide"},
				{"id":"M102","course":"PHY110","title":"Lab Solutions"}
			]}`))
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)

		var body struct {
			Count int `json:"count"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 2, body.Count)
	})

	t.Run("update", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/api/materials/M100", token,
			[]byte(`{"visibility":"inactive"}`))
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/api/materials/M100", token)
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("update missing", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/api/materials/M999", token,
			[]byte(`{"title":"nope"}`))
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAdminStudentsCRUD(t *testing.T) {
	app := setup(t)
	token := app.addAdmin(t, "Root", "root@example.edu", "s3cr3t")

	t.Run("create", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/students", token,
			[]byte(`{"id":"S200","name":"Daniel Kip","email":"daniel@example.edu","courses":["PHY110"]}`))
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)

		var body struct {
			Student struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"student"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "S200", body.Student.ID)
		assert.Equal(t, "active", body.Student.Status, "server defaults status")
	})

	t.Run("duplicate id", func(t *testing.T) {
		tt := httpTest{
			method: http.MethodPost, path: "/api/students", token: token,
			body:     []byte(`{"id":"S101","name":"Dup"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"success":false,"error":{"id":"a student with this ID already exists"}}`),
		}
		req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("update", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/api/students/S200", token,
			[]byte(`{"status":"inactive"}`))
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/api/students/S200", token)
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAdminStats(t *testing.T) {
	app := setup(t)
	token := app.addAdmin(t, "Root", "root@example.edu", "s3cr3t")

	req, rec := newAuthRequest(http.MethodGet, "/api/stats", token)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Stats struct {
			TotalMaterials  int `json:"totalMaterials"`
			ActiveMaterials int `json:"activeMaterials"`
			TotalStudents   int `json:"totalStudents"`
			ActiveStudents  int `json:"activeStudents"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 4, body.Stats.TotalMaterials)
	assert.Equal(t, 3, body.Stats.ActiveMaterials)
	assert.Equal(t, 2, body.Stats.TotalStudents)
	assert.Equal(t, 2, body.Stats.ActiveStudents)
}
