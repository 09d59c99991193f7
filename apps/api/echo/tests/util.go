package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/somo/apps/api/echo"
	"github.com/trezcool/somo/core"
	"github.com/trezcool/somo/core/admin"
	"github.com/trezcool/somo/core/delivery"
	"github.com/trezcool/somo/core/material"
	"github.com/trezcool/somo/core/student"
	emailsvc "github.com/trezcool/somo/services/email"
	whatsappsvc "github.com/trezcool/somo/services/whatsapp"
	"github.com/trezcool/somo/storage/objectstore"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

// in-memory repositories

type memStudentRepo struct {
	mu    sync.Mutex
	data  map[string]student.Student
	reads int
}

func newMemStudentRepo(stds ...student.Student) *memStudentRepo {
	repo := &memStudentRepo{data: make(map[string]student.Student)}
	for _, std := range stds {
		repo.data[std.ID] = std
	}
	return repo
}

func (r *memStudentRepo) GetByID(_ context.Context, id string) (student.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	if std, ok := r.data[id]; ok {
		return std, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (r *memStudentRepo) QueryAll(_ context.Context) ([]student.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stds := make([]student.Student, 0, len(r.data))
	for _, std := range r.data {
		stds = append(stds, std)
	}
	return stds, nil
}

func (r *memStudentRepo) Create(_ context.Context, std student.Student) (student.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[std.ID]; ok {
		return student.Student{}, student.ErrIDExists
	}
	r.data[std.ID] = std
	return std, nil
}

func (r *memStudentRepo) Update(_ context.Context, id string, up student.UpdateStudent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	std, ok := r.data[id]
	if !ok {
		return student.ErrNotFound
	}
	if up.Name != "" {
		std.Name = up.Name
	}
	if up.Email != "" {
		std.Email = up.Email
	}
	if up.Phone != "" {
		std.Phone = up.Phone
	}
	if up.Courses != nil {
		std.Courses = up.Courses
	}
	if up.Status != "" {
		std.Status = up.Status
	}
	r.data[id] = std
	return nil
}

func (r *memStudentRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return student.ErrNotFound
	}
	delete(r.data, id)
	return nil
}

func (r *memStudentRepo) readCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reads
}

type memMaterialRepo struct {
	mu   sync.Mutex
	data []material.Material
}

func newMemMaterialRepo(mats ...material.Material) *memMaterialRepo {
	return &memMaterialRepo{data: mats}
}

func (r *memMaterialRepo) GetByIDs(_ context.Context, ids []string) ([]material.Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	mats := make([]material.Material, 0, len(ids))
	for _, id := range ids {
		for _, mat := range r.data {
			if mat.ID == id {
				mats = append(mats, mat)
				break
			}
		}
	}
	return mats, nil
}

func (r *memMaterialRepo) FilterActive(_ context.Context, courses []string) ([]material.Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := make(map[string]struct{}, len(courses))
	for _, c := range courses {
		wanted[c] = struct{}{}
	}
	mats := make([]material.Material, 0)
	for _, mat := range r.data {
		if _, ok := wanted[mat.Course]; ok && mat.IsActive() {
			mats = append(mats, mat)
		}
	}
	return mats, nil
}

func (r *memMaterialRepo) QueryAll(_ context.Context) ([]material.Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	mats := make([]material.Material, len(r.data))
	copy(mats, r.data)
	return mats, nil
}

func (r *memMaterialRepo) Create(_ context.Context, mat material.Material) (material.Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = append(r.data, mat)
	return mat, nil
}

func (r *memMaterialRepo) CreateMany(_ context.Context, mats []material.Material) ([]material.Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = append(r.data, mats...)
	return mats, nil
}

func (r *memMaterialRepo) Update(_ context.Context, id string, up material.UpdateMaterial) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, mat := range r.data {
		if mat.ID != id {
			continue
		}
		if up.Title != "" {
			mat.Title = up.Title
		}
		if up.Course != "" {
			mat.Course = up.Course
		}
		if up.Type != "" {
			mat.Type = up.Type
		}
		if up.FilePath != "" {
			mat.FilePath = up.FilePath
		}
		if up.Size != "" {
			mat.Size = up.Size
		}
		if up.Visibility != "" {
			mat.Visibility = up.Visibility
		}
		r.data[i] = mat
		return nil
	}
	return material.ErrNoneFound
}

func (r *memMaterialRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, mat := range r.data {
		if mat.ID == id {
			r.data = append(r.data[:i], r.data[i+1:]...)
			return nil
		}
	}
	return material.ErrNoneFound
}

type memAdminRepo struct {
	mu   sync.Mutex
	data map[string]admin.Admin
}

func newMemAdminRepo() *memAdminRepo {
	return &memAdminRepo{data: make(map[string]admin.Admin)}
}

func (r *memAdminRepo) GetByEmail(_ context.Context, email string) (admin.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if adm, ok := r.data[core.CleanString(email, true)]; ok {
		return adm, nil
	}
	return admin.Admin{}, admin.ErrNotFound
}

func (r *memAdminRepo) UpdateOrCreate(_ context.Context, adm admin.Admin) (admin.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	adm.Email = core.CleanString(adm.Email, true)
	r.data[adm.Email] = adm
	return adm, nil
}

type recordingAudit struct {
	mu      sync.Mutex
	entries []delivery.AuditEntry
}

func (r *recordingAudit) Append(_ context.Context, entry delivery.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *recordingAudit) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// test app wiring

type testApp struct {
	server       Server
	conf         *core.Config
	studentRepo  *memStudentRepo
	materialRepo *memMaterialRepo
	adminRepo    *memAdminRepo
	audit        *recordingAudit
	emailConsole *emailsvc.ConsoleSender
	chatConsole  *whatsappsvc.ConsoleSender
	localIssuer  *objectstore.LocalIssuer
}

func testConfig() *core.Config {
	conf := new(core.Config)
	conf.Env = "TEST"
	conf.AppName = "Somo"
	conf.TestMode = true
	conf.SecretKey = []byte("test-secret")
	conf.LinkExpiry = 10 * time.Minute
	conf.Server.PublicURL = "http://localhost:8000"
	conf.Server.JWTExpirationDelta = time.Hour
	return conf
}

func seedStudents() []student.Student {
	return []student.Student{
		{ID: "S101", Name: "Aisha Mwangi", Email: "aisha@example.edu", Phone: "254711000101",
			Courses: []string{"CS101", "MATH201"}, Status: student.StatusActive,
			RegisteredAt: time.Date(2026, 1, 12, 8, 30, 0, 0, time.UTC)},
		{ID: "S102", Name: "Brian Otieno", Email: "brian@example.edu", Phone: "254711000102",
			Courses: []string{"CS101"}, Status: student.StatusActive,
			RegisteredAt: time.Date(2026, 1, 15, 10, 5, 0, 0, time.UTC)},
	}
}

func seedMaterials() []material.Material {
	t1 := time.Date(2026, 3, 5, 16, 20, 0, 0, time.UTC)
	t2 := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	t3 := time.Date(2026, 3, 18, 11, 30, 0, 0, time.UTC)
	return []material.Material{
		{ID: "M001", Course: "CS101", Title: "Intro Notes", Type: material.TypeDocument,
			FilePath: "materials/cs101/intro.pdf", Size: "2.4 MB", Visibility: material.VisibilityActive, UploadedAt: t2},
		{ID: "M002", Course: "CS101", Title: "Data Structures", Type: material.TypeSlide,
			FilePath: "materials/cs101/ds.pptx", Size: "5.1 MB", Visibility: material.VisibilityActive, UploadedAt: t3},
		{ID: "M003", Course: "MATH201", Title: "Problem Set", Type: material.TypeDocument,
			FilePath: "materials/math201/pset.pdf", Size: "1.2 MB", Visibility: material.VisibilityActive, UploadedAt: t1},
		{ID: "M004", Course: "CS101", Title: "Old Syllabus", Type: material.TypeDocument,
			FilePath: "materials/cs101/old.pdf", Size: "600 KB", Visibility: material.VisibilityInactive, UploadedAt: t3},
	}
}

func setup(t *testing.T) *testApp {
	t.Helper()

	conf := testConfig()
	logger := nopLogger{}

	studentRepo := newMemStudentRepo(seedStudents()...)
	materialRepo := newMemMaterialRepo(seedMaterials()...)
	adminRepo := newMemAdminRepo()
	audit := new(recordingAudit)

	localIssuer := objectstore.NewLocalIssuer(conf)

	emailConsole := emailsvc.NewConsoleSender(conf, logger)
	chatConsole := whatsappsvc.NewConsoleSender(conf, logger)
	// no provider credentials configured: the dispatcher always lands on the
	// console fallbacks
	dispatcher := delivery.NewDispatcher(conf, delivery.Adapters{
		EmailFallback: emailConsole,
		ChatFallback:  chatConsole,
	}, logger)

	studentSvc := student.NewService(studentRepo, materialRepo)
	deliverySvc := delivery.NewService(studentRepo, materialRepo, localIssuer, dispatcher, audit, conf, logger)
	adminSvc := admin.NewService(adminRepo, studentRepo, materialRepo)

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)

	server := NewServer(ServerDeps{
		Conf:           conf,
		Logger:         logger,
		StudentSvc:     studentSvc,
		DeliverySvc:    deliverySvc,
		AdminSvc:       adminSvc,
		LocalIssuer:    localIssuer,
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
	})

	return &testApp{
		server:       server,
		conf:         conf,
		studentRepo:  studentRepo,
		materialRepo: materialRepo,
		adminRepo:    adminRepo,
		audit:        audit,
		emailConsole: emailConsole,
		chatConsole:  chatConsole,
		localIssuer:  localIssuer,
	}
}

// addAdmin registers an active admin account and returns a valid token.
func (app *testApp) addAdmin(t *testing.T, name, email, pwd string) string {
	t.Helper()
	adm := admin.Admin{Name: name, Email: email, IsActive: true, CreatedAt: time.Now().UTC()}
	if err := adm.SetPassword(pwd); err != nil {
		t.Fatalf("addAdmin() failed: %v", err)
	}
	adm, err := app.adminRepo.UpdateOrCreate(context.Background(), adm)
	if err != nil {
		t.Fatalf("addAdmin() failed: %v", err)
	}
	token, err := GenerateToken(app.conf, GetAdminClaims(app.conf, adm))
	if err != nil {
		t.Fatalf("addAdmin() failed: %v", err)
	}
	return token
}

// request helpers

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
