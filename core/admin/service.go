package admin

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/somo/core"
	"github.com/trezcool/somo/core/material"
	"github.com/trezcool/somo/core/student"
)

var (
	// errors
	ErrNotFound             = errors.New("admin not found")
	ErrAuthenticationFailed = errors.New("invalid credentials")
)

type (
	Repository interface {
		GetByEmail(ctx context.Context, email string) (Admin, error)
		UpdateOrCreate(ctx context.Context, adm Admin) (Admin, error)
	}

	// Service backs the admin panel: credential verification plus CRUD
	// passthrough to the live document store (no seed fallback on this
	// surface).
	Service struct {
		admins    Repository
		students  student.Repository
		materials material.Repository
	}

	Stats struct {
		TotalMaterials  int `json:"totalMaterials"`
		ActiveMaterials int `json:"activeMaterials"`
		TotalStudents   int `json:"totalStudents"`
		ActiveStudents  int `json:"activeStudents"`
		TotalDownloads  int `json:"totalDownloads"`
	}
)

func NewService(admins Repository, students student.Repository, materials material.Repository) *Service {
	return &Service{admins: admins, students: students, materials: materials}
}

// Authenticate verifies an admin's credentials. It fails the same way for an
// unknown email and a wrong password.
func (svc *Service) Authenticate(ctx context.Context, email, pwd string) (Admin, error) {
	adm, err := svc.admins.GetByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Admin{}, ErrAuthenticationFailed
		}
		return Admin{}, errors.Wrap(err, "finding admin by email")
	}
	if err = adm.CheckPassword(pwd); err != nil {
		return Admin{}, ErrAuthenticationFailed
	}
	if !adm.IsActive {
		return Admin{}, ErrAuthenticationFailed
	}
	return adm, nil
}

// Students

func (svc *Service) QueryStudents(ctx context.Context) ([]student.Student, error) {
	return svc.students.QueryAll(ctx)
}

func (svc *Service) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	if _, err := svc.students.GetByID(ctx, std.ID); err == nil {
		return student.Student{}, core.NewValidationError(student.ErrIDExists,
			core.FieldError{Field: "id", Error: student.ErrIDExists.Error()})
	} else if errors.Cause(err) != student.ErrNotFound {
		return student.Student{}, errors.Wrap(err, "checking student ID uniqueness")
	}

	if std.Status == "" {
		std.Status = student.StatusActive
	}
	std.RegisteredAt = time.Now().UTC()
	return svc.students.Create(ctx, std)
}

func (svc *Service) UpdateStudent(ctx context.Context, id string, up student.UpdateStudent) error {
	return svc.students.Update(ctx, id, up)
}

func (svc *Service) DeleteStudent(ctx context.Context, id string) error {
	return svc.students.Delete(ctx, id)
}

// Materials

func (svc *Service) QueryMaterials(ctx context.Context) ([]material.Material, error) {
	return svc.materials.QueryAll(ctx)
}

func (svc *Service) CreateMaterial(ctx context.Context, mat material.Material, createdBy string) (material.Material, error) {
	applyMaterialDefaults(&mat, createdBy)
	return svc.materials.Create(ctx, mat)
}

func (svc *Service) CreateMaterials(ctx context.Context, mats []material.Material, createdBy string) ([]material.Material, error) {
	for i := range mats {
		applyMaterialDefaults(&mats[i], createdBy)
	}
	return svc.materials.CreateMany(ctx, mats)
}

func (svc *Service) UpdateMaterial(ctx context.Context, id string, up material.UpdateMaterial) error {
	return svc.materials.Update(ctx, id, up)
}

func (svc *Service) DeleteMaterial(ctx context.Context, id string) error {
	return svc.materials.Delete(ctx, id)
}

func applyMaterialDefaults(mat *material.Material, createdBy string) {
	if mat.Visibility == "" {
		mat.Visibility = material.VisibilityActive
	}
	if mat.Size == "" {
		mat.Size = "Unknown"
	}
	mat.UploadedAt = time.Now().UTC()
	mat.CreatedBy = createdBy
}

// Stats aggregates dashboard counters over both collections.
func (svc *Service) Stats(ctx context.Context) (Stats, error) {
	mats, err := svc.materials.QueryAll(ctx)
	if err != nil {
		return Stats{}, errors.Wrap(err, "querying materials")
	}
	stds, err := svc.students.QueryAll(ctx)
	if err != nil {
		return Stats{}, errors.Wrap(err, "querying students")
	}

	stats := Stats{TotalMaterials: len(mats), TotalStudents: len(stds)}
	for _, m := range mats {
		if m.IsActive() {
			stats.ActiveMaterials++
		}
		stats.TotalDownloads += m.Downloads
	}
	for _, s := range stds {
		if s.Status == student.StatusActive {
			stats.ActiveStudents++
		}
	}
	return stats, nil
}
