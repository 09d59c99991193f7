package echoapi

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/somo/core"
	"github.com/trezcool/somo/core/delivery"
	"github.com/trezcool/somo/core/material"
	"github.com/trezcool/somo/core/student"
)

// Request payloads

type LookupRequest struct {
	ID string `json:"id" validate:"required,studentid"`
}

func (r *LookupRequest) Validate(validate *validator.Validate) error {
	r.ID = core.CleanString(r.ID)
	return validate.Struct(r)
}

type DeliverRequest struct {
	StudentID   string   `json:"studentId" validate:"required,studentid"`
	MaterialIDs []string `json:"materialIds" validate:"required,min=1,dive,required"`
	Method      string   `json:"method" validate:"required,oneof=email whatsapp"`
	Contact     string   `json:"contact" validate:"required"`
}

func (r *DeliverRequest) Validate(validate *validator.Validate) error {
	r.StudentID = core.CleanString(r.StudentID)
	r.Contact = core.CleanString(r.Contact)
	return validate.Struct(r)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate(validate *validator.Validate) error {
	r.Email = core.CleanString(r.Email, true)
	return validate.Struct(r)
}

type NewStudent struct {
	ID      string   `json:"id" validate:"required,studentid"`
	Name    string   `json:"name" validate:"required"`
	Email   string   `json:"email" validate:"omitempty,email"`
	Phone   string   `json:"phone"`
	Courses []string `json:"courses"`
	Status  string   `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (r *NewStudent) Validate(validate *validator.Validate) error {
	r.ID = core.CleanString(r.ID)
	r.Name = core.CleanString(r.Name)
	r.Email = core.CleanString(r.Email, true)
	return validate.Struct(r)
}

func (r NewStudent) student() student.Student {
	status := r.Status
	if status == "" {
		status = student.StatusActive
	}
	return student.Student{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		Phone:        r.Phone,
		Courses:      r.Courses,
		Status:       status,
		RegisteredAt: time.Now().UTC(),
	}
}

type UpdateStudentRequest struct {
	Name    string   `json:"name"`
	Email   string   `json:"email" validate:"omitempty,email"`
	Phone   string   `json:"phone"`
	Courses []string `json:"courses"`
	Status  string   `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (r *UpdateStudentRequest) Validate(validate *validator.Validate) error {
	r.Email = core.CleanString(r.Email, true)
	return validate.Struct(r)
}

func (r UpdateStudentRequest) update() student.UpdateStudent {
	return student.UpdateStudent{
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Courses: r.Courses,
		Status:  r.Status,
	}
}

type NewMaterial struct {
	ID         string `json:"id" validate:"required"`
	Course     string `json:"course" validate:"required"`
	Title      string `json:"title" validate:"required"`
	Type       string `json:"type" validate:"omitempty,oneof=document slide video"`
	FilePath   string `json:"filePath"`
	Size       string `json:"size"`
	Visibility string `json:"visibility" validate:"omitempty,oneof=active inactive"`
}

func (r *NewMaterial) Validate(validate *validator.Validate) error {
	r.ID = core.CleanString(r.ID)
	r.Title = core.CleanString(r.Title)
	return validate.Struct(r)
}

func (r NewMaterial) material() material.Material {
	typ := r.Type
	if typ == "" {
		typ = material.TypeDocument
	}
	return material.Material{
		ID:         r.ID,
		Course:     r.Course,
		Title:      r.Title,
		Type:       typ,
		FilePath:   r.FilePath,
		Size:       r.Size,
		Visibility: r.Visibility,
	}
}

type BulkMaterials struct {
	Materials []NewMaterial `json:"materials" validate:"required,min=1,dive"`
}

func (r *BulkMaterials) Validate(validate *validator.Validate) error {
	for i := range r.Materials {
		r.Materials[i].ID = core.CleanString(r.Materials[i].ID)
		r.Materials[i].Title = core.CleanString(r.Materials[i].Title)
	}
	return validate.Struct(r)
}

type UpdateMaterialRequest struct {
	Title      string `json:"title"`
	Course     string `json:"course"`
	Type       string `json:"type" validate:"omitempty,oneof=document slide video"`
	FilePath   string `json:"filePath"`
	Size       string `json:"size"`
	Visibility string `json:"visibility" validate:"omitempty,oneof=active inactive"`
}

func (r *UpdateMaterialRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}

func (r UpdateMaterialRequest) update() material.UpdateMaterial {
	return material.UpdateMaterial{
		Title:      r.Title,
		Course:     r.Course,
		Type:       r.Type,
		FilePath:   r.FilePath,
		Size:       r.Size,
		Visibility: r.Visibility,
	}
}

// Response payloads

type LookupResponse struct {
	Success   bool                `json:"success"`
	Student   student.Student     `json:"student"`
	Materials []material.Material `json:"materials"`
}

type StudentResponse struct {
	Success bool            `json:"success"`
	Student student.Student `json:"student"`
}

type DeliverResponse struct {
	Success   bool               `json:"success"`
	Status    delivery.Status    `json:"status"`
	Details   delivery.Details   `json:"details"`
	Materials []material.Summary `json:"materials"`
}

type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Environment string    `json:"environment"`
}

func newHealthResponse(conf *core.Config) HealthResponse {
	return HealthResponse{
		Status:      "ok",
		Timestamp:   time.Now().UTC(),
		Environment: conf.Env,
	}
}
