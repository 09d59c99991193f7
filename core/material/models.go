package material

import "time"

// Material types
const (
	TypeDocument = "document"
	TypeSlide    = "slide"
	TypeVideo    = "video"
)

// Visibility flags
const (
	VisibilityActive   = "active"
	VisibilityInactive = "inactive"
)

type Material struct {
	ID         string    `json:"id" bson:"_id"`
	Course     string    `json:"course" bson:"course"`
	Title      string    `json:"title" bson:"title"`
	Type       string    `json:"type" bson:"type"`
	FilePath   string    `json:"filePath" bson:"filePath"`
	Size       string    `json:"size" bson:"size"`
	Visibility string    `json:"visibility" bson:"visibility"`
	Downloads  int       `json:"downloads" bson:"downloads"`
	UploadedAt time.Time `json:"uploadedAt" bson:"uploadedAt"`
	CreatedBy  string    `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	UpdatedBy  string    `json:"updatedBy,omitempty" bson:"updatedBy,omitempty"`
}

func (m Material) IsActive() bool { return m.Visibility == VisibilityActive }

func (m Material) Summary() Summary {
	return Summary{ID: m.ID, Title: m.Title, Type: m.Type, Course: m.Course}
}

// Resolved is a Material with a freshly issued, time-limited download URL.
// It is computed per delivery request and never persisted; a failed URL
// issuance leaves DownloadURL empty.
type Resolved struct {
	Material
	DownloadURL string `json:"downloadUrl,omitempty"`
}

// Summary is the redacted material view echoed back in delivery responses;
// it never re-exposes download URLs.
type Summary struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Type   string `json:"type"`
	Course string `json:"course"`
}

// UpdateMaterial carries a partial update; zero fields are left untouched.
type UpdateMaterial struct {
	Title      string `json:"title"`
	Course     string `json:"course"`
	Type       string `json:"type"`
	FilePath   string `json:"filePath"`
	Size       string `json:"size"`
	Visibility string `json:"visibility"`
}
