package student

import "time"

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Student struct {
	ID           string    `json:"id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	Phone        string    `json:"phone" bson:"phone"`
	Courses      []string  `json:"courses" bson:"courses"`
	Status       string    `json:"status" bson:"status"`
	RegisteredAt time.Time `json:"registeredAt" bson:"registeredAt"`
}

// UpdateStudent carries a partial update; zero fields are left untouched.
type UpdateStudent struct {
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Phone   string   `json:"phone"`
	Courses []string `json:"courses"`
	Status  string   `json:"status"`
}
