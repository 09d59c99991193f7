package delivery

import (
	"context"
	"time"

	"github.com/trezcool/somo/core/material"
	"github.com/trezcool/somo/core/student"
)

// Channel is one of the two delivery transports.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
)

// Status of a delivery attempt. StatusQueued is reserved in the response
// schema for a future asynchronous mode; no code path produces it.
type Status string

const (
	StatusSent   Status = "sent"
	StatusFailed Status = "failed"
	StatusQueued Status = "queued"
)

// Details is the free-form payload attached to an Outcome.
type Details struct {
	Message       string `json:"message" bson:"message"`
	Recipient     string `json:"recipient,omitempty" bson:"recipient,omitempty"`
	MessageID     string `json:"messageId,omitempty" bson:"messageId,omitempty"`
	MaterialCount int    `json:"materialCount,omitempty" bson:"materialCount,omitempty"`
	Error         string `json:"error,omitempty" bson:"error,omitempty"`
}

// Outcome is the normalized result of exactly one provider call.
type Outcome struct {
	Channel Channel `json:"channel" bson:"channel"`
	Status  Status  `json:"status" bson:"status"`
	Details Details `json:"details" bson:"details"`
}

// AuditEntry records a delivery attempt. Append-only; write failures are
// logged and never surfaced to the caller.
type AuditEntry struct {
	ID          string    `json:"id" bson:"_id"`
	StudentID   string    `json:"studentId" bson:"studentId"`
	MaterialIDs []string  `json:"materialIds" bson:"materialIds"`
	Channel     Channel   `json:"method" bson:"method"`
	Contact     string    `json:"contact" bson:"contact"`
	DeliveredAt time.Time `json:"deliveredAt" bson:"deliveredAt"`
	Status      Status    `json:"status" bson:"status"`
	Details     Details   `json:"details" bson:"details"`
}

type (
	// Appender persists audit entries (best-effort).
	Appender interface {
		Append(ctx context.Context, entry AuditEntry) error
	}

	// EmailSender is a concrete email provider integration. One provider
	// call, one outcome; no retries.
	EmailSender interface {
		Send(ctx context.Context, std student.Student, mats []material.Resolved, to string) (Outcome, error)
	}

	// WhatsAppSender is a concrete WhatsApp provider integration.
	WhatsAppSender interface {
		Send(ctx context.Context, std student.Student, mats []material.Resolved, phone string) (Outcome, error)
	}
)
