package whatsappsvc

import (
	"context"
	"fmt"
	"sync"

	"github.com/trezcool/somo/core"
	"github.com/trezcool/somo/core/delivery"
	"github.com/trezcool/somo/core/material"
	"github.com/trezcool/somo/core/student"
)

// ConsoleSender is the development fallback: it only logs the rendered chat
// message and always reports a sent outcome. It never returns an error.
type ConsoleSender struct {
	conf *core.Config
	log  core.Logger

	mu   sync.Mutex
	sent []SentMessage
}

// SentMessage records a message handed to the console sender; tests inspect it.
type SentMessage struct {
	Phone         string
	Text          string
	MaterialCount int
}

var _ delivery.WhatsAppSender = (*ConsoleSender)(nil)

func NewConsoleSender(conf *core.Config, log core.Logger) *ConsoleSender {
	return &ConsoleSender{conf: conf, log: log}
}

func (svc *ConsoleSender) Send(_ context.Context, std student.Student, mats []material.Resolved, phone string) (delivery.Outcome, error) {
	text := delivery.ComposeWhatsApp(svc.conf, std, mats)

	svc.log.Info(fmt.Sprintf(
		"=== WHATSAPP DELIVERY (Development Mode) ===\nTo: %s\nStudent: %s (%s)\n\n%s\n=== END WHATSAPP ===",
		phone, std.Name, std.ID, text,
	))

	svc.mu.Lock()
	svc.sent = append(svc.sent, SentMessage{Phone: phone, Text: text, MaterialCount: len(mats)})
	svc.mu.Unlock()

	return delivery.Outcome{
		Channel: delivery.ChannelWhatsApp,
		Status:  delivery.StatusSent,
		Details: delivery.Details{
			Message:       "WhatsApp logged in development mode",
			Recipient:     phone,
			MaterialCount: len(mats),
		},
	}, nil
}

// Sent returns a snapshot of the messages handed to the sender so far.
func (svc *ConsoleSender) Sent() []SentMessage {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	out := make([]SentMessage, len(svc.sent))
	copy(out, svc.sent)
	return out
}
