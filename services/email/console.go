package emailsvc

import (
	"context"
	"fmt"
	"sync"

	"github.com/trezcool/somo/core"
	"github.com/trezcool/somo/core/delivery"
	"github.com/trezcool/somo/core/material"
	"github.com/trezcool/somo/core/student"
)

// ConsoleSender is the development fallback: it only logs the rendered email
// and always reports a sent outcome. It is the terminal adapter in the email
// chain and never returns an error.
type ConsoleSender struct {
	conf *core.Config
	log  core.Logger

	mu   sync.Mutex
	sent []SentEmail
}

// SentEmail records a message handed to the console sender; tests inspect it.
type SentEmail struct {
	To            string
	Subject       string
	Text          string
	MaterialCount int
}

var _ delivery.EmailSender = (*ConsoleSender)(nil)

func NewConsoleSender(conf *core.Config, log core.Logger) *ConsoleSender {
	return &ConsoleSender{conf: conf, log: log}
}

func (svc *ConsoleSender) Send(_ context.Context, std student.Student, mats []material.Resolved, to string) (delivery.Outcome, error) {
	content, err := delivery.ComposeEmail(svc.conf, std, mats)
	if err != nil {
		// still report sent; the development fallback never fails a delivery
		svc.log.Error("rendering email", err)
		content.Text = fmt.Sprintf("(render error: %v)", err)
	}

	svc.log.Info(fmt.Sprintf(
		"=== EMAIL DELIVERY (Development Mode) ===\nTo: %s\nStudent: %s (%s)\nSubject: %s\n\n%s\n=== END EMAIL ===",
		to, std.Name, std.ID, content.Subject, content.Text,
	))

	svc.mu.Lock()
	svc.sent = append(svc.sent, SentEmail{To: to, Subject: content.Subject, Text: content.Text, MaterialCount: len(mats)})
	svc.mu.Unlock()

	return delivery.Outcome{
		Channel: delivery.ChannelEmail,
		Status:  delivery.StatusSent,
		Details: delivery.Details{
			Message:       "Email logged in development mode",
			Recipient:     to,
			MaterialCount: len(mats),
		},
	}, nil
}

// Sent returns a snapshot of the messages handed to the sender so far.
func (svc *ConsoleSender) Sent() []SentEmail {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	out := make([]SentEmail, len(svc.sent))
	copy(out, svc.sent)
	return out
}
