package emailsvc

import (
	"context"

	"github.com/pkg/errors"
	"gopkg.in/gomail.v2"

	"github.com/trezcool/somo/core"
	"github.com/trezcool/somo/core/delivery"
	"github.com/trezcool/somo/core/material"
	"github.com/trezcool/somo/core/student"
)

// SMTPSender delivers via a plain SMTP server (Gmail/Outlook/self-hosted).
type SMTPSender struct {
	conf *core.Config
}

var _ delivery.EmailSender = (*SMTPSender)(nil)

func NewSMTPSender(conf *core.Config) *SMTPSender {
	return &SMTPSender{conf: conf}
}

func (svc *SMTPSender) Send(_ context.Context, std student.Student, mats []material.Resolved, to string) (delivery.Outcome, error) {
	content, err := delivery.ComposeEmail(svc.conf, std, mats)
	if err != nil {
		return delivery.Outcome{}, err
	}

	from := svc.conf.SMTP.From
	if from == "" {
		from = svc.conf.SMTP.User
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", content.Subject)
	m.SetBody("text/plain", content.Text)
	m.AddAlternative("text/html", content.HTML)

	d := gomail.NewDialer(svc.conf.SMTP.Host, svc.conf.SMTP.Port, svc.conf.SMTP.User, svc.conf.SMTP.Password)
	if err := d.DialAndSend(m); err != nil {
		return delivery.Outcome{}, errors.Wrap(err, "sending email via SMTP")
	}

	return delivery.Outcome{
		Channel: delivery.ChannelEmail,
		Status:  delivery.StatusSent,
		Details: delivery.Details{
			Message:       "Email sent successfully via SMTP",
			Recipient:     to,
			MaterialCount: len(mats),
		},
	}, nil
}
