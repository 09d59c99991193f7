package emailsvc

import (
	"context"

	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"

	"github.com/trezcool/somo/core"
	"github.com/trezcool/somo/core/delivery"
	"github.com/trezcool/somo/core/material"
	"github.com/trezcool/somo/core/student"
)

// ResendSender delivers via the Resend transactional API.
type ResendSender struct {
	conf *core.Config
}

var _ delivery.EmailSender = (*ResendSender)(nil)

func NewResendSender(conf *core.Config) *ResendSender {
	return &ResendSender{conf: conf}
}

func (svc *ResendSender) Send(ctx context.Context, std student.Student, mats []material.Resolved, to string) (delivery.Outcome, error) {
	content, err := delivery.ComposeEmail(svc.conf, std, mats)
	if err != nil {
		return delivery.Outcome{}, err
	}

	client := resend.NewClient(svc.conf.Resend.APIKey)
	sent, err := client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    svc.conf.Resend.FromEmail,
		To:      []string{to},
		Subject: content.Subject,
		Text:    content.Text,
		Html:    content.HTML,
	})
	if err != nil {
		return delivery.Outcome{}, errors.Wrap(err, "sending email via Resend")
	}

	return delivery.Outcome{
		Channel: delivery.ChannelEmail,
		Status:  delivery.StatusSent,
		Details: delivery.Details{
			Message:       "Email sent successfully via Resend",
			Recipient:     to,
			MessageID:     sent.Id,
			MaterialCount: len(mats),
		},
	}, nil
}
