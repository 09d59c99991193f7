package emailsvc

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/trezcool/somo/core"
	"github.com/trezcool/somo/core/delivery"
	"github.com/trezcool/somo/core/material"
	"github.com/trezcool/somo/core/student"
)

var (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// SendgridSender delivers via the SendGrid transactional API.
type SendgridSender struct {
	conf *core.Config
}

var _ delivery.EmailSender = (*SendgridSender)(nil)

func NewSendgridSender(conf *core.Config) *SendgridSender {
	return &SendgridSender{conf: conf}
}

func (svc *SendgridSender) Send(_ context.Context, std student.Student, mats []material.Resolved, to string) (delivery.Outcome, error) {
	content, err := delivery.ComposeEmail(svc.conf, std, mats)
	if err != nil {
		return delivery.Outcome{}, err
	}

	p := sgmail.NewPersonalization()
	p.Subject = content.Subject
	p.AddTos(sgmail.NewEmail(std.Name, to))

	m := sgmail.NewV3Mail()
	m.SetFrom(sgmail.NewEmail(svc.conf.AppName, svc.conf.Sendgrid.FromEmail))
	m.AddPersonalizations(p)
	m.AddContent(
		sgmail.NewContent("text/plain", content.Text),
		sgmail.NewContent("text/html", content.HTML),
	)

	req := sendgrid.GetRequest(svc.conf.Sendgrid.APIKey, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	res, err := sendgrid.API(req)
	if err != nil {
		return delivery.Outcome{}, errors.Wrap(err, "sending email via SendGrid")
	}
	if res.StatusCode >= http.StatusBadRequest {
		return delivery.Outcome{}, errors.Errorf("sending email via SendGrid: status %d: %s", res.StatusCode, res.Body)
	}

	return delivery.Outcome{
		Channel: delivery.ChannelEmail,
		Status:  delivery.StatusSent,
		Details: delivery.Details{
			Message:       "Email sent successfully via SendGrid",
			Recipient:     to,
			MaterialCount: len(mats),
		},
	}, nil
}
