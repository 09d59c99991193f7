package whatsappsvc

import (
	"context"

	"github.com/pkg/errors"
	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/trezcool/somo/core"
	"github.com/trezcool/somo/core/delivery"
	"github.com/trezcool/somo/core/material"
	"github.com/trezcool/somo/core/student"
)

const defaultTwilioWhatsAppFrom = "whatsapp:+14155238886" // Twilio sandbox number

// TwilioSender delivers via Twilio's WhatsApp messaging API.
type TwilioSender struct {
	conf *core.Config
}

var _ delivery.WhatsAppSender = (*TwilioSender)(nil)

func NewTwilioSender(conf *core.Config) *TwilioSender {
	return &TwilioSender{conf: conf}
}

func (svc *TwilioSender) Send(_ context.Context, std student.Student, mats []material.Resolved, phone string) (delivery.Outcome, error) {
	text := delivery.ComposeWhatsApp(svc.conf, std, mats)

	from := svc.conf.Twilio.WhatsAppFrom
	if from == "" {
		from = defaultTwilioWhatsAppFrom
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: svc.conf.Twilio.AccountSID,
		Password: svc.conf.Twilio.AuthToken,
	})

	params := new(twilioapi.CreateMessageParams)
	params.SetFrom(from)
	params.SetTo("whatsapp:" + phone)
	params.SetBody(text)

	msg, err := client.Api.CreateMessage(params)
	if err != nil {
		return delivery.Outcome{}, errors.Wrap(err, "sending WhatsApp via Twilio")
	}

	var sid string
	if msg.Sid != nil {
		sid = *msg.Sid
	}

	return delivery.Outcome{
		Channel: delivery.ChannelWhatsApp,
		Status:  delivery.StatusSent,
		Details: delivery.Details{
			Message:       "WhatsApp message sent successfully via Twilio",
			Recipient:     phone,
			MessageID:     sid,
			MaterialCount: len(mats),
		},
	}, nil
}
