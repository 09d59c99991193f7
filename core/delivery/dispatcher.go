package delivery

import (
	"context"

	"github.com/trezcool/somo/core"
	"github.com/trezcool/somo/core/material"
	"github.com/trezcool/somo/core/student"
)

// Adapters holds one constructed adapter per supported provider. Adapters are
// cheap stateless handles; credentials are read from the Config at call time.
// The fallback adapters must always be set.
type Adapters struct {
	SMTP          EmailSender
	Sendgrid      EmailSender
	Resend        EmailSender
	EmailFallback EmailSender

	GreenAPI     WhatsAppSender
	Wati         WhatsAppSender
	Twilio       WhatsAppSender
	ChatFallback WhatsAppSender
}

// Dispatcher selects exactly one adapter per channel using a fixed priority
// order over the credentials present in the Config. Selection happens on
// every request. If the invoked adapter fails, the failure is reported as a
// business outcome; the Dispatcher never falls through to the next adapter.
type Dispatcher struct {
	conf     *core.Config
	adapters Adapters
	log      core.Logger
}

func NewDispatcher(conf *core.Config, adapters Adapters, log core.Logger) *Dispatcher {
	return &Dispatcher{conf: conf, adapters: adapters, log: log}
}

func (d *Dispatcher) Dispatch(ctx context.Context, ch Channel, std student.Student, mats []material.Resolved, contact string) Outcome {
	switch ch {
	case ChannelWhatsApp:
		return d.sendWhatsApp(ctx, std, mats, contact)
	default:
		return d.sendEmail(ctx, std, mats, contact)
	}
}

// Email priority: SMTP → SendGrid → Resend → development fallback.
func (d *Dispatcher) sendEmail(ctx context.Context, std student.Student, mats []material.Resolved, to string) Outcome {
	var sender EmailSender
	switch {
	case d.conf.SMTPConfigured():
		sender = d.adapters.SMTP
	case d.conf.SendgridConfigured():
		sender = d.adapters.Sendgrid
	case d.conf.ResendConfigured():
		sender = d.adapters.Resend
	default:
		sender = d.adapters.EmailFallback
	}

	out, err := sender.Send(ctx, std, mats, to)
	if err != nil {
		d.log.Warn("email delivery failed", err)
		return failedOutcome(ChannelEmail, "Failed to send email", err)
	}
	return out
}

// WhatsApp priority: Green API → Wati → Twilio → development fallback.
func (d *Dispatcher) sendWhatsApp(ctx context.Context, std student.Student, mats []material.Resolved, phone string) Outcome {
	var sender WhatsAppSender
	switch {
	case d.conf.GreenAPIConfigured():
		sender = d.adapters.GreenAPI
	case d.conf.WatiConfigured():
		sender = d.adapters.Wati
	case d.conf.TwilioConfigured():
		sender = d.adapters.Twilio
	default:
		sender = d.adapters.ChatFallback
	}

	out, err := sender.Send(ctx, std, mats, phone)
	if err != nil {
		d.log.Warn("WhatsApp delivery failed", err)
		return failedOutcome(ChannelWhatsApp, "Failed to send WhatsApp message", err)
	}
	return out
}

func failedOutcome(ch Channel, msg string, err error) Outcome {
	return Outcome{
		Channel: ch,
		Status:  StatusFailed,
		Details: Details{Message: msg, Error: err.Error()},
	}
}
