package whatsappsvc

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/trezcool/somo/core"
	"github.com/trezcool/somo/core/delivery"
	"github.com/trezcool/somo/core/material"
	"github.com/trezcool/somo/core/student"
)

// WatiSender delivers via the Wati.io business WhatsApp API.
type WatiSender struct {
	conf *core.Config
}

var _ delivery.WhatsAppSender = (*WatiSender)(nil)

func NewWatiSender(conf *core.Config) *WatiSender {
	return &WatiSender{conf: conf}
}

func (svc *WatiSender) Send(_ context.Context, std student.Student, mats []material.Resolved, phone string) (delivery.Outcome, error) {
	text := delivery.ComposeWhatsApp(svc.conf, std, mats)

	body, err := json.Marshal(map[string]string{"messageText": text})
	if err != nil {
		return delivery.Outcome{}, errors.Wrap(err, "encoding Wati payload")
	}

	res, err := rest.Send(rest.Request{
		Method:  rest.Post,
		BaseURL: svc.conf.Wati.BaseURL + "/api/v1/sendSessionMessage/" + phone,
		Headers: map[string]string{
			"Authorization": "Bearer " + svc.conf.Wati.APIKey,
			"Content-Type":  "application/json",
		},
		Body: body,
	})
	if err != nil {
		return delivery.Outcome{}, errors.Wrap(err, "sending WhatsApp via Wati.io")
	}
	if res.StatusCode >= http.StatusBadRequest {
		return delivery.Outcome{}, errors.Errorf("sending WhatsApp via Wati.io: status %d: %s", res.StatusCode, res.Body)
	}

	var out struct {
		MessageID string `json:"messageId"`
	}
	_ = json.Unmarshal([]byte(res.Body), &out)

	return delivery.Outcome{
		Channel: delivery.ChannelWhatsApp,
		Status:  delivery.StatusSent,
		Details: delivery.Details{
			Message:       "WhatsApp sent successfully via Wati.io",
			Recipient:     phone,
			MessageID:     out.MessageID,
			MaterialCount: len(mats),
		},
	}, nil
}
