package whatsappsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/trezcool/somo/core"
	"github.com/trezcool/somo/core/delivery"
	"github.com/trezcool/somo/core/material"
	"github.com/trezcool/somo/core/student"
)

// GreenAPISender delivers via the Green API WhatsApp gateway.
type GreenAPISender struct {
	conf *core.Config
}

var _ delivery.WhatsAppSender = (*GreenAPISender)(nil)

func NewGreenAPISender(conf *core.Config) *GreenAPISender {
	return &GreenAPISender{conf: conf}
}

func (svc *GreenAPISender) Send(_ context.Context, std student.Student, mats []material.Resolved, phone string) (delivery.Outcome, error) {
	text := delivery.ComposeWhatsApp(svc.conf, std, mats)

	body, err := json.Marshal(map[string]string{
		"chatId":  phone + "@c.us",
		"message": text,
	})
	if err != nil {
		return delivery.Outcome{}, errors.Wrap(err, "encoding Green API payload")
	}

	url := fmt.Sprintf("https://api.green-api.com/waInstance%s/sendMessage/%s",
		svc.conf.GreenAPI.IDInstance, svc.conf.GreenAPI.Token)

	res, err := rest.Send(rest.Request{
		Method:  rest.Post,
		BaseURL: url,
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    body,
	})
	if err != nil {
		return delivery.Outcome{}, errors.Wrap(err, "sending WhatsApp via Green API")
	}
	if res.StatusCode >= http.StatusBadRequest {
		return delivery.Outcome{}, errors.Errorf("sending WhatsApp via Green API: status %d: %s", res.StatusCode, res.Body)
	}

	var out struct {
		IDMessage string `json:"idMessage"`
	}
	_ = json.Unmarshal([]byte(res.Body), &out)

	return delivery.Outcome{
		Channel: delivery.ChannelWhatsApp,
		Status:  delivery.StatusSent,
		Details: delivery.Details{
			Message:       "WhatsApp sent successfully via Green API",
			Recipient:     phone,
			MessageID:     out.IDMessage,
			MaterialCount: len(mats),
		},
	}, nil
}
