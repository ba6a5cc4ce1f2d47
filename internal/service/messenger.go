package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Messenger delivers a text message to a phone number.
type Messenger interface {
	Send(ctx context.Context, phone, message string) error
}

type TwilioMessenger struct {
	create func(*twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
	from   string
	logger *logrus.Logger
}

func NewTwilioMessenger(accountSID, authToken, from string, logger *logrus.Logger) *TwilioMessenger {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioMessenger{
		create: client.Api.CreateMessage,
		from:   from,
		logger: logger,
	}
}

// Send returns when Twilio answers or ctx is done, whichever comes first.
// The Twilio client takes no context, so an abandoned call finishes in the
// background and only its outcome is logged.
func (m *TwilioMessenger) Send(ctx context.Context, phone, message string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(m.from)
	params.SetTo(phone)
	params.SetBody(message)

	type result struct {
		resp *twilioApi.ApiV2010Message
		err  error
	}
	done := make(chan result, 1)
	go func() {
		resp, err := m.create(params)
		done <- result{resp: resp, err: err}
	}()

	select {
	case <-ctx.Done():
		m.logger.WithError(ctx.Err()).WithField("phone", phone).Warn("SMS send abandoned")
		return fmt.Errorf("failed to send SMS: %w", ctx.Err())
	case res := <-done:
		if res.err != nil {
			m.logger.WithError(res.err).WithField("phone", phone).Error("Failed to send SMS")
			return fmt.Errorf("failed to send SMS: %w", res.err)
		}
		if res.resp != nil && res.resp.Sid != nil {
			m.logger.WithField("sid", *res.resp.Sid).Debug("SMS sent")
		}
		return nil
	}
}

// LogMessenger writes messages to the log instead of sending them. Meant for
// local development.
type LogMessenger struct {
	logger *logrus.Logger
}

func NewLogMessenger(logger *logrus.Logger) *LogMessenger {
	return &LogMessenger{logger: logger}
}

func (m *LogMessenger) Send(ctx context.Context, phone, message string) error {
	m.logger.WithFields(logrus.Fields{
		"phone":   phone,
		"message": message,
	}).Info("SMS (development delivery)")
	return nil
}
