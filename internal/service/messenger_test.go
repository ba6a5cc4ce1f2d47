package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

func TestTwilioMessengerSend(t *testing.T) {
	var got *twilioApi.CreateMessageParams
	sid := "SM123"
	m := &TwilioMessenger{
		from:   "+15550000000",
		logger: quietLogger(),
		create: func(p *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
			got = p
			return &twilioApi.ApiV2010Message{Sid: &sid}, nil
		},
	}

	require.NoError(t, m.Send(context.Background(), "+919999999999", "123456"))
	require.Equal(t, "+15550000000", *got.From)
	require.Equal(t, "+919999999999", *got.To)
	require.Equal(t, "123456", *got.Body)

	m.create = func(*twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
		return nil, errors.New("invalid number")
	}
	require.ErrorContains(t, m.Send(context.Background(), "+919999999999", "123456"), "invalid number")
}

func TestTwilioMessengerHonoursContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	m := &TwilioMessenger{
		logger: quietLogger(),
		create: func(*twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
			<-release
			return &twilioApi.ApiV2010Message{}, nil
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := m.Send(ctx, "+919999999999", "123456")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), time.Second)
}
