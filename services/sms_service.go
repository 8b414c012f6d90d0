package services

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SMSService delivers text messages through Twilio.
type SMSService struct {
	client *twilio.RestClient
	from   string
}

func NewSMSService(accountSID, authToken, fromNumber string) *SMSService {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &SMSService{
		client: client,
		from:   fromNumber,
	}
}

func (ss *SMSService) Send(ctx context.Context, to, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(ss.from)
	params.SetBody(body)

	_, err := ss.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send SMS: %v", err)
	}
	return nil
}
