package mail

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESMailer sends rejection notices through Amazon SES. Delivery is
// best-effort; callers decide whether a failure matters.
type SESMailer struct {
	client *ses.Client
	sender string
}

func NewSESMailer(client *ses.Client, sender string) *SESMailer {
	return &SESMailer{client: client, sender: sender}
}

func (m *SESMailer) SendRejectionEmail(ctx context.Context, recipient, documentType, documentName, reason, displayName string) error {

	subject := fmt.Sprintf("Action required: your %s was not accepted", documentType)
	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"The document %q (%s) submitted with your marriage registration application "+
			"was not accepted for the following reason:\n\n%s\n\n"+
			"Please sign in and upload a corrected copy. Your application cannot move "+
			"forward until every document is accepted.\n\n"+
			"Office of the Marriage Registrar",
		displayName, documentName, documentType, reason,
	)

	_, err := m.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(m.sender),
		Destination: &sestypes.Destination{
			ToAddresses: []string{recipient},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send rejection email to %s: %w", recipient, err)
	}

	return nil
}
