package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/toolagent/toolagent/internal/mail"
	"github.com/toolagent/toolagent/internal/models"
)

const mailTimeout = time.Minute

var emailSenderSpec = models.Specification{
	Name:        "universal_email_sender",
	Description: "Send an email through the configured email service (QQ, 163, Aliyun...). Supports HTML content, cc recipients and an attachment.",
	Inputs: &models.InputSchema{
		Type: "object",
		Properties: map[string]models.ParameterObject{
			"to": {
				Type:        "string",
				Description: "Recipient email address. Separate multiple addresses with commas.",
			},
			"subject": {
				Type:        "string",
				Description: "Subject of the email.",
			},
			"body": {
				Type:        "string",
				Description: "Content of the email.",
			},
			"cc": {
				Type:        "string",
				Description: "Optional cc email address.",
			},
			"is_html": {
				Type:        "boolean",
				Description: "Whether the body is HTML. Defaults to false.",
			},
			"attachment_path": {
				Type:        "string",
				Description: "Optional path of a file to attach.",
			},
		},
		Required: []string{"to", "subject", "body"},
	},
}

var emailReaderSpec = models.Specification{
	Name:        "universal_email_reader",
	Description: "Read and summarize the most recent emails of the inbox.",
	Inputs: &models.InputSchema{
		Type: "object",
		Properties: map[string]models.ParameterObject{
			"num_emails": {
				Type:        "integer",
				Description: fmt.Sprintf("Amount of recent emails to read, between %v and %v.", mail.MinRecent, mail.MaxRecent),
			},
		},
		Required: []string{"num_emails"},
	},
}

type emailSender interface {
	Send(ctx context.Context, e mail.Email) (string, error)
}

type emailReader interface {
	Service() string
	Recent(ctx context.Context, n int) ([]mail.Summary, error)
}

// EmailSenderTool connects lazily, so that a missing account only fails the call.
type EmailSenderTool struct {
	newSender func() (emailSender, error)
}

func NewEmailSenderTool(account func() (string, mail.Account, error)) EmailSenderTool {
	return EmailSenderTool{newSender: func() (emailSender, error) {
		service, acc, err := account()
		if err != nil {
			return nil, err
		}
		return mail.NewSender(service, acc), nil
	}}
}

func (t EmailSenderTool) Call(input models.Input) (string, error) {
	to, err := stringInput(input, "to")
	if err != nil {
		return "", err
	}
	subject, err := stringInput(input, "subject")
	if err != nil {
		return "", err
	}
	body, err := stringInput(input, "body")
	if err != nil {
		return "", err
	}
	cc, err := optionalString(input, "cc")
	if err != nil {
		return "", err
	}
	isHTML, err := optionalBool(input, "is_html")
	if err != nil {
		return "", err
	}
	attachment, err := optionalString(input, "attachment_path")
	if err != nil {
		return "", err
	}
	sender, err := t.newSender()
	if err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
	defer cancel()
	return sender.Send(ctx, mail.Email{
		To:             addressList(to),
		Cc:             addressList(cc),
		Subject:        subject,
		Body:           body,
		IsHTML:         isHTML,
		AttachmentPath: attachment,
	})
}

func (t EmailSenderTool) Specification() models.Specification {
	return emailSenderSpec
}

type EmailReaderTool struct {
	newReader func() (emailReader, error)
}

func NewEmailReaderTool(account func() (string, mail.Account, error)) EmailReaderTool {
	return EmailReaderTool{newReader: func() (emailReader, error) {
		service, acc, err := account()
		if err != nil {
			return nil, err
		}
		return mail.NewReader(service, acc), nil
	}}
}

func (t EmailReaderTool) Call(input models.Input) (string, error) {
	n, err := intInput(input, "num_emails")
	if err != nil {
		return "", err
	}
	reader, err := t.newReader()
	if err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
	defer cancel()
	summaries, err := reader.Recent(ctx, n)
	if err != nil {
		return "", err
	}
	return mail.FormatDigest(reader.Service(), summaries), nil
}

func (t EmailReaderTool) Specification() models.Specification {
	return emailReaderSpec
}
