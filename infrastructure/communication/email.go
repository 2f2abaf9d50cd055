package communication

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"mime/quotedprintable"
	"net/textproto"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

type Email struct {
	From    string
	To      []string
	Subject string
	Text    string
	HTML    string
}

func SendEmail(ctx context.Context, email *Email) error {
	raw, err := buildEmailBuffer(email)
	if err != nil {
		return err
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return err
	}
	client := ses.NewFromConfig(cfg)

	_, err = client.SendRawEmail(
		ctx,
		&ses.SendRawEmailInput{
			RawMessage: &types.RawMessage{
				Data: raw.Bytes(),
			},
		},
	)
	return err
}

func buildEmailBuffer(email *Email) (*bytes.Buffer, error) {
	var raw bytes.Buffer
	writer := multipart.NewWriter(&raw)

	headers := fmt.Sprintf("From: %s\r\n", email.From)
	if len(email.To) > 0 {
		headers += fmt.Sprintf("To: %s\r\n", strings.Join(email.To, ", "))
	}
	headers += fmt.Sprintf("Subject: %s\r\n", email.Subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n", writer.Boundary())
	headers += "\r\n"
	raw.WriteString(headers)

	if email.Text != "" {
		part, _ := writer.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {"text/plain; charset=UTF-8"},
			"Content-Transfer-Encoding": {"quoted-printable"},
		})
		qp := quotedprintable.NewWriter(part)
		qp.Write([]byte(email.Text))
		qp.Close()
	}

	if email.HTML != "" {
		part, _ := writer.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {"text/html; charset=UTF-8"},
			"Content-Transfer-Encoding": {"quoted-printable"},
		})
		qp := quotedprintable.NewWriter(part)
		qp.Write([]byte(email.HTML))
		qp.Close()
	}

	writer.Close()

	return &raw, nil
}
