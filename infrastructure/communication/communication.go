package communication

import (
	"fmt"
	"os"

	"github.com/slack-go/slack"
)

// Slack posts operational notices to the workspace channels configured via
// SLACK_BOT_TOKEN, SLACK_INFO_CHANNEL and SLACK_ERROR_CHANNEL.
type Slack struct {
	client       *slack.Client
	infoChannel  string
	errorChannel string
}

func ConnectSlack() *Slack {
	return NewSlack(
		os.Getenv("SLACK_BOT_TOKEN"),
		os.Getenv("SLACK_INFO_CHANNEL"),
		os.Getenv("SLACK_ERROR_CHANNEL"),
	)
}

func NewSlack(token string, infoChannel string, errorChannel string) *Slack {
	return &Slack{
		client:       slack.New(token),
		infoChannel:  infoChannel,
		errorChannel: errorChannel,
	}
}

func (s *Slack) Info(message string) error {
	return s.post(s.infoChannel, message)
}

func (s *Slack) Error(message string) error {
	return s.post(s.errorChannel, message)
}

func (s *Slack) post(channel string, message string) error {
	_, _, err := s.client.PostMessage(
		channel,
		slack.MsgOptionText(message, false),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		return fmt.Errorf("failed to post message to Slack: %w", err)
	}
	return nil
}
