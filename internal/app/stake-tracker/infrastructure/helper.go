package infrastructure

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

func NewHelper(config *Config) *Helper {
	return &Helper{config: *config}
}

type Helper struct {
	config Config
}

// SendMail delivers the message through Sendgrid.
// Without an api key or recipient the message is only logged.
func (h *Helper) SendMail(message string) error {
	if h.config.SendgridApiKey == "" || h.config.MailToAddress == "" {
		log.Warn().Msgf("Mail is not configured, message not sent: %s", message)
		return nil
	}

	from := mail.NewEmail("Stake Tracker", h.config.MailFromAddress)
	to := mail.NewEmail("", h.config.MailToAddress)
	email := mail.NewSingleEmail(from, "Stake Tracker Alert", to, message, "")

	response, err := sendgrid.NewSendClient(h.config.SendgridApiKey).Send(email)
	if err != nil {
		return err
	}

	if response.StatusCode >= 300 {
		return fmt.Errorf("error! Sendgrid request failed with StatusCode: %d, Body: %s", response.StatusCode, response.Body)
	}

	return nil
}
