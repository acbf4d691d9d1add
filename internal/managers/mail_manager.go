// Package managers handles the sending of password reset mails using the
// Mailgun service and the Hermes package for email formatting.
package managers

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/matcornic/hermes/v2"
	log "github.com/sirupsen/logrus"
)

// MailMgr is an interface that outlines the contract for email management.
type MailMgr interface {
	SendPasswordResetMail(email, name, token string) error
}

// MailManager is a concrete implementation of the MailMgr interface.
// It uses the Mailgun service for sending emails and the Hermes package for formatting emails.
type MailManager struct {
	Hermes  *hermes.Hermes
	Mailgun *mailgun.MailgunImpl
}

var from = "Pet Adoption Center <team@mail.adoption-server.tech>"
var environment string

// SendPasswordResetMail sends a password reset email containing the
// single-use token. The token expires one hour after issuance.
func (mm *MailManager) SendPasswordResetMail(email, name, token string) error {
	if environment != "production" {
		log.Info("Skipping password reset mail in development mode")
		return nil
	}

	mailBody := hermes.Email{
		Body: hermes.Body{
			Name: name,
			Intros: []string{
				"You have received this email because a password reset request for your account was received.",
			},
			Outros: []string{
				"If you did not request a password reset, no further action is required on your part.",
			},
			Actions: []hermes.Action{
				{
					Instructions: "To reset your password, enter the following code within the next hour:",
					InviteCode:   token,
				},
			},
		},
	}

	emailBody, err := mm.Hermes.GenerateHTML(mailBody)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(2*time.Second))
	defer func() {
		if err := ctx.Err(); err != nil {
			log.Debug("Context error: ", err)
		}
		cancel()
	}()

	message := mm.Mailgun.NewMessage(from, "Reset your password", "", email)
	message.SetHtml(emailBody)
	_, _, err = mm.Mailgun.Send(ctx, message)
	if err != nil {
		log.Warning("Error sending password reset mail: " + err.Error())
		return err
	}
	log.Debug("Password reset mail sent to ", email)

	return nil
}

// NewMailManager initializes a new MailManager instance with configured Mailgun and Hermes settings.
// It also checks the runtime environment to determine if emails should be sent.
func NewMailManager() MailMgr {
	log.Info("Initializing mail manager")
	environment = os.Getenv("ENVIRONMENT")

	if environment != "production" {
		log.Println("Running in development mode, email will not be sent to users")
	}

	apiKey := os.Getenv("MAILGUN_API_KEY")
	mailgunInstance := mailgun.NewMailgun("mail.adoption-server.tech", apiKey)
	mailgunInstance.SetAPIBase(mailgun.APIBaseEU)

	mm := &MailManager{
		Hermes: &hermes.Hermes{
			Theme:         new(hermes.Default),
			TextDirection: hermes.TDLeftToRight,
			Product: hermes.Product{
				Name:        "Pet Adoption Center",
				Link:        "https://adoption-server.tech/",
				Copyright:   fmt.Sprintf("© %d Pet Adoption Center", time.Now().Year()),
				TroubleText: "If you’re having trouble with the button '{ACTION}', copy and paste the URL below into your web browser.",
			},
		},
		Mailgun: mailgunInstance,
	}
	log.Info("Initialized mail manager")
	return mm
}
