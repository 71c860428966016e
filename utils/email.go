package utils

import (
	"fmt"

	"candyshop/models"

	"github.com/keighl/postmark"
	"github.com/sirupsen/logrus"
)

// EmailService sends transactional mail through Postmark. A nil service is
// valid and means email is disabled (no API token configured).
type EmailService struct {
	client *postmark.Client
	sender string
	log    *logrus.Logger
}

// NewEmailService returns an EmailService, or nil when no token is set.
func NewEmailService(apiToken, sender string, log *logrus.Logger) *EmailService {
	if apiToken == "" {
		return nil
	}
	return &EmailService{
		client: postmark.NewClient(apiToken, ""),
		sender: sender,
		log:    log,
	}
}

// SendEmail sends a basic email to the specified recipient.
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	_, err := es.client.SendEmail(postmark.Email{
		From:     es.sender,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendOrderConfirmation sends an order confirmation to the buyer. Errors are
// logged, not surfaced; mail is best-effort and never fails an order.
func (es *EmailService) SendOrderConfirmation(toEmail string, order models.Order) {
	subject := "Order Confirmation"
	htmlContent := fmt.Sprintf(
		"<strong>Thank you for your purchase!</strong><br><br>Your order (ID: %s) has been placed and is now <strong>%s</strong>.<br>Total: <strong>%.2f</strong><br><br>Thank you for shopping with us!",
		order.ID.Hex(),
		order.Status,
		order.Total,
	)
	if err := es.SendEmail(toEmail, subject, htmlContent); err != nil {
		es.log.WithError(err).WithField("email", toEmail).Warn("order confirmation email failed")
	}
}
