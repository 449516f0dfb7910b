// utils/email.go
package utils

import (
	"fmt"
	"os"

	"github.com/keighl/postmark"
	"github.com/rs/zerolog/log"

	"github.com/harshptk02/storefront-api/models"
)

// EmailService handles sending emails using Postmark
type EmailService struct {
	client *postmark.Client
}

// NewEmailService initializes and returns a new EmailService instance.
// Returns nil when POSTMARK_API_TOKEN is not set; a nil service drops all
// outgoing mail instead of failing requests.
func NewEmailService() *EmailService {
	apiToken := os.Getenv("POSTMARK_API_TOKEN")
	if apiToken == "" {
		log.Warn().Msg("POSTMARK_API_TOKEN not set, outgoing email disabled")
		return nil
	}
	return &EmailService{
		client: postmark.NewClient(apiToken, ""),
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	if es == nil {
		return nil
	}
	_, err := es.client.SendEmail(postmark.Email{
		From:     os.Getenv("EMAIL_SENDER"),
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

// SendOrderConfirmationEmail sends an order confirmation email to the buyer
func (es *EmailService) SendOrderConfirmationEmail(order *models.PopulatedOrder) error {
	subject := "Order Confirmation"
	htmlContent := fmt.Sprintf(
		"<strong>Dear %s,</strong><br><br>Thank you for your purchase! Your order (ID: %s) has been placed successfully.<br><br>Total Amount: <strong>$%.2f</strong><br>Payment Method: <strong>%s</strong><br><br>Thank you for shopping with us!",
		order.User.Name,
		order.ID.Hex(),
		order.Total,
		order.PaymentMethod,
	)
	return es.SendEmail(order.User.Email, subject, htmlContent)
}

// SendOrderStatusEmail notifies the buyer that an order's status changed
func (es *EmailService) SendOrderStatusEmail(order *models.PopulatedOrder) error {
	subject := "Order Status Updated"
	htmlContent := fmt.Sprintf(
		"<strong>Dear %s,</strong><br><br>Your order (ID: %s) status has been updated to '<strong>%s</strong>'.<br><br>Thank you for shopping with us!",
		order.User.Name,
		order.ID.Hex(),
		order.Status,
	)
	return es.SendEmail(order.User.Email, subject, htmlContent)
}
