package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"driveshare-backend/internal/logger"
)

type sendGridEmailService struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

// NewEmailService builds the SendGrid-backed email sender. With an empty API
// key every send is a logged no-op, which keeps local development working
// without credentials.
func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	var client *sendgrid.Client
	if apiKey != "" {
		client = sendgrid.NewSendClient(apiKey)
	}
	return &sendGridEmailService{
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *sendGridEmailService) send(ctx context.Context, toEmail, toName, subject, plainText, htmlContent string) error {
	if s.client == nil {
		logger.Debug("email delivery disabled, skipping", "to", toEmail, "subject", subject)
		return nil
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *sendGridEmailService) SendRentalRequested(ctx context.Context, toEmail, toName, renterName, vehicleTitle string) error {
	subject := fmt.Sprintf("New rental request for %s", vehicleTitle)
	plainText := fmt.Sprintf("%s requested to rent your %s. Review the request in the app.", renterName, vehicleTitle)
	htmlContent := fmt.Sprintf("<p><strong>%s</strong> requested to rent your <strong>%s</strong>.</p><p>Review the request in the app.</p>", renterName, vehicleTitle)
	return s.send(ctx, toEmail, toName, subject, plainText, htmlContent)
}

func (s *sendGridEmailService) SendRentalDecision(ctx context.Context, toEmail, toName, vehicleTitle string, approved bool) error {
	if approved {
		subject := fmt.Sprintf("Rental approved: %s", vehicleTitle)
		plainText := fmt.Sprintf("The owner approved your rental of %s. The contract will be prepared next.", vehicleTitle)
		htmlContent := fmt.Sprintf("<p>The owner approved your rental of <strong>%s</strong>.</p><p>The contract will be prepared next.</p>", vehicleTitle)
		return s.send(ctx, toEmail, toName, subject, plainText, htmlContent)
	}
	subject := fmt.Sprintf("Rental declined: %s", vehicleTitle)
	plainText := fmt.Sprintf("The owner declined your rental of %s. Your deposit will be refunded.", vehicleTitle)
	htmlContent := fmt.Sprintf("<p>The owner declined your rental of <strong>%s</strong>.</p><p>Your deposit will be refunded.</p>", vehicleTitle)
	return s.send(ctx, toEmail, toName, subject, plainText, htmlContent)
}

func (s *sendGridEmailService) SendRentalCancelled(ctx context.Context, toEmail, toName, vehicleTitle, reason string) error {
	subject := fmt.Sprintf("Rental cancelled: %s", vehicleTitle)
	plainText := fmt.Sprintf("The rental of %s was cancelled. %s", vehicleTitle, reason)
	htmlContent := fmt.Sprintf("<p>The rental of <strong>%s</strong> was cancelled.</p><p>%s</p>", vehicleTitle, reason)
	return s.send(ctx, toEmail, toName, subject, plainText, htmlContent)
}

func (s *sendGridEmailService) SendContractCreated(ctx context.Context, toEmail, toName, vehicleTitle string) error {
	subject := fmt.Sprintf("Contract ready to sign: %s", vehicleTitle)
	plainText := fmt.Sprintf("The rental contract for %s is ready. Both parties must sign before the rental can proceed.", vehicleTitle)
	htmlContent := fmt.Sprintf("<p>The rental contract for <strong>%s</strong> is ready.</p><p>Both parties must sign before the rental can proceed.</p>", vehicleTitle)
	return s.send(ctx, toEmail, toName, subject, plainText, htmlContent)
}

func (s *sendGridEmailService) SendContractResolved(ctx context.Context, toEmail, toName, vehicleTitle string, signed bool) error {
	if signed {
		subject := fmt.Sprintf("Contract signed: %s", vehicleTitle)
		plainText := fmt.Sprintf("Both parties signed the contract for %s. The remaining payment is due next.", vehicleTitle)
		htmlContent := fmt.Sprintf("<p>Both parties signed the contract for <strong>%s</strong>.</p><p>The remaining payment is due next.</p>", vehicleTitle)
		return s.send(ctx, toEmail, toName, subject, plainText, htmlContent)
	}
	subject := fmt.Sprintf("Contract rejected: %s", vehicleTitle)
	plainText := fmt.Sprintf("The contract for %s was rejected and the rental was cancelled. The deposit will be refunded.", vehicleTitle)
	htmlContent := fmt.Sprintf("<p>The contract for <strong>%s</strong> was rejected and the rental was cancelled.</p><p>The deposit will be refunded.</p>", vehicleTitle)
	return s.send(ctx, toEmail, toName, subject, plainText, htmlContent)
}
