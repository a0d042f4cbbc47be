package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/Hacnine/CarHiveBackend/internal/logger"
)

type emailService struct {
	apiKey   string
	from     string
	fromName string
}

func NewEmailService(apiKey, from, fromName string) EmailService {
	return &emailService{apiKey: apiKey, from: from, fromName: fromName}
}

func (s *emailService) send(ctx context.Context, email, subject, body string) error {
	logger.ExternalServiceCall("sendgrid", "send", "to", email, "subject", subject)

	message := mail.NewSingleEmail(
		mail.NewEmail(s.fromName, s.from),
		subject,
		mail.NewEmail("", email),
		body,
		"",
	)
	client := sendgrid.NewSendClient(s.apiKey)
	resp, err := client.Send(message)
	if err == nil && resp.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	logger.ExternalServiceResult("sendgrid", "send", err, "to", email)
	return err
}

func (s *emailService) SendHoldNotice(ctx context.Context, email, name, reference string, total float64, expiresAt time.Time) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nWe are holding your vehicle under booking %s for a total of $%.2f. Confirm before %s or the hold is released.\n\nThe CarHive Team",
		name, reference, total, expiresAt.Format(time.RFC1123),
	)
	return s.send(ctx, email, fmt.Sprintf("Your hold %s", reference), body)
}

func (s *emailService) SendBookingConfirmation(ctx context.Context, email, name, reference string, total float64) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nYour booking %s is confirmed. The total charged is $%.2f.\n\nSafe travels,\nThe CarHive Team",
		name, reference, total,
	)
	return s.send(ctx, email, fmt.Sprintf("Booking %s confirmed", reference), body)
}

func (s *emailService) SendPickupReminder(ctx context.Context, email, name, reference string, startAt time.Time) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nA reminder that your rental %s starts at %s. You can check in online ahead of time to pick up contactless.\n\nSafe travels,\nThe CarHive Team",
		name, reference, startAt.Format(time.RFC1123),
	)
	return s.send(ctx, email, fmt.Sprintf("Pickup reminder for %s", reference), body)
}

func (s *emailService) SendCancellationNotice(ctx context.Context, email, name, reference string, fee, refund float64) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nYour booking %s has been cancelled.",
		name, reference,
	)
	if fee > 0 {
		body += fmt.Sprintf(" A cancellation fee of $%.2f applied.", fee)
	}
	if refund > 0 {
		body += fmt.Sprintf(" A refund of $%.2f is on its way.", refund)
	}
	body += "\n\nThe CarHive Team"
	return s.send(ctx, email, fmt.Sprintf("Booking %s cancelled", reference), body)
}

func (s *emailService) SendReturnReceipt(ctx context.Context, email, name, reference string, finalTotal float64) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nThanks for returning your rental %s. Your final total after adjustments is $%.2f.\n\nSee you next time,\nThe CarHive Team",
		name, reference, finalTotal,
	)
	return s.send(ctx, email, fmt.Sprintf("Receipt for %s", reference), body)
}

func (s *emailService) SendSOSAlert(ctx context.Context, email, reference string, lat, lng float64, message string) error {
	body := fmt.Sprintf(
		"SOS received for booking %s at (%.5f, %.5f).",
		reference, lat, lng,
	)
	if message != "" {
		body += fmt.Sprintf("\n\nMessage: %s", message)
	}
	body += "\n\nOur operations team has been notified and will reach out shortly."
	return s.send(ctx, email, fmt.Sprintf("SOS acknowledged for %s", reference), body)
}
