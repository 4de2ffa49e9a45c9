package mailer

import (
	"fmt"
	"os"
	"strings"

	"go-incentive/internal/events"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

//go:generate mockgen -source=mailer.go -destination=mock/mailer_mock.go -package=mock
type Mailer interface {
	SendRedemptionRequested(event events.RedemptionEvent) error
	SendRedemptionRedeemed(event events.RedemptionEvent) error
	SendClaimSummary(to string, subject, body string) error
}

type resendMailer struct {
	client *resend.Client
	from   string
	logger *zap.Logger
}

// NewFromEnv builds a mailer from RESEND_API_KEY and MAIL_FROM. A missing
// key yields a disabled mailer that logs instead of sending, which keeps
// local development working without credentials.
func NewFromEnv() Mailer {
	apiKey := os.Getenv("RESEND_API_KEY")
	from := os.Getenv("MAIL_FROM")
	if from == "" {
		from = "incentives@localhost"
	}
	if apiKey == "" {
		return &noopMailer{logger: zap.L().Named("mailer.noop")}
	}
	return &resendMailer{
		client: resend.NewClient(apiKey),
		from:   from,
		logger: zap.L().Named("mailer.resend"),
	}
}

func (m *resendMailer) SendRedemptionRequested(event events.RedemptionEvent) error {
	subject := fmt.Sprintf("Redemption request for %d credits", event.Amount)
	body := strings.Join([]string{
		fmt.Sprintf("User %s requested to redeem %d credits.", event.UserID, event.Amount),
		fmt.Sprintf("Request ID: %s", event.RequestID),
		fmt.Sprintf("Requested at: %s", event.OccurredAt.Format("2006-01-02 15:04 MST")),
		"",
		"Review it in the admin panel.",
	}, "\n")
	return m.send(event.AdminEmail, subject, body)
}

func (m *resendMailer) SendRedemptionRedeemed(event events.RedemptionEvent) error {
	if event.AdminEmail == "" {
		return nil
	}
	subject := fmt.Sprintf("Redemption of %d credits completed", event.Amount)
	body := strings.Join([]string{
		fmt.Sprintf("User %s redeemed %d credits.", event.UserID, event.Amount),
		fmt.Sprintf("Request ID: %s", event.RequestID),
		fmt.Sprintf("Redeemed at: %s", event.OccurredAt.Format("2006-01-02 15:04 MST")),
	}, "\n")
	return m.send(event.AdminEmail, subject, body)
}

func (m *resendMailer) SendClaimSummary(to, subject, body string) error {
	return m.send(to, subject, body)
}

func (m *resendMailer) send(to, subject, text string) error {
	if to == "" {
		return fmt.Errorf("mailer: empty recipient")
	}
	_, err := m.client.Emails.Send(&resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Text:    text,
	})
	if err != nil {
		m.logger.Error("email send failed",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return fmt.Errorf("mailer: send to %s: %w", to, err)
	}
	m.logger.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

type noopMailer struct {
	logger *zap.Logger
}

func (m *noopMailer) SendRedemptionRequested(event events.RedemptionEvent) error {
	m.logger.Info("mail disabled, skipping redemption requested notification",
		zap.String("request_id", event.RequestID))
	return nil
}

func (m *noopMailer) SendRedemptionRedeemed(event events.RedemptionEvent) error {
	m.logger.Info("mail disabled, skipping redemption redeemed notification",
		zap.String("request_id", event.RequestID))
	return nil
}

func (m *noopMailer) SendClaimSummary(to, subject, _ string) error {
	m.logger.Info("mail disabled, skipping claim summary",
		zap.String("to", to), zap.String("subject", subject))
	return nil
}
