// Package email sends registration confirmation messages through Resend.
// Sending is best effort: the registration response never waits on it.
package email

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"

	"github.com/gestevent/registration/internal/config"
)

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<!doctype html><html><body>
<p>Hello {{.FullName}},</p>
<p>Your registration for <strong>{{.EventTitle}}</strong> is confirmed.</p>
<p>Your QR ticket is below, with a download link if you need it.</p>
<p><img src="{{.TicketURL}}" alt="QR Code" style="max-width:240px"/></p>
<p><a href="{{.TicketURL}}">Download the QR code</a></p>
<p>See you there,</p>
<p>The GESTEVENT team</p>
</body></html>`))

type confirmationData struct {
	FullName   string
	EventTitle string
	TicketURL  string
}

// Sender sends confirmation emails. A nil Resend client (no API key
// configured) disables sending; calls then log and return nil.
type Sender struct {
	client *resend.Client
	from   string
	logger zerolog.Logger
}

// NewSender constructs a Sender from email configuration.
func NewSender(cfg config.EmailConfig, logger zerolog.Logger) *Sender {
	s := &Sender{
		from:   cfg.From,
		logger: logger.With().Str("component", "email").Logger(),
	}
	if cfg.ResendAPIKey != "" {
		s.client = resend.NewClient(cfg.ResendAPIKey)
	}
	return s
}

// SendConfirmation emails the ticket to a freshly confirmed participant.
func (s *Sender) SendConfirmation(ctx context.Context, to, fullName, eventTitle, ticketURL string) error {
	if s.client == nil {
		s.logger.Info().Str("to", to).Msg("email disabled, skipping confirmation")
		return nil
	}

	var body strings.Builder
	data := confirmationData{FullName: fullName, EventTitle: eventTitle, TicketURL: ticketURL}
	if err := confirmationTmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("render confirmation: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: fmt.Sprintf("Registration confirmed – %s", eventTitle),
		Html:    body.String(),
	}
	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("resend API error: %w", err)
	}

	s.logger.Info().
		Str("email_id", sent.Id).
		Str("to", to).
		Msg("confirmation email sent")
	return nil
}
