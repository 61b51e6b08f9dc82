package services

import (
	"fmt"
	"html"
	"os"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog/log"
)

type EmailService struct {
	client *resend.Client
}

var emailService *EmailService

// InitEmailService initializes the email service with Resend API
func InitEmailService() {
	apiKey := os.Getenv("RESEND_API_KEY")

	if apiKey == "" {
		log.Warn().Msg("RESEND_API_KEY not set; email service will not be available")
		return
	}

	emailService = &EmailService{
		client: resend.NewClient(apiKey),
	}

	log.Info().Msg("email service initialized with Resend")
}

// GetEmailService returns the singleton email service instance
func GetEmailService() *EmailService {
	return emailService
}

const emailLayout = `
<!DOCTYPE html>
<html>
<head>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
        }
        .header {
            text-align: center;
            padding: 20px 0;
            border-bottom: 2px solid #b08d57;
        }
        .header h1 {
            color: #b08d57;
            margin: 0;
        }
        .content {
            padding: 30px 0;
        }
        .verse {
            background-color: #faf6ef;
            border-left: 4px solid #b08d57;
            padding: 15px 20px;
            margin: 20px 0;
            font-style: italic;
        }
        .footer {
            text-align: center;
            padding: 20px 0;
            border-top: 1px solid #ddd;
            font-size: 12px;
            color: #666;
        }
    </style>
</head>
<body>
    <div class="header">
        <h1>Pray in Verses</h1>
    </div>

    <div class="content">
%s
    </div>

    <div class="footer">
        <p>This is an automated message, please do not reply directly to this email.</p>
    </div>
</body>
</html>
`

func (s *EmailService) send(toEmail, subject, htmlContent, textBody string) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("email service not initialized")
	}

	params := &resend.SendEmailRequest{
		From:    os.Getenv("RESEND_FROM_EMAIL"),
		To:      []string{toEmail},
		Subject: subject,
		Html:    fmt.Sprintf(emailLayout, htmlContent),
		Text:    textBody,
	}

	sent, err := s.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Info().Str("email_id", sent.Id).Str("subject", subject).Msg("email sent")
	return nil
}

// SendPublishedEmail tells an author their curated prayer is now live.
func (s *EmailService) SendPublishedEmail(toEmail, firstName, reference, theme string) error {
	htmlContent := fmt.Sprintf(`
        <h2>Your prayer is published</h2>

        <p>Hi %s,</p>

        <p>The curated prayer you wrote has been reviewed and is now part of the library:</p>

        <div class="verse">%s &middot; %s</div>

        <p>Thank you for helping others pray through Scripture.</p>

        <p>Blessings,<br>The Pray in Verses Team</p>`,
		html.EscapeString(firstName), html.EscapeString(reference), html.EscapeString(theme))

	textBody := fmt.Sprintf(`Your prayer is published

Hi %s,

The curated prayer you wrote has been reviewed and is now part of the library:

%s - %s

Thank you for helping others pray through Scripture.

Blessings,
The Pray in Verses Team
`, firstName, reference, theme)

	return s.send(toEmail, "Your curated prayer for "+reference+" is live", htmlContent, textBody)
}

// SendWelcomeEmail greets a newly registered user.
func (s *EmailService) SendWelcomeEmail(toEmail, firstName string) error {
	htmlContent := fmt.Sprintf(`
        <h2>Welcome, %s!</h2>

        <p>Thank you for joining Pray in Verses. Browse the library to find a prayer anchored in Scripture,
        and save the ones you want to return to.</p>

        <p>Blessings,<br>The Pray in Verses Team</p>`, html.EscapeString(firstName))

	textBody := fmt.Sprintf(`Welcome, %s!

Thank you for joining Pray in Verses. Browse the library to find a prayer anchored in Scripture, and save the ones you want to return to.

Blessings,
The Pray in Verses Team
`, firstName)

	return s.send(toEmail, "Welcome to Pray in Verses", htmlContent, textBody)
}
