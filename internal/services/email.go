package services

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"

	"github.com/resend/resend-go/v2"

	"github.com/pagebound/pagebound/internal/config"
	"github.com/pagebound/pagebound/internal/logging"
)

// Email is one outbound message.
type Email struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// EmailProvider is the interface for sending emails.
type EmailProvider interface {
	Send(ctx context.Context, email *Email) error
}

// EmailService renders and sends Pagebound's transactional mail.
type EmailService struct {
	provider EmailProvider
	baseURL  string
}

// NewEmailService picks a provider from configuration: resend in
// production, smtp for Mailpit in local dev, console otherwise.
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	from := fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromAddress)

	var provider EmailProvider
	switch cfg.Provider {
	case "resend":
		provider = NewResendProvider(cfg.ResendAPIKey, from)
	case "smtp":
		provider = NewSMTPProvider(cfg.SMTPHost, cfg.SMTPPort, from, cfg.FromAddress)
	default:
		provider = NewConsoleProvider()
	}

	return &EmailService{
		provider: provider,
		baseURL:  cfg.BaseURL,
	}
}

// SendWelcomeEmail greets a freshly created profile.
func (s *EmailService) SendWelcomeEmail(ctx context.Context, email, username string) error {
	html := fmt.Sprintf(`<html>
  <body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h1 style="color: #6b46c1;">Welcome to Pagebound, %s!</h1>
    <p>We're thrilled to have you join our community of readers.</p>
    <h2>Getting Started:</h2>
    <ul>
      <li>&#128214; Add books to your library</li>
      <li>&#128101; Connect with friends</li>
      <li>&#128218; Create reading sessions to stay in sync</li>
      <li>&#128172; Discuss books without spoilers</li>
    </ul>
    <p>Choose your theme and start your reading journey at <a href="%s">%s</a>.</p>
    <p style="margin-top: 30px; color: #666;">
      Happy reading,<br>
      The Pagebound Team
    </p>
  </body>
</html>`, username, s.baseURL, s.baseURL)

	text := fmt.Sprintf(`Welcome to Pagebound, %s!

Getting Started:
- Add books to your library
- Connect with friends
- Create reading sessions to stay in sync
- Discuss books without spoilers

Happy reading!`, username)

	return s.provider.Send(ctx, &Email{
		To:      email,
		Subject: "Welcome to Pagebound! \U0001F4DA",
		HTML:    html,
		Text:    text,
	})
}

// ResendProvider sends emails using the Resend API.
type ResendProvider struct {
	client *resend.Client
	from   string
}

func NewResendProvider(apiKey, from string) *ResendProvider {
	return &ResendProvider{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (p *ResendProvider) Send(ctx context.Context, email *Email) error {
	params := &resend.SendEmailRequest{
		From:    p.from,
		To:      []string{email.To},
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
	}

	_, err := p.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("sending email via Resend: %w", err)
	}

	logging.Info("Email sent via Resend", map[string]interface{}{"to": email.To, "subject": email.Subject})
	return nil
}

// SMTPProvider sends emails via SMTP (for Mailpit in local dev).
type SMTPProvider struct {
	host        string
	port        int
	from        string
	fromAddress string
}

func NewSMTPProvider(host string, port int, from, fromAddress string) *SMTPProvider {
	return &SMTPProvider{host: host, port: port, from: from, fromAddress: fromAddress}
}

func (p *SMTPProvider) Send(ctx context.Context, email *Email) error {
	addr := fmt.Sprintf("%s:%d", p.host, p.port)

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("From: %s\r\n", p.from))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", email.To))
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", email.Subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(email.HTML)

	err := smtp.SendMail(addr, nil, p.fromAddress, []string{email.To}, buf.Bytes())
	if err != nil {
		return fmt.Errorf("sending email via SMTP: %w", err)
	}

	logging.Info("Email sent via SMTP", map[string]interface{}{"to": email.To, "subject": email.Subject})
	return nil
}

// ConsoleProvider prints emails to stdout for local development.
type ConsoleProvider struct{}

func NewConsoleProvider() *ConsoleProvider {
	return &ConsoleProvider{}
}

func (p *ConsoleProvider) Send(ctx context.Context, email *Email) error {
	logging.Info("=== EMAIL (Console Provider) ===", map[string]interface{}{"to": email.To, "subject": email.Subject})
	fmt.Printf("\n=== EMAIL ===\n")
	fmt.Printf("To: %s\n", email.To)
	fmt.Printf("Subject: %s\n", email.Subject)
	fmt.Printf("---\n")
	fmt.Printf("%s\n", email.Text)
	fmt.Printf("=============\n\n")
	return nil
}
