package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/resend/resend-go/v3"

	"student-housing/internal/config"
	"student-housing/internal/pkg/i18n"
)

//go:embed templates/*.html
var templateFS embed.FS

type Service interface {
	SendWelcomeEmail(ctx context.Context, toEmail, fullName string) error
	SendInterestEmail(ctx context.Context, toEmail, recipientName, senderName, listingTitle, message string) error
}

type service struct {
	client *resend.Client
	config *config.Config
	logger *slog.Logger
}

func NewService(cfg *config.Config, logger *slog.Logger) Service {
	return &service{
		client: resend.NewClient(cfg.ResendAPIKey),
		config: cfg,
		logger: logger.With("service", "email"),
	}
}

func (s *service) sendEmail(ctx context.Context, toEmail, subject, templateName string, data interface{}) error {
	tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+templateName)
	if err != nil {
		return fmt.Errorf("failed to parse email templates: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	if s.config.ResendAPIKey == "" {
		s.logger.Debug("resend api key not set, skipping email", "to", toEmail, "subject", subject)
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("Student Housing <%s>", s.config.FromEmail),
		To:      []string{toEmail},
		Html:    body.String(),
		Subject: subject,
	}

	_, err = s.client.Emails.SendWithContext(ctx, params)
	return err
}

func (s *service) SendWelcomeEmail(ctx context.Context, toEmail, fullName string) error {
	subject := i18n.Translate(i18n.DefaultLocale, "EMAIL_WELCOME_SUBJECT")
	data := struct {
		Title string
		Name  string
		Link  string
	}{
		Title: subject,
		Name:  fullName,
		Link:  fmt.Sprintf("https://%s/listings", s.config.Domain),
	}
	return s.sendEmail(ctx, toEmail, subject, "welcome.html", data)
}

func (s *service) SendInterestEmail(ctx context.Context, toEmail, recipientName, senderName, listingTitle, message string) error {
	if listingTitle == "" {
		listingTitle = i18n.Translate(i18n.DefaultLocale, "LISTING_FALLBACK_TITLE")
	}
	subject := i18n.Format(i18n.DefaultLocale, "EMAIL_INTEREST_SUBJECT", listingTitle)
	data := struct {
		Title        string
		Name         string
		SenderName   string
		ListingTitle string
		Message      string
		Link         string
	}{
		Title:        subject,
		Name:         recipientName,
		SenderName:   senderName,
		ListingTitle: listingTitle,
		Message:      message,
		Link:         fmt.Sprintf("https://%s/notifications", s.config.Domain),
	}
	return s.sendEmail(ctx, toEmail, subject, "interest.html", data)
}
