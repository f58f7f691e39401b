package mailing

import (
	"fmt"
	"html"
	"strconv"

	"gopkg.in/gomail.v2"

	"github.com/minischetti/meal-planner-api/internal/utils"
)

type Mailer interface {
	SendMail(toEmail string, subject string, body string) error
}

type MailConfig struct {
	AppURL       string
	SMTPHost     string
	SMTPPort     string
	SMTPSender   string
	SMTPEmail    string
	SMTPPassword string
}

func LoadMailConfig(cfg utils.Config) MailConfig {
	return MailConfig{
		AppURL:       cfg.AppURL,
		SMTPHost:     cfg.SMTPHost,
		SMTPPort:     cfg.SMTPPort,
		SMTPSender:   cfg.SMTPSenderName,
		SMTPEmail:    cfg.SMTPAuthEmail,
		SMTPPassword: cfg.SMTPAuthPassword,
	}
}

// NewMailer returns an SMTP mailer, or one that drops every mail when no SMTP host is set.
func NewMailer(cfg MailConfig) Mailer {
	if cfg.SMTPHost == "" {
		return noopMailer{}
	}
	return &smtpMailer{cfg: cfg}
}

type smtpMailer struct {
	cfg MailConfig
}

func (m *smtpMailer) SendMail(toEmail string, subject string, body string) error {
	mailer := gomail.NewMessage()
	if m.cfg.SMTPSender != "" {
		mailer.SetAddressHeader("From", m.cfg.SMTPEmail, m.cfg.SMTPSender)
	} else {
		mailer.SetHeader("From", m.cfg.SMTPEmail)
	}
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)
	port, err := strconv.Atoi(m.cfg.SMTPPort)
	if err != nil {
		return err
	}
	dialer := gomail.NewDialer(
		m.cfg.SMTPHost,
		port,
		m.cfg.SMTPEmail,
		m.cfg.SMTPPassword,
	)

	return dialer.DialAndSend(mailer)
}

type noopMailer struct{}

func (noopMailer) SendMail(string, string, string) error { return nil }

// InviteBody renders the notification sent to an invite's recipient.
func InviteBody(appURL, groupName, senderName, recipientID, inviteID string) string {
	link := fmt.Sprintf("%s/people/%s/invites/%s", appURL, recipientID, inviteID)
	return fmt.Sprintf(
		`<p>%s invited you to join <b>%s</b>.</p><p><a href="%s">Answer the invite</a></p>`,
		html.EscapeString(senderName), html.EscapeString(groupName), html.EscapeString(link),
	)
}
