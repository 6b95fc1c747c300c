package email

import (
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

var ErrIncompleteConfig = errors.New("SMTP configuration is incomplete")

// SMTPConfig holds the relay settings.
type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	SenderEmail string
	SenderName  string
}

func (c SMTPConfig) complete() bool {
	return c.Host != "" && c.Port > 0 && c.SenderEmail != ""
}

// Sender sends transactional email through an SMTP relay.
type Sender struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
	logger *logger.Logger
}

func NewSMTPSender(cfg SMTPConfig, log *logger.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		logger: log.Named("SMTPSender"),
	}
}

// SendEmail sends a multipart message with a plain text and an HTML body.
func (s *Sender) SendEmail(to []string, subject, textBody, htmlBody string) error {
	if !s.cfg.complete() {
		s.logger.Error("SMTP configuration is incomplete. Email not sent.",
			zap.String("host", s.cfg.Host),
			zap.Int("port", s.cfg.Port),
			zap.String("sender", s.cfg.SenderEmail))
		return ErrIncompleteConfig
	}
	if len(to) == 0 {
		return errors.New("no recipients")
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.SenderEmail, s.cfg.SenderName)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", textBody)
	if htmlBody != "" {
		m.AddAlternative("text/html", htmlBody)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error("Failed to send email", zap.Error(err), zap.Strings("to", to), zap.String("subject", subject))
		return fmt.Errorf("failed to send email: %w", err)
	}
	s.logger.Info("Email sent", zap.Strings("to", to), zap.String("subject", subject))
	return nil
}

var verificationHTML = template.Must(template.New("otp").Parse(`<p>Hello {{.Name}},</p>
<p>Your verification code is: <b>{{.Code}}</b></p>
<p>This code will expire in {{.Minutes}} minutes.</p>
<p>If you did not request this, please ignore this email.</p>`))

// SendVerificationCode emails a one-time code to the user.
func (s *Sender) SendVerificationCode(toEmail, toName, code string, ttl time.Duration) error {
	minutes := int(ttl.Minutes())
	if minutes < 1 {
		minutes = 1
	}
	if toName == "" {
		toName = toEmail
	}

	text := fmt.Sprintf("Hello %s,\n\nYour verification code is: %s\nThis code will expire in %d minutes.\nIf you did not request this, please ignore this email.\n", toName, code, minutes)

	var html strings.Builder
	if err := verificationHTML.Execute(&html, map[string]any{"Name": toName, "Code": code, "Minutes": minutes}); err != nil {
		return fmt.Errorf("render verification email: %w", err)
	}
	return s.SendEmail([]string{toEmail}, "Your verification code", text, html.String())
}
