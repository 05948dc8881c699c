package email

import (
	"errors"
	"fmt"
	"html"

	"gopkg.in/gomail.v2"

	"github.com/orris-inc/deskhub/internal/shared/config"
)

var ErrEmailServiceNotConfigured = errors.New("email service not configured")

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

// SMTPConfigFrom maps the email section of the application config.
func SMTPConfigFrom(cfg *config.EmailConfig) SMTPConfig {
	return SMTPConfig{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		Username:    cfg.SMTPUser,
		Password:    cfg.SMTPPassword,
		FromAddress: cfg.FromAddress,
		FromName:    cfg.FromName,
	}
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPEmailService struct {
	config SMTPConfig
	sender sender
}

func NewSMTPEmailService(config SMTPConfig) *SMTPEmailService {
	return &SMTPEmailService{
		config: config,
		sender: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
	}
}

// SendLoginAlert tells the account owner that a new device signed in.
// when is already rendered in the recipient's timezone.
func (s *SMTPEmailService) SendLoginAlert(to, username, device, ipAddress, when string) error {
	if s == nil || s.config.Host == "" {
		return ErrEmailServiceNotConfigured
	}

	subject := "New sign-in to your Deskhub account"
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Hi %s,</h2>
			<p>Your account was just used to sign in on a new device.</p>
			<table>
				<tr><td>Device</td><td>%s</td></tr>
				<tr><td>IP address</td><td>%s</td></tr>
				<tr><td>Time</td><td>%s</td></tr>
			</table>
			<p>If this was you, no action is needed. Otherwise open Deskhub, go to
			Settings &rarr; Sessions and sign out the devices you don't recognize.</p>
		</body>
		</html>
	`, html.EscapeString(username), html.EscapeString(device), html.EscapeString(ipAddress), html.EscapeString(when))

	plainBody := fmt.Sprintf(`
Hi %s,

Your account was just used to sign in on a new device.

Device:     %s
IP address: %s
Time:       %s

If this was you, no action is needed. Otherwise open Deskhub, go to
Settings > Sessions and sign out the devices you don't recognize.
	`, username, device, ipAddress, when)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

func (s *SMTPEmailService) sendEmail(to, subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
