package notify

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
)

// SMTPConfig holds the mail transport settings.
type SMTPConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	From string `mapstructure:"from"`
	// Optional plain auth.
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// Enabled reports whether the config describes a usable transport.
func (c SMTPConfig) Enabled() bool { return c.Host != "" && c.From != "" }

func (c SMTPConfig) addr() string {
	port := c.Port
	if port <= 0 {
		port = 25
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(port))
}

// SMTPNotifier delivers notifications over SMTP.
type SMTPNotifier struct {
	Config SMTPConfig
	// sendMail is swappable for tests; defaults to smtp.SendMail.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPNotifier builds a notifier for the given transport config.
func NewSMTPNotifier(c SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{Config: c, sendMail: smtp.SendMail}
}

func (s *SMTPNotifier) Send(_ context.Context, n Notification) error {
	if n.Recipient == "" {
		return fmt.Errorf("notification has no recipient")
	}
	var auth smtp.Auth
	if s.Config.Username != "" {
		auth = smtp.PlainAuth("", s.Config.Username, s.Config.Password, s.Config.Host)
	}
	msg := buildMessage(s.Config.From, n)
	send := s.sendMail
	if send == nil {
		send = smtp.SendMail
	}
	if err := send(s.Config.addr(), auth, s.Config.From, []string{n.Recipient}, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", n.Recipient, err)
	}
	return nil
}

func buildMessage(from string, n Notification) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", n.Recipient)
	fmt.Fprintf(&b, "Subject: %s\r\n", n.Subject)
	b.WriteString("\r\n")
	b.WriteString(n.Body)
	b.WriteString("\r\n")
	return []byte(b.String())
}
