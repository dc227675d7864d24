package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

// DialFunc opens the connection to an smtp server.
type DialFunc func(ctx context.Context, addr string) (net.Conn, error)

// Sender delivers email over implicit tls smtp.
type Sender struct {
	service string
	account Account
	dial    DialFunc
	now     func() time.Time
}

// NewSender for the account of service.
func NewSender(service string, acc Account) *Sender {
	return &Sender{
		service: service,
		account: acc,
		dial: func(ctx context.Context, addr string) (net.Conn, error) {
			d := tls.Dialer{
				NetDialer: &net.Dialer{Timeout: 30 * time.Second},
				Config:    &tls.Config{ServerName: acc.SMTPHost},
			}
			return d.DialContext(ctx, "tcp", addr)
		},
		now: time.Now,
	}
}

// WithDial replaces how the connection to the smtp server is opened.
func (s *Sender) WithDial(d DialFunc) *Sender {
	s.dial = d
	return s
}

// Send e and return a confirmation naming the service and recipients.
func (s *Sender) Send(ctx context.Context, e Email) (string, error) {
	msg, err := Compose(s.account.Username, e, s.now())
	if err != nil {
		return "", fmt.Errorf("failed to compose email: %w", err)
	}
	addr := net.JoinHostPort(s.account.SMTPHost, strconv.Itoa(s.account.SMTPPort))
	conn, err := s.dial(ctx, addr)
	if err != nil {
		return "", fmt.Errorf("failed to connect to '%v': %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}
	c, err := smtp.NewClient(conn, s.account.SMTPHost)
	if err != nil {
		conn.Close()
		return "", fmt.Errorf("failed to create smtp client: %w", err)
	}
	defer c.Close()

	auth := smtp.PlainAuth("", s.account.Username, s.account.Password, s.account.SMTPHost)
	if err := c.Auth(auth); err != nil {
		return "", fmt.Errorf("failed to authenticate: %w", err)
	}
	if err := c.Mail(s.account.Username); err != nil {
		return "", fmt.Errorf("smtp MAIL failed: %w", err)
	}
	for _, rcpt := range e.Recipients() {
		if err := c.Rcpt(rcpt); err != nil {
			return "", fmt.Errorf("smtp RCPT '%v' failed: %w", rcpt, err)
		}
	}
	w, err := c.Data()
	if err != nil {
		return "", fmt.Errorf("smtp DATA failed: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return "", fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finish message: %w", err)
	}
	if err := c.Quit(); err != nil {
		return "", fmt.Errorf("smtp QUIT failed: %w", err)
	}

	confirmation := fmt.Sprintf("email sent via %v to %v", s.service, strings.Join(e.To, ", "))
	if len(e.Cc) > 0 {
		confirmation += fmt.Sprintf(", cc %v", strings.Join(e.Cc, ", "))
	}
	return confirmation, nil
}
