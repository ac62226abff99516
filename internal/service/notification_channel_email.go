package service

import (
	"bufio"
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"html"
	"net"
	"net/textproto"
	"strconv"
	"time"

	"github.com/preslavrachev/gomjml/mjml"
	"github.com/wneessen/go-mail"

	"github.com/localpulse/localpulse/internal/domain"
	"github.com/localpulse/localpulse/pkg/logger"
)

// EmailChannelConfig is the SMTP relay and sender identity for alert emails.
type EmailChannelConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	UseTLS   bool

	FromEmail string
	FromName  string
}

// EmailChannel delivers low-rating alerts over SMTP. The MIME message is
// composed with go-mail and the HTML body rendered from an MJML template.
type EmailChannel struct {
	config EmailChannelConfig
	logger logger.Logger

	dialTimeout time.Duration
}

// NewEmailChannel creates the SMTP email channel.
func NewEmailChannel(config EmailChannelConfig, log logger.Logger) *EmailChannel {
	return &EmailChannel{
		config:      config,
		logger:      log,
		dialTimeout: 30 * time.Second,
	}
}

func (c *EmailChannel) Name() string {
	return domain.NotificationChannelEmail
}

// Send emails the profile's alert address about a low-rated review.
func (c *EmailChannel) Send(ctx context.Context, profile *domain.BusinessProfile, review *domain.Review) error {
	to := profile.Notifications.AlertEmail
	if to == "" {
		return fmt.Errorf("profile has no alert email configured")
	}

	htmlBody, err := renderLowRatingEmail(profile, review)
	if err != nil {
		return fmt.Errorf("failed to render alert email: %w", err)
	}

	msg := mail.NewMsg(mail.WithNoDefaultUserAgent())
	if err := msg.FromFormat(c.config.FromName, c.config.FromEmail); err != nil {
		return fmt.Errorf("invalid sender: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient: %w", err)
	}
	msg.Subject(fmt.Sprintf("New %d-star review for %s", review.Rating, profile.Name))
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	if err := c.sendRaw(c.config.FromEmail, []string{to}, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to send alert email: %w", err)
	}
	return nil
}

// renderLowRatingEmail renders the alert body from MJML.
func renderLowRatingEmail(profile *domain.BusinessProfile, review *domain.Review) (string, error) {
	content := review.Content
	if len(content) > 500 {
		content = content[:500] + "…"
	}

	template := fmt.Sprintf(`<mjml>
  <mj-body background-color="#f4f4f4">
    <mj-section background-color="#ffffff" padding="20px">
      <mj-column>
        <mj-text font-size="18px" font-weight="bold">%s received a %d-star review</mj-text>
        <mj-text font-size="14px" color="#555555">%s on %s</mj-text>
        <mj-divider border-color="#eeeeee" />
        <mj-text font-size="14px">%s</mj-text>
        <mj-text font-size="12px" color="#999999">Reviewed %s</mj-text>
      </mj-column>
    </mj-section>
  </mj-body>
</mjml>`,
		html.EscapeString(profile.Name),
		review.Rating,
		html.EscapeString(review.AuthorName),
		html.EscapeString(review.Provider),
		html.EscapeString(content),
		review.ReviewedAt.Format("Jan 2, 2006"),
	)

	return mjml.Render(template)
}

// smtpConn wraps a connection with line-based SMTP command helpers.
type smtpConn struct {
	conn   net.Conn
	reader *bufio.Reader
}

func newSMTPConn(conn net.Conn) *smtpConn {
	return &smtpConn{conn: conn, reader: bufio.NewReader(conn)}
}

func (c *smtpConn) readResponse() (int, error) {
	// Multi-line responses use a dash after the code on all but the last line.
	for {
		line, err := c.reader.ReadString('\n')
		if err != nil {
			return 0, err
		}
		if len(line) < 4 {
			return 0, fmt.Errorf("short response: %s", line)
		}

		code := 0
		if _, err := fmt.Sscanf(line[:3], "%d", &code); err != nil {
			return 0, fmt.Errorf("invalid response code: %s", line)
		}
		if line[3] == ' ' {
			return code, nil
		}
	}
}

func (c *smtpConn) cmd(format string, args ...interface{}) (int, error) {
	if _, err := fmt.Fprintf(c.conn, format+"\r\n", args...); err != nil {
		return 0, err
	}
	return c.readResponse()
}

// sendRaw speaks SMTP directly so that no body extensions are announced in
// MAIL FROM, which strict relays reject.
func (c *EmailChannel) sendRaw(from string, to []string, msg []byte) error {
	addr := net.JoinHostPort(c.config.Host, strconv.Itoa(c.config.Port))
	dialer := &net.Dialer{Timeout: c.dialTimeout}
	conn, err := dialer.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	smtp := newSMTPConn(conn)
	defer smtp.conn.Close()

	code, err := smtp.readResponse()
	if err != nil {
		return fmt.Errorf("failed to read greeting: %w", err)
	}
	if code != 220 {
		return fmt.Errorf("unexpected greeting code: %d", code)
	}

	if code, err = smtp.cmd("EHLO localhost"); err != nil || code != 250 {
		return fmt.Errorf("EHLO rejected (code %d): %v", code, err)
	}

	if c.config.UseTLS {
		if code, err = smtp.cmd("STARTTLS"); err != nil || code != 220 {
			return fmt.Errorf("STARTTLS rejected (code %d): %v", code, err)
		}
		tlsConn := tls.Client(conn, &tls.Config{
			ServerName: c.config.Host,
			MinVersion: tls.VersionTLS12,
		})
		if err := tlsConn.Handshake(); err != nil {
			return fmt.Errorf("TLS handshake failed: %w", err)
		}
		smtp = newSMTPConn(tlsConn)
		if code, err = smtp.cmd("EHLO localhost"); err != nil || code != 250 {
			return fmt.Errorf("EHLO after TLS rejected (code %d): %v", code, err)
		}
	}

	if c.config.Username != "" && c.config.Password != "" {
		auth := base64.StdEncoding.EncodeToString(
			[]byte(fmt.Sprintf("\x00%s\x00%s", c.config.Username, c.config.Password)))
		if code, err = smtp.cmd("AUTH PLAIN %s", auth); err != nil || code != 235 {
			return fmt.Errorf("authentication failed (code %d): %v", code, err)
		}
	}

	if code, err = smtp.cmd("MAIL FROM:<%s>", from); err != nil || code != 250 {
		return fmt.Errorf("MAIL FROM rejected (code %d): %v", code, err)
	}
	for _, recipient := range to {
		if code, err = smtp.cmd("RCPT TO:<%s>", recipient); err != nil || (code != 250 && code != 251) {
			return fmt.Errorf("RCPT TO rejected for %s (code %d): %v", recipient, code, err)
		}
	}

	if code, err = smtp.cmd("DATA"); err != nil || code != 354 {
		return fmt.Errorf("DATA rejected (code %d): %v", code, err)
	}

	// DotWriter handles dot-stuffing and the terminating CRLF.CRLF.
	tw := textproto.NewWriter(bufio.NewWriter(smtp.conn))
	dw := tw.DotWriter()
	if _, err := dw.Write(msg); err != nil {
		dw.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := dw.Close(); err != nil {
		return fmt.Errorf("failed to close message: %w", err)
	}

	if code, err = smtp.readResponse(); err != nil || code != 250 {
		return fmt.Errorf("message rejected (code %d): %v", code, err)
	}

	smtp.cmd("QUIT")
	return nil
}
