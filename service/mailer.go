package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EmailRequest is one quote document to mail as an HTML attachment
type EmailRequest struct {
	To       string
	Subject  string
	BodyText string
	Filename string
	HTML     string
}

// EmailResult reports the delivery outcome
type EmailResult struct {
	OK        bool   `json:"ok"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Mailer is the outbound mail collaborator
type Mailer interface {
	SendQuoteHTML(ctx context.Context, req EmailRequest) (EmailResult, error)
}

// ErrMailerDisabled is returned when no SMTP host is configured
var ErrMailerDisabled = errors.New("email is not configured")

// SMTPConfig holds outbound mail settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer sends quote documents through an SMTP relay
type SMTPMailer struct {
	cfg    SMTPConfig
	send   sendFunc
	now    func() time.Time
	logger *zap.Logger
}

// NewSMTPMailer creates a mailer for the relay
func NewSMTPMailer(cfg SMTPConfig, logger *zap.Logger) *SMTPMailer {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SMTPMailer{cfg: cfg, send: smtp.SendMail, now: time.Now, logger: logger}
}

var _ Mailer = (*SMTPMailer)(nil)

// SendQuoteHTML sends a plain text body with the document attached
func (m *SMTPMailer) SendQuoteHTML(ctx context.Context, req EmailRequest) (EmailResult, error) {
	if m.cfg.Host == "" {
		return EmailResult{Error: ErrMailerDisabled.Error()}, ErrMailerDisabled
	}
	if err := ctx.Err(); err != nil {
		return EmailResult{Error: err.Error()}, err
	}
	if strings.ContainsAny(req.To, "\r\n") || strings.ContainsAny(req.Subject, "\r\n") {
		err := errors.New("header fields must not contain line breaks")
		return EmailResult{Error: err.Error()}, err
	}

	msgID := fmt.Sprintf("<%s@%s>", uuid.NewString(), m.cfg.Host)
	msg, err := m.buildMessage(req, msgID)
	if err != nil {
		return EmailResult{Error: err.Error()}, err
	}

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	if err := m.send(addr, auth, m.cfg.From, []string{req.To}, msg); err != nil {
		m.logger.Error("SendQuoteHTML: delivery failed", zap.String("to", req.To), zap.Error(err))
		err = fmt.Errorf("failed to send email: %w", err)
		return EmailResult{Error: err.Error()}, err
	}

	m.logger.Info("SendQuoteHTML: sent", zap.String("to", req.To), zap.String("filename", req.Filename))
	return EmailResult{OK: true, MessageID: msgID}, nil
}

func (m *SMTPMailer) buildMessage(req EmailRequest, msgID string) ([]byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	headers := []string{
		"From: " + m.cfg.From,
		"To: " + req.To,
		"Subject: " + mime.QEncoding.Encode("utf-8", req.Subject),
		"Date: " + m.now().Format(time.RFC1123Z),
		"Message-ID: " + msgID,
		"MIME-Version: 1.0",
		"Content-Type: multipart/mixed; boundary=" + w.Boundary(),
	}
	buf.WriteString(strings.Join(headers, "\r\n") + "\r\n\r\n")

	text, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"text/plain; charset=utf-8"},
		"Content-Transfer-Encoding": {"base64"},
	})
	if err != nil {
		return nil, err
	}
	if err := writeBase64(text, []byte(req.BodyText)); err != nil {
		return nil, err
	}

	filename := req.Filename
	if filename == "" {
		filename = "Quote.html"
	}
	attachment, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {mime.FormatMediaType("text/html", map[string]string{"charset": "utf-8", "name": filename})},
		"Content-Transfer-Encoding": {"base64"},
		"Content-Disposition":       {mime.FormatMediaType("attachment", map[string]string{"filename": filename})},
	})
	if err != nil {
		return nil, err
	}
	if err := writeBase64(attachment, []byte(req.HTML)); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeBase64 writes RFC 2045 base64 in 76 character lines
func writeBase64(w io.Writer, data []byte) error {
	enc := base64.StdEncoding.EncodeToString(data)
	for len(enc) > 76 {
		if _, err := w.Write([]byte(enc[:76] + "\r\n")); err != nil {
			return err
		}
		enc = enc[76:]
	}
	_, err := w.Write([]byte(enc + "\r\n"))
	return err
}
