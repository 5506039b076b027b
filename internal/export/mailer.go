package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// AttachmentField is the multipart field name carrying the PDF.
const AttachmentField = "pdf"

// DefaultMailTimeout bounds a single delivery request.
const DefaultMailTimeout = 30 * time.Second

// Attachment is a file sent alongside a message.
type Attachment struct {
	FieldName string
	FileName  string
	Data      []byte
}

// Message is an email carrying a rendered profile.
type Message struct {
	To         string
	Subject    string
	Body       string
	Attachment Attachment
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// DeliveryError represents a failure handing a message to the mail transport.
type DeliveryError struct {
	To      string
	Message string
	Cause   error
}

func (e *DeliveryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("delivery error for %s: %s: %v", e.To, e.Message, e.Cause)
	}
	return fmt.Sprintf("delivery error for %s: %s", e.To, e.Message)
}

func (e *DeliveryError) Unwrap() error {
	return e.Cause
}

// HTTPMailer posts messages as multipart forms to a mail relay endpoint.
type HTTPMailer struct {
	Endpoint string
	From     string
	Client   *http.Client
}

// NewHTTPMailer creates a mailer for the given relay endpoint.
func NewHTTPMailer(endpoint, from string) *HTTPMailer {
	return &HTTPMailer{
		Endpoint: endpoint,
		From:     from,
		Client:   &http.Client{Timeout: DefaultMailTimeout},
	}
}

// Send posts the message with fields to, subject, message (and from when
// set) plus the attachment as a file field. Any non-2xx status is an error.
func (m *HTTPMailer) Send(ctx context.Context, msg *Message) error {
	body, contentType, err := encodeForm(m.From, msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.Endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	client := m.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("mail request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mail endpoint returned HTTP status %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}
	return nil
}

func encodeForm(from string, msg *Message) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"to", msg.To},
		{"subject", msg.Subject},
		{"message", msg.Body},
	}
	if from != "" {
		fields = append(fields, [2]string{"from", from})
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", f[0], err)
		}
	}

	fieldName := msg.Attachment.FieldName
	if fieldName == "" {
		fieldName = AttachmentField
	}
	part, err := w.CreateFormFile(fieldName, msg.Attachment.FileName)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create attachment part: %w", err)
	}
	if _, err := part.Write(msg.Attachment.Data); err != nil {
		return nil, "", fmt.Errorf("failed to write attachment: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// LogMailer records deliveries in the log instead of sending them. It is
// used when no mail endpoint is configured.
type LogMailer struct {
	Logger *log.Logger
}

// Send logs the message envelope and attachment size.
func (m *LogMailer) Send(ctx context.Context, msg *Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.Logger != nil {
		m.Logger.Info("simulated email delivery",
			"to", msg.To,
			"subject", msg.Subject,
			"attachment", msg.Attachment.FileName,
			"bytes", len(msg.Attachment.Data),
		)
	}
	return nil
}
