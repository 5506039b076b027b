// Package export turns business profiles into PDF files and email deliveries.
package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/jonathan/venture-profile/internal/rendering"
	"github.com/jonathan/venture-profile/internal/types"
)

// fileSuffix is appended to every exported file name.
const fileSuffix = "_business_profile.pdf"

// FileName derives the download file name for a company. Every character
// outside [A-Za-z0-9] becomes one underscore, so "Acme & Co." yields
// "acme___co__business_profile.pdf". An empty name yields "company".
func FileName(name string) string {
	if name == "" {
		name = "company"
	}
	var sb strings.Builder
	sb.Grow(len(name) + len(fileSuffix))
	for _, c := range name {
		if isAlphanumeric(c) {
			sb.WriteRune(c)
		} else {
			sb.WriteByte('_')
		}
	}
	return strings.ToLower(sb.String()) + fileSuffix
}

func isAlphanumeric(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// Exporter renders profiles and hands the result to a file or a Mailer.
type Exporter struct {
	engine *rendering.Engine
	mailer Mailer
	logger *log.Logger
}

// New creates an Exporter. A nil mailer makes Email fail; a nil logger
// discards log output.
func New(engine *rendering.Engine, mailer Mailer, logger *log.Logger) *Exporter {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Exporter{engine: engine, mailer: mailer, logger: logger}
}

// Render lays out the profile and encodes it as PDF.
func (e *Exporter) Render(profile *types.CompanyProfile, rounds []types.FundingRound) (*rendering.Document, []byte, error) {
	doc := e.engine.Layout(profile, rounds)
	data, err := doc.PDF()
	if err != nil {
		return doc, nil, err
	}
	e.logger.Debug("rendered profile", "title", doc.Title, "pages", doc.PageCount(), "bytes", len(data))
	return doc, data, nil
}

// SaveToFile renders the profile into dir under its FileName and returns the
// path written.
func (e *Exporter) SaveToFile(dir string, profile *types.CompanyProfile, rounds []types.FundingRound) (string, error) {
	_, data, err := e.Render(profile, rounds)
	if err != nil {
		return "", err
	}
	return e.WriteFile(dir, profileName(profile), data)
}

// WriteFile stores already rendered PDF bytes in dir under the FileName of
// companyName, creating dir if needed.
func (e *Exporter) WriteFile(dir, companyName string, data []byte) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, FileName(companyName))
	if err := writeFileAtomic(path, data); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	e.logger.Info("saved profile", "path", path)
	return path, nil
}

// writeFileAtomic writes data to a temporary file beside path and renames it
// into place, so readers never see a partially written PDF.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Email renders the profile and delivers it as an attachment. The form must
// already be valid. Delivery is attempted once.
func (e *Exporter) Email(ctx context.Context, profile *types.CompanyProfile, rounds []types.FundingRound, form types.EmailForm) (*Message, error) {
	if e.mailer == nil {
		return nil, &DeliveryError{To: form.To, Message: "no mailer configured"}
	}

	_, data, err := e.Render(profile, rounds)
	if err != nil {
		return nil, err
	}

	msg := &Message{
		To:      form.To,
		Subject: form.Subject,
		Body:    form.Message,
		Attachment: Attachment{
			FieldName: AttachmentField,
			FileName:  FileName(profileName(profile)),
			Data:      data,
		},
	}
	if err := e.mailer.Send(ctx, msg); err != nil {
		return nil, &DeliveryError{To: form.To, Message: "failed to send profile", Cause: err}
	}
	e.logger.Info("emailed profile", "to", form.To, "file", msg.Attachment.FileName)
	return msg, nil
}

func profileName(p *types.CompanyProfile) string {
	if p == nil {
		return ""
	}
	return p.Name
}
