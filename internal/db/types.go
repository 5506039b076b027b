package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/venture-profile/internal/format"
)

// Export channels recorded in the export log.
const (
	ChannelDownload = "download"
	ChannelEmail    = "email"
	ChannelFile     = "file"
)

// ValidChannels lists every accepted export channel.
var ValidChannels = []string{ChannelDownload, ChannelEmail, ChannelFile}

// IsValidChannel reports whether channel may be recorded.
func IsValidChannel(channel string) bool {
	for _, c := range ValidChannels {
		if c == channel {
			return true
		}
	}
	return false
}

// ExportRecord is one row of the export log.
type ExportRecord struct {
	ID        uuid.UUID  `json:"id"`
	CompanyID *uuid.UUID `json:"company_id,omitempty"`
	FileName  string     `json:"file_name"`
	Channel   string     `json:"channel"`
	Recipient *string    `json:"recipient,omitempty"`
	ByteSize  int        `json:"byte_size"`
	CreatedAt time.Time  `json:"created_at"`
}

// ExportInput is the data needed to log an export.
type ExportInput struct {
	CompanyID uuid.UUID // uuid.Nil for profiles rendered inline
	FileName  string
	Channel   string
	Recipient string
	ByteSize  int
}

// roundDateLayout is how funding round dates are exchanged as strings.
const roundDateLayout = "2006-01-02"

// parseRoundDate converts a stored round date string to a DATE value; dates
// that cannot be parsed are stored as NULL.
func parseRoundDate(s string) *time.Time {
	t, ok := format.ParseDate(s)
	if !ok {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}

func formatRoundDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(roundDateLayout)
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullIfNil(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
