package email

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// DevSender writes emails to a local directory instead of delivering them.
// Useful for development and for tests that assert on dunning content.
type DevSender struct {
	dir string
}

// NewDevSender creates a sender that saves messages under dir, creating it
// on first use.
func NewDevSender(dir string) *DevSender {
	return &DevSender{dir: dir}
}

// SendEmail saves the message body as an HTML file named after the send time
// and tag (or subject).
func (d *DevSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating directory: %v", ErrFailedToSendEmail, err)
	}

	identifier := params.Tag
	if identifier == "" {
		identifier = params.Subject
	}

	name := fmt.Sprintf("%s_%s.html", time.Now().Format("2006_01_02_150405"), sanitizeFilename(identifier))
	if err := os.WriteFile(filepath.Join(d.dir, name), []byte(params.BodyHTML), 0o644); err != nil {
		return fmt.Errorf("%w: writing file: %v", ErrFailedToSendEmail, err)
	}

	return nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = unsafeFilenameChars.ReplaceAllString(s, "")

	const maxLength = 100
	if len(s) > maxLength {
		s = s[:maxLength]
	}
	if s == "" {
		s = "email"
	}

	return strings.ToLower(s)
}
