// Package label renders product QR labels. Labels encode the product's
// public URL as a PNG sized for jar-bottom stickers, either as raw bytes or
// as a data URI for embedding in HTML.
package label

import (
	"encoding/base64"
	"errors"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

var (
	ErrEmptyURL         = errors.New("label: url cannot be empty")
	ErrFailedToGenerate = errors.New("label: failed to generate QR code")
)

// DefaultSize is the label edge length in pixels, chosen so a 300dpi print
// comes out around 22mm, the usual jar-bottom sticker size.
const DefaultSize = 256

// QR renders the URL as a PNG QR code. A non-positive size falls back to
// DefaultSize. Medium error correction keeps the code scannable with the
// small print damage stickers accumulate.
func QR(url string, size int) ([]byte, error) {
	if strings.TrimSpace(url) == "" {
		return nil, ErrEmptyURL
	}
	if size <= 0 {
		size = DefaultSize
	}
	png, err := qrcode.Encode(url, qrcode.Medium, size)
	if err != nil {
		return nil, errors.Join(ErrFailedToGenerate, err)
	}
	return png, nil
}

// QRDataURI renders the URL as a QR code wrapped in a PNG data URI, ready
// for an <img src> attribute.
func QRDataURI(url string, size int) (string, error) {
	png, err := QR(url, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
