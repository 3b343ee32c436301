package display

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// QR renders content as a QR code drawn with half-block characters, two
// modules per text row.
func QR(content string) (string, error) {
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("encoding qr code: %w", err)
	}
	return q.ToSmallString(false), nil
}
