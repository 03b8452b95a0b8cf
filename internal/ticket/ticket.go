// Package ticket produces the scannable QR artifact issued to confirmed
// participants and manages its persistence in object storage.
package ticket

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// pngSize is the pixel edge of the rasterized QR image.
const pngSize = 256

// Payload builds the verification string bound into the QR code. Scanners
// split on the dot to recover both identifiers.
func Payload(eventID, participantID string) string {
	return eventID + "." + participantID
}

// ObjectPath derives the storage path for a participant's ticket image.
func ObjectPath(eventID, participantID string) string {
	return fmt.Sprintf("tickets/%s/%s.png", eventID, participantID)
}

// EncodePNG rasterizes the payload as a PNG QR code.
func EncodePNG(payload string) ([]byte, error) {
	png, err := qrcode.Encode(payload, qrcode.Medium, pngSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}
