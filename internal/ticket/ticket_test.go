package ticket

import (
	"bytes"
	"image/png"
	"testing"
)

func TestPayload(t *testing.T) {
	got := Payload("evt-1", "part-2")
	if got != "evt-1.part-2" {
		t.Errorf("Payload = %q", got)
	}
}

func TestObjectPath(t *testing.T) {
	got := ObjectPath("evt-1", "part-2")
	if got != "tickets/evt-1/part-2.png" {
		t.Errorf("ObjectPath = %q", got)
	}
}

func TestEncodePNG(t *testing.T) {
	data, err := EncodePNG(Payload("evt-1", "part-2"))
	if err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != pngSize || bounds.Dy() != pngSize {
		t.Errorf("image is %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), pngSize, pngSize)
	}
}
