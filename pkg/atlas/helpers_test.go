package atlas

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// stripPNG encodes an n-frame horizontal strip of size x size cells, each
// filled with a distinct red level so crops can be identified.
func stripPNG(t *testing.T, n, size int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, n*size, size))
	for i := 0; i < n; i++ {
		c := color.NRGBA{R: uint8(10 * (i + 1)), A: 255}
		for y := 0; y < size; y++ {
			for x := i * size; x < (i+1)*size; x++ {
				img.SetNRGBA(x, y, c)
			}
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

const stripJSON = `{
	"image": "rotor.png",
	"frames": {
		"rotor_3": [16, 0, 8, 8],
		"rotor_1": [0, 0, 8, 8],
		"rotor_2": [8, 0, 8, 8]
	}
}`

// writeAtlas writes a three-frame atlas into a temp dir and returns the
// metadata path.
func writeAtlas(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "rotor.png"), stripPNG(t, 3, 8), 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "rotor.json")
	if err := os.WriteFile(path, []byte(stripJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func redAt(img image.Image) uint8 {
	b := img.Bounds()
	r, _, _, _ := img.At(b.Min.X, b.Min.Y).RGBA()
	return uint8(r >> 8)
}
