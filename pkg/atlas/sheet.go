package atlas

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder

	_ "golang.org/x/image/webp" // register WebP decoder
)

// Sheet is a decoded atlas. It is immutable once built and safe to share
// between goroutines.
type Sheet struct {
	Location string
	Meta     *Metadata
	Image    image.Image
	Format   string        // decoder name: png, jpeg or webp
	Frames   []image.Image // cropped cells, index 0 is animation frame 1
}

// FrameCount returns the number of animation frames.
func (s *Sheet) FrameCount() int {
	if s == nil {
		return 0
	}
	return len(s.Frames)
}

// Frame returns the 1-based animation frame n, or nil when out of range.
func (s *Sheet) Frame(n int) image.Image {
	if s == nil || n < 1 || n > len(s.Frames) {
		return nil
	}
	return s.Frames[n-1]
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// NewSheet crops every metadata frame out of img.
func NewSheet(location string, meta *Metadata, img image.Image) (*Sheet, error) {
	si, ok := img.(subImager)
	if !ok {
		return nil, fmt.Errorf("image type %T cannot be cropped", img)
	}

	bounds := img.Bounds()
	frames := make([]image.Image, 0, len(meta.Frames))
	for _, f := range meta.Frames {
		r := f.Rect.Add(bounds.Min)
		if !r.In(bounds) {
			return nil, fmt.Errorf("frame %s %v outside image bounds %v", f.Name, f.Rect, bounds)
		}
		frames = append(frames, si.SubImage(r))
	}

	return &Sheet{
		Location: location,
		Meta:     meta,
		Image:    img,
		Frames:   frames,
	}, nil
}

// Fetcher returns the raw bytes at a location.
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// Load fetches and parses the metadata at location, then fetches, decodes and
// crops the image it names.
func Load(ctx context.Context, f Fetcher, location string) (*Sheet, error) {
	data, err := f.Fetch(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch atlas metadata: %w", err)
	}

	meta, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if meta.Image == "" {
		return nil, fmt.Errorf("atlas %s names no image", location)
	}

	imgLocation, err := Resolve(location, meta.Image)
	if err != nil {
		return nil, err
	}

	raw, err := f.Fetch(ctx, imgLocation)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch atlas image: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode atlas image %s: %w", imgLocation, err)
	}
	sheet, err := NewSheet(location, meta, img)
	if err != nil {
		return nil, err
	}
	sheet.Format = format
	return sheet, nil
}
