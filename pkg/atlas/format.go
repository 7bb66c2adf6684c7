// Package atlas loads rotor sprite sheets: JSON frame metadata plus a PNG,
// JPEG or WebP image, fetched from disk or over HTTP in the background.
package atlas

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// ErrNoFrames is returned for metadata without a single usable frame.
var ErrNoFrames = errors.New("atlas has no frames")

// Frame is one named cell of the sheet.
type Frame struct {
	Name string
	Rect image.Rectangle
}

// Metadata is the parsed atlas description. Frames are ordered by the numeric
// suffix of their names, so rotor_2 precedes rotor_10.
type Metadata struct {
	Image  string
	Frames []Frame
}

type rawFrame struct {
	Filename string   `json:"filename"`
	Frame    *rawRect `json:"frame"`
}

type rawRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type rawMeta struct {
	Image string          `json:"image"`
	Frames json.RawMessage `json:"frames"`
	Meta   struct {
		Image string `json:"image"`
	} `json:"meta"`
}

// Parse decodes atlas metadata. Frame entries may be compact
// {"rotor_01": [x, y, w, h]} pairs or TexturePacker objects, keyed by name or
// listed in an array with a "filename" field.
func Parse(data []byte) (*Metadata, error) {
	var raw rawMeta
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse atlas metadata: %w", err)
	}

	meta := &Metadata{Image: raw.Image}
	if meta.Image == "" {
		meta.Image = raw.Meta.Image
	}

	frames, err := parseFrames(raw.Frames)
	if err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}

	sortFrames(frames)
	meta.Frames = frames
	return meta, nil
}

func parseFrames(data json.RawMessage) ([]Frame, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	if data[0] == '[' {
		var list []rawFrame
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("failed to parse frame list: %w", err)
		}
		frames := make([]Frame, 0, len(list))
		for i, f := range list {
			if f.Frame == nil {
				return nil, fmt.Errorf("frame %d (%s): missing frame rectangle", i, f.Filename)
			}
			r, err := f.Frame.rect()
			if err != nil {
				return nil, fmt.Errorf("frame %d (%s): %w", i, f.Filename, err)
			}
			frames = append(frames, Frame{Name: f.Filename, Rect: r})
		}
		return frames, nil
	}

	var byName map[string]json.RawMessage
	if err := json.Unmarshal(data, &byName); err != nil {
		return nil, fmt.Errorf("failed to parse frame map: %w", err)
	}

	frames := make([]Frame, 0, len(byName))
	for name, v := range byName {
		r, err := parseRect(v)
		if err != nil {
			return nil, fmt.Errorf("frame %s: %w", name, err)
		}
		frames = append(frames, Frame{Name: name, Rect: r})
	}
	return frames, nil
}

func parseRect(v json.RawMessage) (image.Rectangle, error) {
	var xywh []int
	if err := json.Unmarshal(v, &xywh); err == nil {
		if len(xywh) != 4 {
			return image.Rectangle{}, fmt.Errorf("expected [x, y, w, h], got %d values", len(xywh))
		}
		return rawRect{X: xywh[0], Y: xywh[1], W: xywh[2], H: xywh[3]}.rect()
	}

	var f rawFrame
	if err := json.Unmarshal(v, &f); err != nil {
		return image.Rectangle{}, fmt.Errorf("unrecognised frame entry: %w", err)
	}
	if f.Frame == nil {
		return image.Rectangle{}, errors.New("missing frame rectangle")
	}
	return f.Frame.rect()
}

func (r rawRect) rect() (image.Rectangle, error) {
	if r.W <= 0 || r.H <= 0 {
		return image.Rectangle{}, fmt.Errorf("invalid frame size %dx%d", r.W, r.H)
	}
	if r.X < 0 || r.Y < 0 {
		return image.Rectangle{}, fmt.Errorf("invalid frame origin %d,%d", r.X, r.Y)
	}
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H), nil
}

// sortFrames orders by numeric suffix; names without one sort after numbered
// frames, and ties fall back to the name.
func sortFrames(frames []Frame) {
	sort.SliceStable(frames, func(i, j int) bool {
		ni, oki := numericSuffix(frames[i].Name)
		nj, okj := numericSuffix(frames[j].Name)
		switch {
		case oki && okj && ni != nj:
			return ni < nj
		case oki != okj:
			return oki
		default:
			return frames[i].Name < frames[j].Name
		}
	})
}

// numericSuffix returns the trailing integer of name, ignoring a file
// extension, so "rotor_07.png" yields 7.
func numericSuffix(name string) (int, bool) {
	if dot := strings.LastIndexByte(name, '.'); dot > 0 {
		name = name[:dot]
	}
	end := len(name)
	start := end
	for start > 0 && unicode.IsDigit(rune(name[start-1])) {
		start--
	}
	if start == end {
		return 0, false
	}
	n, err := strconv.Atoi(name[start:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
