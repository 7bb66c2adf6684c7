// pkg/render/engo/assets.go
package engo

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-rotor/pkg/atlas"
)

// AssetManager turns decoded images into engo textures. Images are prepared in
// plain Go; textures are created lazily because they need the GL context.
type AssetManager struct {
	sheet    *atlas.Sheet
	frames   []common.Drawable
	fallback common.Drawable
	hub      common.Drawable
	pointer  common.Drawable
}

// NewAssetManager creates an empty asset manager
func NewAssetManager() *AssetManager {
	return &AssetManager{}
}

// LoadAssets builds the built-in sprites. It must run on the render thread.
func (am *AssetManager) LoadAssets() {
	am.fallback = convertToEngoTexture(createPatternImage(48, 48, bladePattern(48)))
	am.hub = convertToEngoTexture(createPatternImage(8, 8, discPattern(8)))
	am.pointer = convertToEngoTexture(createPatternImage(6, 6, discPattern(6)))
}

// RotorFrame returns the texture for 1-based frame n of sheet, building the
// sheet's textures the first time it is seen. Without a usable frame it falls
// back to the built-in blade sprite.
func (am *AssetManager) RotorFrame(sheet *atlas.Sheet, n int) common.Drawable {
	if sheet != am.sheet {
		am.sheet = sheet
		am.frames = am.frames[:0]
		for i := 1; i <= sheet.FrameCount(); i++ {
			am.frames = append(am.frames, convertToEngoTexture(toNRGBA(sheet.Frame(i))))
		}
	}
	if n >= 1 && n <= len(am.frames) {
		return am.frames[n-1]
	}
	return am.fallback
}

// Hub returns the pivot marker sprite.
func (am *AssetManager) Hub() common.Drawable {
	return am.hub
}

// Pointer returns the contact marker sprite.
func (am *AssetManager) Pointer() common.Drawable {
	return am.pointer
}

// bladePattern draws a horizontal two-blade rotor across a size x size cell.
func bladePattern(size int) [][]int {
	pattern := make([][]int, size)
	mid := size / 2
	for y := range pattern {
		pattern[y] = make([]int, size)
		if y >= mid-2 && y <= mid+1 {
			for x := range pattern[y] {
				pattern[y][x] = 1
			}
		}
	}
	return pattern
}

// discPattern draws a filled circle.
func discPattern(size int) [][]int {
	pattern := make([][]int, size)
	r := float64(size) / 2
	for y := range pattern {
		pattern[y] = make([]int, size)
		for x := range pattern[y] {
			dx, dy := float64(x)+0.5-r, float64(y)+0.5-r
			if dx*dx+dy*dy <= r*r {
				pattern[y][x] = 1
			}
		}
	}
	return pattern
}

// createPatternImage renders a 0/1 pattern as opaque white on transparent.
func createPatternImage(width, height int, pattern [][]int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y, row := range pattern {
		if y >= height {
			break
		}
		for x, pixel := range row {
			if x >= width {
				break
			}
			if pixel == 1 {
				img.SetNRGBA(x, y, color.NRGBA{255, 255, 255, 255})
			}
		}
	}
	return img
}

// toNRGBA copies any image into a zero-origin NRGBA, which is what engo
// uploads. Cropped atlas frames keep their sheet offsets, so they are always
// copied.
func toNRGBA(src image.Image) *image.NRGBA {
	if src == nil {
		return image.NewNRGBA(image.Rect(0, 0, 1, 1))
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// convertToEngoTexture converts an image to an engo texture.
func convertToEngoTexture(img *image.NRGBA) common.Drawable {
	return common.NewTextureSingle(common.NewImageObject(img))
}
