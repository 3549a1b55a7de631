// Package preview decodes photos and renders them as terminal cells.
//
// Each terminal cell shows two vertically stacked pixels using the upper
// half block with a truecolor foreground and background. The renderer
// caches finished frames keyed by path, size, and file mtime, so scrubbing
// back and forth through the queue does not re-decode.
package preview

import (
	"fmt"
	"image"
	"os"
	"strings"

	"golang.org/x/image/draw"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/hay-kot/cull/pkg/kv"
)

// maxCached bounds the frame cache. The cache resets wholesale when it
// outgrows the cap; frames are cheap to rebuild.
const maxCached = 256

// Renderer turns photo files into half-block cell frames.
type Renderer struct {
	cache *kv.Store[string, string]
}

// NewRenderer creates a Renderer with an empty frame cache.
func NewRenderer() *Renderer {
	return &Renderer{cache: kv.New[string, string]()}
}

// Render decodes the photo at path and returns it as ANSI-colored lines
// fitting within width cells by lines rows. The aspect ratio is preserved.
func (r *Renderer) Render(path string, width, lines int) (string, error) {
	if width < 1 || lines < 1 {
		return "", fmt.Errorf("preview area %dx%d is empty", width, lines)
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat photo: %w", err)
	}

	key := fmt.Sprintf("%s|%dx%d|%d", path, width, lines, info.ModTime().UnixNano())
	if frame, ok := r.cache.Get(key); ok {
		return frame, nil
	}

	img, err := decode(path)
	if err != nil {
		return "", err
	}

	scaled := scale(img, width, lines*2)
	frame := halfBlocks(scaled)

	if r.cache.Len() >= maxCached {
		r.cache.Clear()
	}
	r.cache.Set(key, frame)

	return frame, nil
}

// decode reads and decodes the image, applying its EXIF orientation.
func decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open photo: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode photo: %w", err)
	}

	return orient(img, readOrientation(path)), nil
}

// scale resizes img to fit within maxW x maxH pixels, preserving aspect.
func scale(img image.Image, maxW, maxH int) *image.RGBA {
	b := img.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	if srcW == 0 || srcH == 0 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}

	fx := float64(maxW) / float64(srcW)
	fy := float64(maxH) / float64(srcH)
	f := fx
	if fy < f {
		f = fy
	}

	dstW := int(float64(srcW)*f + 0.5)
	dstH := int(float64(srcH)*f + 0.5)
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// halfBlocks renders the image two pixel rows per line using the upper
// half block, emitting truecolor codes only when the colors change.
func halfBlocks(img *image.RGBA) string {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	var sb strings.Builder
	sb.Grow(w * h * 12)

	for y := 0; y < h; y += 2 {
		var prevTop, prevBot rgb
		first := true

		for x := 0; x < w; x++ {
			top := pixelAt(img, x, y)
			bot := top
			hasBot := y+1 < h
			if hasBot {
				bot = pixelAt(img, x, y+1)
			}

			if first || top != prevTop {
				fmt.Fprintf(&sb, "\x1b[38;2;%d;%d;%dm", top.r, top.g, top.b)
			}
			if hasBot && (first || bot != prevBot) {
				fmt.Fprintf(&sb, "\x1b[48;2;%d;%d;%dm", bot.r, bot.g, bot.b)
			}
			sb.WriteRune('▀')

			prevTop, prevBot = top, bot
			first = false
		}

		sb.WriteString("\x1b[0m")
		if y+2 < h {
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}

type rgb struct {
	r, g, b uint8
}

func pixelAt(img *image.RGBA, x, y int) rgb {
	c := img.RGBAAt(img.Bounds().Min.X+x, img.Bounds().Min.Y+y)
	return rgb{c.R, c.G, c.B}
}
