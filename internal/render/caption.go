package render

import (
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

const (
	// Captions wrap at a fixed character width; the rasterized block is
	// sized to the wrapped text plus padding.
	wrapWidth = 40

	paddingX  = 30
	paddingY  = 20
	cornerRad = 20
	lineSpace = 6
)

// Rasterizer turns caption text into RGBA images. Font faces are loaded
// once per size and reused across segments.
type Rasterizer struct {
	fontPath string

	mu    sync.Mutex
	faces map[int]font.Face
}

func NewRasterizer(fontPath string) *Rasterizer {
	return &Rasterizer{
		fontPath: fontPath,
		faces:    make(map[int]font.Face),
	}
}

func (r *Rasterizer) face(size int) (font.Face, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.faces[size]; ok {
		return f, nil
	}
	f, err := gg.LoadFontFace(r.fontPath, float64(size))
	if err != nil {
		return nil, fmt.Errorf("load font %s: %w", r.fontPath, err)
	}
	r.faces[size] = f
	return f, nil
}

// Caption rasterizes one caption: wrapped text centered per line, over a
// rounded-rectangle background unless the style's BackgroundColor is
// empty, in which case no rectangle is drawn.
func (r *Rasterizer) Caption(text string, style Style) (image.Image, error) {
	style = style.Normalize()

	face, err := r.face(style.FontSize)
	if err != nil {
		return nil, err
	}

	lines := WrapText(text, wrapWidth)
	if len(lines) == 0 {
		return nil, fmt.Errorf("empty caption text")
	}

	// Measure the wrapped block
	measure := gg.NewContext(1, 1)
	measure.SetFontFace(face)
	lineHeight := measure.FontHeight() + lineSpace

	var maxLineWidth float64
	for _, line := range lines {
		w, _ := measure.MeasureString(line)
		if w > maxLineWidth {
			maxLineWidth = w
		}
	}

	imgW := int(maxLineWidth) + 2*paddingX
	imgH := int(lineHeight*float64(len(lines))) + 2*paddingY

	dc := gg.NewContext(imgW, imgH)
	dc.SetFontFace(face)

	if style.BackgroundColor != "" {
		br, bg, bb, err := parseHexColor(style.BackgroundColor)
		if err != nil {
			return nil, err
		}
		dc.SetRGBA(br, bg, bb, style.BackgroundOpacity)
		dc.DrawRoundedRectangle(0, 0, float64(imgW), float64(imgH), cornerRad)
		dc.Fill()
	}

	tr, tg, tb, err := parseHexColor(style.TextColor)
	if err != nil {
		return nil, err
	}
	dc.SetRGB(tr, tg, tb)

	for i, line := range lines {
		y := float64(paddingY) + (float64(i)+0.5)*lineHeight
		dc.DrawStringAnchored(line, float64(imgW)/2, y, 0.5, 0.5)
	}

	return dc.Image(), nil
}

// WrapText greedily wraps text into lines of at most width characters,
// breaking on spaces. A single word longer than width gets its own line.
func WrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		if len(current)+1+len(word) <= width {
			current += " " + word
		} else {
			lines = append(lines, current)
			current = word
		}
	}
	lines = append(lines, current)
	return lines
}
