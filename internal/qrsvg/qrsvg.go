// Package qrsvg renders QR codes as inline SVG markup: one unit square per
// dark module, integer coordinates, a fixed quiet border. The output embeds
// directly into HTML without rasterization.
package qrsvg

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// quietBorder is the width of the white margin around the code, in modules.
const quietBorder = 4

type Encoder struct{}

func NewEncoder() Encoder {
	return Encoder{}
}

// Encode produces an SVG document for text at medium error correction.
// Deterministic; fails only when the input is too long to encode.
func (Encoder) Encode(text string) (string, error) {
	code, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("qr encode: %w", err)
	}
	code.DisableBorder = true
	return render(code.Bitmap(), quietBorder), nil
}

func render(modules [][]bool, border int) string {
	dim := len(modules)
	width := dim + border*2

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" version="1.1" viewBox="0 0 %d %d" stroke="none">`, width, width)
	b.WriteString(`<rect width="100%" height="100%" fill="#FFFFFF"/>`)
	b.WriteString(`<path d="`)
	for y := 0; y < dim; y++ {
		for x := 0; x < dim; x++ {
			if modules[y][x] {
				fmt.Fprintf(&b, "M%d,%dh1v1h-1z ", x+border, y+border)
			}
		}
	}
	b.WriteString(`" fill="#000000"/></svg>`)
	return b.String()
}
