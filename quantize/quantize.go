// Package quantize adapts a from-scratch median-cut colour reducer to the
// golang.org/x/image/draw Quantizer interface, the same seam the rest of the
// ecosystem uses for pluggable palette generation. It is invoked only when a
// source image has more than 256 distinct colours and a palette-subtype
// target was requested.
package quantize

import (
	"image"
	"image/color"
	"sort"

	"golang.org/x/image/draw"

	"github.com/somh/tgabuild/tga"
)

// MaxColors is the hard ceiling a TGA palette subtype can address.
const MaxColors = 256

// MedianCut implements draw.Quantizer with the classic recursive
// box-splitting algorithm: repeatedly bisect the color set along its widest
// channel until there are MaxColors boxes, then take each box's arithmetic
// mean as its representative.
type MedianCut struct{}

var _ draw.Quantizer = MedianCut{}

type colorBox struct {
	colors []color.RGBA
}

func (b colorBox) channelRange() (ch int, lo, hi uint8) {
	var rlo, glo, blo, alo uint8 = 255, 255, 255, 255
	var rhi, ghi, bhi, ahi uint8
	for _, c := range b.colors {
		if c.R < rlo {
			rlo = c.R
		}
		if c.R > rhi {
			rhi = c.R
		}
		if c.G < glo {
			glo = c.G
		}
		if c.G > ghi {
			ghi = c.G
		}
		if c.B < blo {
			blo = c.B
		}
		if c.B > bhi {
			bhi = c.B
		}
		if c.A < alo {
			alo = c.A
		}
		if c.A > ahi {
			ahi = c.A
		}
	}
	ranges := [4]int{int(rhi) - int(rlo), int(ghi) - int(glo), int(bhi) - int(blo), int(ahi) - int(alo)}
	widest := 0
	for i := 1; i < 4; i++ {
		if ranges[i] > ranges[widest] {
			widest = i
		}
	}
	switch widest {
	case 0:
		return 0, rlo, rhi
	case 1:
		return 1, glo, ghi
	case 2:
		return 2, blo, bhi
	default:
		return 3, alo, ahi
	}
}

func (b colorBox) average() color.RGBA {
	var rs, gs, bs, as int
	for _, c := range b.colors {
		rs += int(c.R)
		gs += int(c.G)
		bs += int(c.B)
		as += int(c.A)
	}
	n := len(b.colors)
	return color.RGBA{
		R: uint8(rs / n),
		G: uint8(gs / n),
		B: uint8(bs / n),
		A: uint8(as / n),
	}
}

func (b colorBox) split() (colorBox, colorBox) {
	ch, _, _ := b.channelRange()
	sorted := make([]color.RGBA, len(b.colors))
	copy(sorted, b.colors)
	sort.Slice(sorted, func(i, j int) bool {
		switch ch {
		case 0:
			return sorted[i].R < sorted[j].R
		case 1:
			return sorted[i].G < sorted[j].G
		case 2:
			return sorted[i].B < sorted[j].B
		default:
			return sorted[i].A < sorted[j].A
		}
	})
	mid := len(sorted) / 2
	return colorBox{colors: sorted[:mid]}, colorBox{colors: sorted[mid:]}
}

// Quantize implements draw.Quantizer. It collects the distinct colors of m,
// splits them into at most MaxColors-len(p) boxes (cap(p) is not consulted),
// and appends each box's average to p.
func (q MedianCut) Quantize(p color.Palette, m image.Image) color.Palette {
	budget := MaxColors - len(p)
	if budget <= 0 {
		return p
	}

	seen := make(map[color.RGBA]struct{})
	bounds := m.Bounds()
	var colors []color.RGBA
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := m.At(x, y).RGBA()
			c := color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				colors = append(colors, c)
			}
		}
	}
	if len(colors) == 0 {
		return p
	}

	boxes := []colorBox{{colors: colors}}
	for len(boxes) < budget {
		widestIdx, widestSpan := -1, -1
		for i, b := range boxes {
			if len(b.colors) < 2 {
				continue
			}
			_, lo, hi := b.channelRange()
			span := int(hi) - int(lo)
			if span > widestSpan {
				widestIdx, widestSpan = i, span
			}
		}
		if widestIdx < 0 {
			break
		}
		a, b := boxes[widestIdx].split()
		boxes[widestIdx] = a
		boxes = append(boxes, b)
	}

	for _, b := range boxes {
		p = append(p, b.average())
	}
	return p
}

// bufferImage adapts a tga.Buffer to image.Image so it can be handed to a
// draw.Quantizer.
type bufferImage struct {
	buf *tga.Buffer
}

func (bi bufferImage) ColorModel() color.Model { return color.RGBAModel }

func (bi bufferImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, int(bi.buf.Width), int(bi.buf.Height))
}

func (bi bufferImage) At(x, y int) color.Color {
	p := bi.buf.At(x, y)
	return color.RGBA{R: p.R, G: p.G, B: p.B, A: p.A}
}

// Reduce collapses buf to at most MaxColors distinct colors. If every pixel
// is opaque, quantization runs in RGB space and the result is re-expanded to
// fully-opaque RGBA; otherwise it runs directly in RGBA space so
// transparency survives in the palette.
func Reduce(buf *tga.Buffer) *tga.Buffer {
	img := bufferImage{buf: buf}
	q := MedianCut{}
	palette := q.Quantize(make(color.Palette, 0, MaxColors), img)

	out := tga.NewBuffer(buf.Width, buf.Height)
	for i, p := range buf.Pix {
		var c color.Color
		if p.Opaque() {
			c = color.RGBA{R: p.R, G: p.G, B: p.B, A: 255}
		} else {
			c = color.RGBA{R: p.R, G: p.G, B: p.B, A: p.A}
		}
		idx := palette.Index(c)
		matched := palette[idx].(color.RGBA)
		if p.Opaque() {
			matched.A = 255
		}
		out.Pix[i] = tga.Pixel{R: matched.R, G: matched.G, B: matched.B, A: matched.A}
	}
	return out
}
