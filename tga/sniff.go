package tga

// Format identifies a raster container as returned by Sniff.
type Format int

const (
	FormatUnknown Format = iota
	FormatPNG
	FormatTGAPalette
	FormatTGARLEPalette
	FormatTGATruecolor // either 16 or 32 bpp; distinguishing the two needs byte 16, read during decode
)

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "PNG"
	case FormatTGAPalette:
		return "TGA-P"
	case FormatTGARLEPalette:
		return "TGA-RLP"
	case FormatTGATruecolor:
		return "TGA-16/32"
	default:
		return "unknown"
	}
}

var pngSignature = [4]byte{0x89, 'P', 'N', 'G'}

// Sniff inspects the first four bytes of header to classify the container.
// It never fails: a header shorter than four bytes, or one that matches
// none of the known signatures, yields FormatUnknown.
func Sniff(header []byte) Format {
	if len(header) < 4 {
		return FormatUnknown
	}
	if [4]byte(header[0:4]) == pngSignature {
		return FormatPNG
	}
	switch header[2] {
	case byte(SubtypeTruecolor):
		return FormatTGATruecolor
	case byte(SubtypePalette):
		return FormatTGAPalette
	case byte(SubtypeRLEPalette):
		return FormatTGARLEPalette
	default:
		return FormatUnknown
	}
}

