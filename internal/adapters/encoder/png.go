package encoder

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/klauspost/compress/zlib"
)

// image/png writes opaque images as RGB (colour type 2). Icons must always carry an alpha channel, so this encoder
// always emits 8-bit RGBA (colour type 6), non-interlaced.

const (
	pngHeader = "\x89PNG\r\n\x1a\n"

	colorTypeRGBA = 6
	bitDepth      = 8
	bytesPerPixel = 4

	// https://www.w3.org/TR/png/#9Filters
	ftNone    = 0
	ftSub     = 1
	ftUp      = 2
	ftAverage = 3
	ftPaeth   = 4
	nFilter   = 5
)

var errImageTooLarge = errors.New("png: image dimensions exceed format limits")

// EncodeRGBA writes img to w as an RGBA PNG.
func EncodeRGBA(w io.Writer, img image.Image) error {
	return EncodeRGBALevel(w, img, zlib.BestCompression)
}

// EncodeRGBALevel is EncodeRGBA with an explicit zlib compression level.
func EncodeRGBALevel(w io.Writer, img image.Image, level int) error {
	m, ok := img.(*image.NRGBA)
	if !ok || m.Rect.Min != (image.Point{}) {
		m = imaging.Clone(img)
	}

	width, height := m.Rect.Dx(), m.Rect.Dy()
	if width <= 0 || height <= 0 {
		return errors.New("png: invalid image size " + m.Rect.String())
	}
	if uint64(width) > 1<<31-1 || uint64(height) > 1<<31-1 {
		return errImageTooLarge
	}

	if _, err := io.WriteString(w, pngHeader); err != nil {
		return err
	}

	var ihdr [13]byte
	binary.BigEndian.PutUint32(ihdr[0:4], uint32(width))
	binary.BigEndian.PutUint32(ihdr[4:8], uint32(height))
	ihdr[8] = bitDepth
	ihdr[9] = colorTypeRGBA
	// compression, filter and interlace methods are all 0
	if err := writeChunk(w, "IHDR", ihdr[:]); err != nil {
		return err
	}

	idat, err := compress(m, level)
	if err != nil {
		return err
	}
	if err := writeChunk(w, "IDAT", idat); err != nil {
		return err
	}

	return writeChunk(w, "IEND", nil)
}

func writeChunk(w io.Writer, name string, data []byte) error {
	if uint64(len(data)) > 1<<31-1 {
		return errImageTooLarge
	}

	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[0:4], uint32(len(data)))
	copy(hdr[4:8], name)

	crc := crc32.NewIEEE()
	crc.Write(hdr[4:8])
	crc.Write(data)

	var footer [4]byte
	binary.BigEndian.PutUint32(footer[:], crc.Sum32())

	for _, b := range [][]byte{hdr[:], data, footer[:]} {
		if _, err := w.Write(b); err != nil {
			return err
		}
	}

	return nil
}

func compress(m *image.NRGBA, level int) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, err
	}

	rowLen := m.Rect.Dx() * bytesPerPixel
	prev := make([]byte, rowLen)
	var cand [nFilter][]byte
	for i := range cand {
		cand[i] = make([]byte, 1+rowLen)
	}

	for y := 0; y < m.Rect.Dy(); y++ {
		cur := m.Pix[y*m.Stride : y*m.Stride+rowLen]
		best := filterRow(&cand, cur, prev)
		if _, err := zw.Write(cand[best]); err != nil {
			return nil, err
		}
		prev = cur
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// filterRow fills every candidate with cur filtered by each filter type and returns the index of the candidate with
// the smallest sum of absolute differences. Each candidate starts with its filter type byte.
func filterRow(cand *[nFilter][]byte, cur, prev []byte) int {
	best, bestSum := 0, -1

	for ft := range cand {
		c := cand[ft]
		c[0] = byte(ft)
		out := c[1:]
		sum := 0

		for i := range cur {
			var a, b, d byte
			if i >= bytesPerPixel {
				a = cur[i-bytesPerPixel]
				d = prev[i-bytesPerPixel]
			}
			b = prev[i]

			var v byte
			switch ft {
			case ftNone:
				v = cur[i]
			case ftSub:
				v = cur[i] - a
			case ftUp:
				v = cur[i] - b
			case ftAverage:
				v = cur[i] - byte((int(a)+int(b))/2)
			case ftPaeth:
				v = cur[i] - paeth(a, b, d)
			}
			out[i] = v
			sum += absSigned(v)
		}

		if bestSum < 0 || sum < bestSum {
			best, bestSum = ft, sum
		}
	}

	return best
}

func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func absSigned(v byte) int {
	return abs(int(int8(v)))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
