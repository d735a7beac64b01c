package converter

import (
	"image"
	"image/color"
	"math/rand"
	"runtime"
	"testing"

	"iconfit/internal/core/domain"
	"iconfit/internal/core/port"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func engines() []port.ImageFitter {
	return []port.ImageFitter{NewImagingFitter(), NewNfntFitter()}
}

func TestFitDimensions(t *testing.T) {
	tests := []struct {
		name string
		src  image.Rectangle
		size domain.Size
	}{
		{name: "watch icon", src: image.Rect(0, 0, 1088, 1088), size: domain.DefaultSize},
		{name: "wide", src: image.Rect(0, 0, 300, 120), size: domain.Size{Width: 64, Height: 64}},
		{name: "tall", src: image.Rect(0, 0, 90, 333), size: domain.Size{Width: 64, Height: 64}},
		{name: "upscale", src: image.Rect(0, 0, 10, 5), size: domain.Size{Width: 64, Height: 64}},
		{name: "same size", src: image.Rect(0, 0, 32, 32), size: domain.Size{Width: 32, Height: 32}},
		{name: "non square target", src: image.Rect(0, 0, 200, 200), size: domain.Size{Width: 80, Height: 20}},
		{name: "offset origin", src: image.Rect(10, 10, 110, 60), size: domain.Size{Width: 16, Height: 16}},
		{name: "single pixel", src: image.Rect(0, 0, 1, 1), size: domain.Size{Width: 3, Height: 3}},
	}

	for _, e := range engines() {
		for _, tc := range tests {
			t.Run(e.Name()+"/"+tc.name, func(t *testing.T) {
				src := randNRGBA(tc.src, 1)

				dst, err := e.Fit(src, tc.size)
				require.NoError(t, err)
				assert.Equal(t, image.Rect(0, 0, tc.size.Width, tc.size.Height), dst.Bounds())
			})
		}
	}
}

func TestFitErrors(t *testing.T) {
	for _, e := range engines() {
		t.Run(e.Name(), func(t *testing.T) {
			_, err := e.Fit(image.NewNRGBA(image.Rect(0, 0, 0, 0)), domain.DefaultSize)
			assert.ErrorIs(t, err, domain.ErrEmptyImage)

			_, err = e.Fit(nil, domain.DefaultSize)
			assert.ErrorIs(t, err, domain.ErrEmptyImage)

			_, err = e.Fit(randNRGBA(image.Rect(0, 0, 4, 4), 1), domain.Size{Width: -1, Height: 4})
			assert.ErrorIs(t, err, domain.ErrInvalidSize)
		})
	}
}

func TestFitAlpha(t *testing.T) {
	size := domain.Size{Width: 16, Height: 16}

	opaque := image.NewGray(image.Rect(0, 0, 40, 30))
	for i := range opaque.Pix {
		opaque.Pix[i] = uint8(i)
	}

	transparent := image.NewNRGBA(image.Rect(0, 0, 40, 30))
	halfTransparent := image.NewNRGBA(image.Rect(0, 0, 40, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			halfTransparent.SetNRGBA(x, y, color.NRGBA{R: 200, G: 10, B: 10, A: 128})
		}
	}

	tests := []struct {
		name      string
		src       image.Image
		wantAlpha uint8
	}{
		{name: "no alpha channel", src: opaque, wantAlpha: 255},
		{name: "fully transparent", src: transparent, wantAlpha: 0},
		{name: "half transparent", src: halfTransparent, wantAlpha: 128},
	}

	for _, e := range engines() {
		for _, tc := range tests {
			t.Run(e.Name()+"/"+tc.name, func(t *testing.T) {
				dst, err := e.Fit(tc.src, size)
				require.NoError(t, err)

				for y := 0; y < size.Height; y++ {
					for x := 0; x < size.Width; x++ {
						a := dst.NRGBAAt(x, y).A
						require.InDelta(t, tc.wantAlpha, a, 1, "(%v,%v)", x, y)
					}
				}
			})
		}
	}
}

func TestFitMatchingAspectIsRescale(t *testing.T) {
	src := randNRGBA(image.Rect(0, 0, 200, 200), 7)
	size := domain.Size{Width: 100, Height: 100}

	dst, err := NewImagingFitter().Fit(src, size)
	require.NoError(t, err)
	want := imaging.Resize(src, 100, 100, imaging.Lanczos)
	assert.Equal(t, want.Pix, dst.Pix)

	dst, err = NewNfntFitter().Fit(src, size)
	require.NoError(t, err)
	scaled := resize.Resize(100, 100, src, resize.Lanczos3)
	assert.Equal(t, imaging.Clone(scaled).Pix, dst.Pix)
}

func TestFitWideCropsCenter(t *testing.T) {
	// red | green | red, only the green band survives a centered square crop
	src := image.NewNRGBA(image.Rect(0, 0, 600, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 600; x++ {
			c := color.NRGBA{R: 255, A: 255}
			if x >= 200 && x < 400 {
				c = color.NRGBA{G: 255, A: 255}
			}
			src.SetNRGBA(x, y, c)
		}
	}

	for _, e := range engines() {
		t.Run(e.Name(), func(t *testing.T) {
			dst, err := e.Fit(src, domain.Size{Width: 50, Height: 50})
			require.NoError(t, err)

			for y := 0; y < 50; y++ {
				for x := 0; x < 50; x++ {
					c := dst.NRGBAAt(x, y)
					require.InDelta(t, 0, c.R, 2, "(%v,%v)", x, y)
					require.InDelta(t, 255, c.G, 2, "(%v,%v)", x, y)
				}
			}
		})
	}
}

func TestFitWideTrimsEqually(t *testing.T) {
	// horizontal gradient: a centered crop has edge values mirrored around the midpoint
	src := image.NewNRGBA(image.Rect(0, 0, 600, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 600; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 255 / 599), A: 255})
		}
	}

	for _, e := range engines() {
		t.Run(e.Name(), func(t *testing.T) {
			dst, err := e.Fit(src, domain.Size{Width: 50, Height: 50})
			require.NoError(t, err)

			for y := 0; y < 50; y++ {
				left := int(dst.NRGBAAt(0, y).R)
				right := int(dst.NRGBAAt(49, y).R)
				require.InDelta(t, 255, left+right, 3, "row %v: left %v right %v", y, left, right)
				require.Less(t, left, right)
			}
		})
	}
}

func TestFitTallCropsCenter(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 100, 600))
	for y := 0; y < 600; y++ {
		for x := 0; x < 100; x++ {
			c := color.NRGBA{B: 255, A: 255}
			if y >= 200 && y < 400 {
				c = color.NRGBA{G: 255, A: 255}
			}
			src.SetNRGBA(x, y, c)
		}
	}

	for _, e := range engines() {
		t.Run(e.Name(), func(t *testing.T) {
			dst, err := e.Fit(src, domain.Size{Width: 50, Height: 50})
			require.NoError(t, err)

			for y := 0; y < 50; y++ {
				c := dst.NRGBAAt(25, y)
				require.InDelta(t, 0, c.B, 2, "row %v", y)
				require.InDelta(t, 255, c.G, 2, "row %v", y)
			}
		})
	}
}

func TestFitDeterministic(t *testing.T) {
	src := randNRGBA(image.Rect(0, 0, 333, 211), 3)
	size := domain.Size{Width: 64, Height: 64}

	for _, e := range engines() {
		t.Run(e.Name(), func(t *testing.T) {
			a, err := e.Fit(src, size)
			require.NoError(t, err)
			b, err := e.Fit(src, size)
			require.NoError(t, err)
			assert.Equal(t, a.Pix, b.Pix)
		})
	}
}

func TestCropSize(t *testing.T) {
	tests := []struct {
		name         string
		srcW, srcH   int
		size         domain.Size
		wantW, wantH int
	}{
		{name: "wide", srcW: 600, srcH: 100, size: domain.Size{Width: 50, Height: 50}, wantW: 100, wantH: 100},
		{name: "tall", srcW: 100, srcH: 600, size: domain.Size{Width: 50, Height: 50}, wantW: 100, wantH: 100},
		{name: "square", srcW: 1088, srcH: 1088, size: domain.DefaultSize, wantW: 1088, wantH: 1088},
		{name: "upscale", srcW: 10, srcH: 5, size: domain.Size{Width: 64, Height: 64}, wantW: 5, wantH: 5},
		{name: "rounding", srcW: 101, srcH: 100, size: domain.Size{Width: 10, Height: 10}, wantW: 100, wantH: 100},
		{name: "non square target", srcW: 200, srcH: 200, size: domain.Size{Width: 80, Height: 20}, wantW: 200, wantH: 50},
		{name: "thin column", srcW: 1, srcH: 4000, size: domain.DefaultSize, wantW: 1, wantH: 1},
		{name: "thin row", srcW: 1000, srcH: 8, size: domain.DefaultSize, wantW: 8, wantH: 8},
		{name: "at least one pixel", srcW: 10, srcH: 10, size: domain.Size{Width: 1000, Height: 1}, wantW: 10, wantH: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, h := cropSize(tc.srcW, tc.srcH, tc.size)
			assert.Equal(t, tc.wantW, w)
			assert.Equal(t, tc.wantH, h)
		})
	}
}

func TestFitExtremeAspectBoundedMemory(t *testing.T) {
	tests := []struct {
		name string
		src  image.Rectangle
	}{
		{name: "1x4000", src: image.Rect(0, 0, 1, 4000)},
		{name: "8x1000", src: image.Rect(0, 0, 8, 1000)},
		{name: "10000x1", src: image.Rect(0, 0, 10000, 1)},
	}

	// output is 4 MiB; whole-source cover scaling of these inputs needs hundreds of MiB or more
	const maxAlloc = 64 << 20

	for _, e := range engines() {
		for _, tc := range tests {
			t.Run(e.Name()+"/"+tc.name, func(t *testing.T) {
				src := randNRGBA(tc.src, 5)

				var before, after runtime.MemStats
				runtime.GC()
				runtime.ReadMemStats(&before)

				dst, err := e.Fit(src, domain.DefaultSize)

				runtime.ReadMemStats(&after)
				require.NoError(t, err)
				assert.Equal(t, image.Rect(0, 0, 1024, 1024), dst.Bounds())
				assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(maxAlloc))
			})
		}
	}
}

func TestNormalize(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 7, 7))
	src.SetRGBA(5, 5, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	dst := Normalize(src)

	assert.Equal(t, image.Rect(0, 0, 2, 2), dst.Bounds())
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 255}, dst.NRGBAAt(0, 0))
}

func randNRGBA(r image.Rectangle, seed int64) *image.NRGBA {
	rnd := rand.New(rand.NewSource(seed))
	img := image.NewNRGBA(r)
	_, _ = rnd.Read(img.Pix)

	return img
}
