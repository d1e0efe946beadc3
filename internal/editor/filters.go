package editor

import (
	"image"

	"github.com/disintegration/imaging"
)

// colorMatrix is a 3x3 linear map plus a per-channel offset, on channel values
// in [0,1]. All five color filters reduce to one of these, so an arbitrary
// filter stack collapses into a single per-pixel pass.
type colorMatrix struct {
	m [3][3]float64
	o [3]float64
}

func identityMatrix() colorMatrix {
	return colorMatrix{m: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
}

// compose returns the matrix that applies a first, then b.
func compose(b, a colorMatrix) colorMatrix {
	var out colorMatrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				out.m[i][j] += b.m[i][k] * a.m[k][j]
			}
		}
		out.o[i] = b.o[i]
		for k := 0; k < 3; k++ {
			out.o[i] += b.m[i][k] * a.o[k]
		}
	}
	return out
}

func brightnessMatrix(amount float64) colorMatrix {
	c := identityMatrix()
	for i := 0; i < 3; i++ {
		c.m[i][i] = amount
	}
	return c
}

func contrastMatrix(amount float64) colorMatrix {
	c := identityMatrix()
	for i := 0; i < 3; i++ {
		c.m[i][i] = amount
		c.o[i] = 0.5 - 0.5*amount
	}
	return c
}

// Luminance weights per the filter-effects spec; saturate and grayscale are the
// same matrix family walked from opposite ends.
func saturateMatrix(s float64) colorMatrix {
	return colorMatrix{m: [3][3]float64{
		{0.213 + 0.787*s, 0.715 - 0.715*s, 0.072 - 0.072*s},
		{0.213 - 0.213*s, 0.715 + 0.285*s, 0.072 - 0.072*s},
		{0.213 - 0.213*s, 0.715 - 0.715*s, 0.072 + 0.928*s},
	}}
}

func grayscaleMatrix(amount float64) colorMatrix {
	return saturateMatrix(1 - amount)
}

func sepiaMatrix(amount float64) colorMatrix {
	a := 1 - amount
	return colorMatrix{m: [3][3]float64{
		{0.393 + 0.607*a, 0.769 - 0.769*a, 0.189 - 0.189*a},
		{0.349 - 0.349*a, 0.686 + 0.314*a, 0.168 - 0.168*a},
		{0.272 - 0.272*a, 0.534 - 0.534*a, 0.131 + 0.869*a},
	}}
}

// filterMatrix builds the combined matrix in the fixed filter order:
// brightness, contrast, saturate, grayscale, sepia. Blur is spatial and runs
// separately after the color pass.
func filterMatrix(s EditState) colorMatrix {
	m := brightnessMatrix(s.Brightness / 100)
	m = compose(contrastMatrix(s.Contrast/100), m)
	m = compose(saturateMatrix(s.Saturation/100), m)
	m = compose(grayscaleMatrix(s.Grayscale/100), m)
	m = compose(sepiaMatrix(s.Sepia/100), m)
	return m
}

func clampChannel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// applyFilters runs the combined color pass and the blur over a copy of src.
// Alpha passes through untouched.
func applyFilters(src image.Image, s EditState) *image.NRGBA {
	out := imaging.Clone(src)

	if s.hasColorWork() {
		cm := filterMatrix(s)
		pix := out.Pix
		for i := 0; i < len(pix); i += 4 {
			r := float64(pix[i]) / 255
			g := float64(pix[i+1]) / 255
			b := float64(pix[i+2]) / 255
			pix[i] = clampChannel(255 * (cm.m[0][0]*r + cm.m[0][1]*g + cm.m[0][2]*b + cm.o[0]))
			pix[i+1] = clampChannel(255 * (cm.m[1][0]*r + cm.m[1][1]*g + cm.m[1][2]*b + cm.o[1]))
			pix[i+2] = clampChannel(255 * (cm.m[2][0]*r + cm.m[2][1]*g + cm.m[2][2]*b + cm.o[2]))
		}
	}

	if s.Blur > 0 {
		out = imaging.Blur(out, s.Blur)
	}
	return out
}
