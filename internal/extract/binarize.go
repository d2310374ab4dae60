package extract

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Binarize converts a rendered page to black-and-white: grayscale
// conversion, then a global threshold picked automatically by Otsu's method
// over the gray histogram. OCR accuracy on scanned invoices improves
// markedly on binarized input.
func Binarize(src image.Image) *image.Gray {
	gray := imaging.Grayscale(src)
	bounds := gray.Bounds()
	out := image.NewGray(bounds)

	var hist [256]int
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.GrayModel.Convert(gray.At(x, y)).(color.Gray)
			out.SetGray(x, y, c)
			hist[c.Y]++
		}
	}

	t := otsuThreshold(hist, bounds.Dx()*bounds.Dy())
	for i, px := range out.Pix {
		if px > t {
			out.Pix[i] = 255
		} else {
			out.Pix[i] = 0
		}
	}
	return out
}

// otsuThreshold finds the gray level that maximizes between-class variance.
func otsuThreshold(hist [256]int, total int) uint8 {
	var sum float64
	for i, c := range hist {
		sum += float64(i * c)
	}

	var sumB, wB, maxVar float64
	var threshold uint8
	for i := 0; i < 256; i++ {
		wB += float64(hist[i])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(i * hist[i])
		mB := sumB / wB
		mF := (sum - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > maxVar {
			maxVar = between
			threshold = uint8(i)
		}
	}
	return threshold
}
