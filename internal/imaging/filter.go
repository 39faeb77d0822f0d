package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
)

// Grayscale converts img to a single-channel luminance image.
func Grayscale(img image.Image) *image.Gray {
	return effect.Grayscale(img)
}

// GaussianBlur smooths img with a square Gaussian kernel of the given size.
//
// kernelSize must be odd and at least 1; a size of 1 returns an unblurred
// copy. A kernel of size k corresponds to a radius of (k-1)/2, so 5 gives a
// 5x5 kernel and 11 an 11x11 kernel.
func GaussianBlur(img image.Image, kernelSize int) (*image.RGBA, error) {
	if kernelSize < 1 || kernelSize%2 == 0 {
		return nil, fmt.Errorf("invalid kernel size %d: must be a positive odd number", kernelSize)
	}
	return blur.Gaussian(img, float64(kernelSize-1)/2), nil
}

// Threshold binarizes img by luminance.
//
// Pixels at or above level become white (255) and the rest black (0). With
// invert set the output is reversed, so dark foreground objects on a light
// background come out white.
func Threshold(img image.Image, level uint8, invert bool) *image.Gray {
	out := segment.Threshold(img, level)
	if invert {
		for i := range out.Pix {
			out.Pix[i] = 255 - out.Pix[i]
		}
	}
	return out
}

// AdaptiveThreshold binarizes img against a Gaussian-weighted local mean.
//
// A pixel becomes white when it is brighter than the weighted mean of its
// blockSize x blockSize neighbourhood minus offset. This gives the clean
// black-on-white look of a scanned page even under uneven lighting.
// blockSize must be odd and at least 3.
func AdaptiveThreshold(img image.Image, blockSize, offset int) (*image.Gray, error) {
	if blockSize < 3 || blockSize%2 == 0 {
		return nil, fmt.Errorf("invalid block size %d: must be an odd number >= 3", blockSize)
	}

	gray := Grayscale(img)
	mean := Grayscale(blur.Gaussian(gray, float64(blockSize-1)/2))

	out := image.NewGray(gray.Bounds())
	for i, v := range gray.Pix {
		if int(v) > int(mean.Pix[i])-offset {
			out.Pix[i] = 255
		}
	}
	return out, nil
}

// Dilate grows the bright regions of a binary image by radius pixels, which
// closes small gaps in an edge map.
func Dilate(img image.Image, radius float64) *image.Gray {
	if radius <= 0 {
		return Grayscale(img)
	}
	return Grayscale(effect.Dilate(img, radius))
}
