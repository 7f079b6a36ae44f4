package raster

import "math"

// boxesForGauss returns n odd box widths whose successive application
// approximates a gaussian of standard deviation sigma.
func boxesForGauss(sigma float64, n int) []int {
	sizes := make([]int, n)
	if sigma <= 0 {
		for i := range sizes {
			sizes[i] = 1
		}
		return sizes
	}
	wIdeal := math.Sqrt(12*sigma*sigma/float64(n) + 1)
	wl := int(math.Floor(wIdeal))
	if wl%2 == 0 {
		wl--
	}
	wu := wl + 2

	fn, fwl := float64(n), float64(wl)
	mIdeal := (12*sigma*sigma - fn*fwl*fwl - 4*fn*fwl - 3*fn) / (-4*fwl - 4)
	m := int(math.Round(mIdeal))
	for i := range sizes {
		if i < m {
			sizes[i] = wl
		} else {
			sizes[i] = wu
		}
	}
	return sizes
}

// boxBlurH averages each RGBA channel over a horizontal window of 2r+1
// pixels. Pixels outside the image count as transparent.
func boxBlurH(src, dst []float32, w, h, r int) {
	if r <= 0 {
		copy(dst, src)
		return
	}
	inv := 1 / float32(2*r+1)
	for y := 0; y < h; y++ {
		row := y * w * 4
		for c := 0; c < 4; c++ {
			var sum float32
			for k := 0; k <= r && k < w; k++ {
				sum += src[row+k*4+c]
			}
			for x := 0; x < w; x++ {
				dst[row+x*4+c] = sum * inv
				if in := x + r + 1; in < w {
					sum += src[row+in*4+c]
				}
				if out := x - r; out >= 0 {
					sum -= src[row+out*4+c]
				}
			}
		}
	}
}

// boxBlurV is boxBlurH along columns
func boxBlurV(src, dst []float32, w, h, r int) {
	if r <= 0 {
		copy(dst, src)
		return
	}
	inv := 1 / float32(2*r+1)
	stride := w * 4
	for x := 0; x < w; x++ {
		col := x * 4
		for c := 0; c < 4; c++ {
			var sum float32
			for k := 0; k <= r && k < h; k++ {
				sum += src[k*stride+col+c]
			}
			for y := 0; y < h; y++ {
				dst[y*stride+col+c] = sum * inv
				if in := y + r + 1; in < h {
					sum += src[in*stride+col+c]
				}
				if out := y - r; out >= 0 {
					sum -= src[out*stride+col+c]
				}
			}
		}
	}
}
