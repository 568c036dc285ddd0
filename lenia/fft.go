package lenia

import (
	"gonum.org/v1/gonum/dsp/fourier"
)

// fft2 performs 2-D transforms by applying 1-D complex FFTs across
// rows and then columns. Buffers are row-major w×h.
type fft2 struct {
	w, h   int
	row    *fourier.CmplxFFT
	col    *fourier.CmplxFFT
	colBuf []complex128
}

func newFFT2(w, h int) *fft2 {
	return &fft2{
		w:      w,
		h:      h,
		row:    fourier.NewCmplxFFT(w),
		col:    fourier.NewCmplxFFT(h),
		colBuf: make([]complex128, h),
	}
}

// forward transforms a in place.
func (f *fft2) forward(a []complex128) {
	for y := 0; y < f.h; y++ {
		row := a[y*f.w : (y+1)*f.w]
		f.row.Coefficients(row, row)
	}
	for x := 0; x < f.w; x++ {
		for y := 0; y < f.h; y++ {
			f.colBuf[y] = a[y*f.w+x]
		}
		f.col.Coefficients(f.colBuf, f.colBuf)
		for y := 0; y < f.h; y++ {
			a[y*f.w+x] = f.colBuf[y]
		}
	}
}

// inverse transforms a in place, including the 1/(w·h) normalization
// that the unnormalized Sequence calls leave out.
func (f *fft2) inverse(a []complex128) {
	for x := 0; x < f.w; x++ {
		for y := 0; y < f.h; y++ {
			f.colBuf[y] = a[y*f.w+x]
		}
		f.col.Sequence(f.colBuf, f.colBuf)
		for y := 0; y < f.h; y++ {
			a[y*f.w+x] = f.colBuf[y]
		}
	}
	scale := complex(1/float64(f.w*f.h), 0)
	for y := 0; y < f.h; y++ {
		row := a[y*f.w : (y+1)*f.w]
		f.row.Sequence(row, row)
		for i := range row {
			row[i] *= scale
		}
	}
}
