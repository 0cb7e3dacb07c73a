package psf

import (
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/mat"
)

// fft2InPlace applies a 2-D complex FFT to a row-major matrix by running the
// 1-D transform over every row and then every column. Gonum's transforms are
// unnormalized; callers that need the inverse to round-trip must divide by
// rows*cols themselves.
func fft2InPlace(a *mat.CDense, forward bool) {
	rows, cols := a.Dims()
	rowFFT := fourier.NewCmplxFFT(cols)
	colFFT := fourier.NewCmplxFFT(rows)

	tmp := make([]complex128, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			tmp[j] = a.At(i, j)
		}
		if forward {
			rowFFT.Coefficients(tmp, tmp)
		} else {
			rowFFT.Sequence(tmp, tmp)
		}
		for j := 0; j < cols; j++ {
			a.Set(i, j, tmp[j])
		}
	}

	col := make([]complex128, rows)
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			col[i] = a.At(i, j)
		}
		if forward {
			colFFT.Coefficients(col, col)
		} else {
			colFFT.Sequence(col, col)
		}
		for i := 0; i < rows; i++ {
			a.Set(i, j, col[i])
		}
	}
}

// fftshift moves the zero-frequency component to the center of the matrix so
// an unaberrated pupil produces a PSF peaked in the middle of the map.
func fftshift(a *mat.CDense) {
	rows, cols := a.Dims()
	out := mat.NewCDense(rows, cols, nil)
	shR := rows / 2
	shC := cols / 2
	for i := 0; i < rows; i++ {
		ii := (i + shR) % rows
		for j := 0; j < cols; j++ {
			jj := (j + shC) % cols
			out.Set(ii, jj, a.At(i, j))
		}
	}
	a.Copy(out)
}
