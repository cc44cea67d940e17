package utils

import (
	"math"
)

// FallingFactorial is n(n-1)...(n-k+1), the factor that the k-th derivative of x^n
// carries in front of x^(n-k).
func FallingFactorial(n, k int) (f float64) {
	f = 1
	for i := 0; i < k; i++ {
		f *= float64(n - i)
	}
	return
}

// POW is an integer power that avoids math.Pow for the small exponents found in
// polynomial bases.
func POW(x float64, pp int) (y float64) {
	var (
		p       = pp
		flipped bool
	)
	if pp > 8 || pp < -8 {
		goto MATHPOW
	}

	if p < 0 {
		p = -pp
		flipped = true
	}
	switch p {
	case 0:
		y = 1
	case 1:
		y = x
	case 2:
		y = x * x
	case 3:
		y = x * x * x
	case 4:
		y = x * x
		y = y * y
	case 5:
		y = x * x
		y = y * y * x
	case 6:
		y = x * x
		y = y * y * y
	case 7:
		y = x * x
		y = y * y * y * x
	case 8:
		y = x * x
		y = y * y * y * y
	}
	if flipped {
		y = 1. / y
	}
	return

MATHPOW:
	y = math.Pow(x, float64(p))
	return
}
