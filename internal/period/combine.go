package period

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
)

// Combine errors.
var (
	ErrNoPeriods     = errors.New("no periods to combine")
	ErrInvalidPeriod = errors.New("period must be positive")
	ErrOverflow      = errors.New("combined period overflows int64")
)

// Combination merges the periods of several subsystems.
//
// LCM is the number of presses after which every subsystem is back at the
// state its period was measured from at the same time. Product is the
// plain product of the periods; it equals LCM exactly when Coprime is true.
type Combination struct {
	Periods []int64 `json:"periods"`
	Product int64   `json:"product"`
	LCM     int64   `json:"lcm"`
	Coprime bool    `json:"coprime"` // periods are pairwise coprime
}

// Combine returns the combination of periods. Every period must be
// positive and neither the product nor the LCM may overflow int64.
func Combine(periods []int64) (*Combination, error) {
	if len(periods) == 0 {
		return nil, ErrNoPeriods
	}
	c := &Combination{
		Periods: append([]int64(nil), periods...),
		Product: 1,
		LCM:     1,
		Coprime: true,
	}
	for i, p := range periods {
		if p <= 0 {
			return nil, fmt.Errorf("%w: periods[%d] = %d", ErrInvalidPeriod, i, p)
		}
		for _, q := range periods[:i] {
			if gcd(p, q) != 1 {
				c.Coprime = false
			}
		}

		var ok bool
		if c.Product, ok = mul(c.Product, p); !ok {
			return nil, fmt.Errorf("%w: product of %v", ErrOverflow, periods)
		}
		if c.LCM, ok = mul(c.LCM/gcd(c.LCM, p), p); !ok {
			return nil, fmt.Errorf("%w: lcm of %v", ErrOverflow, periods)
		}
	}
	return c, nil
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// mul multiplies two positive values, reporting false on overflow.
func mul(a, b int64) (int64, bool) {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 || lo > math.MaxInt64 {
		return 0, false
	}
	return int64(lo), true
}
