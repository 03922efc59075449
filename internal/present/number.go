package present

import (
	"math/big"
	"strconv"
)

var (
	ten  = big.NewRat(10, 1)
	half = big.NewRat(1, 2)
)

// FormatNumber renders n compactly: values of 1000 or more become thousands
// with one decimal and a "k" suffix (1234 -> "1.2k"), smaller values print
// as plain integers. The quotient n/1000 is taken as a float64 and rounded
// on its exact binary value, ties upward, so 1150 gives "1.1k" and 1250
// gives "1.3k".
func FormatNumber(n int64) string {
	if n < 1000 {
		return strconv.FormatInt(n, 10)
	}
	q := new(big.Rat).SetFloat64(float64(n) / 1000)
	q.Mul(q, ten).Add(q, half)
	tenths := new(big.Int).Quo(q.Num(), q.Denom())
	whole, frac := new(big.Int).QuoRem(tenths, big.NewInt(10), new(big.Int))
	return whole.String() + "." + frac.String() + "k"
}
