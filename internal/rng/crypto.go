package rng

import (
	"crypto/rand"
	"math/big"
)

// Crypto draws from crypto/rand
// Live deals use it so that a shuffle cannot be predicted from earlier ones.
type Crypto struct{}

// Intn returns a uniform number in [0, n)
func (Crypto) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn called with n <= 0")
	}

	b, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}

	return int(b.Int64())
}
