package internal

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

// Registration codes are drawn uniformly from [100000, 999999]: always
// six digits, never a leading zero, 900000 equally likely values.
const (
	codeMin  = 100000
	codeSpan = 900000
)

// NewNumericCode returns a uniformly random 6-digit registration code.
func NewNumericCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+codeMin, 10), nil
}
