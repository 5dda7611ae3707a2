package utils

import (
    "crypto/rand"
    "errors"
    "math/big"
)

const digitAlphabet = "0123456789"

// RandomIndex returns a uniformly distributed integer in [0, n).
func RandomIndex(n int) (int, error) {
    if n <= 0 {
        return 0, errors.New("random index: n must be positive")
    }
    idxBig, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
    if err != nil {
        return 0, err
    }
    return int(idxBig.Int64()), nil
}

// RandomDigits returns n independent random decimal digits; leading zeros are kept.
func RandomDigits(n int) (string, error) {
    if n <= 0 {
        return "", errors.New("random digits: n must be positive")
    }
    b := make([]byte, n)
    for i := 0; i < n; i++ {
        idx, err := RandomIndex(len(digitAlphabet))
        if err != nil {
            return "", err
        }
        b[i] = digitAlphabet[idx]
    }
    return string(b), nil
}
