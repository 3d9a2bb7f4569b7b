package registry

import (
	"crypto/rand"
	"math/big"
)

// Room codes avoid visually confusable characters (I, O, 0, 1) so they can
// be read out loud or retyped from a screenshot.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const codeLength = 4

// GenerateCode returns a random room code. Collisions are the caller's
// problem: regenerate until unused.
func GenerateCode() (string, error) {
	code := make([]byte, codeLength)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", err
		}
		code[i] = codeAlphabet[num.Int64()]
	}
	return string(code), nil
}
