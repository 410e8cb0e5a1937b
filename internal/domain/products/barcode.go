package products

import (
	"math/rand/v2"
	"strings"
)

const BarcodeLength = 12

// NewBarcode returns a pseudo-random numeric identifier. It is not a
// checksummed symbology.
func NewBarcode() string {
	var sb strings.Builder
	sb.Grow(BarcodeLength)
	for i := 0; i < BarcodeLength; i++ {
		sb.WriteByte(byte('0' + rand.IntN(10)))
	}
	return sb.String()
}
