package ident

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

// New returns a collision-resistant identifier usable as a map or list key.
// It prefers a canonical UUID v4 and degrades through weaker sources rather
// than failing: uuid.NewRandom, then raw crypto/rand bytes assembled into a
// v4 layout, then a timestamp-plus-suffix form that is only unique within a
// single session.
func New() string {
	if id, err := uuid.NewRandom(); err == nil {
		return id.String()
	}

	var b [16]byte
	if _, err := rand.Read(b[:]); err == nil {
		b[6] = (b[6] & 0x0f) | 0x40 // version 4
		b[8] = (b[8] & 0x3f) | 0x80 // variant 10
		dst := make([]byte, 36)
		hex.Encode(dst, b[:4])
		dst[8] = '-'
		hex.Encode(dst[9:], b[4:6])
		dst[13] = '-'
		hex.Encode(dst[14:], b[6:8])
		dst[18] = '-'
		hex.Encode(dst[19:], b[8:10])
		dst[23] = '-'
		hex.Encode(dst[24:], b[10:])
		return string(dst)
	}

	return fmt.Sprintf("id-%d-%s", time.Now().UnixMilli(), weakSuffix())
}

func weakSuffix() string {
	// Last-resort path, used only when the crypto source is unavailable.
	n, err := rand.Int(rand.Reader, big.NewInt(1<<31))
	if err != nil {
		n = big.NewInt(time.Now().UnixNano() & 0x7fffffff)
	}
	return fmt.Sprintf("%08x", n.Int64())
}
