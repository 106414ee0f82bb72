// Package canonical defines the versioned byte layout a signature is hashed
// over. Any implementation that follows the layout produces bit-identical
// hashes for the same logical input.
//
// Layout version 1 (109 bytes):
//
//	offset  size  field
//	0       1     version byte (0x01)
//	1       4     primary domain ordinal, uint32 big-endian
//	5       8     primary score, fixed point int64 big-endian
//	13      96    12 features in canonical order, fixed point int64 big-endian
//
// Fixed point is computed in two steps:
//
//  1. p = x*1e6 as one IEEE-754 binary64 multiply, round-to-nearest-even
//  2. p rounded half away from zero to an integer, saturated to the int64
//     range
//
// The product is rounded before the half-away step, so an input whose exact
// decimal value lies just below a half (0.0000005 is 4.99999999999999977e-7)
// still encodes as if it were the half. Implementations that round the exact
// decimal value of x instead produce different bytes. NaN encodes as 0.
package canonical

import (
	"encoding/binary"
	"math"

	"github.com/industriverse/industriverse-sub012/domain/core"
	"github.com/industriverse/industriverse-sub012/domain/physics"
)

const (
	// LayoutVersion is the first byte of every encoding
	LayoutVersion byte = 0x01
	// Scale is the fixed-point multiplier (six decimal places)
	Scale = 1e6
	// EncodedSize is the length of a version 1 encoding
	EncodedSize = 1 + 4 + 8 + physics.FeatureCount*8
)

// Encode serializes the hashed fields of a signature
func Encode(domain physics.DomainID, score float64, fv physics.FeatureVector) []byte {
	buf := make([]byte, EncodedSize)
	buf[0] = LayoutVersion
	binary.BigEndian.PutUint32(buf[1:5], uint32(domain))
	binary.BigEndian.PutUint64(buf[5:13], uint64(FixedPoint(score)))

	off := 13
	for _, v := range fv.Array() {
		binary.BigEndian.PutUint64(buf[off:off+8], uint64(FixedPoint(v)))
		off += 8
	}
	return buf
}

// Hash returns SHA-256 over Encode
func Hash(domain physics.DomainID, score float64, fv physics.FeatureVector) core.Hash256 {
	return core.NewHash256(Encode(domain, score, fv))
}

// SignatureHash hashes the primary domain, its score and the features of sig
func SignatureHash(sig physics.Signature) core.Hash256 {
	return Hash(sig.Primary, sig.PrimaryScore(), sig.Features)
}

// Verify reports whether sig carries the hash of its own content
func Verify(sig physics.Signature) bool {
	return SignatureHash(sig).Equals(sig.PDEHash)
}

// FixedPoint converts x to its canonical int64 form: the binary64 product
// x*Scale rounded half away from zero
func FixedPoint(x float64) int64 {
	if math.IsNaN(x) {
		return 0
	}
	r := math.Round(x * Scale)
	switch {
	case r >= 0x1p63:
		return math.MaxInt64
	case r <= -0x1p63:
		return math.MinInt64
	}
	return int64(r)
}
