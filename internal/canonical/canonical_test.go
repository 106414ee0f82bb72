package canonical

import (
	"encoding/hex"
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/industriverse/industriverse-sub012/domain/core"
	"github.com/industriverse/industriverse-sub012/domain/physics"
)

// TestFixtures checks the golden vectors of layout version 1
func TestFixtures(t *testing.T) {
	for _, fx := range Fixtures() {
		t.Run(fx.Name, func(t *testing.T) {
			got := Hash(fx.Domain, fx.Score, fx.Features)
			assert.Equal(t, fx.Digest, got.String())
		})
	}
}

func TestEncode_Layout(t *testing.T) {
	fv := physics.FeatureVectorFromArray([physics.FeatureCount]float64{
		7.0 / 3.0, 0.408698, 0, 1, 0, 1, 7.5, math.Log(4), 0, 2.5625 / 1.5625, 2.5, math.Sqrt(1.25),
	})
	buf := Encode(physics.CrystalLattice, 0.5, fv)

	require.Len(t, buf, EncodedSize)
	assert.Equal(t, 109, EncodedSize)
	assert.Equal(t, "0100000004000000000007a120", hex.EncodeToString(buf[:13]))
	// energy_density = 7.5 -> 7500000 at offset 13 + 6*8
	assert.Equal(t, "00000000007270e0", hex.EncodeToString(buf[61:69]))
}

func TestFixedPoint(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want int64
	}{
		{"zero", 0, 0},
		{"negative zero", math.Copysign(0, -1), 0},
		{"one", 1, 1_000_000},
		{"below resolution", 4e-7, 0},
		{"half up", 2.5e-6, 3},
		{"half down negative", -2.5e-6, -3},
		{"product rounds up to a half", 5e-7, 1},
		{"product rounds up to a half negative", -5e-7, -1},
		{"seventh digit product half", 123.4567895, 123_456_790},
		{"seventh digit product half negative", -123.4567895, -123_456_790},
		{"truncated digits", 1.23456789, 1_234_568},
		{"NaN", math.NaN(), 0},
		{"+Inf", math.Inf(1), math.MaxInt64},
		{"-Inf", math.Inf(-1), math.MinInt64},
		{"large", 1e14, math.MaxInt64},
		{"large negative", -1e14, math.MinInt64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FixedPoint(tt.in))
		})
	}
}

// TestFixedPoint_RoundsBinaryProduct pins the rounding to the binary64 product
// rather than the exact decimal value of the input
func TestFixedPoint_RoundsBinaryProduct(t *testing.T) {
	for _, x := range []float64{5e-7, -5e-7, 123.4567895, -123.4567895} {
		product := x * Scale
		require.Equal(t, 0.5, math.Abs(product-math.Trunc(product)), "x=%v", x)
		assert.Equal(t, int64(math.Round(product)), FixedPoint(x), "x=%v", x)

		// the exact value of x*1e6 lies strictly inside the half, toward zero
		exact := new(big.Float).SetPrec(256).Mul(new(big.Float).SetPrec(256).SetFloat64(x), big.NewFloat(Scale))
		exact.Abs(exact)
		half := new(big.Float).SetPrec(256).SetFloat64(math.Abs(product))
		assert.Equal(t, -1, exact.Cmp(half), "x=%v", x)
	}
}

func TestHash_RoundTrip(t *testing.T) {
	fv := Fixtures()[2].Features
	h := Hash(physics.Electromagnetic, 0.9, fv)

	parsed, err := core.ParseHash256(h.String())
	require.NoError(t, err)
	assert.True(t, h.Equals(parsed))
	assert.Equal(t, h, Hash(physics.Electromagnetic, 0.9, fv), "hashing is pure")

	// sub-resolution noise does not change the hash; a resolvable change does
	nudged := fv
	nudged.Mean += 1e-8
	assert.Equal(t, h, Hash(physics.Electromagnetic, 0.9, nudged))
	nudged.Mean += 1e-5
	assert.NotEqual(t, h, Hash(physics.Electromagnetic, 0.9, nudged))

	assert.NotEqual(t, h, Hash(physics.Thermodynamic, 0.9, fv))
	assert.NotEqual(t, h, Hash(physics.Electromagnetic, 0.8, fv))
}

func TestVerify(t *testing.T) {
	sig := physics.Signature{
		Features: Fixtures()[1].Features,
		Primary:  physics.CrystalLattice,
	}
	sig.Scores[physics.CrystalLattice] = 0.5
	sig.PDEHash = SignatureHash(sig)
	assert.True(t, Verify(sig))

	sig.Features.Kurtosis = 9
	assert.False(t, Verify(sig))
}
