package canonical

import (
	"math"

	"github.com/industriverse/industriverse-sub012/domain/physics"
)

// Fixture is a cross-implementation test vector: another implementation of
// layout version 1 must reproduce Digest for the same inputs
type Fixture struct {
	Name     string                `json:"name"`
	Domain   physics.DomainID      `json:"domain"`
	Score    float64               `json:"score"`
	Features physics.FeatureVector `json:"features"`
	Digest   string                `json:"sha256"`
}

// Fixtures returns the golden vectors for LayoutVersion
func Fixtures() []Fixture {
	return []Fixture{
		{
			Name:   "zero",
			Domain: physics.MolecularDynamics,
			Digest: "00bf3a89fd94df247c4f577386ebc01dd3ddcc909c57b75d1ec091604ac763dc",
		},
		{
			Name:   "ramp",
			Domain: physics.CrystalLattice,
			Score:  0.5,
			Features: physics.FeatureVectorFromArray([physics.FeatureCount]float64{
				7.0 / 3.0, 0.408698, 0, 1, 0, 1, 7.5, math.Log(4), 0, 2.5625 / 1.5625, 2.5, math.Sqrt(1.25),
			}),
			Digest: "ef7384676d9c52070a8ea1cb94add1ba70a2bfa013d342201692937b784625c0",
		},
		{
			Name:   "tone",
			Domain: physics.Electromagnetic,
			Score:  0.967,
			Features: physics.FeatureVectorFromArray([physics.FeatureCount]float64{
				0.001938, 0, 8.0 / 129.0, -0.00077, 0.01914, 0.9809, 0.5, 2.74, 0, 1.5, 0, math.Sqrt(0.5),
			}),
			Digest: "4213b23d8c3ca53315d8f2b4e7d8c44254780e727525586815965b027b77666b",
		},
		{
			// none of these inputs is an exact binary half, but x*1e6 rounds to
			// one in binary64 and then rounds away from zero
			Name:   "binary64_product_halves",
			Domain: physics.Thermodynamic,
			Score:  1,
			Features: physics.FeatureVectorFromArray([physics.FeatureCount]float64{
				0.0000005, -0.0000005, 0.0000015, -0.0000025, 1e-7, -1e-7, 123.4567895, -123.4567895, 0, 0, 0, 0,
			}),
			Digest: "47fd8258ae5bfcf6a2dd159bfe22c9099810b96a6d262a546bfa98081ad51dd2",
		},
		{
			Name:   "saturated",
			Domain: physics.PlasmaPhysics,
			Score:  0.25,
			Features: physics.FeatureVectorFromArray([physics.FeatureCount]float64{
				1e300, -1e300, 9.3e12, -9.3e12, 0, 0, 0, 0, 0, 0, 0, 0,
			}),
			Digest: "8ea411b317f2c1c06e253cbb00f55f043dd6083e4111fa36e373881a738fafbd",
		},
	}
}
