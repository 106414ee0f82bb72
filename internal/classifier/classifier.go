// Package classifier scores a feature vector against the seven reference
// domain templates.
//
// Features and centres are compressed with t(x) = sign(x)*ln(1+|x|) before
// the weighted Euclidean distance is taken, which keeps distances finite for
// any finite input. Scores are a softmax over -distance/temperature, shifted
// by the minimum distance so at least one term is exactly exp(0).
package classifier

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/industriverse/industriverse-sub012/domain/physics"
)

// Classifier holds a validated template table. It is immutable after
// construction and safe for concurrent use.
type Classifier struct {
	set     TemplateSet
	centers [physics.DomainCount][physics.FeatureCount]float64
}

// New validates the template table and precomputes compressed centres
func New(set TemplateSet) (*Classifier, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}
	c := &Classifier{set: set}
	for d, tpl := range set.Templates {
		for i, v := range tpl.Center {
			c.centers[d][i] = compress(v)
		}
	}
	return c, nil
}

// Default returns a classifier over the built-in template table
func Default() *Classifier {
	c, err := New(DefaultTemplateSet())
	if err != nil {
		panic("classifier: built-in template table is invalid: " + err.Error())
	}
	return c
}

// Templates returns a copy of the table in use
func (c *Classifier) Templates() TemplateSet {
	return c.set
}

// Version reports the template table version
func (c *Classifier) Version() string {
	return c.set.Version
}

// Distances returns the weighted distance to every domain centre.
// Non-finite distances come back as +Inf.
func (c *Classifier) Distances(fv physics.FeatureVector) [physics.DomainCount]float64 {
	raw := fv.Array()
	var point [physics.FeatureCount]float64
	for i, v := range raw {
		point[i] = compress(v)
	}

	var out [physics.DomainCount]float64
	diff := make([]float64, physics.FeatureCount)
	for d := range c.centers {
		floats.SubTo(diff, point[:], c.centers[d][:])
		floats.Mul(diff, diff)
		sq := floats.Dot(diff, c.set.Templates[d].Weights[:])
		dist := math.Sqrt(sq)
		if math.IsNaN(dist) {
			dist = math.Inf(1)
		}
		out[d] = dist
	}
	return out
}

// Classify returns a complete 7-entry score set summing to 1 within rounding
func (c *Classifier) Classify(fv physics.FeatureVector) physics.DomainScores {
	dist := c.Distances(fv)

	minDist := math.Inf(1)
	for _, d := range dist {
		if d < minDist {
			minDist = d
		}
	}

	var scores physics.DomainScores
	if math.IsInf(minDist, 1) {
		// Nothing is measurable; fall back to the uninformative distribution.
		for i := range scores {
			scores[i] = 1.0 / physics.DomainCount
		}
		return scores
	}

	total := 0.0
	for i, d := range dist {
		scores[i] = math.Exp(-(d - minDist) / c.set.Temperature)
		total += scores[i]
	}
	for i := range scores {
		scores[i] /= total
	}
	return scores
}

// compress maps x to sign(x)*ln(1+|x|)
func compress(x float64) float64 {
	return math.Copysign(math.Log1p(math.Abs(x)), x)
}
