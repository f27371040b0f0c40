// Package scoring maps aggregated trade statistics onto the 0-100 Vantage
// score. The step curves live here as data so thresholds can be tested and
// tuned without touching the evaluation logic.
package scoring

// Band is one step of a scoring curve. Inclusive selects >= over > for the
// minimum bound comparison.
type Band struct {
	Min       float64
	Inclusive bool
	Score     float64
}

// Curve is an ordered list of bands, highest threshold first. Evaluation is
// top-down, first match wins; no match scores zero.
type Curve []Band

// Score evaluates the curve for a metric value. +Inf matches the top band.
func (c Curve) Score(value float64) float64 {
	for _, b := range c {
		if value > b.Min || (b.Inclusive && value == b.Min) {
			return b.Score
		}
	}
	return 0
}

// ratioCurve scores profit factor and average win/loss ratio.
var ratioCurve = Curve{
	{Min: 2.6, Inclusive: true, Score: 100},
	{Min: 2.2, Inclusive: true, Score: 80},
	{Min: 1.8, Inclusive: true, Score: 60},
	{Min: 1.5, Inclusive: true, Score: 40},
	{Min: 1.0, Inclusive: false, Score: 20},
}

// recoveryCurve scores the recovery factor.
var recoveryCurve = Curve{
	{Min: 3.5, Inclusive: true, Score: 100},
	{Min: 2.5, Inclusive: true, Score: 80},
	{Min: 1.8, Inclusive: true, Score: 60},
	{Min: 1.0, Inclusive: true, Score: 40},
}
