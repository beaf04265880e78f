package consensus

import (
	"fmt"

	"github.com/samber/lo"
)

type Quality struct {
	Length   int
	Masked   int
	Fraction float64
	High     bool
}

// Classify computes the unmasked fraction. A genome is high quality only when the
// fraction is strictly greater than minFraction.
func Classify(seq []byte, minFraction float64) Quality {
	q := Quality{Length: len(seq), Masked: lo.Count(seq, Masked)}
	if q.Length > 0 {
		q.Fraction = float64(q.Length-q.Masked) / float64(q.Length)
	}
	q.High = q.Fraction > minFraction
	return q
}

func (q Quality) Label() string {
	if q.High {
		return "high quality genome"
	}
	return "low quality genome"
}

// String is the diagnostic line of the nanopolish workflow; the double space after
// "=" is kept because run reports are grepped for it.
func (q Quality) String() string {
	return fmt.Sprintf("%s, coverage =  %v", q.Label(), q.Fraction)
}
