package valueobjects

import (
	"fmt"
	"math/big"
)

// PercentageScale is the decimal scale for percentages. Percentages are
// informational (they annotate splits) but still use exact fixed-point
// arithmetic so that 1/3 records as 33.3333%, never 33.333299...%.
const PercentageScale = 4

// percentageUnit is 10^PercentageScale.
const percentageUnit = 10000

// Percentage is a fixed-point percent value at scale 4.
// 33.3333% is stored as 333333.
type Percentage struct {
	units int64
}

// NewPercentageFromRatio computes part/whole as a percentage, half-up at
// scale 4. Returns the zero percentage when whole is zero, matching the
// original behavior of reporting 0% against a zero total.
func NewPercentageFromRatio(part, whole int64) Percentage {
	if whole == 0 {
		return Percentage{}
	}
	p := new(big.Int).Mul(big.NewInt(part), big.NewInt(100*percentageUnit))
	return Percentage{units: bigDivRoundHalfUp(p, big.NewInt(whole)).Int64()}
}

// NewPercentageFromUnits creates a Percentage from raw scale-4 units.
// This is the storage format.
func NewPercentageFromUnits(units int64) Percentage {
	return Percentage{units: units}
}

// Units returns the raw scale-4 value.
func (p Percentage) Units() int64 {
	return p.units
}

// IsZero reports whether the percentage is zero.
func (p Percentage) IsZero() bool {
	return p.units == 0
}

// Equals compares two percentages exactly.
func (p Percentage) Equals(other Percentage) bool {
	return p.units == other.units
}

// String formats the percentage, e.g. "33.3333%".
func (p Percentage) String() string {
	u := p.units
	sign := ""
	if u < 0 {
		sign = "-"
		u = -u
	}
	return fmt.Sprintf("%s%d.%04d%%", sign, u/percentageUnit, u%percentageUnit)
}
