// Package rank maps ranked ladder standings onto a single integer scale so
// that two standings can be compared and subtracted across tier boundaries.
package rank

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidRank = errors.New("invalid rank")

const (
	TierWidth     = 400
	DivisionWidth = 100
)

type Tier int

const (
	Iron Tier = iota
	Bronze
	Silver
	Gold
	Platinum
	Emerald
	Diamond
	Master
	Grandmaster
	Challenger
)

var tierNames = [...]string{
	Iron:        "Iron",
	Bronze:      "Bronze",
	Silver:      "Silver",
	Gold:        "Gold",
	Platinum:    "Platinum",
	Emerald:     "Emerald",
	Diamond:     "Diamond",
	Master:      "Master",
	Grandmaster: "Grandmaster",
	Challenger:  "Challenger",
}

func (t Tier) valid() bool {
	return t >= Iron && t <= Challenger
}

func (t Tier) String() string {
	if !t.valid() {
		return "Tier(" + strconv.Itoa(int(t)) + ")"
	}
	return tierNames[t]
}

// IsApex reports whether the tier has no divisions.
func (t Tier) IsApex() bool {
	return t >= Master
}

func (t Tier) Base() int {
	return int(t) * TierWidth
}

func ParseTier(s string) (Tier, error) {
	for i, name := range tierNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Tier(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown tier %q", ErrInvalidRank, s)
}

// Division is the I-IV subdivision of a non-apex tier. The zero value means
// no division and is the only valid value for apex tiers.
type Division int

const (
	NoDivision Division = iota
	IV
	III
	II
	I
)

var divisionNames = [...]string{
	IV:  "IV",
	III: "III",
	II:  "II",
	I:   "I",
}

func (d Division) String() string {
	if d < IV || d > I {
		return ""
	}
	return divisionNames[d]
}

func (d Division) offset() int {
	if d < IV || d > I {
		return 0
	}
	return int(d-IV) * DivisionWidth
}

func ParseDivision(s string) (Division, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "IV":
		return IV, nil
	case "III":
		return III, nil
	case "II":
		return II, nil
	case "I":
		return I, nil
	}
	return NoDivision, fmt.Errorf("%w: unknown division %q", ErrInvalidRank, s)
}

type Rank struct {
	Tier     Tier
	Division Division
	Points   int
}

// New validates the tier/division pair. Apex tiers drop any division.
func New(tier Tier, division Division, points int) (Rank, error) {
	if !tier.valid() {
		return Rank{}, fmt.Errorf("%w: unknown tier %d", ErrInvalidRank, int(tier))
	}
	if tier.IsApex() {
		return Rank{Tier: tier, Points: points}, nil
	}
	if division < IV || division > I {
		return Rank{}, fmt.Errorf("%w: %s requires a division", ErrInvalidRank, tier)
	}
	return Rank{Tier: tier, Division: division, Points: points}, nil
}

// Parse reads the upstream representation, e.g. ("GOLD", "I", 64). The
// division string is ignored for apex tiers since the API reports "I" there.
func Parse(tier, division string, points int) (Rank, error) {
	t, err := ParseTier(tier)
	if err != nil {
		return Rank{}, err
	}
	if t.IsApex() {
		return New(t, NoDivision, points)
	}
	d, err := ParseDivision(division)
	if err != nil {
		return Rank{}, err
	}
	return New(t, d, points)
}

// ToPoints places the rank on the ladder-wide scale. Points within the
// division are trusted as given and not clamped.
func (r Rank) ToPoints() int {
	if r.Tier.IsApex() {
		return r.Tier.Base() + r.Points
	}
	return r.Tier.Base() + r.Division.offset() + r.Points
}

// Difference is the signed movement from one rank to another.
func Difference(from, to Rank) int {
	return to.ToPoints() - from.ToPoints()
}

func (r Rank) Name() string {
	if r.Tier.IsApex() {
		return r.Tier.String()
	}
	return r.Tier.String() + " " + r.Division.String()
}

func (r Rank) String() string {
	return fmt.Sprintf("%s %d LP", r.Name(), r.Points)
}

func FormatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	}
	return strconv.Itoa(delta)
}
