package internal

import (
	"math"
	"strings"
)

// Tier is ordered strongest first, so the constant value is also the tier
// index used by Score.
type Tier int

const (
	TierChallenger Tier = iota
	TierGrandmaster
	TierMaster
	TierDiamond
	TierEmerald
	TierPlatinum
	TierGold
	TierSilver
	TierBronze
	TierIron
	TierUnranked
)

var tierNames = [...]string{
	TierChallenger:  "CHALLENGER",
	TierGrandmaster: "GRANDMASTER",
	TierMaster:      "MASTER",
	TierDiamond:     "DIAMOND",
	TierEmerald:     "EMERALD",
	TierPlatinum:    "PLATINUM",
	TierGold:        "GOLD",
	TierSilver:      "SILVER",
	TierBronze:      "BRONZE",
	TierIron:        "IRON",
	TierUnranked:    "UNRANKED",
}

// Tiers lists every tier from strongest to weakest.
func Tiers() []Tier {
	tiers := make([]Tier, 0, len(tierNames))
	for t := TierChallenger; t <= TierUnranked; t++ {
		tiers = append(tiers, t)
	}
	return tiers
}

func (t Tier) String() string {
	if t < TierChallenger || t > TierUnranked {
		return tierNames[TierUnranked]
	}
	return tierNames[t]
}

// ParseTier never fails: anything it does not recognise is unranked.
func ParseTier(s string) Tier {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, name := range tierNames {
		if name == s {
			return Tier(i)
		}
	}
	return TierUnranked
}

type Division int

const (
	DivisionUnknown Division = iota - 1
	DivisionI
	DivisionII
	DivisionIII
	DivisionIV
)

var divisionNames = [...]string{"I", "II", "III", "IV"}

func (d Division) String() string {
	if d < DivisionI || d > DivisionIV {
		return ""
	}
	return divisionNames[d]
}

func ParseDivision(s string) Division {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, name := range divisionNames {
		if name == s {
			return Division(i)
		}
	}
	return DivisionUnknown
}

// scoreIndex places an unknown division at the bottom of its tier.
func (d Division) scoreIndex() int {
	if d < DivisionI || d > DivisionIV {
		return int(DivisionIV)
	}
	return int(d)
}

const (
	tierWeight     = 10000
	divisionWeight = 1000
)

// Score packs tier, division and league points into one integer where lower
// means stronger. The packing only holds while lp < 1000 and the division
// index stays below 10; neither is checked. Unranked always scores
// math.MaxInt.
func Score(tier Tier, division Division, lp int) int {
	if tier == TierUnranked {
		return math.MaxInt
	}
	return int(tier)*tierWeight + division.scoreIndex()*divisionWeight + lp
}

type Role string

const (
	RoleTop     Role = "top"
	RoleJungle  Role = "jungle"
	RoleMid     Role = "mid"
	RoleADC     Role = "adc"
	RoleSupport Role = "support"
	RoleUnknown Role = "unknown"
)

// ParseRole accepts the upstream "supp" spelling for support.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top":
		return RoleTop
	case "jungle":
		return RoleJungle
	case "mid":
		return RoleMid
	case "adc":
		return RoleADC
	case "supp", "support":
		return RoleSupport
	default:
		return RoleUnknown
	}
}
