package domain

import "github.com/shopspring/decimal"

// Tier is a loyalty bracket derived from a customer's cumulative spend.
type Tier string

const (
	TierNewMember Tier = "New Member"
	TierBronze    Tier = "Bronze"
	TierSilver    Tier = "Silver"
	TierGold      Tier = "Gold"
	TierPlatinum  Tier = "Platinum"
	TierVIP       Tier = "VIP"
)

type TierThreshold struct {
	Tier     Tier            `json:"tier"`
	MinSpent decimal.Decimal `json:"minSpent"`
}

// tierTable must stay sorted ascending by MinSpent.
var tierTable = []TierThreshold{
	{Tier: TierNewMember, MinSpent: decimal.Zero},
	{Tier: TierBronze, MinSpent: decimal.NewFromInt(2_000_000)},
	{Tier: TierSilver, MinSpent: decimal.NewFromInt(5_000_000)},
	{Tier: TierGold, MinSpent: decimal.NewFromInt(10_000_000)},
	{Tier: TierPlatinum, MinSpent: decimal.NewFromInt(25_000_000)},
	{Tier: TierVIP, MinSpent: decimal.NewFromInt(50_000_000)},
}

// Tiers returns a copy of the tier table, lowest first.
func Tiers() []TierThreshold {
	out := make([]TierThreshold, len(tierTable))
	copy(out, tierTable)
	return out
}

// TierOf returns the highest tier whose threshold does not exceed totalSpent.
func TierOf(totalSpent decimal.Decimal) Tier {
	for i := len(tierTable) - 1; i >= 0; i-- {
		if totalSpent.GreaterThanOrEqual(tierTable[i].MinSpent) {
			return tierTable[i].Tier
		}
	}
	return TierNewMember
}

// Rank is the tier's position in the ladder, or -1 for an unknown tier.
func (t Tier) Rank() int {
	for i, th := range tierTable {
		if th.Tier == t {
			return i
		}
	}
	return -1
}

type TierProgress struct {
	Current    Tier            `json:"current"`
	TotalSpent decimal.Decimal `json:"totalSpent"`
	Next       Tier            `json:"next,omitempty"`
	NextAt     decimal.Decimal `json:"nextAt"`
	Remaining  decimal.Decimal `json:"remaining"`
}

// NextTier describes how far totalSpent is from the next tier. At the top
// tier Next is empty and Remaining is zero.
func NextTier(totalSpent decimal.Decimal) TierProgress {
	current := TierOf(totalSpent)
	p := TierProgress{Current: current, TotalSpent: totalSpent}

	rank := current.Rank()
	if rank+1 >= len(tierTable) {
		p.NextAt = tierTable[rank].MinSpent
		p.Remaining = decimal.Zero
		return p
	}

	next := tierTable[rank+1]
	p.Next = next.Tier
	p.NextAt = next.MinSpent
	p.Remaining = next.MinSpent.Sub(totalSpent)
	return p
}
