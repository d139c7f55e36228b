package service

import "sort"

// randSource is the randomness needed by the reward policy and engines.
// *math/rand.Rand satisfies it; tests substitute scripted draws.
type randSource interface {
	Float64() float64
	Int63n(n int64) int64
}

// FixedTier is a special reward paying an exact amount.
type FixedTier struct {
	Points      int64
	Probability float64
	Description string
}

// RangeTier is a special reward paying a uniform amount within a range.
type RangeTier struct {
	Min, Max    int64
	Probability float64
	Description string
}

// RewardPolicy is the ordered tier table for check-in rewards.
// Range tiers are evaluated first, ordered by descending upper bound, then
// fixed tiers by descending value; each tier draws independently and the
// first hit wins. When nothing hits, the reward is uniform in the base range.
type RewardPolicy struct {
	BaseMin, BaseMax int64
	Fixed            []FixedTier
	Ranges           []RangeTier
}

// DefaultRewardPolicy returns the stock tier table. The values must stay
// stable across releases so existing ledgers keep their reward distribution.
func DefaultRewardPolicy(baseMin, baseMax int64) *RewardPolicy {
	p := &RewardPolicy{
		BaseMin: baseMin,
		BaseMax: baseMax,
		Fixed: []FixedTier{
			// 50 积分的描述在消息层按星期四动态生成
			{Points: 50, Probability: 0.2, Description: ""},
			{Points: 213, Probability: 0.02, Description: "才不是2B呢"},
			{Points: 648, Probability: 0.01, Description: "拿去充二游吧"},
		},
		Ranges: []RangeTier{
			{Min: 51, Max: 200, Probability: 0.1, Description: "运气不错哦"},
		},
	}
	p.normalize()
	return p
}

// normalize puts the tiers into evaluation order.
func (p *RewardPolicy) normalize() {
	sort.Slice(p.Ranges, func(i, j int) bool {
		return p.Ranges[i].Max > p.Ranges[j].Max
	})
	sort.Slice(p.Fixed, func(i, j int) bool {
		return p.Fixed[i].Points > p.Fixed[j].Points
	})
}

// Draw evaluates the tier table and returns the reward amount together with
// the winning tier's description (empty for the base tier).
func (p *RewardPolicy) Draw(rng randSource) (int64, string) {
	for _, tier := range p.Ranges {
		if rng.Float64() < tier.Probability {
			points := tier.Min + rng.Int63n(tier.Max-tier.Min+1)
			return points, tier.Description
		}
	}

	for _, tier := range p.Fixed {
		if rng.Float64() < tier.Probability {
			return tier.Points, tier.Description
		}
	}

	return p.BaseMin + rng.Int63n(p.BaseMax-p.BaseMin+1), ""
}
