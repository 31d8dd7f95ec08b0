package trending

import (
	"math"
	"time"

	"booktrack/internal/feed"
)

const (
	momentumBonus   = 20.0
	weeksBonusCap   = 20.0
	unrankedBase    = 60.0
	recencyCutoff   = 90 // days
	recencyBonusMax = 30.0
)

// Score computes the trending score for a candidate. It is pure: same
// candidate and reference time, same score.
//
// Ranked candidates: max(0, 100-rank), +20 when the rank improved on a
// known previous week, plus up to 20 for weeks on the list. Unranked
// candidates: a flat base plus a recency bonus that decays over the
// first 90 days after publication. Absent optional signals contribute
// zero.
func Score(c feed.Candidate, now time.Time) float64 {
	if c.Rank > 0 {
		score := math.Max(0, float64(100-c.Rank))
		if c.RankLastWeek > 0 && c.Rank < c.RankLastWeek {
			score += momentumBonus
		}
		score += math.Min(weeksBonusCap, float64(c.WeeksOnList))
		return score
	}

	score := unrankedBase
	if c.Published != nil {
		days := int(now.Sub(*c.Published).Hours() / 24)
		if days >= 0 && days <= recencyCutoff {
			score += math.Max(0, recencyBonusMax-float64(days)/3)
		}
	}
	return score
}
