package game

// RuleSet is the table configuration. Every toggle is independent; the
// defaults mirror a common 6-deck shoe game paying 3:2 on blackjack.
type RuleSet struct {
	Seats                       int     `json:"seats"`
	Packs                       int     `json:"packs"`
	MinBet                      int     `json:"minBet"`
	MaxBet                      int     `json:"maxBet"`
	BetIncrement                int     `json:"betIncrement"`
	AllowEarlySurrender         bool    `json:"allowEarlySurrender"`
	AllowLateSurrender          bool    `json:"allowLateSurrender"`
	AllowableDoubleDownTotals   []int   `json:"allowableDoubleDownTotals"`
	NumberOfSplitsAllowed       int     `json:"numberOfSplitsAllowed"`
	AllowSplitsForAll10Cards    bool    `json:"allowSplitsForAll10Cards"`
	AllowDoublingAfterSplit     bool    `json:"allowDoublingAfterSplit"`
	PayoutForBlackjack          float64 `json:"payoutForBlackjack"` // 3:2 == 1.5, 6:5 == 1.2
	DealPlayersCardsFaceDown    bool    `json:"dealPlayersCardsFaceDown"`
	DealerStandsOnSoft17        bool    `json:"dealerStandsOnSoft17"`
	FiveCardCharlieWins         bool    `json:"fiveCardCharlieWins"`
	InsuranceAvailable          bool    `json:"insuranceAvailable"`
	SecondsAllowedPerAction     int     `json:"secondsAllowedPerAction"`
	CanOnlyHitOnceAfterAceSplit bool    `json:"canOnlyHitOnceAfterAceSplit"`
}

// DefaultRules returns the house defaults.
func DefaultRules() RuleSet {
	return RuleSet{
		Seats:                       5,
		Packs:                       6,
		MinBet:                      5,
		MaxBet:                      2000,
		BetIncrement:                5,
		AllowEarlySurrender:         false,
		AllowLateSurrender:          false,
		AllowableDoubleDownTotals:   []int{9, 10, 11},
		NumberOfSplitsAllowed:       3,
		AllowSplitsForAll10Cards:    true,
		AllowDoublingAfterSplit:     true,
		PayoutForBlackjack:          1.5,
		DealPlayersCardsFaceDown:    false,
		DealerStandsOnSoft17:        true,
		FiveCardCharlieWins:         false,
		InsuranceAvailable:          true,
		SecondsAllowedPerAction:     30,
		CanOnlyHitOnceAfterAceSplit: true,
	}
}

// canDoubleOn reports whether the configured totals allow doubling down on
// the given hand total.
func (r RuleSet) canDoubleOn(total int) bool {
	for _, t := range r.AllowableDoubleDownTotals {
		if t == total {
			return true
		}
	}
	return false
}
