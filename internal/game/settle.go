package game

// DealerOutcome is everything settlement needs to know about the dealer.
type DealerOutcome struct {
	Total     int
	Blackjack bool
	Bust      bool
}

// EvaluateDealer scores a completed dealer hand for settlement. Settlement
// compares true totals, so the player rule applies here; the dealer-specific
// ace boundary only drives the drawing decision.
func EvaluateDealer(cards []Card) DealerOutcome {
	total := Total(cards)
	return DealerOutcome{
		Total:     total,
		Blackjack: IsBlackjack(cards, total, nil),
		Bust:      total > 21,
	}
}

// SettleHand scores one finished hand against the dealer and returns the
// result plus the payout. The payout is the total amount returned to the
// player including the stake; the bet was already debited when placed, so
// the ledger credit applies the full payout.
func SettleHand(h *Hand, dealer DealerOutcome, rules RuleSet) (HandResult, int) {
	total := Total(h.Cards)
	isBust := total > 21
	// A five-card charlie only beats the dealer's total; it never excuses an
	// actual bust.
	hasFive := rules.FiveCardCharlieWins && len(h.Cards) >= 5 && !isBust
	hasBlackjack := IsBlackjack(h.Cards, total, h)

	var result HandResult
	var multiplier float64

	switch {
	case h.Surrendered:
		result = ResultSurrender
		multiplier = 0.5
	case isBust || (!hasFive && total < dealer.Total && !dealer.Bust):
		if h.IsInsured {
			// Insurance turns a losing hand into a break-even one.
			result = ResultInsurance
			multiplier = 1
		} else {
			result = ResultLoss
			multiplier = 0
		}
	case !hasBlackjack && (total > dealer.Total || hasFive || dealer.Bust):
		result = ResultWin
		if h.IsDoubled {
			multiplier = 4
		} else {
			multiplier = 2
		}
	case hasBlackjack && !dealer.Blackjack:
		result = ResultBlackjack
		multiplier = 1 + rules.PayoutForBlackjack
	default:
		result = ResultPush
		multiplier = 1
	}

	return result, int(float64(h.Bet) * multiplier)
}
