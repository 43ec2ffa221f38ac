package game

import "sort"

// Hand evaluation is done over a value-sorted copy of the cards so that aces
// are resolved last. Evaluating in dealt order can misjudge a hand: [3, A, 10]
// must come out as 14, not the 24 you get by naively taking the ace as 11
// before seeing the ten.

// sortByValue returns a copy of cards ordered by ascending blackjack value,
// which pushes aces (value 11) to the end.
func sortByValue(cards []Card) []Card {
	sorted := make([]Card, len(cards))
	copy(sorted, cards)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value() < sorted[j].Value()
	})
	return sorted
}

// handTotal is the shared totalling rule. All aces but the last count as 1.
// For a player the last ace counts as 11 whenever that stays at or under 21.
// The dealer only takes the last ace as 11 when that lands the total inside
// the standing range: 17-21 normally, 18-21 when the dealer hits soft 17s.
func handTotal(cards []Card, isDealer, dealerStandsOnSoft17 bool) int {
	aces := 0
	for _, c := range cards {
		if c.Rank == Ace {
			aces++
		}
	}

	floor := 17
	if !dealerStandsOnSoft17 {
		floor = 18
	}

	total := 0
	seen := 0
	for _, c := range sortByValue(cards) {
		if c.Rank != Ace {
			total += c.Value()
			continue
		}
		seen++
		high := total + 11
		switch {
		case seen != aces:
			total++
		case isDealer:
			if high <= 21 && high >= floor {
				total = high
			} else {
				total++
			}
		default:
			if high <= 21 {
				total = high
			} else {
				total++
			}
		}
	}
	return total
}

// Total returns the value of a player hand.
func Total(cards []Card) int {
	return handTotal(cards, false, false)
}

// DealerTotal returns the value of the dealer's hand for the purpose of the
// drawing decision.
func DealerTotal(cards []Card, dealerStandsOnSoft17 bool) int {
	return handTotal(cards, true, dealerStandsOnSoft17)
}

// IsSoft17 reports whether the hand is a 17 with an ace counted as 11.
func IsSoft17(cards []Card) bool {
	if Total(cards) != 17 {
		return false
	}
	hasAce := false
	rest := make([]Card, 0, len(cards))
	for _, c := range cards {
		if c.Rank == Ace {
			hasAce = true
			continue
		}
		rest = append(rest, c)
	}
	if !hasAce {
		return false
	}
	// If the non-ace cards already exceed 6, no ace is being counted as 11.
	return Total(rest) <= 6
}

// DealerShouldStop reports whether the dealer is done drawing.
func DealerShouldStop(cards []Card, dealerStandsOnSoft17 bool) bool {
	if DealerTotal(cards, dealerStandsOnSoft17) > 17 {
		return true
	}
	return IsSoft17(cards) && dealerStandsOnSoft17
}

// IsBlackjack reports whether a two-card 21 counts as blackjack. Pass a nil
// hand for the dealer. A 21 built from a hand split out of tens or aces pays
// even money, not blackjack odds, so it does not qualify.
func IsBlackjack(cards []Card, total int, hand *Hand) bool {
	if total != 21 || len(cards) != 2 {
		return false
	}
	if hand == nil {
		return true
	}
	return !hand.SplitFromTenOrAce
}

// IsBust reports whether the hand total exceeds 21.
func IsBust(cards []Card) bool {
	return Total(cards) > 21
}
