package game

// View returns a client-safe snapshot of the game. The dealer's hole card
// and any face-down player card are masked until the dealer's hand is
// complete; card identity is still included so the frontend can animate a
// reveal of the same physical card.
func (g *Game) View(playerID string) map[string]interface{} {
	revealed := g.State == StateFinished || g.State == StateSettled

	dealer := make([]map[string]interface{}, len(g.DealerCards))
	for i, c := range g.DealerCards {
		dealer[i] = cardView(c, revealed)
	}

	hands := make([]map[string]interface{}, len(g.Hands))
	for i, h := range g.Hands {
		// A player's own face-down cards are visible to them.
		own := h.PlayerID == playerID
		cards := make([]map[string]interface{}, len(h.Cards))
		for j, c := range h.Cards {
			cards[j] = cardView(c, revealed || own)
		}
		hands[i] = map[string]interface{}{
			"id":                h.ID,
			"seat":              h.Seat,
			"playerId":          h.PlayerID,
			"cards":             cards,
			"bet":               h.Bet,
			"isDoubled":         h.IsDoubled,
			"isInsured":         h.IsInsured,
			"isSplit":           h.IsSplit,
			"splitFromTenOrAce": h.SplitFromTenOrAce,
			"surrendered":       h.Surrendered,
			"result":            h.Result,
			"payout":            h.Payout,
		}
	}

	return map[string]interface{}{
		"id":          g.ID,
		"tableId":     g.TableID,
		"state":       g.State,
		"hands":       hands,
		"dealerCards": dealer,
		"currentHand": g.CurrentHand,
		"currentSeat": g.CurrentSeat,
		"rules":       g.Rules,
		"seats":       g.Seats,
		"updatedAt":   g.UpdatedAt,
	}
}

func cardView(c Card, reveal bool) map[string]interface{} {
	if !c.FaceUp && !reveal {
		return map[string]interface{}{
			"id":     c.ID,
			"faceUp": false,
		}
	}
	return map[string]interface{}{
		"id":     c.ID,
		"suit":   c.Suit,
		"rank":   c.Rank,
		"faceUp": c.FaceUp,
	}
}
