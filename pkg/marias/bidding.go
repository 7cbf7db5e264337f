package marias

// startBidding moves the game into BIDDING with the seat after the dealer to act
func startBidding(s *GameState) {
	order := make([]string, 0, len(s.PlayerOrder))
	for i := 1; i <= len(s.PlayerOrder); i++ {
		order = append(order, s.seatFromDealer(i))
	}

	s.Bidding = newBiddingState(order)
	for id, p := range s.Players {
		p.HasPassed = false
		s.Players[id] = p
	}

	s.Phase = PhaseBidding
	s.CurrentPlayerIndex = (s.DealerIndex + 1) % len(s.PlayerOrder)
}

// nextActiveBidder returns the index of the next seat after from that has not passed
func nextActiveBidder(s *GameState, from int) int {
	n := len(s.PlayerOrder)
	for i := 1; i <= n; i++ {
		idx := (from + i) % n
		if !s.Bidding.PassedPlayers[s.PlayerOrder[idx]] {
			return idx
		}
	}

	return from
}

func activeBidders(s *GameState) []string {
	active := make([]string, 0, len(s.PlayerOrder))
	for _, id := range s.PlayerOrder {
		if !s.Bidding.PassedPlayers[id] {
			active = append(active, id)
		}
	}

	return active
}

func reducePlaceBid(s *GameState, a PlaceBid) *GameState {
	next := s.clone()
	next.Bidding.CurrentBid = a.Contract
	next.Bidding.BidderID = a.PlayerID
	next.CurrentPlayerIndex = nextActiveBidder(next, s.indexOf(a.PlayerID))
	return next
}

func reducePass(s *GameState, a Pass) *GameState {
	next := s.clone()
	next.Bidding.PassedPlayers[a.PlayerID] = true

	p := next.Players[a.PlayerID]
	p.HasPassed = true
	next.Players[a.PlayerID] = p

	active := activeBidders(next)
	if len(active) > 1 {
		next.CurrentPlayerIndex = nextActiveBidder(next, s.indexOf(a.PlayerID))
		return next
	}

	// bidding is over
	if next.Bidding.CurrentBid != "" {
		next.DeclarerID = next.Bidding.BidderID
		next.GameType = next.Bidding.CurrentBid
	} else {
		next.DeclarerID = next.DealerID()
		next.GameType = s.options.BaseContract()
	}

	next.Phase = PhaseTalonExchange
	next.CurrentPlayerIndex = next.indexOf(next.DeclarerID)
	return next
}
