package handanalyzer

import (
	"fmt"
	"sort"

	"holdem-server/pkg/deck"
)

// strengthBase is larger than any rank, so tiebreak ranks never overflow into the next slot
const strengthBase = 15

// Result is the best hand that can be made from a set of cards
type Result struct {
	Hand Hand `json:"hand"`

	// Cards is the best five (or fewer), ordered by significance
	Cards deck.Hand `json:"cards"`

	// Tiebreak is the list of ranks compared, in order, when two hands share a category
	Tiebreak []int `json:"tiebreak"`

	// Strength orders results by category first, then tiebreak
	Strength int `json:"strength"`
}

// Evaluate returns the best five card hand that can be made from up to seven cards
// With fewer than five cards, only rank groups (pairs, trips, quads) are possible
func Evaluate(cards []*deck.Card) *Result {
	if len(cards) == 0 || len(cards) > 7 {
		panic(fmt.Sprintf("cannot evaluate %d cards", len(cards)))
	}

	if len(cards) <= 5 {
		return evaluate(cards)
	}

	var best *Result
	combo := make([]*deck.Card, 5)
	var choose func(start, depth int)
	choose = func(start, depth int) {
		if depth == 5 {
			if r := evaluate(combo); best == nil || r.Strength > best.Strength {
				best = r
			}

			return
		}

		for i := start; i <= len(cards)-(5-depth); i++ {
			combo[depth] = cards[i]
			choose(i+1, depth+1)
		}
	}

	choose(0, 0)
	return best
}

// Compare returns 1 if a beats b, -1 if b beats a, and 0 on a tie
func Compare(a, b *Result) int {
	switch {
	case a.Strength > b.Strength:
		return 1
	case a.Strength < b.Strength:
		return -1
	}

	return 0
}

// group is a set of cards sharing a rank
type group struct {
	rank  int
	cards deck.Hand
}

// evaluate ranks exactly the cards given (at most five)
func evaluate(cards []*deck.Card) *Result {
	sorted := make(deck.Hand, len(cards))
	copy(sorted, cards)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rank > sorted[j].Rank
	})

	groups := groupByRank(sorted)

	if len(sorted) == 5 {
		straightHigh, straightCards := findStraight(sorted)
		flush := isFlush(sorted)

		switch {
		case straightHigh > 0 && flush:
			return newResult(StraightFlush, straightCards, []int{straightHigh})
		case flush:
			return newResult(Flush, sorted, ranksOf(sorted))
		case straightHigh > 0:
			return newResult(Straight, straightCards, []int{straightHigh})
		}
	}

	ordered := make(deck.Hand, 0, len(sorted))
	tiebreak := make([]int, 0, len(groups))
	for _, g := range groups {
		ordered = append(ordered, g.cards...)
		tiebreak = append(tiebreak, g.rank)
	}

	var hand Hand
	switch {
	case len(groups[0].cards) == 4:
		hand = FourOfAKind
	case len(groups[0].cards) == 3 && len(groups) > 1 && len(groups[1].cards) == 2:
		hand = FullHouse
	case len(groups[0].cards) == 3:
		hand = ThreeOfAKind
	case len(groups[0].cards) == 2 && len(groups) > 1 && len(groups[1].cards) == 2:
		hand = TwoPair
	case len(groups[0].cards) == 2:
		hand = OnePair
	default:
		hand = HighCard
	}

	return newResult(hand, ordered, tiebreak)
}

func newResult(hand Hand, cards deck.Hand, tiebreak []int) *Result {
	return &Result{
		Hand:     hand,
		Cards:    cards,
		Tiebreak: tiebreak,
		Strength: calculateStrength(hand, tiebreak),
	}
}

func calculateStrength(hand Hand, tiebreak []int) int {
	strength := int(hand)
	for i := 0; i < 5; i++ {
		strength *= strengthBase
		if i < len(tiebreak) {
			strength += tiebreak[i]
		}
	}

	return strength
}

// groupByRank expects cards sorted by rank, high to low
// Groups are ordered by size, then rank
func groupByRank(sorted deck.Hand) []group {
	groups := make([]group, 0, len(sorted))
	for _, card := range sorted {
		if n := len(groups); n > 0 && groups[n-1].rank == card.Rank {
			groups[n-1].cards = append(groups[n-1].cards, card)
			continue
		}

		groups = append(groups, group{rank: card.Rank, cards: deck.Hand{card}})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return len(groups[i].cards) > len(groups[j].cards)
	})

	return groups
}

func isFlush(cards deck.Hand) bool {
	for _, card := range cards[1:] {
		if card.Suit != cards[0].Suit {
			return false
		}
	}

	return true
}

// findStraight returns the high card of the straight, or 0
// A-2-3-4-5 is a five-high straight and the ace is ordered last
func findStraight(sorted deck.Hand) (int, deck.Hand) {
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Rank-sorted[i].Rank != 1 {
			if i == 1 && sorted[0].Rank == deck.Ace && sorted[1].Rank == 5 && isRun(sorted[1:]) {
				wheel := append(deck.Hand{}, sorted[1:]...)
				return 5, append(wheel, sorted[0])
			}

			return 0, nil
		}
	}

	return sorted[0].Rank, sorted
}

func isRun(cards deck.Hand) bool {
	for i := 1; i < len(cards); i++ {
		if cards[i-1].Rank-cards[i].Rank != 1 {
			return false
		}
	}

	return true
}

func ranksOf(cards deck.Hand) []int {
	ranks := make([]int, len(cards))
	for i, card := range cards {
		ranks[i] = card.Rank
	}

	return ranks
}

// Description returns a human readable description of the hand, i.e., "Full house, kings over fives"
func (r *Result) Description() string {
	tb := r.Tiebreak
	switch r.Hand {
	case StraightFlush:
		if tb[0] == deck.Ace {
			return "Royal flush"
		}

		return fmt.Sprintf("Straight flush, %s high", rankName(tb[0]))
	case FourOfAKind:
		return fmt.Sprintf("Four of a kind, %s", rankPlural(tb[0]))
	case FullHouse:
		return fmt.Sprintf("Full house, %s over %s", rankPlural(tb[0]), rankPlural(tb[1]))
	case Flush:
		return fmt.Sprintf("Flush, %s high", rankName(tb[0]))
	case Straight:
		return fmt.Sprintf("Straight, %s high", rankName(tb[0]))
	case ThreeOfAKind:
		return fmt.Sprintf("Three of a kind, %s", rankPlural(tb[0]))
	case TwoPair:
		return fmt.Sprintf("Two pair, %s and %s", rankPlural(tb[0]), rankPlural(tb[1]))
	case OnePair:
		return fmt.Sprintf("Pair of %s", rankPlural(tb[0]))
	default:
		return fmt.Sprintf("High card, %s", rankName(tb[0]))
	}
}
