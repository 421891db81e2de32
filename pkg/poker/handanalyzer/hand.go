package handanalyzer

import (
	"encoding/json"
	"fmt"
)

// Hand is a poker hand category, i.e., flush
type Hand int

// Constants for hand
const (
	HighCard Hand = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// String returns the string representation of a hand
func (h Hand) String() string {
	switch h {
	case HighCard:
		return "High card"
	case OnePair:
		return "Pair"
	case TwoPair:
		return "Two pair"
	case ThreeOfAKind:
		return "Three of a kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full house"
	case FourOfAKind:
		return "Four of a kind"
	case StraightFlush:
		return "Straight flush"
	default:
		panic(fmt.Sprintf("unknown hand: %d", h))
	}
}

// MarshalJSON encodes the hand as its name
func (h Hand) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

var rankNames = map[int][2]string{
	2:  {"two", "twos"},
	3:  {"three", "threes"},
	4:  {"four", "fours"},
	5:  {"five", "fives"},
	6:  {"six", "sixes"},
	7:  {"seven", "sevens"},
	8:  {"eight", "eights"},
	9:  {"nine", "nines"},
	10: {"ten", "tens"},
	11: {"jack", "jacks"},
	12: {"queen", "queens"},
	13: {"king", "kings"},
	14: {"ace", "aces"},
}

func rankName(rank int) string {
	return rankNames[rank][0]
}

func rankPlural(rank int) string {
	return rankNames[rank][1]
}
