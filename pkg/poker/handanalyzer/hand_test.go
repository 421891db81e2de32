package handanalyzer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHand_String(t *testing.T) {
	a := assert.New(t)
	a.Equal("High card", HighCard.String())
	a.Equal("Pair", OnePair.String())
	a.Equal("Two pair", TwoPair.String())
	a.Equal("Three of a kind", ThreeOfAKind.String())
	a.Equal("Straight", Straight.String())
	a.Equal("Flush", Flush.String())
	a.Equal("Full house", FullHouse.String())
	a.Equal("Four of a kind", FourOfAKind.String())
	a.Equal("Straight flush", StraightFlush.String())
	a.PanicsWithValue("unknown hand: 99", func() {
		_ = Hand(99).String()
	})
}

func TestHand_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(FullHouse)
	assert.NoError(t, err)
	assert.Equal(t, `"Full house"`, string(b))
}

func TestHand_ordering(t *testing.T) {
	hands := []Hand{HighCard, OnePair, TwoPair, ThreeOfAKind, Straight, Flush, FullHouse, FourOfAKind, StraightFlush}
	for i := 1; i < len(hands); i++ {
		assert.Less(t, hands[i-1], hands[i])
	}
}
