package potmanager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contribution(id string, amount int, contesting bool) Contribution {
	return Contribution{PlayerID: id, Amount: amount, Contesting: contesting}
}

func TestCalculate_sidePots(t *testing.T) {
	a := assert.New(t)

	pots := Calculate([]Contribution{
		contribution("p1", 100, true),
		contribution("p2", 300, true),
		contribution("p3", 300, true),
	})

	a.Equal(Pots{
		{Amount: 300, Level: 100, Eligible: []string{"p1", "p2", "p3"}},
		{Amount: 400, Level: 300, Eligible: []string{"p2", "p3"}},
	}, pots)
	a.Equal(700, pots.Total())
	a.True(pots[0].IsEligible("p1"))
	a.False(pots[1].IsEligible("p1"))
}

func TestCalculate_foldedContributorsStayInThePot(t *testing.T) {
	a := assert.New(t)

	pots := Calculate([]Contribution{
		contribution("p1", 50, false),
		contribution("p2", 200, true),
		contribution("p3", 200, true),
		contribution("p4", 120, true),
	})

	a.Equal(Pots{
		{Amount: 200, Level: 50, Eligible: []string{"p2", "p3", "p4"}},
		{Amount: 210, Level: 120, Eligible: []string{"p2", "p3", "p4"}},
		{Amount: 160, Level: 200, Eligible: []string{"p2", "p3"}},
	}, pots)
	a.Equal(570, pots.Total())
}

func TestCalculate_mergesPotsNobodyCanWin(t *testing.T) {
	a := assert.New(t)

	// p2 raised and folded above p1's all-in
	pots := Calculate([]Contribution{
		contribution("p1", 100, true),
		contribution("p2", 400, false),
		contribution("p3", 100, false),
	})

	a.Equal(Pots{
		{Amount: 600, Level: 400, Eligible: []string{"p1"}},
	}, pots)

	// everyone folded to a single player
	pots = Calculate([]Contribution{
		contribution("p1", 10, false),
		contribution("p2", 20, true),
		contribution("p3", 60, false),
	})
	a.Equal(Pots{
		{Amount: 30, Level: 10, Eligible: []string{"p2"}},
		{Amount: 60, Level: 60, Eligible: []string{"p2"}},
	}, pots)
}

func TestCalculate_empty(t *testing.T) {
	a := assert.New(t)
	a.Empty(Calculate(nil))
	a.Empty(Calculate([]Contribution{contribution("p1", 0, true)}))
}

func TestDistribute_allInPlayerOnlyWinsMainPot(t *testing.T) {
	a := assert.New(t)

	pots := Calculate([]Contribution{
		contribution("p1", 100, true),
		contribution("p2", 300, true),
		contribution("p3", 300, true),
	})

	d, err := Distribute(pots, map[string]int{"p1": 900, "p2": 500, "p3": 400}, []string{"p1", "p2", "p3"})
	a.NoError(err)
	a.Equal(map[string]int{"p1": 300, "p2": 400}, d.Payouts)
	a.Len(d.Awards, 2)
	a.Equal([]string{"p1"}, d.Awards[0].Winners)
	a.Equal([]string{"p2"}, d.Awards[1].Winners)
	a.False(d.Awards[1].Uncontested)
}

func TestDistribute_conservesChips(t *testing.T) {
	runTest := func(t *testing.T, contributions []Contribution, strengths map[string]int) {
		t.Helper()

		total := 0
		order := make([]string, len(contributions))
		for i, c := range contributions {
			total += c.Amount
			order[i] = c.PlayerID
		}

		pots := Calculate(contributions)
		require.Equal(t, total, pots.Total())

		d, err := Distribute(pots, strengths, order)
		require.NoError(t, err)

		paid := 0
		for _, amount := range d.Payouts {
			paid += amount
		}

		assert.Equal(t, total, paid)
	}

	runTest(t, []Contribution{
		contribution("a", 25, true),
		contribution("b", 50, true),
		contribution("c", 75, true),
		contribution("d", 75, false),
	}, map[string]int{"a": 1, "b": 1, "c": 1})

	runTest(t, []Contribution{
		contribution("a", 33, true),
		contribution("b", 101, true),
		contribution("c", 101, true),
		contribution("d", 7, false),
	}, map[string]int{"a": 5, "b": 3, "c": 3})

	runTest(t, []Contribution{
		contribution("a", 1000, false),
		contribution("b", 1, true),
	}, map[string]int{})
}

func TestDistribute_remainderGoesLeftOfDealer(t *testing.T) {
	a := assert.New(t)

	pots := Pots{{Amount: 101, Level: 0, Eligible: []string{"p1", "p2", "p3"}}}
	strengths := map[string]int{"p1": 10, "p2": 10, "p3": 10}

	// p3 sits first to the left of the dealer
	d, err := Distribute(pots, strengths, []string{"p3", "p1", "p2"})
	a.NoError(err)
	a.Equal(map[string]int{"p3": 34, "p1": 34, "p2": 33}, d.Payouts)
	a.Equal([]string{"p3", "p1", "p2"}, d.Awards[0].Winners)

	d, err = Distribute(pots, strengths, []string{"p2", "p3", "p1"})
	a.NoError(err)
	a.Equal(map[string]int{"p2": 34, "p3": 34, "p1": 33}, d.Payouts)
}

func TestDistribute_singleEligibleSkipsComparison(t *testing.T) {
	a := assert.New(t)

	d, err := Distribute(Pots{{Amount: 50, Eligible: []string{"p1"}}}, nil, nil)
	a.NoError(err)
	a.Equal(map[string]int{"p1": 50}, d.Payouts)
	a.True(d.Awards[0].Uncontested)
}

func TestDistribute_errors(t *testing.T) {
	a := assert.New(t)

	_, err := Distribute(Pots{{Amount: 50, Eligible: []string{"p1", "p2"}}}, map[string]int{"p1": 3}, nil)
	a.ErrorIs(err, ErrNoEligibleStrength)
	a.EqualError(err, "eligible player has no hand strength: p2")

	_, err = Distribute(Pots{{Amount: 50, Eligible: []string{}}}, nil, nil)
	a.ErrorIs(err, ErrNoContestants)
}
