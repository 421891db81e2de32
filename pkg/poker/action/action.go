package action

import (
	"encoding/json"
	"fmt"
)

// Type identifies an action
type Type string

// type constants
const (
	TypeFold  Type = "fold"
	TypeCheck Type = "check"
	TypeCall  Type = "call"
	TypeBet   Type = "bet"
	TypeRaise Type = "raise"
)

var allowedTypes = map[Type]bool{
	TypeFold:  true,
	TypeCheck: true,
	TypeCall:  true,
	TypeBet:   true,
	TypeRaise: true,
}

// FromString returns a type for the given string
func FromString(s string) (Type, error) {
	if _, ok := allowedTypes[Type(s)]; ok {
		return Type(s), nil
	}

	return "", fmt.Errorf("unknown action for identifier: %s", s)
}

func (t Type) String() string {
	switch t {
	case TypeFold:
		return "Fold"
	case TypeCheck:
		return "Check"
	case TypeCall:
		return "Call"
	case TypeBet:
		return "Bet"
	case TypeRaise:
		return "Raise"
	}

	panic("unknown action")
}

// MarshalJSON encodes the type into JSON
func (t Type) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}{
		ID:   string(t),
		Name: t.String(),
	})
}

// UnmarshalJSON decodes either the object written by MarshalJSON or a bare identifier
func (t *Type) UnmarshalJSON(b []byte) error {
	var id string
	if err := json.Unmarshal(b, &id); err != nil {
		var obj struct {
			ID string `json:"id"`
		}

		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}

		id = obj.ID
	}

	typ, err := FromString(id)
	if err != nil {
		return err
	}

	*t = typ
	return nil
}

// LogMessage returns a message formatted for the log
func (t Type) LogMessage(amount int) string {
	switch t {
	case TypeFold:
		return "folded"
	case TypeCheck:
		return "checked"
	case TypeCall:
		return fmt.Sprintf("called ${%d}", amount)
	case TypeBet:
		return fmt.Sprintf("bet ${%d}", amount)
	case TypeRaise:
		return fmt.Sprintf("raised to ${%d}", amount)
	}

	return ""
}

// Action is something a player does on their turn
// The set of actions is closed: Fold, Check, Call, Bet and Raise
type Action interface {
	Type() Type

	// Amount is the total the player wants in front of them for the betting round
	// It is zero for fold, check and call
	Amount() int

	action()
}

// Fold gives up the hand
type Fold struct{}

// Check passes the action without betting
type Check struct{}

// Call matches the current bet
type Call struct{}

// Bet opens the betting to To
type Bet struct {
	To int
}

// Raise increases the current bet to To
type Raise struct {
	To int
}

func (Fold) Type() Type  { return TypeFold }
func (Check) Type() Type { return TypeCheck }
func (Call) Type() Type  { return TypeCall }
func (Bet) Type() Type   { return TypeBet }
func (Raise) Type() Type { return TypeRaise }

func (Fold) Amount() int    { return 0 }
func (Check) Amount() int   { return 0 }
func (Call) Amount() int    { return 0 }
func (b Bet) Amount() int   { return b.To }
func (r Raise) Amount() int { return r.To }

func (Fold) action()  {}
func (Check) action() {}
func (Call) action()  {}
func (Bet) action()   {}
func (Raise) action() {}

// New builds an action from loosely typed input, i.e., a network payload
func New(t Type, amount int) (Action, error) {
	switch t {
	case TypeFold, TypeCheck, TypeCall:
		if amount != 0 {
			return nil, fmt.Errorf("%s does not take an amount", string(t))
		}
	case TypeBet, TypeRaise:
		if amount <= 0 {
			return nil, fmt.Errorf("%s amount must be greater than zero", string(t))
		}
	}

	switch t {
	case TypeFold:
		return Fold{}, nil
	case TypeCheck:
		return Check{}, nil
	case TypeCall:
		return Call{}, nil
	case TypeBet:
		return Bet{To: amount}, nil
	case TypeRaise:
		return Raise{To: amount}, nil
	}

	return nil, fmt.Errorf("unknown action for identifier: %s", string(t))
}

// Parse is like New, but starts from the string identifier
func Parse(s string, amount int) (Action, error) {
	t, err := FromString(s)
	if err != nil {
		return nil, err
	}

	return New(t, amount)
}
