package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// OpKind tags a queued offline operation.
type OpKind string

const (
	OpCreateMeal  OpKind = "createMeal"
	OpDeleteMeal  OpKind = "deleteMeal"
	OpUpdateMeal  OpKind = "updateMeal"
	OpAddEntry    OpKind = "addEntry"
	OpUpdateEntry OpKind = "updateEntry"
	OpMoveEntry   OpKind = "moveEntry"
	OpDeleteEntry OpKind = "deleteEntry"
	OpSetWeight   OpKind = "setWeight"
	OpSetWater    OpKind = "setWater"
)

// Op is one mutation queued for replay against the remote API. The set of
// implementations is closed; the sync engine dispatches over it exhaustively.
type Op interface {
	Kind() OpKind
}

// CreateMealOp records a meal created offline under a temp ID.
type CreateMealOp struct {
	Date   string `json:"date"`
	TempID int64  `json:"tempId"`
}

// DeleteMealOp deletes a meal. MealID may be a temp ID if the meal was
// itself created offline.
type DeleteMealOp struct {
	MealID int64 `json:"mealId"`
}

// UpdateMealOp renames or reorders a meal.
type UpdateMealOp struct {
	MealID int64     `json:"mealId"`
	Data   MealPatch `json:"data"`
}

// AddEntryOp records an entry added offline under a temp ID.
type AddEntryOp struct {
	MealID    int64   `json:"meal_id"`
	FdcID     int64   `json:"fdc_id"`
	QuantityG float64 `json:"quantity_g"`
	TempID    int64   `json:"tempId"`
}

// UpdateEntryOp changes an entry's quantity.
type UpdateEntryOp struct {
	EntryID  int64   `json:"entryId"`
	NewGrams float64 `json:"newGrams"`
}

// MoveEntryOp changes an entry's position within its meal.
type MoveEntryOp struct {
	EntryID  int64 `json:"entryId"`
	NewOrder int   `json:"newOrder"`
}

// DeleteEntryOp removes an entry.
type DeleteEntryOp struct {
	EntryID int64 `json:"entryId"`
}

// SetWeightOp records a body weight for a date.
type SetWeightOp struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
}

// SetWaterOp records a water volume (ml) for a date.
type SetWaterOp struct {
	Date  string  `json:"date"`
	Water float64 `json:"water"`
}

func (*CreateMealOp) Kind() OpKind  { return OpCreateMeal }
func (*DeleteMealOp) Kind() OpKind  { return OpDeleteMeal }
func (*UpdateMealOp) Kind() OpKind  { return OpUpdateMeal }
func (*AddEntryOp) Kind() OpKind    { return OpAddEntry }
func (*UpdateEntryOp) Kind() OpKind { return OpUpdateEntry }
func (*MoveEntryOp) Kind() OpKind   { return OpMoveEntry }
func (*DeleteEntryOp) Kind() OpKind { return OpDeleteEntry }
func (*SetWeightOp) Kind() OpKind   { return OpSetWeight }
func (*SetWaterOp) Kind() OpKind    { return OpSetWater }

// Queue is the ordered pending-operation list, oldest first. It persists as
// an array of {"kind": ..., "payload": ...} envelopes.
type Queue []Op

type opEnvelope struct {
	Kind    OpKind          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// MarshalJSON encodes each op with its kind tag.
func (q Queue) MarshalJSON() ([]byte, error) {
	envs := make([]opEnvelope, 0, len(q))
	for _, op := range q {
		payload, err := json.Marshal(op)
		if err != nil {
			return nil, err
		}
		envs = append(envs, opEnvelope{Kind: op.Kind(), Payload: payload})
	}
	return json.Marshal(envs)
}

var errUnknownOpKind = errors.New("unknown queued op kind")

// UnmarshalJSON decodes the tagged envelopes back into typed ops. Envelopes
// with a kind this build does not know are skipped: failing the whole decode
// would discard the entire persisted blob along with them.
func (q *Queue) UnmarshalJSON(data []byte) error {
	var envs []opEnvelope
	if err := json.Unmarshal(data, &envs); err != nil {
		return err
	}
	out := make(Queue, 0, len(envs))
	for _, env := range envs {
		op, err := decodeOp(env)
		if errors.Is(err, errUnknownOpKind) {
			continue
		}
		if err != nil {
			return err
		}
		out = append(out, op)
	}
	*q = out
	return nil
}

func decodeOp(env opEnvelope) (Op, error) {
	var op Op
	switch env.Kind {
	case OpCreateMeal:
		op = &CreateMealOp{}
	case OpDeleteMeal:
		op = &DeleteMealOp{}
	case OpUpdateMeal:
		op = &UpdateMealOp{}
	case OpAddEntry:
		op = &AddEntryOp{}
	case OpUpdateEntry:
		op = &UpdateEntryOp{}
	case OpMoveEntry:
		op = &MoveEntryOp{}
	case OpDeleteEntry:
		op = &DeleteEntryOp{}
	case OpSetWeight:
		op = &SetWeightOp{}
	case OpSetWater:
		op = &SetWaterOp{}
	default:
		return nil, fmt.Errorf("%w %q", errUnknownOpKind, env.Kind)
	}
	if err := json.Unmarshal(env.Payload, op); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", env.Kind, err)
	}
	return op, nil
}
