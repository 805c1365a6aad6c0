package builtin

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	"statsetl/internal/table"
	"statsetl/internal/transformer"
)

// DefaultRankColumn is the column RankRepair looks for when none is set.
const DefaultRankColumn = "Rank"

var (
	errRankRange    = errors.New("rank is not a whole number in integer range")
	errRankOverflow = errors.New("rank sequence overflows")
)

// RankRepair fills gaps in a rank column. Stats sites print the rank only on
// the first row of a tie; a missing rank becomes the last rank seen plus one.
// Gaps before the first known rank stay missing.
//
// Non-numeric text becomes missing before filling. The result is an Integer
// column. If the column cannot be repaired it is left exactly as it was and
// a SequenceRepairFailure is recorded. Tables without the column pass
// through unchanged.
type RankRepair struct {
	Column string
}

// Name implements transformer.Stage.
func (RankRepair) Name() string { return "rank" }

// Apply implements transformer.Stage.
func (r RankRepair) Apply(t *table.Table, rep *transformer.Report) *table.Table {
	name := r.Column
	if name == "" {
		name = DefaultRankColumn
	}
	col, ok := t.Column(name)
	if !ok {
		return t
	}
	vals, err := repairRanks(col)
	if err != nil {
		log.Printf("rank: could not fix missing ranks: %v", err)
		rep.Record(err)
		return t
	}
	col.Values = vals
	col.Kind = table.Integer
	return t
}

func repairRanks(col *table.Column) ([]any, error) {
	out := make([]any, len(col.Values))
	var last int64
	known := false
	for i, v := range col.Values {
		rank, present, err := rankValue(v)
		if err != nil {
			return nil, &transformer.SequenceRepairFailure{Column: col.Name, Row: i, Err: err}
		}
		switch {
		case present:
			last, known = rank, true
		case !known:
			continue
		default:
			if last == math.MaxInt64 {
				return nil, &transformer.SequenceRepairFailure{Column: col.Name, Row: i, Err: errRankOverflow}
			}
			last++
		}
		out[i] = last
	}
	return out, nil
}

// rankValue reads one rank cell. Floats are truncated toward zero.
func rankValue(v any) (int64, bool, error) {
	switch x := v.(type) {
	case nil:
		return 0, false, nil
	case int64:
		return x, true, nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false, nil
		}
		t := math.Trunc(x)
		if t < minInt64f || t >= maxInt64f {
			return 0, false, fmt.Errorf("%w: %v", errRankRange, x)
		}
		return int64(t), true, nil
	case string:
		f, ok := parseNumber(strings.TrimSpace(x))
		if !ok {
			return 0, false, nil
		}
		return rankValue(f)
	default:
		return 0, false, nil
	}
}
