package table

import (
	"reflect"
	"testing"
)

func TestNewMarksMissing(t *testing.T) {
	t.Parallel()

	isNA := func(s string) bool { return s == "" || s == "N/A" }
	tbl := New(
		[]string{"Rank", "Name"},
		[][]string{{"1", "Ruth"}, {"", "N/A"}, {"3"}},
		isNA,
	)

	if got, want := tbl.NumRows(), 3; got != want {
		t.Fatalf("NumRows()=%d; want %d", got, want)
	}
	want := [][]any{{"1", "Ruth"}, {nil, nil}, {"3", nil}}
	if got := tbl.Rows(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Rows()=%#v; want %#v", got, want)
	}
	for _, c := range tbl.Columns {
		if c.Kind != Text {
			t.Fatalf("column %q kind=%v; want text", c.Name, c.Kind)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()

	orig := New([]string{"a"}, [][]string{{"x"}}, nil)
	cp := orig.Clone()
	cp.Columns[0].Values[0] = "changed"
	cp.Columns[0].Name = "b"

	if orig.Columns[0].Values[0] != "x" || orig.Columns[0].Name != "a" {
		t.Fatalf("Clone shares state with original: %#v", orig.Columns[0])
	}
}

func TestAttachProvenance(t *testing.T) {
	t.Parallel()

	tbl := New([]string{"a"}, [][]string{{"1"}, {"2"}}, nil)
	tbl.AttachProvenance("source", "hitting")

	c, ok := tbl.Column("source")
	if !ok {
		t.Fatalf("source column missing; names=%v", tbl.Names())
	}
	if !reflect.DeepEqual(c.Values, []any{"hitting", "hitting"}) {
		t.Fatalf("source values=%#v", c.Values)
	}
}

func TestFormatValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"abc", "abc"},
		{int64(1234), "1234"},
		{float64(0.55), "0.55"},
		{float64(3.5), "3.5"},
		{float64(700), "700"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.in); got != tt.want {
			t.Fatalf("FormatValue(%#v)=%q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestIndexAndShape(t *testing.T) {
	t.Parallel()

	tbl := New([]string{"a", "b", "a"}, [][]string{{"1", "2", "3"}}, nil)
	if got := tbl.Index("a"); got != 0 {
		t.Fatalf("Index(a)=%d; want 0", got)
	}
	if got := tbl.Index("zzz"); got != -1 {
		t.Fatalf("Index(zzz)=%d; want -1", got)
	}
	r, c := tbl.Shape()
	if r != 1 || c != 3 {
		t.Fatalf("Shape()=(%d,%d); want (1,3)", r, c)
	}
	var empty *Table
	if empty.NumRows() != 0 || empty.NumCols() != 0 {
		t.Fatalf("nil table should have zero shape")
	}
}

func TestFromValuesInfersKinds(t *testing.T) {
	t.Parallel()

	tbl := FromValues(
		[]string{"rank", "hr_g", "name", "empty"},
		[][]any{
			{int64(1), float64(0.55), "Ruth", nil},
			{nil, int64(1), int64(7), nil},
		},
	)

	wantKinds := []Kind{Integer, Float, Text, Text}
	for i, c := range tbl.Columns {
		if c.Kind != wantKinds[i] {
			t.Fatalf("column %q kind=%v; want %v", c.Name, c.Kind, wantKinds[i])
		}
	}
	want := [][]any{
		{int64(1), float64(0.55), "Ruth", nil},
		{nil, float64(1), "7", nil},
	}
	if got := tbl.Rows(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Rows()=%#v; want %#v", got, want)
	}
}
