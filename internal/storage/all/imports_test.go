package all

import (
	"reflect"
	"testing"

	"statsetl/internal/storage"
)

func TestAllBackendsRegistered(t *testing.T) {
	t.Parallel()

	want := []string{"mssql", "mysql", "postgres", "sqlite"}
	if got := storage.ListKinds(); !reflect.DeepEqual(got, want) {
		t.Fatalf("ListKinds()=%v; want %v", got, want)
	}
	for _, k := range want {
		if _, err := storage.DialectFor(k); err != nil {
			t.Fatalf("DialectFor(%q): %v", k, err)
		}
	}
}
