package epoch

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func buildTable() *Table {
	t := newTable(
		[]string{"sweep001", "sweep002"},
		[]string{"epoch001", "epoch002"},
		2, "bin", "primary",
	)
	t.append([]float64{0, 1}, []float64{10, 11}) // sweep001 epoch001
	t.append([]float64{0, 1}, []float64{12, 13}) // sweep001 epoch002
	t.append([]float64{0, 1}, []float64{14, 15}) // sweep002 epoch001
	t.append([]float64{0, 1}, []float64{16, 17}) // sweep002 epoch002
	return t
}

func TestTableRowKeys(t *testing.T) {
	table := buildTable()
	if table.Len() != 8 {
		t.Fatalf("Len = %d, want 8", table.Len())
	}

	want := []Row{
		{"sweep001", "epoch001", 0, 0, 10},
		{"sweep001", "epoch001", 1, 1, 11},
		{"sweep001", "epoch002", 0, 0, 12},
		{"sweep001", "epoch002", 1, 1, 13},
		{"sweep002", "epoch001", 0, 0, 14},
		{"sweep002", "epoch001", 1, 1, 15},
		{"sweep002", "epoch002", 0, 0, 16},
		{"sweep002", "epoch002", 1, 1, 17},
	}
	var got []Row
	for i := 0; i < table.Len(); i++ {
		got = append(got, table.Row(i))
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("row mismatch (-want +got):\n%s", diff)
	}
}

func TestTableBlock(t *testing.T) {
	table := buildTable()

	_, values, ok := table.Block("sweep002", "epoch001")
	if !ok {
		t.Fatal("Block not found")
	}
	if diff := cmp.Diff([]float64{14, 15}, values); diff != "" {
		t.Fatalf("block mismatch (-want +got):\n%s", diff)
	}

	if _, _, ok := table.Block("sweep009", "epoch001"); ok {
		t.Fatal("Block returned ok for unknown sweep")
	}
	if _, _, ok := table.Block("sweep001", "epoch009"); ok {
		t.Fatal("Block returned ok for unknown epoch")
	}
}
