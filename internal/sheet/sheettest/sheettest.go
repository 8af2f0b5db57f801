// Package sheettest writes small workbooks for tests.
package sheettest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX saves rows to dir/name as a one-sheet workbook and returns the path.
// Numbers stay numeric; strings become shared strings.
func WriteXLSX(t testing.TB, dir, name, sheet string, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "" && sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			t.Fatalf("rename sheet: %v", err)
		}
	} else {
		sheet = "Sheet1"
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		row := r
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("write row %d: %v", i+1, err)
		}
	}
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save %s: %v", path, err)
	}
	return path
}

// WriteCorrupt writes bytes that no decoder accepts under an xlsx name.
func WriteCorrupt(t testing.TB, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("this is not a workbook"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TCPRow is a well-formed v2023 multiple-choice row.
func TCPRow(n int, lastWeight float64) []interface{} {
	return []interface{}{n, "What is TCP?", "Describe TCP.", "A", 0.25, "B", 0.25, "C", 0.25, "D", lastWeight}
}
