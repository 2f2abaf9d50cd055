package utils

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseCSV(t *testing.T) {
	csvData := `employee,timestamp,device
EMP0001,2026-03-02T09:00:00+10:00,gate-1
EMP0002,2026-03-02T09:05:00+10:00,gate-2`

	reader := strings.NewReader(csvData)

	got, err := ParseCSV(reader)
	if err != nil {
		t.Fatalf("ParseCSV returned error: %v", err)
	}

	want := [][]string{
		{"employee", "timestamp", "device"},
		{"EMP0001", "2026-03-02T09:00:00+10:00", "gate-1"},
		{"EMP0002", "2026-03-02T09:05:00+10:00", "gate-2"},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseCSV returned %+v, want %+v", got, want)
	}
}

func TestParseCSVRows(t *testing.T) {
	csvData := `employee,timestamp,device
EMP0001,2026-03-02T09:00:00+10:00,gate-1`

	got, err := ParseCSVRows(strings.NewReader(csvData), 3)
	if err != nil {
		t.Fatalf("ParseCSVRows returned error: %v", err)
	}
	if len(got) != 1 || got[0][0] != "EMP0001" {
		t.Errorf("unexpected rows: %+v", got)
	}

	_, err = ParseCSVRows(strings.NewReader(csvData), 4)
	if err == nil {
		t.Errorf("expected error for short rows")
	}
}
