package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestResolveObjectKey(t *testing.T) {
	tests := []struct {
		prefix, name, want string
	}{
		{"", "stores.csv", "stores.csv"},
		{"snapshots/", "stores.csv", "snapshots/stores.csv"},
		{"/snapshots", "/stores.csv", "snapshots/stores.csv"},
		{"snapshots", "snapshots/stores.csv", "snapshots/stores.csv"},
	}
	for _, tt := range tests {
		if got := resolveObjectKey(tt.prefix, tt.name); got != tt.want {
			t.Errorf("resolveObjectKey(%q, %q) = %q, want %q", tt.prefix, tt.name, got, tt.want)
		}
	}
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	rows := [][]string{{"S001", "Milk"}, {"S002", "Bread"}}
	if err := printTable(&buf, []string{"STORE", "PRODUCT"}, len(rows), func(i int) []string { return rows[i] }); err != nil {
		t.Fatalf("printTable failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %q", buf.String())
	}
	if !strings.HasPrefix(lines[2], "S002") || !strings.Contains(lines[2], "Bread") {
		t.Errorf("Unexpected row %q", lines[2])
	}
}
