package datagen

import (
	"strings"
	"testing"

	"sqlrunner/sql"
)

func TestCustomersRowCount(t *testing.T) {
	gen := New(1)
	block := gen.Customers(11, 40)

	if !strings.HasPrefix(block, "INSERT INTO customer VALUES") {
		t.Errorf("Expected customer INSERT header, got %q", block[:40])
	}
	if got := strings.Count(block, "Customer#"); got != 40 {
		t.Errorf("Expected 40 customer rows, got %d", got)
	}
	if !strings.Contains(block, "'Customer#000000011'") {
		t.Error("Expected zero-padded customer name for first ID")
	}
}

func TestDeterministicOutput(t *testing.T) {
	a := New(42).Script(DefaultConfig())
	b := New(42).Script(DefaultConfig())
	if a != b {
		t.Error("Expected identical output for identical seeds")
	}

	c := New(43).Script(DefaultConfig())
	if a == c {
		t.Error("Expected different output for different seeds")
	}
}

func TestScriptSplitsCleanly(t *testing.T) {
	script := New(7).Script(DefaultConfig())
	statements := sql.Split(script)

	// One multi-row INSERT per table.
	if len(statements) != 6 {
		t.Fatalf("Expected 6 statements, got %d", len(statements))
	}

	tables := []string{"customer", "supplier", "part", "orders", "partsupp", "lineitem"}
	for i, table := range tables {
		want := "INSERT INTO " + table + " VALUES"
		if !strings.HasPrefix(statements[i], want) {
			t.Errorf("Statement %d: expected prefix %q, got %q", i, want, statements[i][:40])
		}
		if sql.Classify(statements[i]) != sql.KindDML {
			t.Errorf("Statement %d: expected DML classification", i)
		}
	}
}

func TestPartSuppDistinctSuppliers(t *testing.T) {
	gen := New(3)
	block := gen.PartSupp(10, 5)

	lines := strings.Split(block, "\n")
	seen := make(map[string]bool)
	for _, line := range lines[1:] {
		key := strings.TrimRight(strings.TrimSpace(line), ",;")
		idx := strings.Index(key, ",")
		if idx < 0 {
			continue
		}
		// part,supplier prefix must be unique
		pair := key[:strings.Index(key[idx+1:], ",")+idx+1]
		if seen[pair] {
			t.Errorf("Duplicate part/supplier pair: %s", pair)
		}
		seen[pair] = true
	}
}

func TestLineItemsPerOrder(t *testing.T) {
	gen := New(9)
	block := gen.LineItems(1, 20, 200, 50)

	counts := make(map[string]int)
	for _, line := range strings.Split(block, "\n")[1:] {
		trimmed := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "("))
		idx := strings.Index(trimmed, ",")
		if idx < 0 {
			continue
		}
		counts[trimmed[:idx]]++
	}

	if len(counts) != 20 {
		t.Fatalf("Expected line items for 20 orders, got %d", len(counts))
	}
	for order, n := range counts {
		if n < 1 || n > 5 {
			t.Errorf("Order %s has %d line items, expected 1-5", order, n)
		}
	}
}

func TestDatesWithinRange(t *testing.T) {
	gen := New(5)
	block := gen.Orders(35, 66, 50)

	for _, line := range strings.Split(block, "\n")[1:] {
		if strings.Contains(line, "'199") || strings.Contains(line, "'200") {
			continue
		}
		if strings.Contains(line, "-") && strings.Contains(line, "Clerk#") {
			t.Errorf("Order date outside expected era: %s", line)
		}
	}
}
