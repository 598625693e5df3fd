package domain

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestKeysRoundTrip(t *testing.T) {
	cases := []struct {
		namespace string
		fields    []string
	}{
		{CompanyNamespace, []string{"M001", "Acme"}},
		{DrugNamespace, []string{"Paracetamol", "001"}},
		{PONamespace, []string{"D1", "Paracetamol"}},
		{ShipmentNamespace, []string{"D1", "Paracetamol"}},
		{CompanyNamespace, []string{"", "empty crn"}},
		{DrugNamespace, []string{"Ibuprofène", "sér-42", "extra field"}},
		{DrugNamespace, []string{}},
	}

	for _, c := range cases {
		key, err := MakeKey(c.namespace, c.fields...)
		if err != nil {
			t.Fatalf("make key %q %v: unexpected error: %v", c.namespace, c.fields, err)
		}

		ns, fields, err := SplitKey(key)
		if err != nil {
			t.Fatalf("split key %q: unexpected error: %v", key, err)
		}
		if ns != c.namespace {
			t.Errorf("namespace = %q, want %q", ns, c.namespace)
		}
		if !slices.Equal(fields, c.fields) {
			t.Errorf("fields = %q, want %q", fields, c.fields)
		}
	}
}

func TestKeysDistinctForDifferentFieldBoundaries(t *testing.T) {
	a, _ := MakeKey(DrugNamespace, "ab", "c")
	b, _ := MakeKey(DrugNamespace, "a", "bc")
	if a == b {
		t.Fatalf("keys for different field tuples collide: %q", a)
	}
}

func TestKeysRejectReservedRunes(t *testing.T) {
	if _, err := MakeKey(DrugNamespace, "bad\x00name"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for NUL field, got %v", err)
	}
	if _, err := MakeKey(DrugNamespace, "bad"+string(maxKeyRune)); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for max rune field, got %v", err)
	}
	if _, _, err := SplitKey("plain-key"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument splitting a simple key, got %v", err)
	}
}

func TestPartialKeyRangeCoversFullKeys(t *testing.T) {
	start, end, err := PartialKeyRange(CompanyNamespace, "M001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	inside, _ := MakeKey(CompanyNamespace, "M001", "Acme")
	other, _ := MakeKey(CompanyNamespace, "M0011", "Acme")

	if !(inside >= start && inside < end) {
		t.Errorf("key for M001/Acme outside range [%q, %q)", start, end)
	}
	if other >= start && other < end {
		t.Errorf("key for M0011/Acme inside range for M001")
	}
	if !strings.HasPrefix(inside, start) {
		t.Errorf("full key %q does not start with partial key %q", inside, start)
	}
}

func TestValidateIdentifier(t *testing.T) {
	if err := ValidateIdentifier("AADHAR-1234"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	key, err := MakeKey(CompanyNamespace, "R1", "Upgrad Pharmacy")
	if err != nil {
		t.Fatalf("make key: %v", err)
	}
	for _, bad := range []string{key, "x\U0010FFFF", "\xff"} {
		if err := ValidateIdentifier(bad); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("ValidateIdentifier(%q) err = %v, want ErrInvalidArgument", bad, err)
		}
	}
}
