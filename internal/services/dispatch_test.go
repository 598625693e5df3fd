package services

import (
	"context"
	"errors"
	"pharmanet-service/internal/domain"
	"testing"
)

func TestInvokeRejectsBadCalls(t *testing.T) {
	f := newFixture(t)
	f.seedNetwork()

	f.expectErr(domain.ErrUnknownOperation, "manufacturer", "burnDrug", "Paracetamol", "001")
	f.expectErr(domain.ErrInvalidArgument, "manufacturer", "addDrug", "Paracetamol", "006")
	f.expectErr(domain.ErrInvalidArgument, "distributor", "createPO", "D1", "M1", "Paracetamol", "five")
	f.expectErr(domain.ErrInvalidArgument, "distributor", "createPO", "D1", "M1", "Paracetamol", "0")
	f.expectErr(domain.ErrInvalidArgument, "distributor", "createPO", "D1", "M1", "Paracetamol", "-2")
}

func TestInvokeTransactionIDs(t *testing.T) {
	f := newFixture(t)
	f.seedNetwork()

	w1 := f.mustInvoke("distributor", "createPO", "D1", "M1", "Paracetamol", "2")
	w2 := f.mustInvoke("manufacturer", "createShipment", "D1", "Paracetamol", "001,002", "T1")
	if w1.TxID == "" || w2.TxID == "" || w1.TxID == w2.TxID {
		t.Fatalf("write tx ids = %q, %q; want two distinct ids", w1.TxID, w2.TxID)
	}

	r := f.mustInvoke("retailer", "viewDrugCurrentState", "Paracetamol", "001")
	if r.TxID != "" {
		t.Errorf("read-only call returned tx id %q", r.TxID)
	}

	// Both units moved in the createShipment transaction.
	for _, serial := range []string{"001", "002"} {
		h := f.history("Paracetamol", serial)
		if last := h[len(h)-1]; last.TxID != w2.TxID {
			t.Errorf("drug %s last tx = %q, want %q", serial, last.TxID, w2.TxID)
		}
	}
}

func TestOperationsTable(t *testing.T) {
	want := map[string]int{
		"registerCompany":      4,
		"addDrug":              5,
		"createPO":             4,
		"createShipment":       4,
		"updateShipment":       3,
		"retailDrug":           4,
		"viewHistory":          2,
		"viewDrugCurrentState": 2,
	}
	if len(Operations) != len(want) {
		t.Fatalf("Operations has %d entries, want %d", len(Operations), len(want))
	}
	for name, n := range want {
		op, ok := Operations[name]
		if !ok {
			t.Errorf("operation %s missing", name)
			continue
		}
		if len(op.Params) != n {
			t.Errorf("%s takes %d params, want %d", name, len(op.Params), n)
		}
	}
	if !Operations["viewHistory"].ReadOnly || Operations["retailDrug"].ReadOnly {
		t.Errorf("unexpected ReadOnly flags")
	}

	_, err := Invoke(context.Background(), nil, nil, "nope", nil)
	if !errors.Is(err, domain.ErrUnknownOperation) {
		t.Errorf("err = %v, want ErrUnknownOperation", err)
	}
}
