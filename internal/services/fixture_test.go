package services

import (
	"context"
	"errors"
	"pharmanet-service/internal/adapters/identity"
	"pharmanet-service/internal/adapters/ledger"
	"pharmanet-service/internal/domain"
	"pharmanet-service/internal/ports"
	"testing"
)

type fixture struct {
	t     *testing.T
	store *ledger.MemoryLedger
}

func newFixture(t *testing.T) *fixture {
	return &fixture{t: t, store: ledger.NewMemoryLedger()}
}

func (f *fixture) invoke(org, name string, args ...string) (Result, error) {
	return Invoke(context.Background(), f.store, identity.Organization(org), name, args)
}

func (f *fixture) mustInvoke(org, name string, args ...string) Result {
	f.t.Helper()
	res, err := f.invoke(org, name, args...)
	if err != nil {
		f.t.Fatalf("%s %v: unexpected error: %v", name, args, err)
	}
	return res
}

func (f *fixture) expectErr(want error, org, name string, args ...string) {
	f.t.Helper()
	_, err := f.invoke(org, name, args...)
	if !errors.Is(err, want) {
		f.t.Fatalf("%s %v: err = %v, want %v", name, args, err, want)
	}
}

func (f *fixture) register(crn, name string, role domain.Role) *domain.Company {
	f.t.Helper()
	res := f.mustInvoke(role.Label(), "registerCompany", crn, name, "Pune", string(role))
	return res.Value.(*domain.Company)
}

func (f *fixture) drug(name, serial string) *domain.Drug {
	f.t.Helper()
	res := f.mustInvoke("retailer", "viewDrugCurrentState", name, serial)
	return res.Value.(*domain.Drug)
}

func (f *fixture) history(name, serial string) []domain.HistoryEntry {
	f.t.Helper()
	res := f.mustInvoke("retailer", "viewHistory", name, serial)
	return res.Value.([]domain.HistoryEntry)
}

func (f *fixture) key(ns string, fields ...string) string {
	f.t.Helper()
	k, err := domain.MakeKey(ns, fields...)
	if err != nil {
		f.t.Fatalf("make key: %v", err)
	}
	return k
}

// Write raw state, bypassing every business rule.
func (f *fixture) put(key string, value []byte) {
	f.t.Helper()
	err := f.store.Run(context.Background(), func(l ports.Ledger) error {
		return l.PutState(key, value)
	})
	if err != nil {
		f.t.Fatalf("put %q: %v", key, err)
	}
}

// A network with one company per role and five Paracetamol units at M1.
type network struct {
	manufacturer, distributor, retailer, transporter *domain.Company
}

func (f *fixture) seedNetwork() network {
	f.t.Helper()
	n := network{
		manufacturer: f.register("M1", "Sun Pharma", domain.RoleManufacturer),
		distributor:  f.register("D1", "VG Pharma", domain.RoleDistributor),
		retailer:     f.register("R1", "Upgrad Pharmacy", domain.RoleRetailer),
		transporter:  f.register("T1", "FedEx", domain.RoleTransporter),
	}
	for _, serial := range []string{"001", "002", "003", "004", "005"} {
		f.mustInvoke("manufacturer", "addDrug", "Paracetamol", serial, "2026-01-01", "2028-01-01", "M1")
	}
	return n
}
