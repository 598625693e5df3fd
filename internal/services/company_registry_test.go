package services

import (
	"context"
	"errors"
	"pharmanet-service/internal/domain"
	"pharmanet-service/internal/ports"
	"testing"
)

func TestRegisterCompany(t *testing.T) {
	f := newFixture(t)

	c := f.register("M001", "Acme", domain.RoleManufacturer)
	if c.HierarchyLevel != 1 {
		t.Errorf("hierarchy level = %d, want 1", c.HierarchyLevel)
	}
	if c.CompanyID != f.key(domain.CompanyNamespace, "M001", "Acme") {
		t.Errorf("company id is not the composite key: %q", c.CompanyID)
	}

	f.expectErr(domain.ErrDuplicateKey, "manufacturer", "registerCompany", "M001", "Acme", "Pune", "Manufacturer")
	f.expectErr(domain.ErrDuplicateKey, "manufacturer", "registerCompany", "M001", "Acme Labs", "Pune", "Manufacturer")

	tr := f.register("T1", "FedEx", domain.RoleTransporter)
	if tr.HierarchyLevel != 0 {
		t.Errorf("transporter hierarchy level = %d, want 0", tr.HierarchyLevel)
	}
}

func TestRegisterCompanyRejectsForeignRole(t *testing.T) {
	f := newFixture(t)

	f.expectErr(domain.ErrAuthorization, "distributor", "registerCompany", "M1", "Acme", "Pune", "Manufacturer")
	f.expectErr(domain.ErrInvalidArgument, "manufacturer", "registerCompany", "M1", "Acme", "Pune", "Regulator")
	f.expectErr(domain.ErrInvalidArgument, "manufacturer", "registerCompany", "", "Acme", "Pune", "Manufacturer")
}

func TestFindCompanyByCRN(t *testing.T) {
	f := newFixture(t)
	f.register("D1", "VG Pharma", domain.RoleDistributor)
	f.register("D10", "Other Pharma", domain.RoleDistributor)

	err := f.store.Run(context.Background(), func(l ports.Ledger) error {
		c, err := FindCompanyByCRN(l, "D1")
		if err != nil {
			return err
		}
		if c.Name != "VG Pharma" {
			t.Errorf("found %q, want VG Pharma", c.Name)
		}

		if _, err := FindCompanyByCRN(l, "D2"); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFindCompanyByCRNAmbiguous(t *testing.T) {
	f := newFixture(t)

	for _, name := range []string{"Acme", "Acme Labs"} {
		key := f.key(domain.CompanyNamespace, "M1", name)
		f.put(key, []byte(`{"companyID":"`+name+`","companyCRN":"M1","companyName":"`+name+`","organisationRole":"Manufacturer","hierarchyKey":1}`))
	}

	err := f.store.Run(context.Background(), func(l ports.Ledger) error {
		_, err := FindCompanyByCRN(l, "M1")
		return err
	})
	if !errors.Is(err, domain.ErrDuplicateKey) {
		t.Fatalf("err = %v, want ErrDuplicateKey", err)
	}
}
