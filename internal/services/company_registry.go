package services

import (
	"context"
	"encoding/json"
	"fmt"
	"pharmanet-service/internal/domain"
	"pharmanet-service/internal/platform/obs"
	"pharmanet-service/internal/ports"
)

type RegisterCompanyRequest struct {
	CRN      string
	Name     string
	Location string
	Role     string
}

// Register a new company under (CRN, name).
//
// The caller must belong to the organisation role being registered.
// A registration number is unique across the network: a second company
// with the same CRN is rejected even under a different name.
func RegisterCompany(
	ctx context.Context,
	ledger ports.Ledger,
	caller ports.Identity,
	req RegisterCompanyRequest,
) (_ *domain.Company, err error) {
	defer obs.Time(ctx, "services.RegisterCompany")(&err)

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return nil, fmt.Errorf("register company: %w", err)
	}

	if err := RequireRole(caller, []domain.Role{role}, "user is not authorised to register a company for role "+string(role)); err != nil {
		return nil, fmt.Errorf("register company: %w", err)
	}

	if err := requireNonEmpty("companyCRN", req.CRN, "companyName", req.Name); err != nil {
		return nil, fmt.Errorf("register company: %w", err)
	}

	key, err := domain.MakeKey(domain.CompanyNamespace, req.CRN, req.Name)
	if err != nil {
		return nil, fmt.Errorf("register company: %w", err)
	}

	found, err := keyExists(ledger, key)
	if err != nil {
		return nil, fmt.Errorf("register company: %w", err)
	}
	if found {
		return nil, fmt.Errorf("register company %s+%s: a company with this ID already exists: %w", req.CRN, req.Name, domain.ErrDuplicateKey)
	}

	existing, err := companiesByCRN(ledger, req.CRN, 1)
	if err != nil {
		return nil, fmt.Errorf("register company: %w", err)
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("register company %s: registration number already used by %q: %w", req.CRN, existing[0].Name, domain.ErrDuplicateKey)
	}

	now, err := txTime(ledger)
	if err != nil {
		return nil, fmt.Errorf("register company: %w", err)
	}

	company := &domain.Company{
		CompanyID:      key,
		CRN:            req.CRN,
		Name:           req.Name,
		Location:       req.Location,
		Role:           role,
		HierarchyLevel: role.Level(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := putJSON(ledger, key, company); err != nil {
		return nil, fmt.Errorf("register company: %w", err)
	}

	return company, nil
}

// Look up the company registered under crn with a partial-key scan.
// More than one match means the registry holds an ambiguous CRN and fails
// with ErrDuplicateKey instead of picking one.
func FindCompanyByCRN(ledger ports.Ledger, crn string) (*domain.Company, error) {
	if err := requireNonEmpty("companyCRN", crn); err != nil {
		return nil, fmt.Errorf("find company: %w", err)
	}

	companies, err := companiesByCRN(ledger, crn, 2)
	if err != nil {
		return nil, fmt.Errorf("find company %s: %w", crn, err)
	}

	switch len(companies) {
	case 0:
		return nil, fmt.Errorf("find company %s: invalid companyCRN: %w", crn, domain.ErrNotFound)
	case 1:
		return companies[0], nil
	default:
		return nil, fmt.Errorf("find company %s: ambiguous registration number: %w", crn, domain.ErrDuplicateKey)
	}
}

// Collect at most limit companies whose key starts with crn.
func companiesByCRN(ledger ports.Ledger, crn string, limit int) (_ []*domain.Company, err error) {
	it, err := ledger.GetStateByPartialCompositeKey(domain.CompanyNamespace, []string{crn})
	if err != nil {
		return nil, fmt.Errorf("range companies: %w", err)
	}
	defer func() {
		if cerr := it.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close company iterator: %w", cerr)
		}
	}()

	out := make([]*domain.Company, 0, limit)
	for it.HasNext() && len(out) < limit {
		kv, err := it.Next()
		if err != nil {
			return nil, fmt.Errorf("range companies: next: %w", err)
		}

		ns, fields, err := domain.SplitKey(kv.Key)
		if err != nil {
			return nil, fmt.Errorf("range companies: %w", err)
		}
		if ns != domain.CompanyNamespace || len(fields) == 0 || fields[0] != crn {
			continue
		}

		var c domain.Company
		if err := json.Unmarshal(kv.Value, &c); err != nil {
			return nil, fmt.Errorf("range companies: decode %s: %w", fields, err)
		}
		out = append(out, &c)
	}

	return out, nil
}
