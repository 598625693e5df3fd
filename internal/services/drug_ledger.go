package services

import (
	"context"
	"fmt"
	"pharmanet-service/internal/domain"
	"pharmanet-service/internal/platform/obs"
	"pharmanet-service/internal/ports"
)

type AddDrugRequest struct {
	DrugName   string
	SerialNo   string
	MfgDate    string
	ExpDate    string
	CompanyCRN string
}

// Commission a new drug unit owned by its manufacturer.
func AddDrug(
	ctx context.Context,
	ledger ports.Ledger,
	caller ports.Identity,
	req AddDrugRequest,
) (_ *domain.Drug, err error) {
	defer obs.Time(ctx, "services.AddDrug")(&err)

	if err := RequireRole(caller, []domain.Role{domain.RoleManufacturer}, "only a manufacturer can add a new drug"); err != nil {
		return nil, fmt.Errorf("add drug: %w", err)
	}

	if err := requireNonEmpty("drugName", req.DrugName, "serialNo", req.SerialNo); err != nil {
		return nil, fmt.Errorf("add drug: %w", err)
	}

	company, err := FindCompanyByCRN(ledger, req.CompanyCRN)
	if err != nil {
		return nil, fmt.Errorf("add drug: %w", err)
	}
	if company.Role != domain.RoleManufacturer {
		return nil, fmt.Errorf(
			"add drug: company %s (%s) does not belong to a manufacturer: %w",
			company.CRN, company.Name, domain.ErrAuthorization,
		)
	}

	key, err := domain.MakeKey(domain.DrugNamespace, req.DrugName, req.SerialNo)
	if err != nil {
		return nil, fmt.Errorf("add drug: %w", err)
	}

	found, err := keyExists(ledger, key)
	if err != nil {
		return nil, fmt.Errorf("add drug: %w", err)
	}
	if found {
		return nil, fmt.Errorf("add drug %s+%s: a drug with this ID already exists: %w", req.DrugName, req.SerialNo, domain.ErrDuplicateKey)
	}

	now, err := txTime(ledger)
	if err != nil {
		return nil, fmt.Errorf("add drug: %w", err)
	}

	drug := &domain.Drug{
		ProductID:    key,
		DrugName:     req.DrugName,
		SerialNo:     req.SerialNo,
		Manufacturer: company.CompanyID,
		MfgDate:      req.MfgDate,
		ExpDate:      req.ExpDate,
		Owner:        company.CompanyID,
		Shipments:    []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := putJSON(ledger, key, drug); err != nil {
		return nil, fmt.Errorf("add drug: %w", err)
	}

	return drug, nil
}

// Return the current state of a drug unit.
func ViewDrugCurrentState(ctx context.Context, ledger ports.Ledger, drugName, serialNo string) (_ *domain.Drug, err error) {
	defer obs.Time(ctx, "services.ViewDrugCurrentState")(&err)

	drug, _, err := getDrug(ledger, drugName, serialNo)
	if err != nil {
		return nil, fmt.Errorf("view drug current state: %w", err)
	}
	return drug, nil
}

// Load a drug and its key; fails with ErrNotFound when absent.
func getDrug(ledger ports.Ledger, drugName, serialNo string) (*domain.Drug, string, error) {
	if err := requireNonEmpty("drugName", drugName, "serialNo", serialNo); err != nil {
		return nil, "", err
	}

	key, err := domain.MakeKey(domain.DrugNamespace, drugName, serialNo)
	if err != nil {
		return nil, "", err
	}

	var drug domain.Drug
	ok, err := getJSON(ledger, key, &drug)
	if err != nil {
		return nil, "", fmt.Errorf("drug %s+%s: %w", drugName, serialNo, err)
	}
	if !ok {
		return nil, "", fmt.Errorf("drug %s+%s: a drug with this ID does not exist: %w", drugName, serialNo, domain.ErrNotFound)
	}
	if drug.Shipments == nil {
		drug.Shipments = []string{}
	}

	return &drug, key, nil
}
