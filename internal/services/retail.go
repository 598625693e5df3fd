package services

import (
	"context"
	"fmt"
	"pharmanet-service/internal/domain"
	"pharmanet-service/internal/platform/obs"
	"pharmanet-service/internal/ports"
)

// Sell one drug unit to a consumer. The consumer identifier becomes the
// owner and no operation transfers the unit further.
func RetailDrug(
	ctx context.Context,
	ledger ports.Ledger,
	caller ports.Identity,
	drugName string,
	serialNo string,
	retailerCRN string,
	consumerID string,
) (_ *domain.Drug, err error) {
	defer obs.Time(ctx, "services.RetailDrug")(&err)

	if err := RequireRole(caller, []domain.Role{domain.RoleRetailer}, "only a retailer can sell a drug to a consumer"); err != nil {
		return nil, fmt.Errorf("retail drug: %w", err)
	}

	if err := requireNonEmpty("consumerId", consumerID); err != nil {
		return nil, fmt.Errorf("retail drug: %w", err)
	}
	if err := domain.ValidateIdentifier(consumerID); err != nil {
		return nil, fmt.Errorf("retail drug: consumerId: %w", err)
	}

	retailer, err := FindCompanyByCRN(ledger, retailerCRN)
	if err != nil {
		return nil, fmt.Errorf("retail drug: retailer: %w", err)
	}
	if retailer.Role != domain.RoleRetailer {
		return nil, fmt.Errorf("retail drug: company %s is not a retailer: %w", retailer.CRN, domain.ErrAuthorization)
	}

	drug, key, err := getDrug(ledger, drugName, serialNo)
	if err != nil {
		return nil, fmt.Errorf("retail drug: %w", err)
	}

	if drug.Owner != retailer.CompanyID {
		return nil, fmt.Errorf(
			"retail drug: retailer %s is not the owner of drug %s+%s: %w",
			retailer.CRN, drugName, serialNo, domain.ErrOwnershipMismatch,
		)
	}

	now, err := txTime(ledger)
	if err != nil {
		return nil, fmt.Errorf("retail drug: %w", err)
	}

	drug.Owner = consumerID
	drug.UpdatedAt = now

	if err := putJSON(ledger, key, drug); err != nil {
		return nil, fmt.Errorf("retail drug: %w", err)
	}

	return drug, nil
}
