package services

import (
	"context"
	"fmt"
	"pharmanet-service/internal/domain"
	"pharmanet-service/internal/platform/obs"
	"pharmanet-service/internal/ports"
)

type CreatePORequest struct {
	BuyerCRN  string
	SellerCRN string
	DrugName  string
	Quantity  int
}

// Create a purchase order on the buyer's behalf.
// Only adjacent tiers trade: a distributor buys from a manufacturer and a
// retailer buys from a distributor.
func CreatePO(
	ctx context.Context,
	ledger ports.Ledger,
	caller ports.Identity,
	req CreatePORequest,
) (_ *domain.PurchaseOrder, err error) {
	defer obs.Time(ctx, "services.CreatePO")(&err)

	allowed := []domain.Role{domain.RoleDistributor, domain.RoleRetailer}
	if err := RequireRole(caller, allowed, "purchase order can be created by distributor or retailer only"); err != nil {
		return nil, fmt.Errorf("create po: %w", err)
	}

	if err := requireNonEmpty("drugName", req.DrugName); err != nil {
		return nil, fmt.Errorf("create po: %w", err)
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("create po: quantity must be positive, got %d: %w", req.Quantity, domain.ErrInvalidArgument)
	}

	buyer, err := FindCompanyByCRN(ledger, req.BuyerCRN)
	if err != nil {
		return nil, fmt.Errorf("create po: buyer: %w", err)
	}

	if err := RequireRole(caller, []domain.Role{buyer.Role}, "user does not have privileges to create the PO as a "+string(buyer.Role)); err != nil {
		return nil, fmt.Errorf("create po: %w", err)
	}

	seller, err := FindCompanyByCRN(ledger, req.SellerCRN)
	if err != nil {
		return nil, fmt.Errorf("create po: seller: %w", err)
	}

	if !tradeAllowed(buyer.Role, seller.Role) {
		return nil, fmt.Errorf(
			"create po: transfer of drug does not follow the hierarchy: buyer level=%d seller level=%d: %w",
			buyer.HierarchyLevel, seller.HierarchyLevel, domain.ErrHierarchyViolation,
		)
	}

	key, err := domain.MakeKey(domain.PONamespace, req.BuyerCRN, req.DrugName)
	if err != nil {
		return nil, fmt.Errorf("create po: %w", err)
	}

	found, err := keyExists(ledger, key)
	if err != nil {
		return nil, fmt.Errorf("create po: %w", err)
	}
	if found {
		return nil, fmt.Errorf("create po %s+%s: purchase order already exists: %w", req.BuyerCRN, req.DrugName, domain.ErrDuplicateKey)
	}

	now, err := txTime(ledger)
	if err != nil {
		return nil, fmt.Errorf("create po: %w", err)
	}

	po := &domain.PurchaseOrder{
		POID:      key,
		DrugName:  req.DrugName,
		Quantity:  req.Quantity,
		Buyer:     buyer.CompanyID,
		Seller:    seller.CompanyID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := putJSON(ledger, key, po); err != nil {
		return nil, fmt.Errorf("create po: %w", err)
	}

	return po, nil
}

// Report whether buyer may purchase from seller.
func tradeAllowed(buyer, seller domain.Role) bool {
	b, s := buyer.Level(), seller.Level()
	return (b == 2 && s == 1) || (b == 3 && s == 2)
}
