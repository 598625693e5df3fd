package services

import (
	"context"
	"fmt"
	"pharmanet-service/internal/domain"
	"pharmanet-service/internal/platform/obs"
	"pharmanet-service/internal/ports"
	"strings"
)

type CreateShipmentRequest struct {
	BuyerCRN       string
	DrugName       string
	SerialNos      []string
	TransporterCRN string
}

// Split a comma-separated list of drug serial numbers.
// Blank entries and repeated serials are rejected.
func ParseAssetList(list string) ([]string, error) {
	parts := strings.Split(list, ",")

	seen := make(map[string]struct{}, len(parts))
	serials := make([]string, 0, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, fmt.Errorf("parse asset list: entry #%d is empty: %w", i+1, domain.ErrInvalidArgument)
		}
		if _, ok := seen[p]; ok {
			return nil, fmt.Errorf("parse asset list: serial %q listed twice: %w", p, domain.ErrInvalidArgument)
		}
		seen[p] = struct{}{}
		serials = append(serials, p)
	}

	return serials, nil
}

// Create the shipment answering the purchase order (buyer CRN, drug name)
// and hand every listed unit to the transporter.
//
// The shipment record and every drug record are written in the same
// transaction; any failed check aborts before a write is proposed.
func CreateShipment(
	ctx context.Context,
	ledger ports.Ledger,
	caller ports.Identity,
	req CreateShipmentRequest,
) (_ *domain.Shipment, err error) {
	defer obs.Time(ctx, "services.CreateShipment")(&err)

	if err := requireNonEmpty("buyerCRN", req.BuyerCRN, "drugName", req.DrugName); err != nil {
		return nil, fmt.Errorf("create shipment: %w", err)
	}

	shipmentKey, err := domain.MakeKey(domain.ShipmentNamespace, req.BuyerCRN, req.DrugName)
	if err != nil {
		return nil, fmt.Errorf("create shipment: %w", err)
	}

	found, err := keyExists(ledger, shipmentKey)
	if err != nil {
		return nil, fmt.Errorf("create shipment: %w", err)
	}
	if found {
		return nil, fmt.Errorf("create shipment %s+%s: shipment already exists: %w", req.BuyerCRN, req.DrugName, domain.ErrDuplicateKey)
	}

	poKey, err := domain.MakeKey(domain.PONamespace, req.BuyerCRN, req.DrugName)
	if err != nil {
		return nil, fmt.Errorf("create shipment: %w", err)
	}

	var po domain.PurchaseOrder
	ok, err := getJSON(ledger, poKey, &po)
	if err != nil {
		return nil, fmt.Errorf("create shipment: purchase order: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("create shipment: unable to find PO %s+%s: %w", req.BuyerCRN, req.DrugName, domain.ErrNotFound)
	}

	var seller domain.Company
	ok, err = getJSON(ledger, po.Seller, &seller)
	if err != nil {
		return nil, fmt.Errorf("create shipment: seller: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("create shipment: seller of PO %s+%s: %w", req.BuyerCRN, req.DrugName, domain.ErrNotFound)
	}

	if err := RequireRole(caller, []domain.Role{seller.Role}, "shipment can be created only by the seller"); err != nil {
		return nil, fmt.Errorf("create shipment: %w", err)
	}

	if len(req.SerialNos) < po.Quantity {
		return nil, fmt.Errorf(
			"create shipment: list of assets insufficient: got %d, PO requires %d: %w",
			len(req.SerialNos), po.Quantity, domain.ErrQuantityInsufficient,
		)
	}

	drugs := make([]*domain.Drug, 0, len(req.SerialNos))
	assets := make([]string, 0, len(req.SerialNos))
	for _, serial := range req.SerialNos {
		drug, key, err := getDrug(ledger, req.DrugName, serial)
		if err != nil {
			return nil, fmt.Errorf("create shipment: %w", err)
		}

		if drug.Owner != seller.CompanyID {
			return nil, fmt.Errorf(
				"create shipment: drug %s+%s is not owned by the seller %s: %w",
				req.DrugName, serial, seller.CRN, domain.ErrOwnershipMismatch,
			)
		}

		drugs = append(drugs, drug)
		assets = append(assets, key)
	}

	transporter, err := FindCompanyByCRN(ledger, req.TransporterCRN)
	if err != nil {
		return nil, fmt.Errorf("create shipment: transporter: %w", err)
	}
	if transporter.Role != domain.RoleTransporter {
		return nil, fmt.Errorf(
			"create shipment: company %s is a %s, not a transporter: %w",
			transporter.CRN, transporter.Role, domain.ErrInvalidArgument,
		)
	}

	now, err := txTime(ledger)
	if err != nil {
		return nil, fmt.Errorf("create shipment: %w", err)
	}

	shipment := &domain.Shipment{
		ShipmentID:  shipmentKey,
		Creator:     po.Seller,
		Assets:      assets,
		Transporter: transporter.CompanyID,
		Status:      domain.StatusInTransit,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := putJSON(ledger, shipmentKey, shipment); err != nil {
		return nil, fmt.Errorf("create shipment: %w", err)
	}

	for i, drug := range drugs {
		drug.Owner = transporter.CompanyID
		drug.UpdatedAt = now

		if err := putJSON(ledger, assets[i], drug); err != nil {
			return nil, fmt.Errorf("create shipment: transfer drug %s+%s: %w", drug.DrugName, drug.SerialNo, err)
		}
	}

	return shipment, nil
}

// Mark the shipment (buyer CRN, drug name) delivered.
//
// Only the shipment's own transporter may deliver it. Every unit records
// the shipment key and passes to the buyer. A delivered shipment cannot be
// delivered again.
func UpdateShipment(
	ctx context.Context,
	ledger ports.Ledger,
	caller ports.Identity,
	buyerCRN string,
	drugName string,
	transporterCRN string,
) (_ *domain.Shipment, err error) {
	defer obs.Time(ctx, "services.UpdateShipment")(&err)

	if err := RequireRole(caller, []domain.Role{domain.RoleTransporter}, "shipment can be delivered by a transporter only"); err != nil {
		return nil, fmt.Errorf("update shipment: %w", err)
	}

	if err := requireNonEmpty("buyerCRN", buyerCRN, "drugName", drugName); err != nil {
		return nil, fmt.Errorf("update shipment: %w", err)
	}

	shipmentKey, err := domain.MakeKey(domain.ShipmentNamespace, buyerCRN, drugName)
	if err != nil {
		return nil, fmt.Errorf("update shipment: %w", err)
	}

	var shipment domain.Shipment
	ok, err := getJSON(ledger, shipmentKey, &shipment)
	if err != nil {
		return nil, fmt.Errorf("update shipment: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("update shipment %s+%s: shipment details not found: %w", buyerCRN, drugName, domain.ErrNotFound)
	}

	transporter, err := FindCompanyByCRN(ledger, transporterCRN)
	if err != nil {
		return nil, fmt.Errorf("update shipment: transporter: %w", err)
	}
	if transporter.CompanyID != shipment.Transporter {
		return nil, fmt.Errorf(
			"update shipment %s+%s: only the transporter of the shipment can mark it delivered: %w",
			buyerCRN, drugName, domain.ErrOwnershipMismatch,
		)
	}

	if shipment.Status == domain.StatusDelivered {
		return nil, fmt.Errorf(
			"update shipment %s+%s: shipment already delivered: %w",
			buyerCRN, drugName, domain.ErrOwnershipMismatch,
		)
	}

	buyer, err := FindCompanyByCRN(ledger, buyerCRN)
	if err != nil {
		return nil, fmt.Errorf("update shipment: buyer: %w", err)
	}

	now, err := txTime(ledger)
	if err != nil {
		return nil, fmt.Errorf("update shipment: %w", err)
	}

	drugs := make([]*domain.Drug, 0, len(shipment.Assets))
	for _, assetKey := range shipment.Assets {
		var drug domain.Drug
		ok, err := getJSON(ledger, assetKey, &drug)
		if err != nil {
			return nil, fmt.Errorf("update shipment: asset: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("update shipment: asset of shipment %s+%s missing: %w", buyerCRN, drugName, domain.ErrNotFound)
		}

		if drug.Owner != shipment.Transporter {
			return nil, fmt.Errorf(
				"update shipment: drug %s+%s is no longer held by the transporter: %w",
				drug.DrugName, drug.SerialNo, domain.ErrOwnershipMismatch,
			)
		}

		drug.Shipments = append(drug.Shipments, shipmentKey)
		drug.Owner = buyer.CompanyID
		drug.UpdatedAt = now
		drugs = append(drugs, &drug)
	}

	for i, drug := range drugs {
		if err := putJSON(ledger, shipment.Assets[i], drug); err != nil {
			return nil, fmt.Errorf("update shipment: deliver drug %s+%s: %w", drug.DrugName, drug.SerialNo, err)
		}
	}

	shipment.Status = domain.StatusDelivered
	shipment.UpdatedAt = now

	if err := putJSON(ledger, shipmentKey, &shipment); err != nil {
		return nil, fmt.Errorf("update shipment: %w", err)
	}

	return &shipment, nil
}
