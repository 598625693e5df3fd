package services

import (
	"context"
	"fmt"
	"pharmanet-service/internal/domain"
	"pharmanet-service/internal/ports"
	"strconv"
	"strings"
)

// Operation is one entry of the invoke surface: its positional parameter
// names and the handler that runs it inside a ledger transaction.
type Operation struct {
	Params   []string
	ReadOnly bool
	Run      func(ctx context.Context, ledger ports.Ledger, caller ports.Identity, args []string) (any, error)
}

// Operations maps invoke names to handlers. Gateways translate their wire
// calls into a name and positional string arguments and call Invoke.
var Operations = map[string]Operation{
	"registerCompany": {
		Params: []string{"companyCRN", "companyName", "location", "organisationRole"},
		Run: func(ctx context.Context, l ports.Ledger, c ports.Identity, a []string) (any, error) {
			return RegisterCompany(ctx, l, c, RegisterCompanyRequest{CRN: a[0], Name: a[1], Location: a[2], Role: a[3]})
		},
	},
	"addDrug": {
		Params: []string{"drugName", "serialNo", "mfgDate", "expDate", "companyCRN"},
		Run: func(ctx context.Context, l ports.Ledger, c ports.Identity, a []string) (any, error) {
			return AddDrug(ctx, l, c, AddDrugRequest{DrugName: a[0], SerialNo: a[1], MfgDate: a[2], ExpDate: a[3], CompanyCRN: a[4]})
		},
	},
	"createPO": {
		Params: []string{"buyerCRN", "sellerCRN", "drugName", "quantity"},
		Run: func(ctx context.Context, l ports.Ledger, c ports.Identity, a []string) (any, error) {
			qty, err := strconv.Atoi(strings.TrimSpace(a[3]))
			if err != nil {
				return nil, fmt.Errorf("create po: quantity %q is not a number: %w", a[3], domain.ErrInvalidArgument)
			}
			return CreatePO(ctx, l, c, CreatePORequest{BuyerCRN: a[0], SellerCRN: a[1], DrugName: a[2], Quantity: qty})
		},
	},
	"createShipment": {
		Params: []string{"buyerCRN", "drugName", "listOfAssets", "transporterCRN"},
		Run: func(ctx context.Context, l ports.Ledger, c ports.Identity, a []string) (any, error) {
			serials, err := ParseAssetList(a[2])
			if err != nil {
				return nil, fmt.Errorf("create shipment: %w", err)
			}
			return CreateShipment(ctx, l, c, CreateShipmentRequest{BuyerCRN: a[0], DrugName: a[1], SerialNos: serials, TransporterCRN: a[3]})
		},
	},
	"updateShipment": {
		Params: []string{"buyerCRN", "drugName", "transporterCRN"},
		Run: func(ctx context.Context, l ports.Ledger, c ports.Identity, a []string) (any, error) {
			return UpdateShipment(ctx, l, c, a[0], a[1], a[2])
		},
	},
	"retailDrug": {
		Params: []string{"drugName", "serialNo", "retailerCRN", "consumerId"},
		Run: func(ctx context.Context, l ports.Ledger, c ports.Identity, a []string) (any, error) {
			return RetailDrug(ctx, l, c, a[0], a[1], a[2], a[3])
		},
	},
	"viewHistory": {
		Params:   []string{"drugName", "serialNo"},
		ReadOnly: true,
		Run: func(ctx context.Context, l ports.Ledger, _ ports.Identity, a []string) (any, error) {
			return ViewHistory(ctx, l, a[0], a[1])
		},
	},
	"viewDrugCurrentState": {
		Params:   []string{"drugName", "serialNo"},
		ReadOnly: true,
		Run: func(ctx context.Context, l ports.Ledger, _ ports.Identity, a []string) (any, error) {
			return ViewDrugCurrentState(ctx, l, a[0], a[1])
		},
	},
}

// Outcome of an invoked operation.
type Result struct {
	TxID  string
	Value any
}

// Invoke runs the named operation as one atomic ledger transaction.
func Invoke(
	ctx context.Context,
	store ports.LedgerStore,
	caller ports.Identity,
	name string,
	args []string,
) (Result, error) {
	op, ok := Operations[name]
	if !ok {
		return Result{}, fmt.Errorf("invoke %q: %w", name, domain.ErrUnknownOperation)
	}

	if len(args) != len(op.Params) {
		return Result{}, fmt.Errorf(
			"invoke %s: expected %d arguments (%s), got %d: %w",
			name, len(op.Params), strings.Join(op.Params, ", "), len(args), domain.ErrInvalidArgument,
		)
	}

	var res Result
	err := store.Run(ctx, func(ledger ports.Ledger) error {
		v, err := op.Run(ctx, ledger, caller, args)
		if err != nil {
			return err
		}

		res = Result{Value: v}
		if !op.ReadOnly {
			res.TxID = ledger.TxID()
		}
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("invoke %s: %w", name, err)
	}

	return res, nil
}
