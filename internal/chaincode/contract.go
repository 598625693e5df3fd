package chaincode

import (
	"context"
	"encoding/json"
	"fmt"
	"pharmanet-service/internal/adapters/identity"
	"pharmanet-service/internal/adapters/ledger"
	"pharmanet-service/internal/platform/obs"
	"pharmanet-service/internal/services"

	"github.com/hyperledger/fabric-contract-api-go/contractapi"
)

// Name under which the contract is installed; clients invoke
// "org.pharma-network.pharmanet:<Transaction>".
const ContractName = "org.pharma-network.pharmanet"

// PharmanetContract exposes the supply-chain operations as Fabric
// transactions. Every transaction returns its result as a JSON document.
type PharmanetContract struct {
	contractapi.Contract
}

func NewContract() *PharmanetContract {
	c := &PharmanetContract{}
	c.Name = ContractName
	c.Info.Title = "pharmanet"
	c.Info.Version = "1.0.0"
	return c
}

// Instantiate is a no-op kept for clients that call it after deployment.
func (c *PharmanetContract) Instantiate(ctx contractapi.TransactionContextInterface) error {
	return nil
}

func (c *PharmanetContract) RegisterCompany(
	ctx contractapi.TransactionContextInterface,
	companyCRN string,
	companyName string,
	location string,
	organisationRole string,
) (string, error) {
	return invoke(ctx, "registerCompany", companyCRN, companyName, location, organisationRole)
}

func (c *PharmanetContract) AddDrug(
	ctx contractapi.TransactionContextInterface,
	drugName string,
	serialNo string,
	mfgDate string,
	expDate string,
	companyCRN string,
) (string, error) {
	return invoke(ctx, "addDrug", drugName, serialNo, mfgDate, expDate, companyCRN)
}

func (c *PharmanetContract) CreatePO(
	ctx contractapi.TransactionContextInterface,
	buyerCRN string,
	sellerCRN string,
	drugName string,
	quantity string,
) (string, error) {
	return invoke(ctx, "createPO", buyerCRN, sellerCRN, drugName, quantity)
}

func (c *PharmanetContract) CreateShipment(
	ctx contractapi.TransactionContextInterface,
	buyerCRN string,
	drugName string,
	listOfAssets string,
	transporterCRN string,
) (string, error) {
	return invoke(ctx, "createShipment", buyerCRN, drugName, listOfAssets, transporterCRN)
}

func (c *PharmanetContract) UpdateShipment(
	ctx contractapi.TransactionContextInterface,
	buyerCRN string,
	drugName string,
	transporterCRN string,
) (string, error) {
	return invoke(ctx, "updateShipment", buyerCRN, drugName, transporterCRN)
}

func (c *PharmanetContract) RetailDrug(
	ctx contractapi.TransactionContextInterface,
	drugName string,
	serialNo string,
	retailerCRN string,
	consumerID string,
) (string, error) {
	return invoke(ctx, "retailDrug", drugName, serialNo, retailerCRN, consumerID)
}

func (c *PharmanetContract) ViewHistory(ctx contractapi.TransactionContextInterface, drugName string, serialNo string) (string, error) {
	return invoke(ctx, "viewHistory", drugName, serialNo)
}

func (c *PharmanetContract) ViewDrugCurrentState(ctx contractapi.TransactionContextInterface, drugName string, serialNo string) (string, error) {
	return invoke(ctx, "viewDrugCurrentState", drugName, serialNo)
}

// Run one operation against the transaction's stub. A returned error makes
// the peer discard the whole write set.
func invoke(ctx contractapi.TransactionContextInterface, name string, args ...string) (string, error) {
	stub := ctx.GetStub()

	opCtx := obs.WithRequestID(context.Background(), stub.GetTxID())
	caller := identity.NewCertificateIdentity(ctx.GetClientIdentity())

	res, err := services.Invoke(opCtx, ledger.NewFabricLedger(stub), caller, name, args)
	if err != nil {
		return "", err
	}

	b, err := json.Marshal(res.Value)
	if err != nil {
		return "", fmt.Errorf("%s: encode result: %w", name, err)
	}
	return string(b), nil
}
