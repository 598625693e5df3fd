package main

import (
	"log"
	"pharmanet-service/internal/chaincode"
	"pharmanet-service/internal/config"

	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-contract-api-go/contractapi"
)

// main starts the pharmanet chaincode, either connecting to the peer or,
// when CHAINCODE_SERVER_ADDRESS is set, as an external service the peer dials.
func main() {
	config.Load()
	cfg := config.LoadChaincode()

	cc, err := contractapi.NewChaincode(chaincode.NewContract())
	if err != nil {
		log.Fatalf("create chaincode failed: %v", err)
	}

	if cfg.ServerAddress == "" {
		if err := cc.Start(); err != nil {
			log.Fatalf("start chaincode failed: %v", err)
		}
		return
	}

	if cfg.ID == "" {
		log.Fatal("CHAINCODE_ID is required when CHAINCODE_SERVER_ADDRESS is set")
	}

	server := &shim.ChaincodeServer{
		CCID:    cfg.ID,
		Address: cfg.ServerAddress,
		CC:      cc,
		TLSProps: shim.TLSProperties{
			Disabled: true,
		},
	}

	log.Printf("Chaincode server listening addr=%s id=%s", cfg.ServerAddress, cfg.ID)
	if err := server.Start(); err != nil {
		log.Fatalf("chaincode server failed: %v", err)
	}
}
