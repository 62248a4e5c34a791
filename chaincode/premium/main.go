package main

import (
	"log"

	"github.com/healthsure/dlt-insurance/chaincode/premium/premium"
	"github.com/hyperledger/fabric-contract-api-go/contractapi"
)

func main() {
	premiumChaincode, err := contractapi.NewChaincode(&premium.SmartContract{})
	if err != nil {
		log.Panicf("Error creating DynamicPremium chaincode: %v", err)
	}

	if err := premiumChaincode.Start(); err != nil {
		log.Panicf("Error starting DynamicPremium chaincode: %v", err)
	}
}
