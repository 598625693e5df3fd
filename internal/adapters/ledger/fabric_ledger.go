package ledger

import (
	"context"
	"fmt"
	"pharmanet-service/internal/ports"
	"time"

	"github.com/hyperledger/fabric-chaincode-go/shim"
)

// FabricLedger adapts a chaincode stub to the Ledger port.
//
// The stub already is one transaction: the peer records its read/write set
// and the ordering service commits it or rejects it as a whole, so Run just
// hands the stub to fn. Returning an error from the chaincode discards every
// write.
type FabricLedger struct {
	Stub shim.ChaincodeStubInterface
}

func NewFabricLedger(stub shim.ChaincodeStubInterface) *FabricLedger {
	return &FabricLedger{Stub: stub}
}

func (f *FabricLedger) Run(ctx context.Context, fn func(ports.Ledger) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(f)
}

// Fabric stores no empty values, so an empty read means absent.
func (f *FabricLedger) GetState(key string) ([]byte, bool, error) {
	b, err := f.Stub.GetState(key)
	if err != nil {
		return nil, false, fmt.Errorf("fabric ledger: get state: %w", err)
	}
	return b, len(b) > 0, nil
}

func (f *FabricLedger) PutState(key string, value []byte) error {
	if err := f.Stub.PutState(key, value); err != nil {
		return fmt.Errorf("fabric ledger: put state: %w", err)
	}
	return nil
}

func (f *FabricLedger) GetStateByPartialCompositeKey(namespace string, fields []string) (ports.StateIterator, error) {
	it, err := f.Stub.GetStateByPartialCompositeKey(namespace, fields)
	if err != nil {
		return nil, fmt.Errorf("fabric ledger: range: %w", err)
	}
	return &fabricStateIterator{it: it}, nil
}

func (f *FabricLedger) GetHistoryForKey(key string) (ports.HistoryIterator, error) {
	it, err := f.Stub.GetHistoryForKey(key)
	if err != nil {
		return nil, fmt.Errorf("fabric ledger: history: %w", err)
	}
	return &fabricHistoryIterator{it: it}, nil
}

func (f *FabricLedger) TxID() string { return f.Stub.GetTxID() }

// The proposal timestamp chosen by the client, identical on every endorser.
func (f *FabricLedger) TxTimestamp() (time.Time, error) {
	ts, err := f.Stub.GetTxTimestamp()
	if err != nil {
		return time.Time{}, fmt.Errorf("fabric ledger: tx timestamp: %w", err)
	}
	return ts.AsTime().UTC(), nil
}

type fabricStateIterator struct {
	it shim.StateQueryIteratorInterface
}

func (i *fabricStateIterator) HasNext() bool { return i.it.HasNext() }

func (i *fabricStateIterator) Next() (ports.KV, error) {
	kv, err := i.it.Next()
	if err != nil {
		return ports.KV{}, fmt.Errorf("fabric ledger: range: next: %w", err)
	}
	return ports.KV{Key: kv.Key, Value: kv.Value}, nil
}

func (i *fabricStateIterator) Close() error { return i.it.Close() }

type fabricHistoryIterator struct {
	it shim.HistoryQueryIteratorInterface
}

func (i *fabricHistoryIterator) HasNext() bool { return i.it.HasNext() }

func (i *fabricHistoryIterator) Next() (ports.KeyModification, error) {
	km, err := i.it.Next()
	if err != nil {
		return ports.KeyModification{}, fmt.Errorf("fabric ledger: history: next: %w", err)
	}

	var ts time.Time
	if km.Timestamp != nil {
		ts = km.Timestamp.AsTime().UTC()
	}

	return ports.KeyModification{
		TxID:      km.TxId,
		Timestamp: ts,
		IsDelete:  km.IsDelete,
		Value:     km.Value,
	}, nil
}

func (i *fabricHistoryIterator) Close() error { return i.it.Close() }
