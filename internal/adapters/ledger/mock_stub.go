package ledger

import (
	"errors"
	"fmt"
	"pharmanet-service/internal/domain"
	"sort"
	"time"

	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-protos-go/ledger/queryresult"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// MockStub is an in-process stand-in for the peer side of a chaincode stub.
// It keeps committed state and history; writes of the transaction opened
// with Begin stay invisible until Commit, as on a peer.
//
// Only the state, history and transaction methods are implemented. Calling
// any other stub method panics.
type MockStub struct {
	shim.ChaincodeStubInterface

	state   map[string][]byte
	history map[string][]*queryresult.KeyModification

	txID   string
	ts     *timestamppb.Timestamp
	writes map[string][]byte
	order  []string
}

func NewMockStub() *MockStub {
	return &MockStub{
		state:   make(map[string][]byte),
		history: make(map[string][]*queryresult.KeyModification),
	}
}

// Open a transaction proposal.
func (s *MockStub) Begin(txID string, ts time.Time) {
	s.txID = txID
	s.ts = timestamppb.New(ts)
	s.writes = make(map[string][]byte)
	s.order = nil
}

// Commit the write set of the open transaction.
func (s *MockStub) Commit() {
	for _, key := range s.order {
		value := s.writes[key]
		s.state[key] = value
		s.history[key] = append(s.history[key], &queryresult.KeyModification{
			TxId:      s.txID,
			Value:     value,
			Timestamp: s.ts,
		})
	}
	s.Discard()
}

// Drop the write set of the open transaction.
func (s *MockStub) Discard() {
	s.writes = make(map[string][]byte)
	s.order = nil
}

func (s *MockStub) GetTxID() string { return s.txID }

func (s *MockStub) GetTxTimestamp() (*timestamppb.Timestamp, error) {
	if s.ts == nil {
		return nil, errors.New("mock stub: no open transaction")
	}
	return s.ts, nil
}

func (s *MockStub) GetState(key string) ([]byte, error) {
	if key == "" {
		return nil, errors.New("mock stub: key must not be empty")
	}
	return s.state[key], nil
}

func (s *MockStub) PutState(key string, value []byte) error {
	if key == "" {
		return errors.New("mock stub: key must not be empty")
	}
	if s.writes == nil {
		return errors.New("mock stub: no open transaction")
	}

	if _, ok := s.writes[key]; !ok {
		s.order = append(s.order, key)
	}
	s.writes[key] = append([]byte(nil), value...)
	return nil
}

func (s *MockStub) GetStateByPartialCompositeKey(objectType string, keys []string) (shim.StateQueryIteratorInterface, error) {
	start, end, err := domain.PartialKeyRange(objectType, keys...)
	if err != nil {
		return nil, fmt.Errorf("mock stub: %w", err)
	}

	matched := make([]string, 0)
	for k := range s.state {
		if k >= start && k < end {
			matched = append(matched, k)
		}
	}
	sort.Strings(matched)

	items := make([]*queryresult.KV, 0, len(matched))
	for _, k := range matched {
		items = append(items, &queryresult.KV{Key: k, Value: s.state[k]})
	}
	return &mockStateIterator{items: items}, nil
}

func (s *MockStub) GetHistoryForKey(key string) (shim.HistoryQueryIteratorInterface, error) {
	items := append([]*queryresult.KeyModification(nil), s.history[key]...)
	return &mockHistoryIterator{items: items}, nil
}

type mockStateIterator struct {
	items []*queryresult.KV
	pos   int
}

func (it *mockStateIterator) HasNext() bool { return it.pos < len(it.items) }

func (it *mockStateIterator) Next() (*queryresult.KV, error) {
	if !it.HasNext() {
		return nil, errIteratorExhausted
	}
	kv := it.items[it.pos]
	it.pos++
	return kv, nil
}

func (it *mockStateIterator) Close() error { return nil }

type mockHistoryIterator struct {
	items []*queryresult.KeyModification
	pos   int
}

func (it *mockHistoryIterator) HasNext() bool { return it.pos < len(it.items) }

func (it *mockHistoryIterator) Next() (*queryresult.KeyModification, error) {
	if !it.HasNext() {
		return nil, errIteratorExhausted
	}
	km := it.items[it.pos]
	it.pos++
	return km, nil
}

func (it *mockHistoryIterator) Close() error { return nil }
