package ledger

import (
	"errors"
	"pharmanet-service/internal/ports"
)

var errIteratorExhausted = errors.New("iterator exhausted")

// Iterator over a materialised slice of key/value pairs.
type sliceStateIterator struct {
	items []ports.KV
	pos   int
}

func (it *sliceStateIterator) HasNext() bool { return it.pos < len(it.items) }

func (it *sliceStateIterator) Next() (ports.KV, error) {
	if !it.HasNext() {
		return ports.KV{}, errIteratorExhausted
	}
	kv := it.items[it.pos]
	it.pos++
	return kv, nil
}

func (it *sliceStateIterator) Close() error {
	it.items = nil
	return nil
}

// Iterator over a materialised slice of key versions.
type sliceHistoryIterator struct {
	items []ports.KeyModification
	pos   int
}

func (it *sliceHistoryIterator) HasNext() bool { return it.pos < len(it.items) }

func (it *sliceHistoryIterator) Next() (ports.KeyModification, error) {
	if !it.HasNext() {
		return ports.KeyModification{}, errIteratorExhausted
	}
	m := it.items[it.pos]
	it.pos++
	return m, nil
}

func (it *sliceHistoryIterator) Close() error {
	it.items = nil
	return nil
}
