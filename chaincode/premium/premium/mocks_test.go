package premium

import (
	"fmt"
	"sort"
	"strings"

	"github.com/golang/protobuf/ptypes/timestamp"
	"github.com/hyperledger/fabric-chaincode-go/pkg/cid"
	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-protos-go/ledger/queryresult"
)

const compositeKeySeparator = "\x00"

// mockStub is an in-memory world state standing in for the Fabric stub.
// Unimplemented ChaincodeStubInterface methods panic through the embedded
// nil interface, which is fine: the contract only uses the ones below.
type mockStub struct {
	shim.ChaincodeStubInterface
	state   map[string][]byte
	events  map[string][]byte
	txID    string
	txTime  int64
	failPut bool
}

func newMockStub() *mockStub {
	return &mockStub{
		state:  make(map[string][]byte),
		events: make(map[string][]byte),
		txID:   "tx-1",
		txTime: 1700000000,
	}
}

func (m *mockStub) GetState(key string) ([]byte, error) {
	return m.state[key], nil
}

func (m *mockStub) PutState(key string, value []byte) error {
	if m.failPut {
		return fmt.Errorf("put rejected")
	}
	m.state[key] = value
	return nil
}

func (m *mockStub) CreateCompositeKey(objectType string, attributes []string) (string, error) {
	key := compositeKeySeparator + objectType + compositeKeySeparator
	for _, attr := range attributes {
		key += attr + compositeKeySeparator
	}
	return key, nil
}

func (m *mockStub) GetStateByPartialCompositeKey(objectType string, attributes []string) (shim.StateQueryIteratorInterface, error) {
	prefix := compositeKeySeparator + objectType + compositeKeySeparator
	for _, attr := range attributes {
		prefix += attr + compositeKeySeparator
	}

	keys := make([]string, 0, len(m.state))
	for key := range m.state {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	results := make([]*queryresult.KV, 0, len(keys))
	for _, key := range keys {
		results = append(results, &queryresult.KV{Key: key, Value: m.state[key]})
	}
	return &mockIterator{results: results}, nil
}

func (m *mockStub) GetTxID() string {
	return m.txID
}

func (m *mockStub) GetTxTimestamp() (*timestamp.Timestamp, error) {
	return &timestamp.Timestamp{Seconds: m.txTime}, nil
}

func (m *mockStub) SetEvent(name string, payload []byte) error {
	m.events[name] = payload
	return nil
}

// snapshot copies the world state so tests can assert that failed
// operations performed zero writes.
func (m *mockStub) snapshot() map[string]string {
	copied := make(map[string]string, len(m.state))
	for key, value := range m.state {
		copied[key] = string(value)
	}
	return copied
}

type mockIterator struct {
	results []*queryresult.KV
	index   int
}

func (it *mockIterator) HasNext() bool {
	return it.index < len(it.results)
}

func (it *mockIterator) Next() (*queryresult.KV, error) {
	if it.index >= len(it.results) {
		return nil, fmt.Errorf("no more results")
	}
	result := it.results[it.index]
	it.index++
	return result, nil
}

func (it *mockIterator) Close() error {
	return nil
}

// mockClientIdentity returns a fixed caller ID.
type mockClientIdentity struct {
	cid.ClientIdentity
	id string
}

func (m *mockClientIdentity) GetID() (string, error) {
	return m.id, nil
}

// mockContext wires stub and identity into a transaction context.
type mockContext struct {
	stub     *mockStub
	identity *mockClientIdentity
}

func newMockContext(caller string) *mockContext {
	return &mockContext{
		stub:     newMockStub(),
		identity: &mockClientIdentity{id: caller},
	}
}

func (c *mockContext) GetStub() shim.ChaincodeStubInterface {
	return c.stub
}

func (c *mockContext) GetClientIdentity() cid.ClientIdentity {
	return c.identity
}

// withCaller reuses the same world state under a different caller identity.
func (c *mockContext) withCaller(caller string) *mockContext {
	return &mockContext{
		stub:     c.stub,
		identity: &mockClientIdentity{id: caller},
	}
}
