package memory

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"
)

const (
	tableCustomers       = "customers"
	tableAddresses       = "addresses"
	tableEmployments     = "employments"
	tableCreditHistories = "credit_histories"

	indexID         = "id"
	indexCustomerID = "customer_id"
	indexEmail      = "email"
	indexSSN        = "ssn"
	indexActive     = "active"
)

// uuidFieldIndex indexes a uuid.UUID struct field by its raw 16 bytes.
type uuidFieldIndex struct {
	Field string
}

func (u *uuidFieldIndex) FromObject(obj interface{}) (bool, []byte, error) {
	v := reflect.Indirect(reflect.ValueOf(obj))
	fv := v.FieldByName(u.Field)
	if !fv.IsValid() {
		return false, nil, fmt.Errorf("field '%s' for %#v is invalid", u.Field, obj)
	}
	id, ok := fv.Interface().(uuid.UUID)
	if !ok {
		return false, nil, fmt.Errorf("field '%s' is %s, not uuid.UUID", u.Field, fv.Type())
	}
	if id == uuid.Nil {
		return false, nil, nil
	}
	buf := make([]byte, len(id))
	copy(buf, id[:])
	return true, buf, nil
}

func (u *uuidFieldIndex) FromArgs(args ...interface{}) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("must provide only a single argument")
	}
	id, ok := args[0].(uuid.UUID)
	if !ok {
		return nil, fmt.Errorf("argument must be a uuid.UUID: %#v", args[0])
	}
	buf := make([]byte, len(id))
	copy(buf, id[:])
	return buf, nil
}

func idIndex() *memdb.IndexSchema {
	return &memdb.IndexSchema{
		Name:    indexID,
		Unique:  true,
		Indexer: &uuidFieldIndex{Field: "ID"},
	}
}

func customerIDIndex(unique bool) *memdb.IndexSchema {
	return &memdb.IndexSchema{
		Name:    indexCustomerID,
		Unique:  unique,
		Indexer: &uuidFieldIndex{Field: "CustomerID"},
	}
}

// newSchema mirrors the relational layout: address and credit history are
// one per customer, employments are many. memdb does not reject duplicate
// values on unique secondary indexes, so the store checks email and ssn itself.
func newSchema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			tableCustomers: {
				Name: tableCustomers,
				Indexes: map[string]*memdb.IndexSchema{
					indexID: idIndex(),
					indexEmail: {
						Name:    indexEmail,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Email"},
					},
					indexSSN: {
						Name:    indexSSN,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "SSN"},
					},
					indexActive: {
						Name:    indexActive,
						Indexer: &memdb.BoolFieldIndex{Field: "Active"},
					},
				},
			},
			tableAddresses: {
				Name: tableAddresses,
				Indexes: map[string]*memdb.IndexSchema{
					indexID:         idIndex(),
					indexCustomerID: customerIDIndex(true),
				},
			},
			tableEmployments: {
				Name: tableEmployments,
				Indexes: map[string]*memdb.IndexSchema{
					indexID:         idIndex(),
					indexCustomerID: customerIDIndex(false),
				},
			},
			tableCreditHistories: {
				Name: tableCreditHistories,
				Indexes: map[string]*memdb.IndexSchema{
					indexID:         idIndex(),
					indexCustomerID: customerIDIndex(true),
				},
			},
		},
	}
}
