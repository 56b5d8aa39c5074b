package store

import "errors"

// Sentinel errors surfaced by store operations. Callers distinguish them
// with errors.Is; anything else is a persistence failure from the driver.
var (
	ErrNotFound  = errors.New("document not found")
	ErrInvalidID = errors.New("invalid document id")
)

// Collection describes one logical document collection: its table name and,
// for child entities, the document key holding the parent identifier.
type Collection struct {
	name      string
	parentKey string
}

// Name returns the collection's table name.
func (c Collection) Name() string { return c.name }

// ParentKey returns the document key used for parent lookups, or "" when the
// collection has no parent reference.
func (c Collection) ParentKey() string { return c.parentKey }

// The fixed set of collections served by this system.
var (
	Users               = Collection{name: "users"}
	Branches            = Collection{name: "branches"}
	Buildings           = Collection{name: "buildings", parentKey: "branch_id"}
	Floors              = Collection{name: "floors", parentKey: "building_id"}
	Rooms               = Collection{name: "rooms", parentKey: "floor_id"}
	Beds                = Collection{name: "beds", parentKey: "room_id"}
	Payments            = Collection{name: "payments"}
	AccountTransactions = Collection{name: "account_transactions"}
)

// All lists every collection, in migration order.
func All() []Collection {
	return []Collection{
		Users, Branches, Buildings, Floors, Rooms, Beds,
		Payments, AccountTransactions,
	}
}

// UpdateResult reports how many documents an update touched. Matched == 0
// means the id did not exist.
type UpdateResult struct {
	Matched  int64
	Modified int64
}
