package model

// Category is a user-defined expense bucket. Balance is a cached value: it
// always equals the sum of every live expense transaction referencing the
// category, and is maintained by the ledger store inside the same database
// transaction as the write that changes it.
type Category struct {
	Title   string
	Color   string // opaque display tag (e.g. "#FF0000"); never interpreted
	ID      int64
	Balance int64 // cents
}
