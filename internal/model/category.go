package model

// Category is static reference data: a named grouping for accounts or
// transactions. Both kinds are seeded once by the schema migrations and
// never mutated at runtime.
type Category struct {
	Name string
	ID   int64
}

// TransferCategoryID is the reserved "Other" transaction category that
// transfer-generated transactions are tagged with.
const TransferCategoryID int64 = 10
