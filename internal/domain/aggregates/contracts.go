package aggregates

// WriteTxOwnership says who opens the transaction around an aggregate write.
type WriteTxOwnership string

const (
	// WriteTxOwnedByAggregate: the aggregate opens and commits its own transaction.
	WriteTxOwnedByAggregate WriteTxOwnership = "aggregate_owned"
)

// ReadPolicy says which reads an aggregate may perform.
type ReadPolicy string

const (
	// ReadPolicyInvariantScoped: only reads needed to check invariants inside a write.
	ReadPolicyInvariantScoped ReadPolicy = "invariant_scoped_reads"
	// ReadPolicyTableRepoQueries: list/detail views stay on the table repos.
	ReadPolicyTableRepoQueries ReadPolicy = "table_repo_queries"
)

type Contract struct {
	Name             string
	WriteTxOwnership WriteTxOwnership
	ReadPolicy       ReadPolicy
	Notes            string
}

// Aggregate is implemented by every aggregate so callers can inspect its contract.
type Aggregate interface {
	Contract() Contract
}

func (c Contract) RequiresAggregateOwnedTx() bool {
	return c.WriteTxOwnership == WriteTxOwnedByAggregate
}
