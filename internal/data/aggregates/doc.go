// Package aggregates implements the write contracts in internal/domain/aggregates.
//
// Aggregates compose the table repos from internal/data/repos inside one transaction
// per write and translate driver failures into aggregate error codes.
package aggregates
