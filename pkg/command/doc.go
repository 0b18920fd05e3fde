// Package command expands convenience commands into canonical subcommand
// sequences.
//
// A caller may address the features of one command category in three
// shapes:
//
//   - Uniform: one value applied to every feature
//   - IndexedList: values mapped to feature indices by position
//   - SparseMap: an explicit subset of feature indices
//
// Expand turns any of them into a []Subcommand sorted ascending by feature
// index, validating it against the category's feature count:
//
//	subs, err := command.Expand[float64](command.SparseMap[float64]{1: 0.5}, 2)
//	// subs == []Subcommand[float64]{{Index: 1, Value: 0.5}}
//
// Sequences derived from IndexedList and SparseMap may cover only some of
// the features. They are partial updates, not device state snapshots.
package command
