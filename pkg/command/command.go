package command

import (
	"errors"
	"maps"
	"slices"

	"github.com/haptic-protocol/haptic-go/pkg/wire"
)

// ErrNilCommand is returned by Expand when no command is given.
var ErrNilCommand = errors.New("nil command")

// Subcommand is one (feature index, value) pair of a canonical sequence.
type Subcommand[T any] struct {
	Index uint32
	Value T
}

// Command is a convenience command addressing the features of one
// category. It is implemented only by Uniform, IndexedList and SparseMap.
type Command[T any] interface {
	expand(featureCount uint32) ([]Subcommand[T], error)
}

// Uniform applies one value to every feature.
type Uniform[T any] struct {
	Value T
}

// IndexedList maps values to feature indices by position.
type IndexedList[T any] []T

// SparseMap addresses an explicit subset of features by index.
type SparseMap[T any] map[uint32]T

// Rotation is the value of a rotate command. Speed is in [0.0, 1.0].
type Rotation struct {
	Speed     float64
	Clockwise bool
}

// Vector is the value of a linear command: move to Position in
// [0.0, 1.0] over Duration milliseconds.
type Vector struct {
	Duration uint32
	Position float64
}

// Expand validates cmd against featureCount and returns its canonical
// subcommand sequence, sorted ascending by feature index.
func Expand[T any](cmd Command[T], featureCount uint32) ([]Subcommand[T], error) {
	if cmd == nil {
		return nil, ErrNilCommand
	}
	return cmd.expand(featureCount)
}

func (u Uniform[T]) expand(featureCount uint32) ([]Subcommand[T], error) {
	subs := make([]Subcommand[T], featureCount)
	for i := range featureCount {
		subs[i] = Subcommand[T]{Index: i, Value: u.Value}
	}
	return subs, nil
}

func (l IndexedList[T]) expand(featureCount uint32) ([]Subcommand[T], error) {
	if uint64(len(l)) > uint64(featureCount) {
		return nil, &wire.FeatureCountMismatchError{Expected: featureCount, Got: uint32(len(l))}
	}
	subs := make([]Subcommand[T], len(l))
	for i, v := range l {
		subs[i] = Subcommand[T]{Index: uint32(i), Value: v}
	}
	return subs, nil
}

func (m SparseMap[T]) expand(featureCount uint32) ([]Subcommand[T], error) {
	if uint64(len(m)) > uint64(featureCount) {
		return nil, &wire.FeatureCountMismatchError{Expected: featureCount, Got: uint32(len(m))}
	}
	// Sorted first so the smallest offending index is the one reported.
	indices := slices.Sorted(maps.Keys(m))
	subs := make([]Subcommand[T], 0, len(m))
	for _, idx := range indices {
		if idx >= featureCount {
			return nil, &wire.FeatureIndexError{Count: featureCount, Index: idx}
		}
		subs = append(subs, Subcommand[T]{Index: idx, Value: m[idx]})
	}
	return subs, nil
}
