package tile

import (
	"errors"
	"iter"
)

var errVisitCancelled = errors.New("visit cancelled")

// IterDescriptors returns an iterator over tile files of the tileset.
// A walk error is yielded once, with a zero Descriptor, and ends the sequence.
func IterDescriptors(r PathVisitor) iter.Seq2[Descriptor, error] {
	return func(yield func(Descriptor, error) bool) {
		err := r.VisitPaths(func(d Descriptor) error {
			if !yield(d, nil) {
				return errVisitCancelled
			}
			return nil
		})
		if err != nil && err != errVisitCancelled {
			yield(Descriptor{}, err)
		}
	}
}
