package preprocess

import "errors"

var (
	// ErrUnsupportedXorArity is returned by Normalizer when a XOR gate has
	// arity other than 2. spec.md §4.2 leaves n-ary XOR semantics as an open
	// question (OQ2); this implementation follows the "refuse" branch.
	ErrUnsupportedXorArity = errors.New("preprocess: XOR gates of arity other than 2 are unsupported")

	// ErrAtleastKOutOfRange is returned by Normalizer when an ATLEAST gate's
	// vote count k is not in [1, n] for its n arguments.
	ErrAtleastKOutOfRange = errors.New("preprocess: ATLEAST k is out of range for its argument count")
)
