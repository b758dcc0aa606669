package generator

import "errors"

var (
	// ErrUnsupportedNode is returned when an output format cannot express a
	// node or term variant, for example a range in a full text query.
	ErrUnsupportedNode = errors.New("generator: unsupported node")

	// ErrUnboundedNegation is returned by formats that can only exclude
	// matches relative to a positive clause.
	ErrUnboundedNegation = errors.New("generator: negation without a positive clause")

	// ErrInvalidFieldMap is returned when a field map document cannot be
	// decoded.
	ErrInvalidFieldMap = errors.New("generator: invalid field map")
)
