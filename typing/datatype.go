package typing

// DataType is the interface for all static types known to the analyzer.
type DataType interface {
	// Repr returns the source-level spelling of the type
	Repr() string

	// equals takes in another DataType and returns if the two data types are
	// exactly equal with no consideration for inheritance.  It is meant to
	// only be called internally.
	equals(other DataType) bool
}

// -----------------------------------------------------------------------------

// Equals computes exact equality between two data types.  Conformance (the
// subtype-or-equal relation) is not equality: it depends on the inheritance
// hierarchy and therefore lives with the class table.
func Equals(a, b DataType) bool {
	return a.equals(b)
}

// IsError returns whether a type is the error sentinel.
func IsError(dt DataType) bool {
	_, ok := dt.(ErrorType)
	return ok
}

// IsSelf returns whether a type is the SELF_TYPE marker.
func IsSelf(dt DataType) bool {
	_, ok := dt.(SelfType)
	return ok
}
