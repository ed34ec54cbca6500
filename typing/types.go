package typing

// ClassType is a type named by a class declaration such as `Int` or a user
// class.  Its value is the class name.
type ClassType string

func (ct ClassType) equals(other DataType) bool {
	if oct, ok := other.(ClassType); ok {
		return ct == oct
	}

	return false
}

// Repr of a class type is just the class name
func (ct ClassType) Repr() string {
	return string(ct)
}

// The built-in class types seeded into every class table
var (
	ObjectType = ClassType("Object")
	IOType     = ClassType("IO")
	IntType    = ClassType("Int")
	StringType = ClassType("String")
	BoolType   = ClassType("Bool")
)

// -----------------------------------------------------------------------------

// SelfType is the SELF_TYPE marker: the exact runtime class of the receiver.
// It is context-dependent, not a concrete class, so it carries no class name;
// every comparison site resolves it against the enclosing class.  It is never
// stored pre-resolved.
type SelfType struct{}

// two SELF_TYPE markers are only ever compared within one checking context,
// so they always denote the same receiver class
func (st SelfType) equals(other DataType) bool {
	_, ok := other.(SelfType)
	return ok
}

func (st SelfType) Repr() string {
	return "SELF_TYPE"
}

// -----------------------------------------------------------------------------

// ErrorType is the sentinel produced for an expression that failed to check.
// It conforms to every type so that one bad node does not cascade spurious
// errors through its consumers.
type ErrorType struct{}

func (et ErrorType) equals(other DataType) bool {
	_, ok := other.(ErrorType)
	return ok
}

func (et ErrorType) Repr() string {
	return "<error>"
}
