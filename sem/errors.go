package sem

import (
	"fmt"
	"strings"
)

// ErrorKind enumerates the semantic rules a program can violate.  The first
// four kinds are structural: any one of them makes the inheritance graph
// unusable and halts analysis after the structural pass.  Everything else is
// recoverable.
type ErrorKind int

const (
	// structural errors
	DuplicateClass ErrorKind = iota
	UndefinedParent
	IllegalInheritance
	InheritanceCycle

	// declaration errors
	DuplicateAttribute
	DuplicateMethod
	InvalidOverride

	// expression errors
	UndefinedVariable
	UndefinedClass
	TypeMismatch
	ArgumentCountMismatch
	DuplicateCaseBranch
	MissingCaseBranch
	StaticDispatchError
)

// SemanticError is a single diagnostic.  Which fields are populated depends
// on the kind; Error renders the full message.
type SemanticError struct {
	Kind ErrorKind

	// Line is the source line of the offending construct; 0 for
	// declaration-level errors that have no single expression site
	Line int

	// Class and Name identify the offending construct (class, member,
	// variable, or type name depending on the kind)
	Class string
	Name  string

	// Parent is the offending parent class for inheritance errors, or the
	// ancestor that defines the overridden method
	Parent string

	// Expected and Found carry the two sides of a mismatch (types,
	// signatures, or argument counts rendered as strings)
	Expected string
	Found    string

	// Cycle lists the participants of an inheritance cycle in chain order
	Cycle []string

	// Where names the enclosing method or attribute for mismatches reported
	// against a declared member type
	Where string
}

func (se *SemanticError) Error() string {
	switch se.Kind {
	case DuplicateClass:
		return fmt.Sprintf("duplicate class '%s'", se.Class)
	case UndefinedParent:
		return fmt.Sprintf("class '%s' inherits from undefined parent '%s'", se.Class, se.Parent)
	case IllegalInheritance:
		return fmt.Sprintf("class '%s' cannot inherit from '%s'", se.Class, se.Parent)
	case InheritanceCycle:
		return fmt.Sprintf("inheritance cycle detected: %s", strings.Join(se.Cycle, " -> "))
	case DuplicateAttribute:
		return fmt.Sprintf("in class '%s', attribute '%s' is redeclared", se.Class, se.Name)
	case DuplicateMethod:
		return fmt.Sprintf("in class '%s', method '%s' is duplicated", se.Class, se.Name)
	case InvalidOverride:
		return fmt.Sprintf(
			"invalid override of method '%s' in class '%s': parent '%s' declares %s, found %s",
			se.Name, se.Class, se.Parent, se.Expected, se.Found,
		)
	case UndefinedVariable:
		return fmt.Sprintf("[line %d] variable '%s' is not declared", se.Line, se.Name)
	case UndefinedClass:
		return fmt.Sprintf("[line %d] type '%s' is not defined", se.Line, se.Name)
	case TypeMismatch:
		msg := fmt.Sprintf("[line %d] type mismatch: expected '%s', found '%s'", se.Line, se.Expected, se.Found)
		if se.Where != "" {
			msg += " " + se.Where
		}
		return msg
	case ArgumentCountMismatch:
		return fmt.Sprintf(
			"[line %d] method '%s' expects %s arguments, but %s were given",
			se.Line, se.Name, se.Expected, se.Found,
		)
	case DuplicateCaseBranch:
		return fmt.Sprintf("[line %d] duplicate branch type '%s' in case expression", se.Line, se.Name)
	case MissingCaseBranch:
		return fmt.Sprintf("[line %d] case expression has no branches", se.Line)
	case StaticDispatchError:
		return fmt.Sprintf(
			"[line %d] static dispatch type '%s' is not an ancestor of '%s'",
			se.Line, se.Name, se.Found,
		)
	default:
		return "unknown semantic error"
	}
}

// -----------------------------------------------------------------------------

// Collector accumulates diagnostics across a run without ever halting the
// pass that produced them.  It is owned exclusively by one analysis run and
// drained once at the end.
type Collector struct {
	errors []*SemanticError
}

// Add appends a diagnostic.
func (c *Collector) Add(err *SemanticError) {
	c.errors = append(c.errors, err)
}

// HasErrors returns whether any diagnostic has been collected so far.
func (c *Collector) HasErrors() bool {
	return len(c.errors) > 0
}

// Errors returns the collected diagnostics in the order they were added.
func (c *Collector) Errors() []*SemanticError {
	return c.errors
}
