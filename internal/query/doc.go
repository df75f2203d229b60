// Package query provides the abstract query model consumed by the Flexi
// resource mapper.
//
// A Query is what an ORM-style caller hands to the mapper: a condition tree,
// an ordering, a field selection and a pagination window. Nothing in this
// package knows about the provider's wire grammar; see package queryflexi for
// the compiler that turns a Query into filter strings and query parameters.
//
// SEALED INTERFACES:
//
// Condition is a sealed interface using the marker method pattern. Only Leaf
// and Group (and pointers to them) implement it, so compilers can switch on
// the concrete type exhaustively:
//
//	switch c := cond.(type) {
//	case Leaf:
//	    // property / operator / value
//	case Group:
//	    // parenthesized children
//	}
//
// JOINERS:
//
// Every node carries the joiner that connects it to the clause before it.
// The joiner of the first clause in a sibling sequence is never rendered
// because nothing precedes it.
//
// VALUES:
//
// Leaf values are plain Go values. Slices render as lists, time.Time renders
// as an ISO 8601 timestamp with a numeric offset, and everything else is
// stringified. Values are never escaped; callers that accept untrusted input
// should run Validate before compiling.
package query
