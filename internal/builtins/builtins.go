// Package builtins holds the closed set of recognized built-in names
// (§4.3.1) and their mapping onto runtime global slots.
package builtins

// names is the closed set of identifiers that resolve to a runtime
// built-in rather than a user-defined module or local slot.
var names = map[string]struct{}{
	"abs": {}, "all": {}, "any": {}, "bool": {}, "bytearray": {}, "bytes": {},
	"chr": {}, "dict": {}, "enumerate": {}, "getattr": {}, "hash": {}, "hex": {},
	"int": {}, "isinstance": {}, "issubclass": {}, "iter": {}, "len": {}, "list": {},
	"max": {}, "min": {}, "next": {}, "object": {}, "open": {}, "ord": {}, "print": {},
	"range": {}, "repr": {}, "reversed": {}, "set": {}, "slice": {}, "sorted": {},
	"str": {}, "sum": {}, "tuple": {}, "type": {}, "zip": {},
	"ArithmeticError": {}, "AssertionError": {}, "IndexError": {}, "KeyError": {},
	"LookupError": {}, "StopIteration": {}, "TypeError": {}, "ValueError": {},
	"ZeroDivisionError": {},
}

// Is reports whether name is a recognized built-in.
func Is(name string) bool {
	_, ok := names[name]
	return ok
}

// GlobalRef returns the target expression text for referencing a
// built-in by name.
func GlobalRef(name string) string { return "Runtime.pyglobal_" + name }
