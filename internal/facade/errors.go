package facade

import "fmt"

// TypeNameNotFoundError reports a type name absent from a facade's type
// table, or absent from both facades in a diff operation.
type TypeNameNotFoundError struct{ Name string }

func (e *TypeNameNotFoundError) Error() string {
	return fmt.Sprintf("facade: type not found: %s", e.Name)
}

// ModuleNotFoundError reports a module path absent from a facade's module
// list, or absent from both facades in a diff operation.
type ModuleNotFoundError struct{ Path string }

func (e *ModuleNotFoundError) Error() string {
	return fmt.Sprintf("facade: module not found: %s", e.Path)
}

// SymbolNotFoundError reports a symbol name absent from a facade's symbol
// table, or absent from both facades in a diff operation.
type SymbolNotFoundError struct{ Name string }

func (e *SymbolNotFoundError) Error() string {
	return fmt.Sprintf("facade: symbol not found: %s", e.Name)
}
