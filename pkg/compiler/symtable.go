package compiler

import (
	"fmt"
	"sort"
	"strings"
)

// SymbolKind distinguishes the three things a name can be bound to.
type SymbolKind int

const (
	VariableKind SymbolKind = iota
	ParameterKind
	FunctionKind
)

var symbolKindNames = [...]string{
	VariableKind:  "variable",
	ParameterKind: "parameter",
	FunctionKind:  "function",
}

func (k SymbolKind) String() string {
	if int(k) >= 0 && int(k) < len(symbolKindNames) {
		return symbolKindNames[k]
	}
	return fmt.Sprintf("SymbolKind(%d)", int(k))
}

// Symbol is one declared name. ReturnType and Params are meaningful only for
// FunctionKind; Type and IsPointer only for the other two.
type Symbol struct {
	Name       string
	Type       TokenType
	IsPointer  bool
	Kind       SymbolKind
	ReturnType TokenType
	Params     []Param
}

func (s Symbol) String() string {
	if s.Kind == FunctionKind {
		parts := make([]string, len(s.Params))
		for i, p := range s.Params {
			parts[i] = typeName(p.Type)
		}
		return fmt.Sprintf("func(%s) -> %s", strings.Join(parts, ", "), typeName(s.ReturnType))
	}
	t := typeName(s.Type)
	if s.IsPointer {
		t += "*"
	}
	return fmt.Sprintf("%s %s", s.Kind, t)
}

// SymbolTable is a stack of lexical scopes. The global scope sits at the
// bottom for the table's whole lifetime; ExitScope never pops it.
type SymbolTable struct {
	scopes []map[string]Symbol
}

// NewSymbolTable returns a table holding only the permanent global scope.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{scopes: []map[string]Symbol{make(map[string]Symbol)}}
}

// EnterScope pushes a fresh innermost scope.
func (t *SymbolTable) EnterScope() {
	t.scopes = append(t.scopes, make(map[string]Symbol))
}

// ExitScope pops the innermost scope. Popping with only the global scope
// left is a no-op.
func (t *SymbolTable) ExitScope() {
	if len(t.scopes) > 1 {
		t.scopes = t.scopes[:len(t.scopes)-1]
	}
}

// IsGlobalScope reports whether the global scope is the only one on the
// stack.
func (t *SymbolTable) IsGlobalScope() bool {
	return len(t.scopes) == 1
}

// Define binds sym in the innermost scope. It fails only when the name is
// already bound in that same scope.
func (t *SymbolTable) Define(sym Symbol) bool {
	inner := t.scopes[len(t.scopes)-1]
	if _, exists := inner[sym.Name]; exists {
		return false
	}
	inner[sym.Name] = sym
	return true
}

// Resolve searches every scope from innermost to outermost and returns the
// first binding of name.
func (t *SymbolTable) Resolve(name string) (Symbol, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if sym, ok := t.scopes[i][name]; ok {
			return sym, true
		}
	}
	return Symbol{}, false
}

// ResolveLocal searches only the innermost scope.
func (t *SymbolTable) ResolveLocal(name string) (Symbol, bool) {
	sym, ok := t.scopes[len(t.scopes)-1][name]
	return sym, ok
}

// String returns a deterministically ordered dump of every scope, outermost
// first.
func (t *SymbolTable) String() string {
	var sb strings.Builder
	for i, scope := range t.scopes {
		if i == 0 {
			sb.WriteString("Scope 0 (global):\n")
		} else {
			fmt.Fprintf(&sb, "Scope %d:\n", i)
		}
		names := make([]string, 0, len(scope))
		for name := range scope {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&sb, "  %-20s %s\n", name, scope[name])
		}
	}
	return sb.String()
}
