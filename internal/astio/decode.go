// Package astio reads compilation units written as YAML documents.
//
// A unit file holds one mapping whose kind key names the module:
//
//	theory: Natural_Number_Theory
//	uses: [Boolean_Theory]
//	decs:
//	  - type: N
//	  - definition: {name: "+", params: [{i: N}, {j: N}], returns: N}
//
// Expressions are scalars (numbers, true/false, names, dotted chains) or
// single-key mappings naming the expression form.
package astio

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/mathsema/internal/ast"
	"github.com/funvibe/mathsema/internal/diagnostics"
	"github.com/funvibe/mathsema/internal/token"
)

// decodeFailure carries a decoding diagnostic up to the entry point.
type decodeFailure struct {
	diag *diagnostics.DiagnosticError
}

type decoder struct {
	file string
}

// DecodeFile reads and decodes the unit stored at path. I/O failures are
// returned as plain errors; malformed units as L001 diagnostics.
func DecodeFile(path string) (ast.ModuleDec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading unit %s: %w", path, err)
	}
	return Decode(data, path)
}

// Decode decodes one unit. file is used for positions only.
func Decode(data []byte, file string) (unit ast.ModuleDec, err error) {
	d := &decoder{file: file}
	root, diag := d.document(data)
	if diag != nil {
		return nil, diag
	}
	defer d.recover(&err)
	return d.unit(root), nil
}

// DecodeExp decodes a single expression document.
func DecodeExp(data []byte, file string) (e ast.Exp, err error) {
	d := &decoder{file: file}
	root, diag := d.document(data)
	if diag != nil {
		return nil, diag
	}
	defer d.recover(&err)
	return d.exp(root), nil
}

func (d *decoder) document(data []byte) (*yaml.Node, *diagnostics.DiagnosticError) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, diagnostics.NewLoaderError(token.Token{File: d.file}, err.Error())
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, diagnostics.NewLoaderError(token.Token{File: d.file}, "empty document")
	}
	return doc.Content[0], nil
}

func (d *decoder) recover(err *error) {
	if r := recover(); r != nil {
		f, ok := r.(decodeFailure)
		if !ok {
			panic(r)
		}
		*err = f.diag
	}
}

func (d *decoder) tok(n *yaml.Node) token.Token {
	return token.Token{File: d.file, Line: n.Line, Column: n.Column, Lexeme: n.Value}
}

func (d *decoder) failf(n *yaml.Node, format string, args ...interface{}) {
	panic(decodeFailure{diagnostics.NewLoaderError(d.tok(n), fmt.Sprintf(format, args...))})
}

// fields is a decoded mapping node.
type fields struct {
	node   *yaml.Node
	values map[string]*yaml.Node
}

// fields checks that n is a mapping whose keys are all in allowed.
func (d *decoder) fields(n *yaml.Node, allowed ...string) fields {
	if n.Kind != yaml.MappingNode {
		d.failf(n, "expected a mapping, found %s", describe(n))
	}
	f := fields{node: n, values: make(map[string]*yaml.Node, len(n.Content)/2)}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i]
		if !contains(allowed, key.Value) {
			d.failf(key, "unknown key %q (want one of %s)", key.Value, strings.Join(allowed, ", "))
		}
		if _, dup := f.values[key.Value]; dup {
			d.failf(key, "duplicate key %q", key.Value)
		}
		f.values[key.Value] = n.Content[i+1]
	}
	return f
}

func (f fields) get(key string) *yaml.Node {
	return f.values[key]
}

func (d *decoder) require(f fields, key string) *yaml.Node {
	n := f.values[key]
	if n == nil {
		d.failf(f.node, "missing key %q", key)
	}
	return n
}

// single splits a single-key mapping into its key and value.
func (d *decoder) single(n *yaml.Node) (*yaml.Node, *yaml.Node) {
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		d.failf(n, "expected a single-key mapping, found %s", describe(n))
	}
	return n.Content[0], n.Content[1]
}

func (d *decoder) str(n *yaml.Node) string {
	if n == nil {
		return ""
	}
	if n.Kind != yaml.ScalarNode {
		d.failf(n, "expected a scalar, found %s", describe(n))
	}
	return n.Value
}

func (d *decoder) name(n *yaml.Node) string {
	s := d.str(n)
	if s == "" {
		d.failf(n, "expected a name")
	}
	return s
}

func (d *decoder) boolean(n *yaml.Node) bool {
	if n == nil {
		return false
	}
	var b bool
	if err := n.Decode(&b); err != nil {
		d.failf(n, "expected true or false, found %q", n.Value)
	}
	return b
}

// list returns the items of a sequence; a missing node is an empty list.
func (d *decoder) list(n *yaml.Node) []*yaml.Node {
	if n == nil {
		return nil
	}
	if n.Kind != yaml.SequenceNode {
		d.failf(n, "expected a list, found %s", describe(n))
	}
	return n.Content
}

// tuple returns the items of a list of exactly size items.
func (d *decoder) tuple(n *yaml.Node, size int) []*yaml.Node {
	items := d.list(n)
	if len(items) != size {
		d.failf(n, "expected %d items, found %d", size, len(items))
	}
	return items
}

// splitQualified splits Q.x into its qualifier and name.
func splitQualified(s string) (string, string) {
	if i := strings.LastIndex(s, "."); i > 0 && i < len(s)-1 {
		return s[:i], s[i+1:]
	}
	return "", s
}

func describe(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "a mapping"
	case yaml.SequenceNode:
		return "a list"
	case yaml.ScalarNode:
		return fmt.Sprintf("%q", n.Value)
	case yaml.AliasNode:
		return "an alias"
	}
	return "nothing"
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
