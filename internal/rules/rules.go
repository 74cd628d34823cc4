// Package rules compiles segment rule trees into parameterized SQL predicates
// over the customers table. Values are always bound as query parameters and
// fields and operators are checked against fixed allow-lists, so a rule tree
// can never inject query text.
package rules

import (
	"encoding/json"
	"fmt"
	"strings"

	xerrors "crm-service/internal/pkg/errors"
)

// Node is one node of a rule tree: either a group combining child nodes with
// AND/OR, or a leaf comparing a customer field against a value.
type Node struct {
	// Group fields
	Condition string `json:"condition,omitempty"`
	Rules     []Node `json:"rules,omitempty"`

	// Leaf fields
	Field    string      `json:"field,omitempty"`
	Operator string      `json:"operator,omitempty"`
	Value    interface{} `json:"value,omitempty"`
}

// IsGroup reports whether the node is a combinator group.
func (n *Node) IsGroup() bool {
	return n.Condition != "" || n.Rules != nil
}

// Predicate is a compiled row filter: SQL text with $N placeholders plus the
// bound arguments, suitable for appending after WHERE.
type Predicate struct {
	SQL  string
	Args []interface{}
}

// Customer attributes a rule may reference.
var allowedFields = map[string]bool{
	"total_spent": true,
	"visit_count": true,
	"last_active": true,
}

var allowedOperators = map[string]bool{
	">":  true,
	"<":  true,
	"=":  true,
	">=": true,
	"<=": true,
}

// Parse unmarshals a raw rule tree and rejects anything that is not a JSON
// object at the top level.
func Parse(raw json.RawMessage) (*Node, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || !strings.HasPrefix(trimmed, "{") {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "rules must be a JSON object")
	}

	var node Node
	if err := json.Unmarshal(raw, &node); err != nil {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, fmt.Sprintf("malformed rules: %v", err))
	}

	return &node, nil
}

// Compile translates a rule tree into a parameterized predicate.
//
// An empty group compiles to FALSE: a segment with no conditions matches no
// one, so targeting everyone requires an explicit rule.
func Compile(node *Node) (*Predicate, error) {
	if node == nil {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "rules are required")
	}

	b := &builder{}
	sqlText, err := b.compile(node)
	if err != nil {
		return nil, err
	}

	return &Predicate{SQL: sqlText, Args: b.args}, nil
}

type builder struct {
	args []interface{}
}

func (b *builder) compile(n *Node) (string, error) {
	if n.IsGroup() {
		return b.compileGroup(n)
	}
	return b.compileLeaf(n)
}

func (b *builder) compileGroup(n *Node) (string, error) {
	combinator := strings.ToUpper(n.Condition)
	if combinator != "AND" && combinator != "OR" {
		return "", xerrors.Wrap(xerrors.ErrInvalidInput, fmt.Sprintf("unknown combinator %q", n.Condition))
	}

	if len(n.Rules) == 0 {
		return "FALSE", nil
	}

	clauses := make([]string, 0, len(n.Rules))
	for i := range n.Rules {
		clause, err := b.compile(&n.Rules[i])
		if err != nil {
			return "", err
		}
		clauses = append(clauses, clause)
	}

	return "(" + strings.Join(clauses, " "+combinator+" ") + ")", nil
}

func (b *builder) compileLeaf(n *Node) (string, error) {
	if !allowedFields[n.Field] {
		return "", xerrors.Wrap(xerrors.ErrInvalidInput, fmt.Sprintf("field %q is not filterable", n.Field))
	}
	if !allowedOperators[n.Operator] {
		return "", xerrors.Wrap(xerrors.ErrInvalidInput, fmt.Sprintf("operator %q is not supported", n.Operator))
	}

	switch n.Value.(type) {
	case float64, int, int64, string, json.Number:
	default:
		return "", xerrors.Wrap(xerrors.ErrInvalidInput, fmt.Sprintf("unsupported value for field %q", n.Field))
	}

	b.args = append(b.args, n.Value)
	return fmt.Sprintf("%s %s $%d", n.Field, n.Operator, len(b.args)), nil
}
