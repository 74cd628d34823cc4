package rules

import (
	"encoding/json"
	"testing"

	xerrors "crm-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileRaw(t *testing.T, raw string) (*Predicate, error) {
	t.Helper()
	node, err := Parse(json.RawMessage(raw))
	if err != nil {
		return nil, err
	}
	return Compile(node)
}

func TestCompileHighSpenderLowVisits(t *testing.T) {
	pred, err := compileRaw(t, `{
		"condition": "AND",
		"rules": [
			{"field": "total_spent", "operator": ">", "value": 10000},
			{"field": "visit_count", "operator": "<", "value": 3}
		]
	}`)
	require.NoError(t, err)

	assert.Equal(t, "(total_spent > $1 AND visit_count < $2)", pred.SQL)
	require.Len(t, pred.Args, 2)
	assert.Equal(t, float64(10000), pred.Args[0])
	assert.Equal(t, float64(3), pred.Args[1])
}

func TestCompileNestedGroups(t *testing.T) {
	pred, err := compileRaw(t, `{
		"condition": "OR",
		"rules": [
			{"field": "total_spent", "operator": ">=", "value": 5000},
			{
				"condition": "AND",
				"rules": [
					{"field": "visit_count", "operator": ">", "value": 10},
					{"field": "total_spent", "operator": ">", "value": 1000}
				]
			}
		]
	}`)
	require.NoError(t, err)

	assert.Equal(t, "(total_spent >= $1 OR (visit_count > $2 AND total_spent > $3))", pred.SQL)
	assert.Len(t, pred.Args, 3)
}

func TestCompileValuesAreNeverInlined(t *testing.T) {
	pred, err := compileRaw(t, `{
		"condition": "AND",
		"rules": [
			{"field": "last_active", "operator": "<", "value": "2024-01-01'); DROP TABLE customers; --"}
		]
	}`)
	require.NoError(t, err)

	// The hostile value must surface only as a bound argument.
	assert.Equal(t, "(last_active < $1)", pred.SQL)
	assert.NotContains(t, pred.SQL, "DROP TABLE")
	require.Len(t, pred.Args, 1)
	assert.Equal(t, "2024-01-01'); DROP TABLE customers; --", pred.Args[0])
}

func TestCompileEmptyGroupMatchesNoOne(t *testing.T) {
	pred, err := compileRaw(t, `{"condition": "AND", "rules": []}`)
	require.NoError(t, err)
	assert.Equal(t, "FALSE", pred.SQL)
	assert.Empty(t, pred.Args)
}

func TestCompileRejectsUnknownField(t *testing.T) {
	_, err := compileRaw(t, `{
		"condition": "AND",
		"rules": [{"field": "email", "operator": "=", "value": "a@b.com"}]
	}`)
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, xerrors.ErrInvalidInput))
	assert.Contains(t, err.Error(), "email")
}

func TestCompileRejectsUnknownOperator(t *testing.T) {
	_, err := compileRaw(t, `{
		"condition": "AND",
		"rules": [{"field": "total_spent", "operator": "LIKE", "value": "%x%"}]
	}`)
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, xerrors.ErrInvalidInput))
}

func TestCompileRejectsUnknownCombinator(t *testing.T) {
	_, err := compileRaw(t, `{
		"condition": "XOR",
		"rules": [{"field": "total_spent", "operator": ">", "value": 1}]
	}`)
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, xerrors.ErrInvalidInput))
}

func TestCompileRejectsStructuredValue(t *testing.T) {
	_, err := compileRaw(t, `{
		"condition": "AND",
		"rules": [{"field": "total_spent", "operator": ">", "value": {"$gt": 0}}]
	}`)
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, xerrors.ErrInvalidInput))
}

func TestParseRejectsNonObject(t *testing.T) {
	for _, raw := range []string{``, `null`, `"AND"`, `[1,2,3]`, `42`} {
		_, err := Parse(json.RawMessage(raw))
		require.Error(t, err, "input %q", raw)
		assert.True(t, xerrors.Is(err, xerrors.ErrInvalidInput))
	}
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	_, err := Parse(json.RawMessage(`{"condition": "AND", "rules": [`))
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, xerrors.ErrInvalidInput))
}

func TestCompileNilNode(t *testing.T) {
	_, err := Compile(nil)
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, xerrors.ErrInvalidInput))
}

func TestCompileLowercaseCombinator(t *testing.T) {
	pred, err := compileRaw(t, `{
		"condition": "or",
		"rules": [
			{"field": "visit_count", "operator": "=", "value": 0},
			{"field": "visit_count", "operator": "=", "value": 1}
		]
	}`)
	require.NoError(t, err)
	assert.Equal(t, "(visit_count = $1 OR visit_count = $2)", pred.SQL)
}
