package actionfunc_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sssomt/sssomt/internal/engine"
	"github.com/sssomt/sssomt/internal/model"
	"github.com/sssomt/sssomt/internal/registry/actionfunc"
	"github.com/sssomt/sssomt/internal/rules"
	"github.com/sssomt/sssomt/internal/tree"
)

func TestResolveUnknownFunction(t *testing.T) {
	r := actionfunc.New[model.Mapping]()
	_, err := r.Resolve("nope", nil, nil)
	require.ErrorIs(t, err, engine.ErrUnknownFunction)
}

func TestResolveBindsArgsAndAppliesEdit(t *testing.T) {
	r := actionfunc.New[model.Mapping]()
	r.Register("setComment", "S", func(args []rules.Arg, named []rules.NamedArg) (tree.ActionFunc[model.Mapping], error) {
		value := args[0].Text
		return func(m model.Mapping) tree.Result[model.Mapping] {
			m.Comment = value
			return tree.ContinueWith[model.Mapping](m)
		}, nil
	})
	fn, err := r.Resolve("setComment", []rules.Arg{{Kind: rules.ArgString, Text: "hello"}}, nil)
	require.NoError(t, err)
	result := fn(model.Mapping{})
	require.Equal(t, tree.Continue, result.Kind)
	require.Equal(t, "hello", result.Mapping.Comment)
}

func TestResolveArityMismatchWrapsSentinel(t *testing.T) {
	r := actionfunc.New[model.Mapping]()
	r.Register("setComment", "S", func(args []rules.Arg, named []rules.NamedArg) (tree.ActionFunc[model.Mapping], error) {
		return func(m model.Mapping) tree.Result[model.Mapping] { return tree.ContinueWith[model.Mapping](m) }, nil
	})
	_, err := r.Resolve("setComment", nil, nil)
	require.ErrorIs(t, err, engine.ErrArityMismatch)
}
