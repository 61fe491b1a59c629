package filterfunc_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sssomt/sssomt/internal/engine"
	"github.com/sssomt/sssomt/internal/model"
	"github.com/sssomt/sssomt/internal/registry/filterfunc"
	"github.com/sssomt/sssomt/internal/rules"
	"github.com/sssomt/sssomt/internal/tree"
)

func TestResolveUnknownFunction(t *testing.T) {
	r := filterfunc.New()
	_, err := r.Resolve("nope", nil, nil)
	require.ErrorIs(t, err, engine.ErrUnknownFunction)
}

func TestResolveBindsArgs(t *testing.T) {
	r := filterfunc.New()
	r.Register("exists", "S", func(args []rules.Arg, named []rules.NamedArg) (tree.FilterFunc, error) {
		want := args[0].Text
		return func(m model.Mapping) bool { return m.SubjectID == want }, nil
	})
	fn, err := r.Resolve("exists", []rules.Arg{{Kind: rules.ArgCurie, Text: "UBERON:1"}}, nil)
	require.NoError(t, err)
	require.True(t, fn(model.Mapping{SubjectID: "UBERON:1"}))
	require.False(t, fn(model.Mapping{SubjectID: "UBERON:2"}))
}

func TestResolveArityMismatchWrapsSentinel(t *testing.T) {
	r := filterfunc.New()
	r.Register("exists", "S", func(args []rules.Arg, named []rules.NamedArg) (tree.FilterFunc, error) {
		return func(model.Mapping) bool { return true }, nil
	})
	_, err := r.Resolve("exists", nil, nil)
	require.ErrorIs(t, err, engine.ErrArityMismatch)
}

func TestNamesListsRegistered(t *testing.T) {
	r := filterfunc.New()
	r.Register("exists", "S", func(args []rules.Arg, named []rules.NamedArg) (tree.FilterFunc, error) {
		return nil, nil
	})
	require.ElementsMatch(t, []string{"exists"}, r.Names())
}
