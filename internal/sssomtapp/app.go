// Package sssomtapp is the reference Transform Application (spec §4.H): it
// wires the Prefix Manager, Mapping Formatter, URI Expression registry,
// inverse-predicate table, the two function registries, a Prometheus
// listener, and charmbracelet/log logging into one engine.Application[Product],
// the thing cmd/sssomt constructs.
package sssomtapp

import (
	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sssomt/sssomt/internal/engine"
	"github.com/sssomt/sssomt/internal/format"
	"github.com/sssomt/sssomt/internal/invert"
	"github.com/sssomt/sssomt/internal/metrics"
	"github.com/sssomt/sssomt/internal/prefix"
	"github.com/sssomt/sssomt/internal/registry/actionfunc"
	"github.com/sssomt/sssomt/internal/registry/filterfunc"
	"github.com/sssomt/sssomt/internal/rules"
	"github.com/sssomt/sssomt/internal/tree"
	"github.com/sssomt/sssomt/internal/uriexpr"
)

// Config controls how New builds an Application instance.
type Config struct {
	// Strict, when true, turns a prefix redeclaration conflict into a hard
	// compile error (spec §7 PrefixConflict) instead of silently replacing
	// the existing expansion.
	Strict bool
	// CurieMap preloads additional prefixes (e.g. from a mapping set's
	// header) before the ruleset's own "prefix" declarations are applied.
	CurieMap map[string]string
	// Registerer receives the product-count metrics. A fresh
	// prometheus.NewRegistry() is used if nil, so two Applications in the
	// same process never collide (see internal/metrics).
	Registerer prometheus.Registerer
}

// Application is the reference engine.Application[Product] implementation.
type Application struct {
	cfg       Config
	prefixes  *prefix.Manager
	formatter *format.Formatter
	uriTmpls  *uriexpr.TemplateRegistry
	inverse   *invert.Table
	filters   *filterfunc.Registry
	actions   *actionfunc.Registry[Product]
	collector *metrics.Collector

	classes map[string]bool
}

// New constructs an Application and registers its built-in function
// library (exists, uriexpr_contains, addSimpleAssign, addReplacement,
// generateAxiomStub, jq).
func New(cfg Config) *Application {
	reg := cfg.Registerer
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	pm := prefix.NewManager()
	pm.SetStrict(cfg.Strict)

	a := &Application{
		cfg:       cfg,
		prefixes:  pm,
		uriTmpls:  uriexpr.NewTemplateRegistry(),
		inverse:   invert.NewTable(),
		filters:   filterfunc.New(),
		actions:   actionfunc.New[Product](),
		collector: metrics.New(reg),
		classes:   make(map[string]bool),
	}
	a.formatter = format.NewFormatter(pm, a.uriTmpls)
	a.registerBuiltinFunctions()
	return a
}

func (a *Application) PrefixManager() *prefix.Manager                   { return a.prefixes }
func (a *Application) Formatter() *format.Formatter                     { return a.formatter }
func (a *Application) URIExpressionRegistry() *uriexpr.TemplateRegistry { return a.uriTmpls }
func (a *Application) InverseTable() *invert.Table                      { return a.inverse }

// EntityExists and AddClass are a minimal in-memory entity_checker
// collaborator standing in for a real ontology/reasoner, which is
// explicitly out of scope (spec §1 "no ontology reasoning"): exists() can
// only see classes the ruleset or the host have asserted via AddClass.
func (a *Application) EntityExists(iri string) bool { return a.classes[iri] }
func (a *Application) AddClass(iri string)           { a.classes[iri] = true }

// OnInit preloads CurieMap before the ruleset's own prefix declarations are
// applied (spec §9 construction order).
func (a *Application) OnInit(pm *prefix.Manager) {
	for name, iri := range a.cfg.CurieMap {
		if err := pm.Add(name, iri); err != nil {
			log.Warn("prefix conflict while preloading curie_map", "name", name, "err", err)
		}
	}
}

func (a *Application) ResolveFilterFunction(name string, args []rules.Arg, named []rules.NamedArg) (tree.FilterFunc, error) {
	return a.filters.Resolve(name, args, named)
}

func (a *Application) ResolveActionFunction(name string, args []rules.Arg, named []rules.NamedArg) (tree.ActionFunc[Product], error) {
	return a.actions.Resolve(name, args, named)
}

// Listener returns the Prometheus-backed engine.Listener this Application's
// collector drives (spec §4.H), for passing to engine.Options[Product].
func (a *Application) Listener() engine.Listener[Product] {
	return metrics.Listener[Product](a.collector)
}
