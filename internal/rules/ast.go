package rules

// RuleSet is the parsed form of a whole rules-file source: its prefix
// declarations followed by its top-level rules, in file order.
type RuleSet struct {
	Prefixes []PrefixDecl
	Rules    []Rule
}

// PrefixDecl is a "prefix NAME <IRI>" declaration.
type PrefixDecl struct {
	Name string
	IRI  string
}

// Rule is one tagged rule: a filter, and either a flat action list or a
// list of nested rules (never both). Nested rules AND-compose their own
// filter with every enclosing filter, and accumulate tags from every
// enclosing "[...]" block (spec §4.D "Rule blocks nest").
type Rule struct {
	Tags    []string
	Filter  FilterExpr
	Actions []Action // nil when Nested is set
	Nested  []Rule   // nil when Actions is set

	Line int
	Col  int
}

// FilterExpr is the sum type of boolean filter expressions (spec §3).
type FilterExpr interface {
	isFilterExpr()
}

// IdMatch is "field==value": value is a CURIE, "*", or a CURIE ending in
// "*" for a prefix-wildcard match.
type IdMatch struct {
	Field string
	Value string
	Line  int
	Col   int
}

// PredicateModifierIsNot is the literal "predicate_modifier==Not" filter.
type PredicateModifierIsNot struct {
	Line int
	Col  int
}

// Not negates Inner ("!" binds tightest).
type Not struct{ Inner FilterExpr }

// And is left-associative, short-circuiting conjunction.
type And struct{ Left, Right FilterExpr }

// Or is left-associative, short-circuiting disjunction.
type Or struct{ Left, Right FilterExpr }

// Group wraps a parenthesized sub-expression. It evaluates exactly like
// Inner; it exists only so source fidelity (and, e.g., pretty-printers)
// can tell a written "(...)"  from an unparenthesized expression.
type Group struct{ Inner FilterExpr }

// Call is a function-call filter or action: a NAME resolved against the
// Application's filter-producing or action-producing registry depending on
// which grammar slot it appears in (spec §4.F).
type Call struct {
	Name  string
	Args  []Arg
	Named []NamedArg
	Line  int
	Col   int
}

func (IdMatch) isFilterExpr()                {}
func (PredicateModifierIsNot) isFilterExpr() {}
func (Not) isFilterExpr()                    {}
func (And) isFilterExpr()                    {}
func (Or) isFilterExpr()                     {}
func (Group) isFilterExpr()                  {}
func (Call) isFilterExpr()                   {}

// Action is the sum type of statements a rule's action list can contain.
// Assign/Replace (spec §3's Action sum type) are not distinct grammar
// productions (see §4.D's `action` rule, which only lists stop/invert/
// include/CALL): they are realized as ordinary Call nodes naming the
// built-in action functions addSimpleAssign/addReplacement, resolved
// through the same Application action registry as any other action
// function. See DESIGN.md for the rationale.
type Action interface {
	isAction()
}

// Stop halts evaluation of all remaining rules for the current mapping.
type Stop struct {
	Line int
	Col  int
}

// Invert swaps the current mapping's subject/object sides.
type Invert struct {
	Line int
	Col  int
}

// Include emits the (possibly transformed) current mapping as the product.
type Include struct {
	Line int
	Col  int
}

func (Stop) isAction()    {}
func (Invert) isAction()  {}
func (Include) isAction() {}
func (Call) isAction()    {}

// ArgKind distinguishes the literal syntax an argument was written in.
type ArgKind int

const (
	ArgString ArgKind = iota
	ArgCurie
	ArgIRI
	ArgNumber
	ArgTemplate
	// ArgNull is the bare "null" literal (spec.md S4: "setting object_id to
	// null fails with IllegalArgument"). Lexed as an ordinary WORD, like
	// "include"/"stop"/"invert" and predicate_modifier's "Not", and
	// special-cased by the parser rather than given its own token kind.
	ArgNull
)

// Arg is one positional call argument.
type Arg struct {
	Kind ArgKind
	Text string
}

// NamedArg is one "/name=value" trailing named argument.
type NamedArg struct {
	Name string
	Arg  Arg
}
