// Package runtime lists the names of the reactive-DOM runtime functions that
// generated code calls. Only names and argument order are part of the
// contract.
package runtime

// Version of the symbol contract. Bump whenever a name or an argument order changes.
const Version = 3

// Element and component construction
const (
	Tag              = "$_tag"
	Component        = "$_c"
	DynamicComponent = "$_dc"
	Args             = "$_args"
	EmptyDOMProps    = "$_edp"
	Finalize         = "$_fin"
)

// Control flow
const (
	If                   = "$_if"
	Each                 = "$_each"
	EachSync             = "$_eachSync"
	Slot                 = "$_slot"
	InElement            = "$_inElement"
	UnstableChildWrapper = "$_ucw"
)

// Template function prologue
const (
	GetArgs  = "$_GET_ARGS"
	GetSlots = "$_GET_SLOTS"
	GetFW    = "$_GET_FW"
)

// Ambient values available inside the template function
const (
	ArgsSymbol = "$args"
	FwValue    = "$fw"
	SlotsValue = "$slots"
	SelfAlias  = "self"
	RootsName  = "roots"
	IndexParam = "$index"
	ItemParam  = "$item"
	EventParam = "$e"
	NodeParam  = "$n"
)

// Helper and modifier dispatch
const (
	MaybeHelper     = "$_maybeHelper"
	MaybeModifier   = "$_maybeModifier"
	HasBlock        = "$_hasBlock"
	HasBlockParams  = "$_hasBlockParams"
	ComponentHelper = "$_componentHelper"
	HelperHelper    = "$_helperHelper"
	ModifierHelper  = "$_modifierHelper"
)

// Built-in helper implementations
const (
	BuiltinIf       = "$__if"
	BuiltinEq       = "$__eq"
	BuiltinNot      = "$__not"
	BuiltinOr       = "$__or"
	BuiltinAnd      = "$__and"
	BuiltinArray    = "$__array"
	BuiltinHash     = "$__hash"
	BuiltinFn       = "$__fn"
	BuiltinLog      = "$__log"
	BuiltinDebugger = "$__debugger"
)

// BuiltinHelpers maps template helper names to the runtime symbol they are
// rewritten to. `unless` reuses the `if` symbol with swapped branches.
var BuiltinHelpers = map[string]string{
	"if":       BuiltinIf,
	"unless":   BuiltinIf,
	"eq":       BuiltinEq,
	"not":      BuiltinNot,
	"or":       BuiltinOr,
	"and":      BuiltinAnd,
	"array":    BuiltinArray,
	"hash":     BuiltinHash,
	"fn":       BuiltinFn,
	"log":      BuiltinLog,
	"debugger": BuiltinDebugger,
}

// Redirections are template names resolved to fixed runtime symbols during
// path resolution.
var Redirections = map[string]string{
	"has-block":        HasBlock,
	"has-block-params": HasBlockParams,
	"component":        ComponentHelper,
	"helper":           HelperHelper,
	"modifier":         ModifierHelper,
}

// IsBuiltinHelper reports whether name is rewritten to a runtime symbol
func IsBuiltinHelper(name string) bool {
	_, ok := BuiltinHelpers[name]
	return ok
}

// BlockNames are the block statements the compiler understands
var BlockNames = []string{"if", "unless", "each", "let", "yield", "in-element"}
