package irparser

// program is the parsed form of a whole textual-IR source file: a
// sequence of function definitions, matching spec.md §6.
type program struct {
	Functions []*functionDecl `@@*`
}

type functionDecl struct {
	Name   string   `"@" "function" @Ident`
	Params []string `"(" @Ident* ")"`
	Items  []*item  `@@*`
	Close  string   `"@" "end" "function"`
}

// item is one line of a function body: either a bare label definition
// or an instruction.
type item struct {
	Label *labelDef `  @@`
	Inst  *instLine `| @@`
}

type labelDef struct {
	Name string `@Ident ":"`
}

// instLine covers every instruction form spec.md §6 lists. Order
// matters: participle tries alternatives top to bottom and backtracks,
// so the more specific keyword forms come before the bare-identifier
// forms they could otherwise be confused with.
type instLine struct {
	Entry  bool        `  @"%entry"`
	Exit   bool        `| @"%exit"`
	Init   *value      `| "%init" @@`
	Print  *value      `| "%print" @@`
	If     *ifForm     `| @@`
	Goto   *gotoForm   `| @@`
	Call   *callForm   `| @@`
	Assign *assignForm `| @@`
}

type ifForm struct {
	Cond   *value `"%if" @@`
	Target string `"%goto" "&" @Ident`
}

type gotoForm struct {
	Target string `"%goto" "&" @Ident`
}

// callForm is a bare call with no result: `f ( a1 a2 … )`.
type callForm struct {
	Func string   `@Ident "("`
	Args []*value `[ @@ { @@ } ] ")"`
}

// assignForm covers `x := y`, `x := y op z`, and `x := f ( a1 a2 … )`.
type assignForm struct {
	Result string      `@Ident ":="`
	Call   *callExpr   `  @@`
	Binary *binaryExpr `| @@`
}

type callExpr struct {
	Func string   `@Ident "("`
	Args []*value `[ @@ { @@ } ] ")"`
}

type binaryExpr struct {
	Left *value `@@`
	Rest *opRHS `[ @@ ]`
}

type opRHS struct {
	Op    string `@Op`
	Right *value `@@`
}

// value is a literal or a bare variable reference.
type value struct {
	Float *float64 `  @Float`
	Int   *int64   `| @Int`
	Bool  *string  `| @("%true" | "%false")`
	Ident *string  `| @Ident`
}
