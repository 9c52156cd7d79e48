package irparser

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// MIRLexer tokenizes the textual three-address IR spec.md §6 defines:
// `#`-comments, `@function`/`@end function` blocks, `%`-prefixed
// pseudo-ops and literals, `&label` references, and `:=` assignment.
var MIRLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `#[^\n]*`, nil},

		{"Float", `[0-9]+\.[0-9]+`, nil},
		{"Int", `[0-9]+`, nil},

		{"Keyword", `%[A-Za-z_]+`, nil},
		{"Ident", `[A-Za-z_][A-Za-z0-9_]*`, nil},

		{"Assign", `:=`, nil},
		{"Colon", `:`, nil},
		{"Amp", `&`, nil},
		{"At", `@`, nil},
		{"LParen", `\(`, nil},
		{"RParen", `\)`, nil},
		{"Op", `<=|>=|!=|[-+*/%<>=]`, nil},

		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
