package grammar

// Built-in lexical rules: IDENT, LIFETIME, PUNCT, LITERAL, plus WHITESPACE
// and COMMENT trivia. The patterns follow the lexical grammar of Rust-like
// languages and absorb leading layout, so that grammars composed of built-in
// terminals parse token streams without explicit layout productions.

const identifier = `(r#)?([a-zA-Z][a-zA-Z0-9_]*|_[a-zA-Z0-9_]+)`

const layout = `[ \t\n\r]*`

var (
	identMatcher    = MustPattern("IDENT", layout+identifier)
	lifetimeMatcher = MustPattern("LIFETIME", layout+`'`+layout+identifier)
	punctMatcher    = MustPattern("PUNCT", layout+`[;,.@#~?:$=!<>&+*/^%\-]`)
	literalMatch    = MustPattern("LITERAL", layout+`(`+
		`0b([01_]+\.?[01_]*|[01_]*\.[01_]+)([fui][0-9]+)?`+ // int/float (bin)
		`|0x([0-9a-f_]+\.?[0-9a-f_]*|[0-9a-f_]*\.[0-9a-f_]+)([fui][0-9]+)?`+ // int/float (hex)
		`|([0-9][0-9_]*\.?[0-9_]*|([0-9][0-9_]*)?\.[0-9_]+)([fui][0-9]+)?`+ // int/float (dec)
		`|b?'(\\\\.|[^\\])'`+ // char and byte, incl. escape sequences
		`|b?"([^"\\]|\\\\.)*"`+ // str and bytestr
		`)`)
	whitespaceMatcher = MustPattern("WHITESPACE", `[ \t\n\r]+`)
	commentMatcher    = MustPattern("COMMENT", `(//[^\n]*)|(/\*([^*]|\*+[^*/])*\*+/)`)
)

// Ident matches identifiers, including raw identifiers ("r#type").
func Ident() Matcher { return identMatcher }

// Lifetime matches lifetime markers ("'a").
func Lifetime() Matcher { return lifetimeMatcher }

// Punct matches a single punctuation character. Brackets and parentheses are
// excluded; grammars match those with literal terminals, so that bracket
// nesting stays visible to the productions.
func Punct() Matcher { return punctMatcher }

// Literal matches numeric, character and string literals.
func Literal() Matcher { return literalMatch }

// Whitespace matches a non-empty run of layout characters. Intended to be
// used as a trivia terminal.
func Whitespace() Matcher { return whitespaceMatcher }

// Comment matches line and block comments. Intended to be used as a trivia
// terminal.
func Comment() Matcher { return commentMatcher }
