package textexport

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// stepLexer tokenizes the sweep marker lines LTSpice inserts into plot
// exports, e.g. "Step Information: Rser=10K  (Run: 2/5)"
var stepLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Number", Pattern: `[-+]?[0-9]+(\.[0-9]+)?([eE][-+]?[0-9]+)?`},
	{Name: "Ident", Pattern: `[A-Za-zµ_][A-Za-z0-9µ_.]*`},
	{Name: "Punct", Pattern: `[:=()/]`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

// StepLine is one parsed "Step Information:" marker
type StepLine struct {
	Param string      `"Step" "Information" ":" @Ident "="`
	Value *ParamValue `@@`
	Run   int         `"(" "Run" ":" @Number`
	Total int         `"/" @Number ")"`
}

// ParamValue is a numeric literal with an optional SPICE engineering
// suffix, such as 10K or 4.7u.
type ParamValue struct {
	Number string `@Number`
	Suffix string `@Ident?`
}

// Float resolves the literal to a float, applying the SPICE suffix
// multipliers. Trailing unit text after the suffix ("Kohm") is ignored,
// matching the simulator's own tolerance.
func (v *ParamValue) Float() (float64, error) {
	f, err := strconv.ParseFloat(v.Number, 64)
	if err != nil {
		return 0, fmt.Errorf("bad step value %q: %w", v.Number, err)
	}
	return f * suffixMultiplier(v.Suffix), nil
}

func suffixMultiplier(suffix string) float64 {
	s := strings.ToLower(suffix)
	if strings.HasPrefix(s, "meg") {
		return 1e6
	}
	if s == "" {
		return 1
	}
	r, _ := utf8.DecodeRuneInString(s)
	switch r {
	case 't':
		return 1e12
	case 'g':
		return 1e9
	case 'k':
		return 1e3
	case 'm':
		return 1e-3
	case 'u', 'µ':
		return 1e-6
	case 'n':
		return 1e-9
	case 'p':
		return 1e-12
	case 'f':
		return 1e-15
	default:
		return 1
	}
}

func newStepParser() (*participle.Parser[StepLine], error) {
	return participle.Build[StepLine](
		participle.Lexer(stepLexer),
		participle.Elide("Whitespace"),
	)
}
