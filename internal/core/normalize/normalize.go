// Package normalize canonicalises free-text labels such as crime categories
// and district names so that lookups compare like with like
// Pipeline order
// 1 drop invalid UTF-8
// 2 NFKC
// 3 width fold fullwidth to ASCII
// 4 upper-case (language neutral)
// 5 collapse whitespace and trim
package normalize

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// transformers are stateful; pooled so Label is safe for concurrent use
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(norm.NFKC, width.Fold, cases.Upper(language.Und))
	},
}

// Label returns the canonical form of s; "" stays ""
func Label(s string) string {
	s = strings.ToValidUTF8(s, "")
	if strings.TrimSpace(s) == "" {
		return ""
	}
	tr := chainPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		out = strings.ToUpper(s)
	}
	return strings.Join(strings.Fields(out), " ")
}

// Or returns Label(s), or fallback when that is empty
func Or(s, fallback string) string {
	if l := Label(s); l != "" {
		return l
	}
	return fallback
}
