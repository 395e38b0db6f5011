/*
Package cssparser parses CSS stylesheets into cssom.Stylesheets.

The parser is error tolerant: one malformed rule must not invalidate an
entire stylesheet. A malformed declaration is skipped up to the next ';' or
'}' and parsing resumes within the same rule; a malformed rule header is
dropped together with its block. Every such error is reported as a
recoverable fault, alongside the rules which have been parsed successfully.

    sheet, faults := cssparser.Parse(atoms, []byte(`p { margin: 0 }`))

Tokenization is done by the CSS scanner of the Gorilla web toolkit.
At-rules (@media, @import, …) are skipped. Nested rules are not supported.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package cssparser

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'domfront.css'.
func tracer() tracing.Trace {
	return tracing.Select("domfront.css")
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("cssparser: "+msg, msgargs...)
		panic(msg)
	}
}
