/*
Package atom interns names into process-lifetime unique identifiers.

Tag names, attribute names and CSS property names are compared all over the
front-end. Interning them once makes every such comparison an integer
comparison. An Atom is bound 1:1 to its canonical text for the lifetime of the
table which created it; there is no removal API.

Tables are explicit values. Components which intern or compare atoms receive a
*Table from their caller, which keeps tests free to use a fresh table per case.
For clients which want a single process-wide table, Init and Global provide one.

Status

Early draft—API may change frequently. Please stay patient.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package atom

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'domfront.atom'.
func tracer() tracing.Trace {
	return tracing.Select("domfront.atom")
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("atom: "+msg, msgargs...)
		panic(msg)
	}
}
