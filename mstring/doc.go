/*
Package mstring implements managed strings: immutable, reference-counted text
buffers with a release strategy fixed at construction time.

Text in a DOM or in a CSSOM comes from different owners. Some of it is
compiled into the program, some is allocated by the parsers, and some lives in
buffers handed to us by a foreign library which wants to be told when we are
done with them. A managed string hides these differences behind one
reference-counting discipline:

    s := mstring.FromForeign(buf, lib.Free)   // refcount 1, the creator's reference
    t := s.Retain()                           // refcount 2
    t.Release()                               // refcount 1
    s.Release()                               // refcount 0 ⇒ lib.Free(buf)

Releasing a string more often than it has been retained is a programming error
and panics. Strings are never mutated; “changing” a string means creating a new
one (see Concat).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package mstring

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'domfront.mstring'.
func tracer() tracing.Trace {
	return tracing.Select("domfront.mstring")
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("mstring: "+msg, msgargs...)
		panic(msg)
	}
}
