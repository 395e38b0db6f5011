/*
Package dom builds document trees from markup.

Status

Early draft—API may change frequently. Please stay patient.

Overview

A Parser connects a streaming tokenizer (package markup) to a Builder. The
builder receives parse events and maintains a stack of open nodes, attaching
every new node to the node on top of the stack. When the stream has ended
the Document is complete and may be inspected, serialized or handed to
the CSS machinery.

    p := dom.NewParser(atoms, markup.HTML)
    p.Write(chunk1)
    p.Write(chunk2)
    doc, err := p.Close()

Tree Implementation

Styling and layout of HTML/CSS involves a lot of operations on different trees.
We implement the various trees on top of a general purpose tree type
(package tree). In Go we resort to composition, thus including a generic tree
node in every node (sub-)type. The downside of this approach is that we will
have to provide an adapter for every node sub-type to return the sub-type
from the generic type (see NodeFromTreeNode).

Text and attribute values are held as managed strings. The document holds one
reference for each of them, which it drops on Release. Clients wanting to
keep a value beyond the lifetime of a document have to retain it.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package dom

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'domfront.dom'.
func tracer() tracing.Trace {
	return tracing.Select("domfront.dom")
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("dom: "+msg, msgargs...)
		panic(msg)
	}
}
