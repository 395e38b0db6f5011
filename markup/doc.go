/*
Package markup implements a streaming tokenizer for HTML and XML.

Clients feed byte chunks of arbitrary size to a Tokenizer, which converts them
into parse events (open tag, text, close tag, comment, …) and hands each event
to a Handler as soon as it is fully recognized. A token straddling a chunk
boundary is held back until the next chunk completes it, therefore the event
sequence for a given input does not depend on how the input has been cut into
chunks. Text is delivered only when it is complete, i.e. when the next markup
token or the end of the stream has been seen.

The tokenizer knows two modes. HTML mode is lenient: unknown tags are opaque
elements, attribute values may be unquoted, elements with optional end tags
are closed implicitly, and unbalanced tags are recovered from with a
recoverable fault. XML mode is strict: every structural violation is a fatal
fault which aborts the session. Character references are decoded with the
HTML entity table in both modes; in XML mode a named reference other than
&amp; &lt; &gt; &quot; and &apos; raises a recoverable fault.

    tok := markup.NewTokenizer(atoms, markup.HTML, handler)
    for _, chunk := range chunks {
        if _, err := tok.Write(chunk); err != nil {
            return err    // fatal fault
        }
    }
    err := tok.Close()   // end of stream

Status

Early draft—API may change frequently. Please stay patient.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package markup

import (
	"errors"
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'domfront.markup'.
func tracer() tracing.Trace {
	return tracing.Select("domfront.markup")
}

// ErrClosed is returned for calls to a tokenizer after end of stream.
var ErrClosed = errors.New("markup: tokenizer already closed")

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("markup: "+msg, msgargs...)
		panic(msg)
	}
}
