/*
Package cssom provides functionality for CSS styling.

Status

This is a very first draft. It is unstable and the API will change without
notice. Please be patient.

Overview

CSSOM is the "CSS Object Model", similar to the DOM for HTML.
A Stylesheet is an ordered sequence of style rules; the position of a rule
in its stylesheet is fixed once it has been appended, and it determines the
cascade order among rules of equal specificity. Changing the selector text
of a rule never moves it.

Selector text and declaration values are held as managed strings, property
names are atoms. There is not very much open source Go code around for
supporting us in implementing a styling engine, except the great work of
https://godoc.org/github.com/andybalholm/cascadia, which we use to compute
selector specificity.

Stylesheets are usually created by the error-tolerant parser in sub-package
cssparser. CSS handling is de-coupled by introducing appropriate interfaces
StyleSheet and Rule. Another implementation of them may be found in
sub-package douceuradapter; FromStyleSheet converts any of them into a
Stylesheet.

Further to consider:

   https://godoc.org/github.com/ericchiang/css
   https://golanglibs.com/search?q=css+parser&sort=top
   https://www.mediaevent.de/xhtml/style.html

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package cssom

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
		msg = fmt.Sprintf("cssom: "+msg, msgargs...)
		panic(msg)
	}
}
