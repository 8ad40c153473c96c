/*
Package dom provides a small DOM facade for the stylish engine.

Overview

The stylish engine was conceived for a browser environment, where the
host supplies querySelectorAll, dataset attributes and event listeners.
Outside a browser we stand in for that host: package dom wraps an HTML
parse tree (golang.org/x/net/html) with stable node handles, CSS
selector queries (andybalholm/cascadia), attribute and dataset
mutation, and a synchronous event-target model with capture and bubble
phases.

Node wrappers are memoized per Document, so two queries returning the
same underlying HTML node yield the identical *Node pointer. Clients
may therefore use nodes as map keys across repeated queries.

This is not, and does not want to be, a browser DOM. It covers exactly
the surface the engine consumes.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package dom

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'stylish.dom'.
func tracer() tracing.Trace {
	return tracing.Select("stylish.dom")
}
