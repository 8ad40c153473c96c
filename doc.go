/*
Package stylish scans an HTML document for CSS rules or inline element
styles carrying an embedded behavior expression, and dispatches the
decoded expression to registered trigger functions.

Overview

CSS authors may opt elements and rules into processing with the fixed
marker name "stylish", used both as a boolean HTML attribute and as a
pseudo-function inside CSS content values:

    <div stylish style="content: 'stylish({&quot;data&quot;:{&quot;x&quot;:&quot;1&quot;}})'"></div>

    div[stylish] {
        content: 'stylish({"on":{"events":["click"],"mode":"local"}})';
    }

The argument of the pseudo-function is a JSON document. Its top-level
keys are interpreted by triggers: the built-in "data" trigger writes
data attributes onto the affected nodes, the built-in "on" trigger
binds DOM event listeners. Both notify user-registered handlers via
the engine's handler registry. Clients may register triggers of their
own for additional keys.

A typical session looks like this:

    doc, _ := dom.FromHTML(page)
    engine := stylish.NewEngine(doc)
    engine.AddHandler(engine.On(), stylish.HandlerOf(onClick))
    err := engine.Process()

Engines are instantiable and self-contained; there is no package-global
state. Callers that want a shared engine may hold one themselves.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package stylish

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'stylish.engine'.
func tracer() tracing.Trace {
	return tracing.Select("stylish.engine")
}
