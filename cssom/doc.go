/*
Package cssom provides a light-weight CSS object model for the stylish
engine.

Overview

The stylish engine walks CSS rules looking for embedded behavior
expressions. It does not care which CSS parser produced the rules.
CSS handling is therefore de-coupled by introducing appropriate
interfaces StyleSheet and Rule. A concrete implementation, backed by
the douceur CSS parser, may be found in sub-package douceuradapter.

Having these interfaces imposes a performance hit. However, this
implementation will never trade modularity and clarity for
performance. Clients in need of a production grade CSS engine should
opt for headless versions of the main browser projects.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package cssom

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'stylish.cssom'.
func tracer() tracing.Trace {
	return tracing.Select("stylish.cssom")
}
