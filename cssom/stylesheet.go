package cssom

// StyleSheet is an interface to abstract away a stylesheet-implementation.
// In order to de-couple implementations of CSS-stylesheets from the
// behavior engine, we introduce an interface for CSS stylesheets.
// Clients of the engine will have to provide a concrete implementation
// of this interface (e.g., see package douceuradapter).
//
// See interface Rule.
type StyleSheet interface {
	AppendRules(StyleSheet) // append rules from another stylesheet
	Empty() bool            // does this stylesheet contain any rules?
	Rules() []Rule          // all the top-level rules of a stylesheet
}

// Rule is the type stylesheets consist of.
//
// A rule is either a plain style rule (selector plus declaration block)
// or a grouping rule such as a media query, which carries nested rules.
// Grouping rules report their children through Rules; plain rules
// return an empty slice there.
//
// See interface StyleSheet.
type Rule interface {
	Selector() string        // the prelude / selectors of the rule
	Properties() []string    // property keys, e.g. "content"
	Value(string) Property   // property value for key, e.g. "'stylish(…)'"
	IsImportant(string) bool // is property key marked as important?
	Rules() []Rule           // nested rules of a grouping rule, if any
}
