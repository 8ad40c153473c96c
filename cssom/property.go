package cssom

// Property is a raw value for a CSS property. For example, with
//
//     content: 'stylish({"data":{"x":"1"}})'
//
// a property value of "'stylish({\"data\":{\"x\":\"1\"}})'" is set.
// The main purpose of wrapping the raw string value into type Property
// is to provide a home for convenient helpers.
type Property string

// NullProperty is an empty property value.
const NullProperty Property = ""

func (p Property) String() string {
	return string(p)
}

// IsEmpty checks wether a property is empty, i.e. the null-string.
func (p Property) IsEmpty() bool {
	return p == ""
}
