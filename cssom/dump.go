package cssom

import (
	"fmt"

	tp "github.com/xlab/treeprint"
)

// Dump returns a textual representation of a stylesheet's rule tree,
// intended for debugging and test failure output.
func Dump(sheet StyleSheet) string {
	p := tp.New()
	if sheet == nil || sheet.Empty() {
		return p.String()
	}
	for _, r := range sheet.Rules() {
		dumpRule(p, r)
	}
	return p.String()
}

func dumpRule(p tp.Tree, r Rule) {
	label := r.Selector()
	if len(r.Properties()) > 0 {
		label = fmt.Sprintf("%s (%d decls)", label, len(r.Properties()))
	}
	nested := r.Rules()
	if len(nested) == 0 {
		p.AddNode(label)
		return
	}
	branch := p.AddBranch(label)
	for _, ch := range nested {
		dumpRule(branch, ch)
	}
}
