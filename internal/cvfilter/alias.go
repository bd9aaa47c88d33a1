package cvfilter

// techAliases maps composite tokens authored in tech-skill rows to the
// canonical skill names used on job stacks.
var techAliases = map[string][]string{
	"JS (OOP, Functional, FRP)": {"JavaScript (ES5)", "JavaScript (ES6+)"},
	"CSS / SCSS / SASS / LESS":  {"CSS3 / SCSS / LESS"},
	"Magento/OSCommerce":        {"Magento"},
	"Canvas (FabricJS, PixiJS)": {"Canvas"},
}

// NormalizeTechToken expands a tech-row token to one or more canonical skill
// names. Unknown tokens map to themselves. The returned slice is owned by the caller.
func NormalizeTechToken(token string) []string {
	if canonical, ok := techAliases[token]; ok {
		return append([]string(nil), canonical...)
	}
	return []string{token}
}

// ExpandTechItems splits a tech-row item list and expands every token through
// the alias table, preserving order.
func ExpandTechItems(items string) []string {
	var out []string
	for _, token := range SplitTechItems(items) {
		out = append(out, NormalizeTechToken(token)...)
	}
	return out
}
