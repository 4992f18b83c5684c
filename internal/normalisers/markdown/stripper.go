// Package markdown strips readme markup down to plain display lines.
package markdown

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/starsearch/internal/core/ports/driven"
)

// Ensure Stripper implements the interface.
var _ driven.Stripper = (*Stripper)(nil)

// rule replaces every match of pattern with template.
type rule struct {
	name     string
	pattern  *regexp.Regexp
	template string
}

// rules run in order. Inline patterns assume block structure is already gone:
// images must be removed before links, since "![a](b)" also matches "[a](b)".
var rules = []rule{
	{"heading", regexp.MustCompile(`(?m)^#+ *(.*)$`), "${1}"},
	{"setext-equals", regexp.MustCompile(`(?m)^=+ *$`), ""},
	{"setext-dashes", regexp.MustCompile(`(?m)^-+ *$`), ""},
	{"code-fence", regexp.MustCompile("(?m)^```.*$"), ""},
	{"link-definition", regexp.MustCompile(`(?m)^ *\[.+?\]: *.*$`), ""},
	{"image", regexp.MustCompile(`(?s)!\[(.*?)\] *\(.*?\)`), ""},
	{"link", regexp.MustCompile(`(?s)\[(.*?)\] *\(.*?\)`), "${1}"},
	{"reference-link", regexp.MustCompile(`(?s)\[(.+?)\]\[.*?\]`), "${1}"},
	{"html-anchor", regexp.MustCompile(`(?s)<a .*?>(.*?)</a>`), "${1}"},
	{"html-image", regexp.MustCompile(`(?s)<img .*?/?>`), ""},
	{"html-comment", regexp.MustCompile(`(?s)<!--.*?-->`), ""},
	{"bold-underscore", regexp.MustCompile(`__([^ ].*?[^ ])__`), "${1}"},
	{"bold-asterisk", regexp.MustCompile(`\*\*([^ ].*?[^ ])\*\*`), "${1}"},
	{"italic-underscore", regexp.MustCompile(`_([^ ].*?[^ ])_`), "${1}"},
	{"italic-asterisk", regexp.MustCompile(`\*([^ ].*?[^ ])\*`), "${1}"},
	{"code-span", regexp.MustCompile("`(.*?)`"), "${1}"},
}

// Stripper removes markdown and inline HTML markup.
// It holds no state and is safe for concurrent use.
type Stripper struct{}

// New creates a new markdown stripper.
func New() *Stripper {
	return &Stripper{}
}

// Strip applies every rule to source and returns its non-empty lines.
// Carriage returns are dropped so CRLF readmes split the same way as LF ones.
func (s *Stripper) Strip(source string) []string {
	text := strings.ReplaceAll(source, "\r\n", "\n")
	for _, r := range rules {
		text = r.pattern.ReplaceAllString(text, r.template)
	}

	lines := make([]string, 0, strings.Count(text, "\n")+1)
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// ruleNames returns the rule names in the order they are applied.
func ruleNames() []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.name
	}
	return names
}
