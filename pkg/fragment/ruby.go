package fragment

import (
	"fmt"
	"strconv"
	"strings"
)

// quote renders s as a double quoted Ruby string
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, `#{`, `\#{`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}

// single renders s as a single quoted Ruby string
func single(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(s) + "'"
}

// list renders a Ruby array of single quoted strings: ['a', 'b']
func list(items []string) string {
	quoted := make([]string, 0, len(items))
	for _, item := range items {
		quoted = append(quoted, single(item))
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func symbol(s string) string { return ":" + s }

func boolean(b bool) string { return strconv.FormatBool(b) }

// writer builds indented DSL text. Indent is two spaces per level.
type writer struct {
	b strings.Builder
}

func (w *writer) line(depth int, format string, args ...interface{}) {
	w.b.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(&w.b, format, args...)
	w.b.WriteByte('\n')
}

// blank separates sections inside the model block
func (w *writer) blank() {
	w.b.WriteByte('\n')
}

// assign writes "<obj>.<attr> = <value>"
func (w *writer) assign(depth int, obj, attr, value string) {
	w.line(depth, "%s.%s = %s", obj, attr, value)
}

func (w *writer) String() string {
	return w.b.String()
}
