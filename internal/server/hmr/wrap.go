package hmr

import (
	"encoding/json"
	"strings"

	"github.com/prajithkb/metro/internal/core/domain"
	"github.com/prajithkb/metro/internal/core/ports"
)

// WrapModule formats a module's compiled output as a single self-registering
// call expression: its id, its factory function, and its literal
// specifier→id dependency map, computed at send time from the module's
// current edges. The map is emitted in dependency order, not map-key order.
func WrapModule(m *domain.Module, idFor ports.ModuleIDFactory) string {
	var b strings.Builder

	b.WriteString("__accept(")
	b.Write(jsonString(idFor(m.Path)))
	b.WriteString(", function(global, require, module, exports) {\n")
	b.WriteString(m.Output.Code)
	if !strings.HasSuffix(m.Output.Code, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString("}, ")
	writeDependencyMap(&b, m, idFor)
	b.WriteString(");")

	return b.String()
}

// writeDependencyMap emits the specifier→id object by hand so dependency
// order survives; json.Marshal would sort the keys.
func writeDependencyMap(b *strings.Builder, m *domain.Module, idFor ports.ModuleIDFactory) {
	b.WriteByte('{')
	for i, dep := range m.Dependencies {
		if i > 0 {
			b.WriteByte(',')
		}
		b.Write(jsonString(dep.Specifier))
		b.WriteByte(':')
		b.Write(jsonString(idFor(dep.Path)))
	}
	b.WriteByte('}')
}

func jsonString(s string) []byte {
	encoded, err := json.Marshal(s)
	if err != nil {
		// Marshalling a string cannot fail.
		return []byte(`""`)
	}
	return encoded
}
