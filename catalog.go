package scout

import (
	"fmt"
	"strings"
)

// Catalog is an ordered, immutable set of tool descriptors.
type Catalog struct {
	tools []ToolDescriptor
	index map[string]int
}

// NewCatalog builds a catalog from descriptors, keeping their order.
// When a name repeats, the first descriptor wins.
func NewCatalog(tools ...ToolDescriptor) *Catalog {
	c := &Catalog{index: make(map[string]int, len(tools))}
	for _, t := range tools {
		if _, dup := c.index[t.Name]; dup {
			continue
		}
		c.index[t.Name] = len(c.tools)
		c.tools = append(c.tools, t)
	}
	return c
}

// Len returns the number of tools.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.tools)
}

// Tools returns a copy of the descriptors in catalog order.
func (c *Catalog) Tools() []ToolDescriptor {
	if c == nil {
		return nil
	}
	out := make([]ToolDescriptor, len(c.tools))
	copy(out, c.tools)
	return out
}

// Names returns the tool names in catalog order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, len(c.tools))
	for i, t := range c.tools {
		names[i] = t.Name
	}
	return names
}

// Lookup returns the descriptor for name.
func (c *Catalog) Lookup(name string) (ToolDescriptor, bool) {
	if c == nil {
		return ToolDescriptor{}, false
	}
	i, ok := c.index[name]
	if !ok {
		return ToolDescriptor{}, false
	}
	return c.tools[i], true
}

// Describe renders the catalog as the text block shown to the reasoner:
//
//	- name: first line of description
//	    - param: description (required)
//
// Tools are separated by a blank line. The output depends only on the
// catalog contents.
func (c *Catalog) Describe() string {
	if c.Len() == 0 {
		return "(no tools available)"
	}
	blocks := make([]string, 0, len(c.tools))
	for _, t := range c.tools {
		var b strings.Builder
		fmt.Fprintf(&b, "- %s: %s", t.Name, t.Summary())
		if len(t.Parameters) == 0 {
			b.WriteString("\n    (no parameters)")
		}
		for _, p := range t.Parameters {
			req := "optional"
			if p.Required {
				req = "required"
			}
			fmt.Fprintf(&b, "\n    - %s: %s (%s)", p.Name, p.Description, req)
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}
