package orgchart

import (
	"fmt"

	"golang.org/x/text/cases"
)

// Lookup resolves a leaf name to an external organization identifier.
// Implementations compare names case-insensitively.
type Lookup interface {
	OrgID(name string) (string, bool)
}

// NormalizeName is the key used for case-insensitive name lookups.
func NormalizeName(name string) string {
	return cases.Fold().String(name)
}

// NameIndex is a precomputed case-insensitive name -> id table.
// The first id registered for a name wins.
type NameIndex struct {
	ids   map[string]string
	names []string
}

func NewNameIndex() *NameIndex {
	return &NameIndex{ids: map[string]string{}}
}

func (x *NameIndex) Add(name, id string) {
	key := NormalizeName(name)
	if _, ok := x.ids[key]; ok {
		return
	}
	x.ids[key] = id
	x.names = append(x.names, name)
}

func (x *NameIndex) OrgID(name string) (string, bool) {
	id, ok := x.ids[NormalizeName(name)]
	return id, ok
}

func (x *NameIndex) Len() int {
	return len(x.ids)
}

// Names returns the registered names in insertion order.
func (x *NameIndex) Names() []string {
	return x.names
}

// Diagnostic names a leaf that could not be matched to an identifier.
type Diagnostic struct {
	Root string
	Name string
	Path []int
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("could not find match for %q (root %q, path %v)", d.Name, d.Root, d.Path)
}

// AttachOrgIDs walks every tree of the forest in place and sets OrgID on each
// leaf whose name the lookup resolves. Leaves that already carry an id are
// left untouched. Internal nodes are never looked up.
func AttachOrgIDs(f Forest, lookup Lookup) []Diagnostic {
	var diags []Diagnostic
	for i := range f {
		root := &f[i]
		var path []int
		var walk func(node *OrgNode)
		walk = func(node *OrgNode) {
			if !node.IsLeaf() {
				for j := range node.Children {
					path = append(path, j)
					walk(&node.Children[j])
					path = path[:len(path)-1]
				}
				return
			}
			if node.HasOrgID() {
				return
			}
			if id, ok := lookup.OrgID(node.Name); ok {
				node.OrgID = id
				return
			}
			diags = append(diags, Diagnostic{
				Root: root.Name,
				Name: node.Name,
				Path: append([]int{}, path...),
			})
		}
		walk(root)
	}
	return diags
}
