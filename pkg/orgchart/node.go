package orgchart

import "encoding/json"

// OrgNode is the exported org chart node. Children is nil on leaves; OrgID
// is only ever set on leaves.
type OrgNode struct {
	Name     string    `json:"name"`
	Children []OrgNode `json:"_children,omitempty"`
	OrgID    string    `json:"org_id,omitempty"`
}

func (n *OrgNode) IsLeaf() bool {
	return len(n.Children) == 0
}

func (n *OrgNode) HasOrgID() bool {
	return n.OrgID != ""
}

// Child returns the i-th child, or nil when i is out of range.
func (n *OrgNode) Child(i int) *OrgNode {
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	return &n.Children[i]
}

// Resolve follows path from n and returns the node it points at.
func (n *OrgNode) Resolve(path []int) (*OrgNode, bool) {
	cur := n
	for _, i := range path {
		cur = cur.Child(i)
		if cur == nil {
			return nil, false
		}
	}
	return cur, true
}

// Walk visits n and its descendants in preorder. Returning false from fn
// skips the node's children.
func (n *OrgNode) Walk(fn func(node *OrgNode, depth int) bool) {
	var walk func(node *OrgNode, depth int)
	walk = func(node *OrgNode, depth int) {
		if !fn(node, depth) {
			return
		}
		for i := range node.Children {
			walk(&node.Children[i], depth+1)
		}
	}
	walk(n, 0)
}

// Forest is the list of department roots.
type Forest []OrgNode

// Root returns the top-level node with the given name.
func (f Forest) Root(name string) (*OrgNode, bool) {
	for i := range f {
		if f[i].Name == name {
			return &f[i], true
		}
	}
	return nil, false
}

func (f Forest) Leaves() []*OrgNode {
	var out []*OrgNode
	for i := range f {
		f[i].Walk(func(node *OrgNode, _ int) bool {
			if node.IsLeaf() {
				out = append(out, node)
			}
			return true
		})
	}
	return out
}

// Size counts every node in the forest.
func (f Forest) Size() int {
	n := 0
	for i := range f {
		f[i].Walk(func(*OrgNode, int) bool {
			n++
			return true
		})
	}
	return n
}

func (f Forest) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]OrgNode(f))
}
