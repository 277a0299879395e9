package orgchart

// branch is the mutable construction-time node. Children are looked up by
// name and kept in first-seen order.
type branch struct {
	index    map[string]*branch
	children []*branch
	name     string
}

func newBranch(name string) *branch {
	return &branch{name: name, index: map[string]*branch{}}
}

func (b *branch) child(name string) *branch {
	if c, ok := b.index[name]; ok {
		return c
	}
	c := newBranch(name)
	b.index[name] = c
	b.children = append(b.children, c)
	return c
}

// Builder accumulates rows into a forest keyed by the first segment.
// A Builder is not safe for concurrent use.
type Builder struct {
	root *branch
	rows int
}

func NewBuilder() *Builder {
	return &Builder{root: newBranch("")}
}

// Insert adds one row. Descent stops at the first absent marker; a named but
// empty segment also ends the path because nodes need a non-empty name.
// Rows without a usable first segment are ignored and reported as false.
func (b *Builder) Insert(row Row) bool {
	if len(row) == 0 || !row[0].Valid || row[0].Name == "" {
		return false
	}
	cur := b.root
	for _, seg := range row {
		if !seg.Valid || seg.Name == "" {
			break
		}
		cur = cur.child(seg.Name)
	}
	b.rows++
	return true
}

func (b *Builder) InsertAll(rows []Row) int {
	n := 0
	for _, row := range rows {
		if b.Insert(row) {
			n++
		}
	}
	return n
}

// Rows reports how many rows were accepted.
func (b *Builder) Rows() int {
	return b.rows
}

// Forest serializes the accumulated structure. Each call returns a fresh copy.
func (b *Builder) Forest() Forest {
	out := make(Forest, 0, len(b.root.children))
	for _, c := range b.root.children {
		out = append(out, serialize(c))
	}
	return out
}

func serialize(b *branch) OrgNode {
	node := OrgNode{Name: b.name}
	if len(b.children) == 0 {
		return node
	}
	node.Children = make([]OrgNode, 0, len(b.children))
	for _, c := range b.children {
		node.Children = append(node.Children, serialize(c))
	}
	return node
}

// Build runs parse, dedup, insert and serialize over raw path strings.
func Build(raws []string, sep string, treeDepth int) Forest {
	rows := Deduplicate(ParsePaths(raws, sep, treeDepth))
	b := NewBuilder()
	b.InsertAll(rows)
	return b.Forest()
}
