package orgchart

// PathTo searches root depth-first in preorder and returns the child index
// path to the first node named target. The root itself matching yields an
// empty path with found set. When found is false the path is meaningless.
func PathTo(target string, root *OrgNode) ([]int, bool) {
	if root == nil {
		return nil, false
	}
	s := &pathSearch{target: target}
	s.visit(root)
	if !s.found {
		return nil, false
	}
	if s.stack == nil {
		return []int{}, true
	}
	return s.stack, true
}

type pathSearch struct {
	target string
	stack  []int
	found  bool
}

func (s *pathSearch) visit(node *OrgNode) {
	if s.found {
		return
	}
	if node.Name == s.target {
		s.found = true
		return
	}
	for i := range node.Children {
		s.push(i)
		s.visit(&node.Children[i])
		if s.found {
			return
		}
		s.pop()
	}
}

func (s *pathSearch) push(i int) {
	s.stack = append(s.stack, i)
}

// pop on an empty stack does nothing.
func (s *pathSearch) pop() {
	if len(s.stack) == 0 {
		return
	}
	s.stack = s.stack[:len(s.stack)-1]
}

// PathInForest looks up the department root by name and searches it.
func PathInForest(f Forest, department, target string) ([]int, bool) {
	root, ok := f.Root(department)
	if !ok {
		return nil, false
	}
	return PathTo(target, root)
}
