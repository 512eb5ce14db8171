package menu

import (
	"sort"
	"strings"
)

// Node is one menu in the tree. A node with a Loader opens a submenu; a node
// with an Action runs it for the selected item.
type Node struct {
	ID       string
	Loader   Loader
	Action   Action
	Children map[string]*Node
}

// Registry indexes the menu tree by node ID.
type Registry struct {
	root  *Node
	nodes map[string]*Node
}

// BuildRegistry assembles the tree from CategoryLoaders and ActionHandlers.
// IDs are colon-separated paths: "workspace:switch" is the "switch" child of
// "workspace". Intermediate nodes are created on demand.
func BuildRegistry() *Registry {
	r := &Registry{nodes: make(map[string]*Node)}
	r.root = r.ensure(rootID)
	r.root.Loader = func(Context) ([]Item, error) { return RootItems(), nil }

	for id, loader := range CategoryLoaders() {
		r.ensure(id).Loader = loader
	}
	for id, action := range ActionHandlers() {
		r.ensure(id).Action = action
	}
	return r
}

const rootID = "root"

// ensure returns the node for id, creating it and linking it under its
// parent chain when missing.
func (r *Registry) ensure(id string) *Node {
	if node, ok := r.nodes[id]; ok {
		return node
	}
	node := &Node{ID: id, Children: make(map[string]*Node)}
	r.nodes[id] = node
	if id != rootID {
		parentID, key := splitID(id)
		r.ensure(parentID).Children[key] = node
	}
	return node
}

// Root returns the registry root node.
func (r *Registry) Root() *Node {
	return r.root
}

// Find locates a node by ID.
func (r *Registry) Find(id string) (*Node, bool) {
	node, ok := r.nodes[id]
	return node, ok
}

// Child resolves the child of parentID selected by key.
func (r *Registry) Child(parentID, key string) (*Node, bool) {
	parent, ok := r.nodes[parentID]
	if !ok {
		return nil, false
	}
	node, ok := parent.Children[key]
	return node, ok
}

// IDs lists every registered node ID in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.nodes))
	for id := range r.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func splitID(id string) (parent, key string) {
	idx := strings.LastIndex(id, ":")
	if idx < 0 {
		return rootID, id
	}
	return id[:idx], id[idx+1:]
}
