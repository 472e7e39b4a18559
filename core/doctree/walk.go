package doctree

// WalkStatus tells Walk how to proceed after Enter.
type WalkStatus int

const (
	// WalkContinue descends into the node's children and calls Exit.
	WalkContinue WalkStatus = iota
	// WalkSkipNode skips the node's children and its Exit call.
	WalkSkipNode
)

// Visitor receives enter/exit callbacks for every node in a tree.
type Visitor interface {
	Enter(n *Node) WalkStatus
	Exit(n *Node)
}

// Walk traverses the tree rooted at n depth-first.
func Walk(n *Node, v Visitor) {
	if n == nil {
		return
	}
	if v.Enter(n) == WalkSkipNode {
		return
	}
	for _, c := range n.Children {
		Walk(c, v)
	}
	v.Exit(n)
}
