//go:build snipex_debug

package syntax

import "fmt"

// assertSpan panics when a node span does not index into the source. Only
// compiled with -tags snipex_debug; release builds trust the producer.
func assertSpan(t *Tree, n *Node) {
	if n.StartByte > n.EndByte || int(n.EndByte) > len(t.source) {
		panic(fmt.Sprintf("syntax: node %q span [%d,%d) outside source of length %d",
			n.Kind, n.StartByte, n.EndByte, len(t.source)))
	}
}
