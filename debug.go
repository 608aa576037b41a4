package stagehand

import (
	"fmt"
	"log/slog"
	"time"
)

// debugStats holds per-frame timings and counts. Only populated in debug
// mode.
type debugStats struct {
	visitTime   time.Duration
	presentTime time.Duration
	nodes       int
	draws       int
}

// debugLogger receives tree warnings from node operations, which have no
// Director pointer. Set by SetDebugMode.
var debugLogger = slog.New(slog.DiscardHandler)

func (d *Director) debugLog(stats debugStats) {
	d.log.Debug("draw",
		"frame", d.frame,
		"visit", stats.visitTime,
		"present", stats.presentTime,
		"total", stats.visitTime+stats.presentTime,
		"nodes", stats.nodes,
		"draws", stats.draws,
		"pending", len(d.pending),
	)
}

// debugCheckDisposed panics when a disposed node is used in a tree operation.
// Only called in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("stagehand debug: %s on disposed node %q", op, n.Name))
	}
}

// debugMaxTreeDepth is the depth above which a warning is logged.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		debugLogger.Warn("tree depth exceeds threshold", "node", n.Name, "depth", depth, "threshold", debugMaxTreeDepth)
	}
}

// debugMaxChildCount is the child count above which a warning is logged.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		debugLogger.Warn("child count exceeds threshold", "node", n.Name, "children", len(n.children), "threshold", debugMaxChildCount)
	}
}

// CountNodes returns the number of nodes in the subtree rooted at n,
// including n.
func CountNodes(n *Node) int {
	if n == nil {
		return 0
	}
	count := 1
	for _, c := range n.children {
		count += CountNodes(c)
	}
	return count
}
