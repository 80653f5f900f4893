package ducttape

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// logger is the package logger used by the scene graph. Replace it with SetLogger.
var logger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix: "ducttape",
	Level:  log.InfoLevel,
})

// SetLogger replaces the logger used by nodes, components and scenes.
// A nil logger is ignored.
func SetLogger(l *log.Logger) {
	if l == nil {
		return
	}
	logger = l
}

// Logger returns the current package logger.
func Logger() *log.Logger {
	return logger
}

// debugMode makes operations on disposed nodes panic instead of logging, and
// enables tree depth and child count warnings.
var debugMode bool

// SetDebugMode enables or disables debug checks for all nodes.
func SetDebugMode(enabled bool) {
	debugMode = enabled
}

// checkDisposed reports whether n is disposed. In debug mode a disposed node
// is a programming error and panics with a descriptive message.
func checkDisposed(n *Node, op string) bool {
	if !n.disposed {
		return false
	}
	if debugMode {
		panic(fmt.Sprintf("ducttape debug: %s on disposed node %q (id %s)", op, n.name, n.id))
	}
	logger.Error("operation on disposed node", "op", op, "node", n.name)
	return true
}

const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		logger.Warn("tree depth exceeds threshold", "depth", depth, "threshold", debugMaxTreeDepth, "node", n.FullName())
	}
}

const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.childOrder) > debugMaxChildCount {
		logger.Warn("node child count exceeds threshold", "node", n.FullName(), "children", len(n.childOrder), "threshold", debugMaxChildCount)
	}
}

// Dump returns an indented text outline of the subtree rooted at n: one line
// per node with its enabled flag and scene position, followed by its
// components and their state.
func Dump(n *Node) string {
	var sb strings.Builder
	dumpNode(&sb, n, 0)
	return sb.String()
}

func dumpNode(sb *strings.Builder, n *Node, depth int) {
	indent := strings.Repeat("  ", depth)
	flag := "on"
	if !n.enabled {
		flag = "off"
	}
	p := n.Position(RelativeToScene)
	fmt.Fprintf(sb, "%s%s [%s] (%.2f, %.2f, %.2f)\n", indent, n.name, flag, p[0], p[1], p[2])
	for _, c := range n.Components() {
		cflag := "on"
		if !c.IsEnabled() {
			cflag = "off"
		}
		fmt.Fprintf(sb, "%s  * %s %T [%s] %s\n", indent, c.Name(), c, cflag, c.State())
	}
	for _, child := range n.Children() {
		dumpNode(sb, child, depth+1)
	}
}
