package stacktrace

import "strings"

// InternalPaths returns the "internal/...go:line" locations of frames that
// belong to this module, innermost first.
func InternalPaths(stack []byte) []string {
	var paths []string
	for _, line := range strings.Split(string(stack), "\n") {
		// file lines are tab indented: "\t/src/app/internal/x.go:12 +0x1a"
		if !strings.HasPrefix(line, "\t") {
			continue
		}
		loc, _, _ := strings.Cut(strings.TrimSpace(line), " ")
		if _, rel, ok := strings.Cut(loc, "/internal/"); ok && strings.Contains(rel, ".go:") {
			paths = append(paths, "internal/"+rel)
		}
	}
	return paths
}

// Summary is what panic logs carry: the module frames when there are any,
// otherwise the whole stack.
func Summary(stack []byte) any {
	if paths := InternalPaths(stack); len(paths) > 0 {
		return paths
	}
	return string(stack)
}
