package styles

import "strconv"

// Symbols used in command output
const (
	SymbolAhead   = "↑"
	SymbolBehind  = "↓"
	SymbolSuccess = "✓"
	SymbolFailure = "✗"
	SymbolDirty   = "*"
)

// Ahead renders a count of commits only HEAD has, e.g. "↑3".
func Ahead(n int) string {
	return SuccessStyle.Render(SymbolAhead + strconv.Itoa(n))
}

// Behind renders a count of commits only the other branch has, e.g. "↓2".
func Behind(n int) string {
	return ErrorStyle.Render(SymbolBehind + strconv.Itoa(n))
}

// Check renders a success marker followed by msg.
func Check(msg string) string {
	return SuccessStyle.Render(SymbolSuccess) + " " + msg
}

// Cross renders a failure marker followed by msg.
func Cross(msg string) string {
	return ErrorStyle.Render(SymbolFailure) + " " + msg
}
