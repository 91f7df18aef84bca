// Package ui provides semantic text formatting for sealbox CLI output.
//
// Formatters carry meaning, not just color: Success, Error, Warning, Info,
// Highlight, Code, Path, and Muted. When color is unavailable (NO_COLOR set,
// dumb terminal, piped output) each formatter degrades to a plain-text
// convention instead (backticks for code, quotes for highlighted values),
// so output stays readable in logs and test captures.
//
// Usage:
//
//	fmt.Println(ui.Success.Sprint("✓") + " Record " + ui.Highlight.Sprint(name) + " sealed")
package ui
