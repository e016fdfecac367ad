package cmd

import (
	"fmt"
	"os"
)

// ── Unified output helpers ────────────────────────────────────────────────────
// Human-facing output goes to stdout through these helpers; structured logs
// go to stderr through internal/logger.
//
// Icon semantics:
//   ✓  success
//   ✗  error / failure          (written to stderr)
//   ⚠  warning
//   ○  skipped / not applicable
//   -  not found / missing
//   ~  neutral info / state change

// printSection prints a top-level section header, e.g. "=== Index ===".
func printSection(title string) {
	fmt.Printf("\n=== %s ===\n", title)
}

// printBullet prints a grouped-section bullet, e.g. "● Failed images:".
func printBullet(title string) {
	fmt.Printf("\n● %s\n", title)
}

// printLine prints "  <icon>  msg" or "  <icon>  [name] msg" to stdout.
func printLine(icon, name, msg string) {
	fprintLine(os.Stdout, icon, name, msg)
}

func fprintLine(w *os.File, icon, name, msg string) {
	if name == "" {
		fmt.Fprintf(w, "  %s  %s\n", icon, msg)
	} else {
		fmt.Fprintf(w, "  %s  [%s] %s\n", icon, name, msg)
	}
}

func printOK(name, msg string)   { printLine("✓", name, msg) }
func printWarn(name, msg string) { printLine("⚠", name, msg) }
func printSkip(name, msg string) { printLine("○", name, msg) }
func printMiss(name, msg string) { printLine("-", name, msg) }
func printInfo(name, msg string) { printLine("~", name, msg) }

// printErr prints an error line to stderr.
func printErr(name, msg string) { fprintLine(os.Stderr, "✗", name, msg) }

// printPaths prints a numbered result list.
func printPaths(paths []string) {
	if len(paths) == 0 {
		printMiss("", "no results")
		return
	}
	width := len(fmt.Sprint(len(paths)))
	for i, p := range paths {
		fmt.Printf("  %*d. %s\n", width, i+1, p)
	}
}
