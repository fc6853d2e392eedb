// Package ui provides color output helpers for the astrobiomers CLI that
// respect the --no-color flag and NO_COLOR environment variable. Colors are
// automatically disabled when the output is not a TTY.
package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	Red    = color.New(color.FgRed)
	Yellow = color.New(color.FgYellow)
	Green  = color.New(color.FgGreen)
	Cyan   = color.New(color.FgCyan)
	Bold   = color.New(color.Bold)
	Dim    = color.New(color.Faint)
)

// InitColors configures global color output based on the --no-color flag.
// fatih/color already respects NO_COLOR; this gives the CLI flag the same effect.
func InitColors(noColor bool) {
	color.NoColor = noColor
}

func Success(msg string) { _, _ = Green.Println("✓ " + msg) }

func Successf(format string, args ...any) { _, _ = Green.Printf("✓ "+format+"\n", args...) }

func Warning(msg string) { _, _ = Yellow.Println("⚠ " + msg) }

func Warningf(format string, args ...any) { _, _ = Yellow.Printf("⚠ "+format+"\n", args...) }

func Error(msg string) { _, _ = Red.Println("✗ " + msg) }

func Errorf(format string, args ...any) { _, _ = Red.Printf("✗ "+format+"\n", args...) }

func Info(msg string) { _, _ = Cyan.Println("ℹ " + msg) }

func Infof(format string, args ...any) { _, _ = Cyan.Printf("ℹ "+format+"\n", args...) }

// Header prints a bold header followed by an underline separator.
func Header(text string) {
	_, _ = Bold.Println(text)
	fmt.Println(strings.Repeat("=", len(text)))
}

func SubHeader(text string) { _, _ = Bold.Println(text) }

func Label(text string) string { return Bold.Sprint(text) }

func DimText(text string) string { return Dim.Sprint(text) }

func CountText(count int) string { return Cyan.Sprint(count) }
