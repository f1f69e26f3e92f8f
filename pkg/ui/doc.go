// Package ui prints the CLI's human-facing status lines.
package ui
