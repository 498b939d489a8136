// Package ui provides the color themes and lipgloss styles shared by the CLI
// output: colored text helpers and the boxed banners printed around a run.
package ui
