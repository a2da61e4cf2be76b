package main

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// statusLabel renders a lifecycle status for display.
func statusLabel(status string) string {
	if status == "" {
		return "Unknown"
	}
	return titleCaser.String(status)
}
