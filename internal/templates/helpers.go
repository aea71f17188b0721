package templates

import (
	"fmt"
	"text/template"
)

// NotificationFuncMap returns the template functions for alert messages
func NotificationFuncMap() template.FuncMap {
	return template.FuncMap{
		"formatBytes": FormatBytes,
	}
}

// FormatBytes converts bytes to human-readable format
func FormatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
