//go:build !dev

package mcplogdlog

// Debug, Info, Warn and Error are no-ops outside dev builds.

func Debug(string, map[string]any) {}

func Info(string, map[string]any) {}

func Warn(string, map[string]any) {}

func Error(string, map[string]any) {}
