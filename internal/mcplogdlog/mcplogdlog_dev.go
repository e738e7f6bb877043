//go:build dev

// Package mcplogdlog forwards diagnostic events to a local mcplogd socket in
// dev builds. Release builds compile every call to a no-op.
//
// GLSLFLAT_MCPLOGD_SOCKET overrides the socket path and GLSLFLAT_LOG_LEVEL
// (debug, info, warn, error) drops events below the given level. Flattening a
// large tree emits one debug event per include, so info is a useful setting.
package mcplogdlog

import (
	"encoding/json"
	"net"
	"os"
	"strings"
	"time"
)

const (
	defaultSocket = "/tmp/mcplogd.sock"
	socketEnv     = "GLSLFLAT_MCPLOGD_SOCKET"
	levelEnv      = "GLSLFLAT_LOG_LEVEL"
	appName       = "glslflat"
	dialTimeout   = 50 * time.Millisecond
)

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
)

var levelNames = map[level]string{
	levelDebug: "debug",
	levelInfo:  "info",
	levelWarn:  "warn",
	levelError: "error",
}

type entry struct {
	App       string         `json:"app"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Timestamp string         `json:"timestamp"`
	PID       int            `json:"pid"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

func Debug(message string, metadata map[string]any) {
	send(levelDebug, message, metadata)
}

func Info(message string, metadata map[string]any) {
	send(levelInfo, message, metadata)
}

func Warn(message string, metadata map[string]any) {
	send(levelWarn, message, metadata)
}

func Error(message string, metadata map[string]any) {
	send(levelError, message, metadata)
}

func minLevel() level {
	name := strings.ToLower(strings.TrimSpace(os.Getenv(levelEnv)))
	for lvl, n := range levelNames {
		if n == name {
			return lvl
		}
	}
	return levelDebug
}

func socketPath() string {
	if p := os.Getenv(socketEnv); p != "" {
		return p
	}
	return defaultSocket
}

// send drops the event silently when no daemon is listening.
func send(lvl level, message string, metadata map[string]any) {
	if lvl < minLevel() {
		return
	}

	data, err := json.Marshal(entry{
		App:       appName,
		Level:     levelNames[lvl],
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		PID:       os.Getpid(),
		Metadata:  metadata,
	})
	if err != nil {
		return
	}

	conn, err := net.DialTimeout("unix", socketPath(), dialTimeout)
	if err != nil {
		return
	}
	defer conn.Close()

	_, _ = conn.Write(append(data, '\n'))
}
