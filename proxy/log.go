/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

package proxy

import (
	"fmt"
	"log"
	"os"
	"strings"
)

const (
	// envLogLevel sets the proxy log level by name: ERROR, WARN (or
	// WARNING), INFO, DEBUG or ALL; any other value selects INFO.
	envLogLevel = "GRIDCACHE_LOG_LEVEL"

	logLevelError = 1
	logLevelWarn  = 2
	logLevelInfo  = 3
	logLevelDebug = 4
	logLevelAll   = 5
)

var currentLogLevel = parseLogLevel(os.Getenv(envLogLevel))

func parseLogLevel(value string) int {
	switch strings.ToUpper(value) {
	case "", "INFO":
		return logLevelInfo
	case "ERROR":
		return logLevelError
	case "WARNING", "WARN":
		return logLevelWarn
	case "DEBUG":
		return logLevelDebug
	case "ALL":
		return logLevelAll
	default:
		return logLevelInfo
	}
}

// SetLogLevel overrides the level parsed from the environment.
func SetLogLevel(level string) {
	currentLogLevel = parseLogLevel(level)
}

func logMessage(level int, prefix, format string, args ...any) {
	if level <= currentLogLevel {
		log.Println(prefix + ": " + fmt.Sprintf(format, args...))
	}
}

func logError(format string, args ...any) {
	logMessage(logLevelError, "ERROR", format, args...)
}

func logWarning(format string, args ...any) {
	logMessage(logLevelWarn, "WARN", format, args...)
}

func logInfo(format string, args ...any) {
	logMessage(logLevelInfo, "INFO", format, args...)
}

func logDebug(format string, args ...any) {
	logMessage(logLevelDebug, "DEBUG", format, args...)
}
