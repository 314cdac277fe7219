package cli

import "fmt"

func printUsage() {
	fmt.Print(`liarsbar - Liars Bar LLM record backend

Usage:
  liarsbar [serve] [-config file]   start the HTTP backend (default)
  liarsbar records [-config file]   list known game records
  liarsbar play [-config file]      run one game in the foreground
  liarsbar help                     show this help

Environment:
  LIARSBAR_ADDR         listen address (overrides config)
  LIARSBAR_BASE_DIR     identifier base directory
  LIARSBAR_RECORD_DIRS  comma-separated record directories
  LIARSBAR_AUDIT_DB     sqlite audit database path
  LIARSBAR_TRACE        enable OpenTelemetry span emission
  LIARSBAR_EVENT_BUFFER queue size for span emission
`)
}
