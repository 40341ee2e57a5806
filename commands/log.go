package commands

import (
	"fmt"
	"log"

	"github.com/fatih/color"
)

var (
	DEBUG = color.New(color.FgHiBlack)
	INFO  = color.New(color.FgCyan)
	WARN  = color.New(color.FgYellow)
	ERROR = color.New(color.FgRed, color.Bold)
)

func debugf(format string, args ...any) {
	logf(DEBUG, "DEBUG", format, args...)
}

func infof(format string, args ...any) {
	logf(INFO, "INFO", format, args...)
}

func warnf(format string, args ...any) {
	logf(WARN, "WARN", format, args...)
}

func errorf(format string, args ...any) {
	logf(ERROR, "ERROR", format, args...)
}

func logf(c *color.Color, level string, format string, args ...any) {
	log.Printf("%s %s", c.Sprintf("%-5s", level), fmt.Sprintf(format, args...))
}
