// Package resymlog wraps logrus with the structured fields used throughout
// resymgo: component name, PDB file path, and type/module/symbol name being
// processed, so a single log line is enough to tell which operation failed.
package resymlog

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var base = newBase()

func newBase() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	return l
}

// SetLevel adjusts the global log level from a string ("debug", "info",
// "warn", "error"); unrecognized levels are ignored and the current level
// is kept.
func SetLevel(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return
	}
	base.SetLevel(lvl)
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	base.SetOutput(w)
}

// For returns a logger scoped to one component ("tpi", "render", "facade", …).
func For(component string) *logrus.Entry {
	return base.WithField("component", component)
}
