package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Component returns a logger entry tagged with the given component name.
func Component(name string) *logrus.Entry {
	return logrus.WithField("component", name)
}

// Setup configures the process-wide logrus logger. Verbose enables debug
// output; everything goes to stderr so stdout stays machine-parseable.
func Setup(verbose bool) {
	logrus.SetOutput(os.Stderr)
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}
}
