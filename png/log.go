package png

import "github.com/sirupsen/logrus"

// Logger is the narrow diagnostics surface Encode/Decode call into. It is
// satisfied by *logrus.Logger (and by *logrus.Entry, via WithFields),
// mirroring the celeste-converter-go reference's "log *logrus.Logger,
// defaulting to a standard logger the caller can silence" pattern. A nil
// Logger in EncodeOptions/DecodeOptions is equivalent to passing
// nopLogger{}: diagnostics are pure side information and never influence
// encoded or decoded bytes.
type Logger interface {
	WithFields(fields logrus.Fields) *logrus.Entry
}

// StandardLogger returns the package-level logrus logger, for callers
// who want diagnostics without constructing their own *logrus.Logger.
func StandardLogger() Logger {
	return logrus.StandardLogger()
}

type nopLogger struct{}

func (nopLogger) WithFields(logrus.Fields) *logrus.Entry {
	return logrus.NewEntry(nopLogrusLogger)
}

// nopLogrusLogger discards everything written to it; constructed once so
// nopLogger.WithFields doesn't allocate a new logger per call.
var nopLogrusLogger = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(discard{})
	return l
}()

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
