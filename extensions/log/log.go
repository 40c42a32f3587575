package log

import (
	stdlog "log"

	"github.com/sirupsen/logrus"
)

func init() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
}

func NewLogger(tag string) *logrus.Entry {
	return logrus.WithField("tag", tag)
}

// NewErrorLog returns a standard library logger that forwards every line to
// the given entry at warn level. Used for http.Server.ErrorLog.
func NewErrorLog(entry *logrus.Entry) *stdlog.Logger {
	return stdlog.New(entry.WriterLevel(logrus.WarnLevel), "", 0)
}

func SetLevel(level string) error {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logrus.SetLevel(parsed)
	return nil
}
