package log

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLoggerTag(t *testing.T) {
	var buffer bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buffer)
	entry := NewLogger("fileserver")
	entry.Logger = logger
	entry.Info("hello")
	if !strings.Contains(buffer.String(), "tag=fileserver") {
		t.Fatalf("missing tag in %q", buffer.String())
	}
}

func TestSetLevel(t *testing.T) {
	previous := logrus.GetLevel()
	defer logrus.SetLevel(previous)

	if err := SetLevel("debug"); err != nil {
		t.Fatal(err)
	}
	if logrus.GetLevel() != logrus.DebugLevel {
		t.Errorf("level = %v, want debug", logrus.GetLevel())
	}
	if err := SetLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}
