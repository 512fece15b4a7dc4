package logging

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.viam.com/test"
)

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lodvec.log")
	logger := NewFileLogger("file", path, zapcore.InfoLevel)
	logger.Debugw("hidden", "k", 1)
	logger.Infow("carved layer", "pieces", 12)
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(data), test.ShouldContainSubstring, `"msg":"carved layer"`)
	test.That(t, string(data), test.ShouldContainSubstring, `"pieces":12`)
	test.That(t, string(data), test.ShouldContainSubstring, `"logger":"file"`)
	test.That(t, string(data), test.ShouldNotContainSubstring, "hidden")
}
