package sink_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tyemirov/collect/internal/sink"
)

type recordingCopier struct {
	copied []string
	err    error
}

func (copier *recordingCopier) Copy(text string) error {
	copier.copied = append(copier.copied, text)
	return copier.err
}

func TestFileSinkWritesDocument(t *testing.T) {
	t.Parallel()

	outputPath := filepath.Join(t.TempDir(), "nested", "context.txt")
	fileSink := sink.NewFileSink(outputPath)

	require.NoError(t, fileSink.Deliver("first"))
	require.NoError(t, fileSink.Deliver("second"))

	written, readError := os.ReadFile(outputPath)
	require.NoError(t, readError)
	assert.Equal(t, "second", string(written))

	info, statError := os.Stat(outputPath)
	require.NoError(t, statError)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	directoryEntries, listError := os.ReadDir(filepath.Dir(outputPath))
	require.NoError(t, listError)
	var names []string
	for _, directoryEntry := range directoryEntries {
		names = append(names, directoryEntry.Name())
	}
	assert.ElementsMatch(t, []string{"context.txt", "context.txt" + sink.LockSuffix}, names)
}

func TestFileSinkReportsUnwritableTarget(t *testing.T) {
	t.Parallel()

	blockingFile := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blockingFile, []byte("x"), 0o644))

	fileSink := sink.NewFileSink(filepath.Join(blockingFile, "context.txt"))
	assert.Error(t, fileSink.Deliver("text"))
}

func TestClipboardSinkUsesCopier(t *testing.T) {
	t.Parallel()

	copier := &recordingCopier{}
	clipboardSink := sink.NewClipboardSink(copier)

	require.NoError(t, clipboardSink.Deliver("document"))
	assert.Equal(t, []string{"document"}, copier.copied)
	assert.Equal(t, "clipboard", clipboardSink.Name())
}

func TestDeliverAllContinuesAfterFailure(t *testing.T) {
	t.Parallel()

	failingCopier := &recordingCopier{err: errors.New("no clipboard")}
	outputPath := filepath.Join(t.TempDir(), "context.txt")
	core, observedLogs := observer.New(zapcore.WarnLevel)

	results := sink.DeliverAll("document", []sink.Sink{
		sink.NewClipboardSink(failingCopier),
		sink.NewFileSink(outputPath),
	}, zap.New(core))

	require.Len(t, results, 2)
	assert.False(t, results[0].Succeeded())
	assert.Equal(t, "clipboard", results[0].Name)
	assert.True(t, results[1].Succeeded())
	assert.Equal(t, "file", results[1].Name)

	written, readError := os.ReadFile(outputPath)
	require.NoError(t, readError)
	assert.Equal(t, "document", string(written))
	assert.Equal(t, 1, observedLogs.Len())
}
