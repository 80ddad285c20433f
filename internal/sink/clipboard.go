package sink

import (
	"github.com/atotto/clipboard"
)

// ClipboardSinkName identifies ClipboardSink results.
const ClipboardSinkName = "clipboard"

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// SystemClipboard implements Copier using github.com/atotto/clipboard.
type SystemClipboard struct{}

// Copy writes text to the system clipboard.
func (SystemClipboard) Copy(text string) error {
	return clipboard.WriteAll(text)
}

// ClipboardSink hands the document to a Copier.
type ClipboardSink struct {
	copier Copier
}

// NewClipboardSink returns a sink backed by copier, or by the system
// clipboard when copier is nil.
func NewClipboardSink(copier Copier) *ClipboardSink {
	if copier == nil {
		copier = SystemClipboard{}
	}
	return &ClipboardSink{copier: copier}
}

// Name identifies the sink in delivery results.
func (clipboardSink *ClipboardSink) Name() string {
	return ClipboardSinkName
}

// Deliver copies text to the clipboard.
func (clipboardSink *ClipboardSink) Deliver(text string) error {
	return clipboardSink.copier.Copy(text)
}

var (
	_ Copier = SystemClipboard{}
	_ Sink   = (*ClipboardSink)(nil)
	_ Sink   = (*FileSink)(nil)
)
