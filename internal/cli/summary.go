package cli

import (
	"io"

	"github.com/fatih/color"

	"github.com/tyemirov/collect/internal/sink"
	"github.com/tyemirov/collect/internal/types"
)

const (
	directoryProcessedMessage = "Directory contents processed."
	fileProcessedMessage      = "File contents processed."
	outputSavedFormat         = "Output saved to %s\n"
	outputSaveFailedFormat    = "Failed to save output to %s: %v\n"
	clipboardCopiedMessage    = "Output copied to clipboard."
	clipboardFailedFormat     = "Failed to copy output to clipboard: %v\n"
	totalSizeFormat           = "Total size: %d characters\n"
	tokenEstimateFormat       = "Estimated tokens: %d (%s)\n"
	readFailuresFormat        = "Files that could not be read: %d\n"
)

// runReport is everything the summary shows about a finished run.
type runReport struct {
	rootKind        types.EntryKind
	outputPath      string
	deliveries      []sink.Result
	characterCount  int
	failedReadCount int
	tokensCounted   bool
	tokenCount      int
	tokenModel      string
}

type summaryPrinter struct {
	writer  io.Writer
	success *color.Color
	failure *color.Color
	detail  *color.Color
}

func newSummaryPrinter(writer io.Writer, colored bool) summaryPrinter {
	printer := summaryPrinter{
		writer:  writer,
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
		detail:  color.New(color.FgCyan),
	}
	for _, palette := range []*color.Color{printer.success, printer.failure, printer.detail} {
		if colored {
			palette.EnableColor()
		} else {
			palette.DisableColor()
		}
	}
	return printer
}

func (printer summaryPrinter) print(report runReport) {
	if report.rootKind == types.EntryKindFile {
		printer.success.Fprintln(printer.writer, fileProcessedMessage)
	} else {
		printer.success.Fprintln(printer.writer, directoryProcessedMessage)
	}

	for _, delivery := range report.deliveries {
		switch delivery.Name {
		case sink.FileSinkName:
			if delivery.Succeeded() {
				printer.detail.Fprintf(printer.writer, outputSavedFormat, report.outputPath)
			} else {
				printer.failure.Fprintf(printer.writer, outputSaveFailedFormat, report.outputPath, delivery.Err)
			}
		case sink.ClipboardSinkName:
			if delivery.Succeeded() {
				printer.detail.Fprintln(printer.writer, clipboardCopiedMessage)
			} else {
				printer.failure.Fprintf(printer.writer, clipboardFailedFormat, delivery.Err)
			}
		}
	}

	if report.failedReadCount > 0 {
		printer.failure.Fprintf(printer.writer, readFailuresFormat, report.failedReadCount)
	}
	printer.detail.Fprintf(printer.writer, totalSizeFormat, report.characterCount)
	if report.tokensCounted {
		printer.detail.Fprintf(printer.writer, tokenEstimateFormat, report.tokenCount, report.tokenModel)
	}
}
