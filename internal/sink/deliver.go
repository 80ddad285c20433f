package sink

import (
	"go.uber.org/zap"
)

const warningDeliveryFailedMessage = "Warning: failed to deliver output"

// Sink is one destination of the aggregated document.
type Sink interface {
	Name() string
	Deliver(text string) error
}

// Result records the outcome of one sink.
type Result struct {
	Name string
	Err  error
}

// Succeeded reports whether the sink accepted the document.
func (result Result) Succeeded() bool {
	return result.Err == nil
}

// DeliverAll hands text to every sink in order. A failing sink is logged and
// does not stop the remaining ones.
func DeliverAll(text string, sinks []Sink, logger *zap.Logger) []Result {
	if logger == nil {
		logger = zap.NewNop()
	}
	results := make([]Result, 0, len(sinks))
	for _, destination := range sinks {
		deliverError := destination.Deliver(text)
		if deliverError != nil {
			logger.Warn(warningDeliveryFailedMessage, zap.String("sink", destination.Name()), zap.Error(deliverError))
		}
		results = append(results, Result{Name: destination.Name(), Err: deliverError})
	}
	return results
}
