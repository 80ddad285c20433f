// Package tokenizer estimates how many model tokens the aggregated document uses.
package tokenizer

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

const (
	// DefaultModel is used when no model is configured.
	DefaultModel        = "gpt-4o"
	defaultEncodingName = "cl100k_base"

	errorDefaultEncodingFormat = "initialize default tokenizer: %w"
	errorCountFormat           = "counting tokens with %s: %w"
)

var openAIModelPrefixes = []string{
	"gpt-",
	"text-embedding",
	"davinci",
	"curie",
	"babbage",
	"ada",
	"code-",
	"o1",
	"o3",
}

// NewCounter returns a Counter for model. Known OpenAI models use their own
// encoding; every other model falls back to cl100k_base. The returned string
// names the model or encoding actually used.
func NewCounter(model string) (Counter, string, error) {
	trimmedModel := strings.TrimSpace(model)
	if trimmedModel == "" {
		trimmedModel = DefaultModel
	}
	lowerModel := strings.ToLower(trimmedModel)

	if isOpenAIModel(lowerModel) {
		encoding, encodingError := tiktoken.EncodingForModel(lowerModel)
		if encodingError == nil && encoding != nil {
			return openAICounter{encoding: encoding, name: lowerModel}, trimmedModel, nil
		}
	}

	fallback, fallbackError := tiktoken.GetEncoding(defaultEncodingName)
	if fallbackError != nil {
		return nil, "", fmt.Errorf(errorDefaultEncodingFormat, fallbackError)
	}
	return openAICounter{encoding: fallback, name: defaultEncodingName}, defaultEncodingName, nil
}

// CountDocument counts the tokens of text with counter.
func CountDocument(counter Counter, text string) (int, error) {
	if counter == nil {
		return 0, errNilCounter
	}
	tokenCount, countError := counter.CountString(text)
	if countError != nil {
		return 0, fmt.Errorf(errorCountFormat, counter.Name(), countError)
	}
	return tokenCount, nil
}

func isOpenAIModel(model string) bool {
	for _, prefix := range openAIModelPrefixes {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}
