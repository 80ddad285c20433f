package tokenizer

import (
	"errors"

	"github.com/pkoukk/tiktoken-go"
)

var (
	errNilCounter = errors.New("nil tokenizer counter")
	errNilEncoder = errors.New("nil tiktoken encoder")
)

type openAICounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

func (counter openAICounter) Name() string {
	return counter.name
}

func (counter openAICounter) CountString(input string) (int, error) {
	if counter.encoding == nil {
		return 0, errNilEncoder
	}
	tokenIDs := counter.encoding.Encode(input, nil, nil)
	return len(tokenIDs), nil
}
