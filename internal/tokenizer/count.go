package tokenizer

import (
	"errors"
	"unicode/utf8"
)

var (
	errNilCounter  = errors.New("nil tokenizer counter")
	errInvalidUTF8 = errors.New("document is not valid UTF-8")
)

// CountResult captures the outcome of counting a document.
type CountResult struct {
	Tokens   int
	Encoding string
}

// CountDocument estimates tokens for a rendered document.
func CountDocument(counter Counter, document string) (CountResult, error) {
	if counter == nil {
		return CountResult{}, errNilCounter
	}
	if !utf8.ValidString(document) {
		return CountResult{}, errInvalidUTF8
	}
	tokens, countError := counter.CountString(document)
	if countError != nil {
		return CountResult{}, countError
	}
	return CountResult{Tokens: tokens, Encoding: counter.Name()}, nil
}
