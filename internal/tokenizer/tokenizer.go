// Package tokenizer estimates how many model tokens a rendered prompt occupies.
package tokenizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

// Config captures tokenizer selection parameters provided by the CLI.
type Config struct {
	Model string
}

const (
	// DefaultModel is used when no model is configured.
	DefaultModel        = "gpt-4o"
	defaultEncodingName = "cl100k_base"

	fallbackTokenizerFailedFormat = "initialize fallback tokenizer: %w"
)

// NewCounter returns a Counter for the requested model together with the
// resolved model name. Models unknown to tiktoken fall back to cl100k_base.
func NewCounter(cfg Config) (Counter, string, error) {
	model := normalizeModel(cfg.Model)

	encoding, err := tiktoken.EncodingForModel(model)
	if err == nil && encoding != nil {
		return tiktokenCounter{encoding: encoding, name: model}, model, nil
	}
	fallback, fallbackErr := tiktoken.GetEncoding(defaultEncodingName)
	if fallbackErr != nil {
		return nil, "", fmt.Errorf(fallbackTokenizerFailedFormat, fallbackErr)
	}
	return tiktokenCounter{encoding: fallback, name: defaultEncodingName}, defaultEncodingName, nil
}

func normalizeModel(model string) string {
	trimmed := strings.ToLower(strings.TrimSpace(model))
	if trimmed == "" {
		return DefaultModel
	}
	return trimmed
}

var errNilCounter = errors.New("nil tokenizer counter")

// CountString estimates tokens for text using counter.
func CountString(counter Counter, text string) (int, error) {
	if counter == nil {
		return 0, errNilCounter
	}
	return counter.CountString(text)
}

// tiktokenCounter counts tokens with a BPE encoding shipped by tiktoken.
type tiktokenCounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

func (counter tiktokenCounter) Name() string {
	return counter.name
}

func (counter tiktokenCounter) CountString(input string) (int, error) {
	if counter.encoding == nil {
		return 0, errors.New("tokenizer encoding is not initialized")
	}
	return len(counter.encoding.Encode(input, nil, nil)), nil
}
