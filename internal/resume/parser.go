package resume

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ErrUnsupportedFormat means the uploaded file cannot be parsed locally; the
// user should paste the text instead.
var ErrUnsupportedFormat = errors.New("unsupported file format, paste the resume text instead")

// ErrFileTooLarge rejects uploads over MaxFileSize.
var ErrFileTooLarge = fmt.Errorf("file exceeds the %dMB limit", MaxFileSize>>20)

// ParseResult is the outcome of a file parse attempt.
type ParseResult struct {
	Content  string
	Filename string
	Method   string
}

// Parser turns an uploaded file into resume text.
type Parser interface {
	Parse(filename string, data []byte) (*ParseResult, error)
}

// TextParser handles plain-text uploads. Binary formats like PDF and DOCX
// are rejected rather than half-parsed.
type TextParser struct{}

func (TextParser) Parse(filename string, data []byte) (*ParseResult, error) {
	if len(data) > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt", ".md":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%s is not valid UTF-8 text", filename)
	}

	content := strings.TrimSpace(string(data))
	if utf8.RuneCountInString(content) < MinContentLength {
		return nil, ErrContentTooShort
	}

	return &ParseResult{
		Content:  content,
		Filename: filename,
		Method:   "local-text",
	}, nil
}
