// Package extract decodes binary document formats into plain text.
// Extraction is deterministic: well-formed input of a recognized format
// yields text, everything else yields a classified *Error. An empty string
// is never returned as success, because empty résumé text downstream would
// silently produce a meaningless, confidently-worded evaluation.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/jonathan/resume-screener/internal/fetch"
)

// Reason classifies why extraction failed.
type Reason string

// Extraction failure reasons.
const (
	ReasonEmptyInput  Reason = "empty_input"
	ReasonUnsupported Reason = "unsupported_format"
	ReasonCorrupted   Reason = "corrupted_document"
	ReasonEncrypted   Reason = "encrypted_document"
	ReasonNoText      Reason = "no_text_layer"
)

// Error represents a classified extraction failure.
type Error struct {
	Reason  Reason
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction failed (%s): %s: %v", e.Reason, e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction failed (%s): %s", e.Reason, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Text extracts plain text from document bytes, dispatching on the declared
// content type and the document's magic bytes. PDF and HTML are supported.
func Text(data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", &Error{Reason: ReasonEmptyInput, Message: "document is empty"}
	}

	switch {
	case isPDF(data, contentType):
		return pdfText(data)
	case isHTML(data, contentType):
		return htmlText(data)
	default:
		return "", &Error{
			Reason:  ReasonUnsupported,
			Message: fmt.Sprintf("unrecognized document format (content type %q)", contentType),
		}
	}
}

func isPDF(data []byte, contentType string) bool {
	if strings.Contains(strings.ToLower(contentType), "pdf") {
		return true
	}
	return bytes.HasPrefix(data, []byte("%PDF-"))
}

func isHTML(data []byte, contentType string) bool {
	if strings.Contains(strings.ToLower(contentType), "html") {
		return true
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return bytes.HasPrefix(trimmed, []byte("<"))
}

// pdfText extracts the text layer from a PDF, concatenated across pages in
// document order. The underlying reader panics on some malformed files, so
// the whole decode runs behind a recover.
func pdfText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &Error{
				Reason:  ReasonCorrupted,
				Message: fmt.Sprintf("malformed PDF: %v", r),
			}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		reason := ReasonCorrupted
		if strings.Contains(strings.ToLower(err.Error()), "encrypted") {
			reason = ReasonEncrypted
		}
		return "", &Error{Reason: reason, Message: "failed to open PDF", Cause: err}
	}

	plainText, err := reader.GetPlainText()
	if err != nil {
		return "", &Error{Reason: ReasonCorrupted, Message: "failed to read PDF text", Cause: err}
	}

	var sb strings.Builder
	if _, err := io.Copy(&sb, plainText); err != nil {
		return "", &Error{Reason: ReasonCorrupted, Message: "failed to decode PDF text", Cause: err}
	}

	result := strings.TrimSpace(sb.String())
	if result == "" {
		return "", &Error{
			Reason:  ReasonNoText,
			Message: "PDF has no extractable text layer (scanned or image-only document)",
		}
	}
	return result, nil
}

// htmlText extracts readable text from an HTML-hosted résumé.
func htmlText(data []byte) (string, error) {
	text, err := fetch.ExtractMainText(string(data))
	if err != nil {
		return "", &Error{Reason: ReasonCorrupted, Message: "failed to parse HTML", Cause: err}
	}
	if strings.TrimSpace(text) == "" {
		return "", &Error{Reason: ReasonNoText, Message: "HTML document has no readable text"}
	}
	return text, nil
}
