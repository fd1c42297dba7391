package session

import (
	"errors"
	"regexp"
	"strings"

	"github.com/gosuda/brainstorm/internal/domain"
)

// errorMarker flags a turn whose generation failed; it is stored in the
// conversation log so the failure stays visible when the session is resumed.
const errorMarker = ">>>ERROR FETCHING RESPONSE<<<"

// Failure category names embedded in synthesized error messages.
const (
	categoryProviderNotFound = "ProviderNotFound"
	categoryProviderFailure  = "ProviderFailure"
)

// speakerPrefixPattern matches one or more leading speaker prefixes, plain
// ("[Name]:") or as a markdown heading ("## [Name]:"), that some models echo
// back despite being told not to.
var speakerPrefixPattern = regexp.MustCompile(`^(?:##\s*)?(\[\s*[^\]]+\]\s*:[\s\n]*)+`)

// IsErrorMessage reports whether a conversation message records a failed
// generation turn.
func IsErrorMessage(msg domain.Message) bool {
	return strings.Contains(msg.Content, errorMarker)
}

// FormatWithSpeaker prefixes content with the conventional speaker header.
func FormatWithSpeaker(name, content string) string {
	return "## [" + name + "]:\n\n" + content
}

// StripSpeakerPrefix removes any leading speaker prefixes from a model
// response so the header is never doubled.
func StripSpeakerPrefix(response string) string {
	return speakerPrefixPattern.ReplaceAllString(response, "")
}

// formatErrorWithSpeaker synthesizes the conversation message recorded when
// a turn's generation fails: the speaker header, the error marker, the
// failure category and message, and each wrapped cause down the chain.
func formatErrorWithSpeaker(name, category string, err error) string {
	var sb strings.Builder
	sb.WriteString(errorMarker)
	sb.WriteString("\n\n")
	sb.WriteString(category)
	sb.WriteString(": ")
	sb.WriteString(err.Error())

	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		sb.WriteString("\ncaused by: ")
		sb.WriteString(cause.Error())
	}

	return FormatWithSpeaker(name, sb.String())
}
