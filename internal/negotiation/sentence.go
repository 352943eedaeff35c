package negotiation

import "strings"

// SentenceAccumulator reassembles streamed text fragments into complete sentences.
// It holds exactly the unterminated tail of output not yet emitted.
// The zero value is ready to use. It is not safe for concurrent use.
type SentenceAccumulator struct {
	buf strings.Builder
}

// Append adds fragment to the buffer. When the trimmed buffer ends with
// '.', '!' or '?', the trimmed text is returned as a sentence and the buffer is cleared.
func (a *SentenceAccumulator) Append(fragment string) (string, bool) {
	a.buf.WriteString(fragment)

	sentence := strings.TrimSpace(a.buf.String())
	if sentence == "" || !isTerminator(sentence[len(sentence)-1]) {
		return "", false
	}
	a.buf.Reset()
	return sentence, true
}

// Flush returns whatever non-whitespace text remains, regardless of punctuation,
// and clears the buffer.
func (a *SentenceAccumulator) Flush() (string, bool) {
	rest := strings.TrimSpace(a.buf.String())
	a.buf.Reset()
	return rest, rest != ""
}

// Pending returns the buffered, not yet emitted text.
func (a *SentenceAccumulator) Pending() string {
	return a.buf.String()
}

// Reset discards the buffered text.
func (a *SentenceAccumulator) Reset() {
	a.buf.Reset()
}

func isTerminator(c byte) bool {
	return c == '.' || c == '!' || c == '?'
}
