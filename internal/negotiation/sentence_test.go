package negotiation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collect feeds fragments through an accumulator and returns every emitted sentence,
// including the end-of-stream flush.
func collect(fragments []string) []string {
	var acc SentenceAccumulator
	var out []string
	for _, f := range fragments {
		if s, ok := acc.Append(f); ok {
			out = append(out, s)
		}
	}
	if s, ok := acc.Flush(); ok {
		out = append(out, s)
	}
	return out
}

func TestSentenceAccumulator_Append(t *testing.T) {
	tests := []struct {
		name      string
		fragments []string
		want      []string
	}{
		{
			name:      "single sentence across fragments",
			fragments: []string{"Hello", " there", "."},
			want:      []string{"Hello there."},
		},
		{
			name:      "multiple terminators",
			fragments: []string{"Great", " offer!", " Shall we", " proceed?", " Thanks."},
			want:      []string{"Great offer!", "Shall we proceed?", "Thanks."},
		},
		{
			name:      "trailing whitespace after terminator",
			fragments: []string{"Deal.", "  \n"},
			want:      []string{"Deal."},
		},
		{
			name:      "terminator followed by more text in same fragment",
			fragments: []string{"Deal. And", " more"},
			want:      []string{"Deal. And more"},
		},
		{
			name:      "unterminated tail is flushed",
			fragments: []string{"Sure.", " Let me", " check"},
			want:      []string{"Sure.", "Let me check"},
		},
		{
			name:      "decimal at fragment boundary splits",
			fragments: []string{"It costs $19.", "99 today."},
			want:      []string{"It costs $19.", "99 today."},
		},
		{
			name:      "whitespace only emits nothing",
			fragments: []string{" ", "\n", "\t"},
			want:      nil,
		},
		{
			name:      "empty stream",
			fragments: nil,
			want:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, collect(tt.fragments))
		})
	}
}

func TestSentenceAccumulator_NoTextLost(t *testing.T) {
	fragments := []string{"I can ", "do $85", ".", " That is ", "fair!", " Want it", "?", " Reply soon"}
	sentences := collect(fragments)

	stripped := func(s string) string { return strings.Join(strings.Fields(s), "") }
	assert.Equal(t, stripped(strings.Join(fragments, "")), stripped(strings.Join(sentences, "")))
}

func TestSentenceAccumulator_NoTerminatorSingleEvent(t *testing.T) {
	fragments := []string{"  no ", "punctuation", " here  "}
	sentences := collect(fragments)

	require.Len(t, sentences, 1)
	assert.Equal(t, strings.TrimSpace(strings.Join(fragments, "")), sentences[0])
}

func TestSentenceAccumulator_PendingAndReset(t *testing.T) {
	var acc SentenceAccumulator

	_, ok := acc.Append("half a ")
	require.False(t, ok)
	assert.Equal(t, "half a ", acc.Pending())

	acc.Reset()
	assert.Empty(t, acc.Pending())

	_, ok = acc.Flush()
	assert.False(t, ok, "Flush() after Reset() should emit nothing")
}
