package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StudyBeacon/physics-learn/internal/models"
)

func TestParseQuestionsRoundTrip(t *testing.T) {
	questions := ParseQuestions("1 What is force?\n2 Define energy.\n   (2 marks)")

	require.Len(t, questions, 2)
	assert.Equal(t, "1", questions[0].Number)
	assert.Equal(t, "What is force?", questions[0].Content)
	assert.Equal(t, "2", questions[1].Number)
	assert.Equal(t, "Define energy.\n(2 marks)", questions[1].Content)
	assert.Empty(t, questions[0].Images)
}

func TestParseQuestionsEmptyInput(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\n\t\n"} {
		questions := ParseQuestions(raw)
		assert.NotNil(t, questions)
		assert.Empty(t, questions)
	}
}

func TestParseQuestionsDropsLinesBeforeFirstQuestion(t *testing.T) {
	questions := ParseQuestions("Instructions: read carefully\n1 Question A")

	require.Len(t, questions, 1)
	assert.Equal(t, "1", questions[0].Number)
	assert.Equal(t, "Question A", questions[0].Content)
}

func TestParseQuestionsEdgeCases(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []models.Question
	}{
		{
			name: "number only line collects following lines",
			raw:  "10\nA block slides down a ramp.\nFind its speed.",
			want: []models.Question{{Number: "10", Content: "A block slides down a ramp.\nFind its speed."}},
		},
		{
			name: "digits mid line do not open a question",
			raw:  "1 A car travels 20 m\nin 4 s. Find 2 values.",
			want: []models.Question{{Number: "1", Content: "A car travels 20 m\nin 4 s. Find 2 values."}},
		},
		{
			name: "no whitespace after number",
			raw:  "3a) Explain inertia.",
			want: []models.Question{{Number: "3", Content: "a) Explain inertia."}},
		},
		{
			name: "blank lines and crlf are ignored",
			raw:  "1 First\r\n\r\n   \r\n2 Second\r\n",
			want: []models.Question{{Number: "1", Content: "First"}, {Number: "2", Content: "Second"}},
		},
		{
			name: "non sequential numbers kept verbatim",
			raw:  "7 Seven\n07 Zero seven\n3 Three",
			want: []models.Question{{Number: "7", Content: "Seven"}, {Number: "07", Content: "Zero seven"}, {Number: "3", Content: "Three"}},
		},
		{
			name: "no numbered lines",
			raw:  "Section A\nAnswer all questions.",
			want: []models.Question{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseQuestions(tc.raw)
			require.Len(t, got, len(tc.want))
			for i := range tc.want {
				assert.Equal(t, tc.want[i].Number, got[i].Number)
				assert.Equal(t, tc.want[i].Content, got[i].Content)
			}
		})
	}
}

func TestParseQuestionsCountMatchesNumberedLines(t *testing.T) {
	raw := "Header\n1 a\nb\n\n2\n  c\n3 d\ne 4\n42 f"
	questions := ParseQuestions(raw)

	numbered := 0
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && questionLinePattern.MatchString(line) {
			numbered++
		}
	}
	assert.Equal(t, 4, numbered)
	assert.Len(t, questions, numbered)
}

func TestParseQuestionsIsIdempotent(t *testing.T) {
	raw := "Read all\n1 What is work?\n(3 marks)\n2 State Newton's laws."
	assert.Equal(t, ParseQuestions(raw), ParseQuestions(raw))
}
