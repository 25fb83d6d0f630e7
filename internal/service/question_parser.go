package service

import (
	"regexp"
	"strings"

	"github.com/StudyBeacon/physics-learn/internal/models"
)

// questionLinePattern matches a trimmed line that opens a new question.
var questionLinePattern = regexp.MustCompile(`^(\d+)\s*(.*)$`)

// ParseQuestions splits free-form exam text into numbered questions.
//
// Blank lines are dropped. A line starting with digits opens a new question
// whose number is the digit run; any other line is appended to the open
// question's content, or discarded when no question is open yet.
func ParseQuestions(raw string) []models.Question {
	questions := make([]models.Question, 0)
	var current *models.Question

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if match := questionLinePattern.FindStringSubmatch(line); match != nil {
			if current != nil {
				questions = append(questions, *current)
			}
			current = &models.Question{
				Number:  match[1],
				Content: match[2],
				Images:  []models.ImageAsset{},
			}
			continue
		}
		if current == nil {
			continue
		}
		if current.Content != "" {
			current.Content += "\n" + line
		} else {
			current.Content = line
		}
	}
	if current != nil {
		questions = append(questions, *current)
	}
	return questions
}
