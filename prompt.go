package app

import (
	"fmt"
	"strings"
)

// OutputType selects the kind of study content to generate.
type OutputType int

// The output types offered on the mentor page.
const (
	Summary OutputType = iota
	DetailedPlan
	TimeTable
	TipsAndMotivation
	Quiz
)

// OutputTypes lists every output type in the order they are offered.
var OutputTypes = []OutputType{Summary, DetailedPlan, TimeTable, TipsAndMotivation, Quiz}

func (t OutputType) String() string {
	switch t {
	case Summary:
		return "Summary"
	case DetailedPlan:
		return "Detailed Plan"
	case TimeTable:
		return "Time Table"
	case TipsAndMotivation:
		return "Tips & Motivation"
	case Quiz:
		return "Quiz"
	default:
		return fmt.Sprintf("OutputType(%d)", int(t))
	}
}

// ParseOutputType returns the output type with the given label.
func ParseOutputType(s string) (OutputType, error) {
	s = strings.TrimSpace(s)
	for _, t := range OutputTypes {
		if strings.EqualFold(t.String(), s) {
			return t, nil
		}
	}
	return Summary, fmt.Errorf("unknown output type %q", s)
}

// Prompt wraps the problem description in the instruction for t.
func Prompt(t OutputType, problem string) string {
	switch t {
	case Summary:
		return "Give a short study summary for: " + problem
	case DetailedPlan:
		return "Give a very detailed step-by-step study plan for: " + problem
	case TimeTable:
		return "Create a full weekly timetable for: " + problem
	case TipsAndMotivation:
		return "Give motivation tips, consistency hacks & habits for: " + problem
	case Quiz:
		return "Create a 10-question quiz for: " + problem
	default:
		panic(fmt.Sprintf("unknown output type %d", int(t)))
	}
}

// QuizPrompt is the prompt used by the quiz page.
func QuizPrompt(topic string) string {
	return "Create a 10-question quiz on: " + topic
}
