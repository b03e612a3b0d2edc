package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxNameLength bounds the learner identity
const MaxNameLength = 64

// Level is the learner's proficiency level
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Levels lists every accepted level in display order
var Levels = []Level{LevelBeginner, LevelIntermediate, LevelAdvanced}

var levelAliases = map[string]Level{
	"beginner":     LevelBeginner,
	"intermediate": LevelIntermediate,
	"advanced":     LevelAdvanced,
	"初級":           LevelBeginner,
	"中級":           LevelIntermediate,
	"上級":           LevelAdvanced,
}

// ParseLevel converts user input into a Level.
// Accepts canonical values in any case and the labels shown by the web UI.
func ParseLevel(s string) (Level, error) {
	if l, ok := levelAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return l, nil
	}
	return "", fmt.Errorf("%w: unknown level %q", ErrValidation, s)
}

// Label returns a human readable level name
func (l Level) Label() string {
	switch l {
	case LevelBeginner:
		return "Beginner"
	case LevelIntermediate:
		return "Intermediate"
	case LevelAdvanced:
		return "Advanced"
	}
	return string(l)
}

// Goal is the learner's learning goal
type Goal string

const (
	GoalDailyConversation Goal = "daily_conversation"
	GoalBusinessEnglish   Goal = "business_english"
	GoalTOEIC800          Goal = "toeic_800"
	GoalTravel            Goal = "travel"
)

// Goals lists every accepted goal in display order
var Goals = []Goal{GoalDailyConversation, GoalBusinessEnglish, GoalTOEIC800, GoalTravel}

var goalAliases = map[string]Goal{
	"daily_conversation":    GoalDailyConversation,
	"everyday conversation": GoalDailyConversation,
	"business_english":      GoalBusinessEnglish,
	"business english":      GoalBusinessEnglish,
	"toeic_800":             GoalTOEIC800,
	"toeic 800":             GoalTOEIC800,
	"travel":                GoalTravel,
	"日常会話":                  GoalDailyConversation,
	"ビジネス英語":                GoalBusinessEnglish,
	"toeic 800点":            GoalTOEIC800,
	"旅行":                    GoalTravel,
}

// ParseGoal converts user input into a Goal
func ParseGoal(s string) (Goal, error) {
	if g, ok := goalAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return g, nil
	}
	return "", fmt.Errorf("%w: unknown goal %q", ErrValidation, s)
}

// Label returns a human readable goal name
func (g Goal) Label() string {
	switch g {
	case GoalDailyConversation:
		return "Everyday conversation"
	case GoalBusinessEnglish:
		return "Business English"
	case GoalTOEIC800:
		return "TOEIC 800"
	case GoalTravel:
		return "Travel"
	}
	return string(g)
}

// NormalizeName trims the learner identity and validates its length
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrValidation)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", fmt.Errorf("%w: name longer than %d characters", ErrValidation, MaxNameLength)
	}
	return name, nil
}

// LearnerProfile represents a learner and their study preferences
type LearnerProfile struct {
	Name      string
	Level     Level
	Goal      Goal
	CreatedAt time.Time
	UpdatedAt time.Time
}
