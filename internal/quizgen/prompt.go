// Package quizgen holds the generation pipeline's pure stages: prompt
// construction, response sanitization, and schema validation/repair. The
// remote call itself lives behind domain.TextGenerator so every stage here
// is testable without a network.
package quizgen

import (
	"fmt"
	"strings"

	"vidquiz/internal/domain"
)

const multipleChoiceSchema = `[
  {
    "question": "question text here",
    "options": ["option1", "option2", "option3", "option4"],
    "correctAnswer": "exact correct option text",
    "explanation": "brief explanation"
  }
]`

const trueFalseSchema = `[
  {
    "question": "statement to judge",
    "correctAnswer": "True",
    "explanation": "brief explanation"
  }
]`

const fillInTheBlanksSchema = `[
  {
    "question": "sentence with ___ for the blank",
    "correctAnswer": "word or phrase that fills the blank",
    "explanation": "brief explanation"
  }
]`

// BuildPrompt renders the instruction text for the generative model. It is a
// pure function of the transcript and preferences, and rejects unsupported
// question types before any remote call is wasted on them.
func BuildPrompt(transcript string, prefs domain.QuizPreferences) (string, error) {
	var schema, kind, extra string
	switch prefs.QuestionType {
	case domain.MultipleChoice:
		schema = multipleChoiceSchema
		kind = "multiple-choice"
		extra = "- Provide exactly 4 options per question\n- correctAnswer must be the exact text of one of the options"
	case domain.TrueFalse:
		schema = trueFalseSchema
		kind = "true/false"
		extra = `- correctAnswer must be exactly "True" or "False"`
	case domain.FillInTheBlanks:
		schema = fillInTheBlanksSchema
		kind = "fill-in-the-blank"
		extra = "- Each question must contain ___ marking the blank"
	default:
		return "", domain.NewUnsupportedQuestionTypeError(string(prefs.QuestionType))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a quiz generator. Generate %d %s questions based on this transcript: \"%s\"\n\n",
		prefs.NumberOfQuestions, kind, transcript)
	fmt.Fprintf(&b, "Requirements:\n- Difficulty level: %s\n- Each question must be relevant to the transcript content\n%s\n- Ensure all answers are clear and unambiguous\n\n",
		prefs.Difficulty, extra)
	fmt.Fprintf(&b, "Return ONLY a valid JSON array with this exact structure:\n```json\n%s\n```\n\n", schema)
	b.WriteString("Important: Ensure the response is ONLY the JSON array, no additional text or markdown formatting.")

	return b.String(), nil
}
