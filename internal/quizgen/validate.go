package quizgen

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"vidquiz/internal/domain"
)

const (
	// DefaultExplanation fills in when the model omits an explanation.
	DefaultExplanation = "No explanation provided."

	// CorrectionNote is appended to the explanation whenever a
	// correctAnswer had to be repaired to match the options.
	CorrectionNote = "Note: the correct answer was adjusted to match the provided options."
)

// rawQuestion is the model's question object before validation. correctAnswer
// is kept raw because true/false questions sometimes come back as JSON
// booleans instead of strings.
type rawQuestion struct {
	Question      string          `json:"question"`
	Options       []string        `json:"options"`
	CorrectAnswer json.RawMessage `json:"correctAnswer"`
	Explanation   string          `json:"explanation"`
}

var (
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	bareKeyRe       = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
)

// repairJSON applies a best-effort syntactic cleanup: stray newlines become
// spaces, trailing commas before closing brackets are dropped, and bare
// object keys are quoted. It runs at most once per request.
func repairJSON(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = trailingCommaRe.ReplaceAllString(s, "$1")
	s = bareKeyRe.ReplaceAllString(s, `$1"$2":`)
	return s
}

// ValidateQuestions parses the candidate JSON, enforces the per-type question
// shape, applies the documented repairs, and truncates the result to the
// requested count. A non-empty result shorter than requested is returned
// as-is; the pipeline never pads. An empty result is rejected as malformed
// output.
func ValidateQuestions(candidate string, prefs domain.QuizPreferences) ([]domain.GeneratedQuestion, error) {
	raws, err := parseQuestions(candidate)
	if err != nil {
		repaired := repairJSON(candidate)
		raws, err = parseQuestions(repaired)
		if err != nil {
			return nil, domain.NewMalformedOutputError(err)
		}
	}

	// An empty array is valid JSON but leaves nothing to quiz on; report it
	// as unusable model output rather than a caller mistake.
	if len(raws) == 0 {
		return nil, domain.NewMalformedOutputError(errors.New("model returned no questions"))
	}

	questions := make([]domain.GeneratedQuestion, 0, len(raws))
	for i, raw := range raws {
		q, err := validateQuestion(raw, prefs.QuestionType, i)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	if len(questions) > prefs.NumberOfQuestions {
		questions = questions[:prefs.NumberOfQuestions]
	}
	return questions, nil
}

// parseQuestions accepts either a bare array or an object wrapping the array
// under "questions".
func parseQuestions(candidate string) ([]rawQuestion, error) {
	trimmed := strings.TrimSpace(candidate)
	if strings.HasPrefix(trimmed, "{") {
		var wrapper struct {
			Questions []rawQuestion `json:"questions"`
		}
		if err := json.Unmarshal([]byte(trimmed), &wrapper); err != nil {
			return nil, err
		}
		return wrapper.Questions, nil
	}

	var raws []rawQuestion
	if err := json.Unmarshal([]byte(trimmed), &raws); err != nil {
		return nil, err
	}
	return raws, nil
}

func validateQuestion(raw rawQuestion, questionType domain.QuestionType, index int) (domain.GeneratedQuestion, error) {
	var zero domain.GeneratedQuestion

	text := strings.TrimSpace(raw.Question)
	if text == "" {
		return zero, domain.NewInvalidQuestionShapeError(fmt.Sprintf("question %d: missing question text", index+1))
	}

	answer, err := decodeAnswer(raw.CorrectAnswer)
	if err != nil || answer == "" {
		return zero, domain.NewInvalidQuestionShapeError(fmt.Sprintf("question %d: missing correctAnswer", index+1))
	}

	explanation := strings.TrimSpace(raw.Explanation)
	if explanation == "" {
		explanation = DefaultExplanation
	}

	q := domain.GeneratedQuestion{
		Question:      text,
		CorrectAnswer: answer,
		Explanation:   explanation,
	}

	switch questionType {
	case domain.MultipleChoice:
		options, err := validateOptions(raw.Options, index)
		if err != nil {
			return zero, err
		}
		q.Options = options
		if !contains(options, q.CorrectAnswer) {
			// The model occasionally paraphrases the correct answer so it no
			// longer matches any option verbatim. Policy: repair to the first
			// option and say so in the explanation rather than dropping the
			// question.
			q.CorrectAnswer = options[0]
			q.Explanation = q.Explanation + " " + CorrectionNote
		}
	case domain.TrueFalse:
		normalized, ok := normalizeBool(q.CorrectAnswer)
		if !ok {
			return zero, domain.NewInvalidQuestionShapeError(
				fmt.Sprintf("question %d: correctAnswer must be True or False, got %q", index+1, q.CorrectAnswer))
		}
		q.CorrectAnswer = normalized
	case domain.FillInTheBlanks:
		// Options are irrelevant for this type; drop whatever came back.
	}

	return q, nil
}

// validateOptions enforces exactly 4 distinct non-empty options. Anything
// else is a hard failure, not a repair opportunity.
func validateOptions(options []string, index int) ([]string, error) {
	if len(options) != domain.OptionsPerQuestion {
		return nil, domain.NewInvalidQuestionShapeError(
			fmt.Sprintf("question %d: expected %d options, got %d", index+1, domain.OptionsPerQuestion, len(options)))
	}

	trimmed := make([]string, 0, len(options))
	seen := make(map[string]struct{}, len(options))
	for _, opt := range options {
		o := strings.TrimSpace(opt)
		if o == "" {
			return nil, domain.NewInvalidQuestionShapeError(fmt.Sprintf("question %d: empty option", index+1))
		}
		if _, dup := seen[o]; dup {
			return nil, domain.NewInvalidQuestionShapeError(fmt.Sprintf("question %d: duplicate option %q", index+1, o))
		}
		seen[o] = struct{}{}
		trimmed = append(trimmed, o)
	}
	return trimmed, nil
}

func decodeAnswer(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s), nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		if b {
			return "True", nil
		}
		return "False", nil
	}
	return "", fmt.Errorf("correctAnswer is neither string nor bool: %s", string(raw))
}

func normalizeBool(answer string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "true":
		return "True", true
	case "false":
		return "False", true
	}
	return "", false
}

func contains(list []string, target string) bool {
	for _, item := range list {
		if item == target {
			return true
		}
	}
	return false
}
