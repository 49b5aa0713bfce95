package medquiz

import (
	"fmt"
	"strings"
)

// StructuralReport is the outcome of the structural validation stage.
// Structural validity is a precondition for every other validator: a failure
// here short-circuits the rest of the pipeline.
type StructuralReport struct {
	IsValid bool
	Issues  []ValidationIssue
	Penalty int
}

// StructuralValidator validates raw untyped content against the closed quiz
// schema: counts, types and length bounds. It is a pure function of its input.
type StructuralValidator struct{}

// NewStructuralValidator creates a structural validator.
func NewStructuralValidator() *StructuralValidator {
	return &StructuralValidator{}
}

// allowed field sets; the schema is closed, anything else is rejected.
var (
	allowedTopLevelFields = map[string]struct{}{"quiz": {}, "questions": {}}
	allowedQuizFields     = map[string]struct{}{"title": {}, "description": {}, "estimatedDuration": {}}
	allowedQuestionFields = map[string]struct{}{
		"questionText": {}, "options": {}, "explanation": {}, "difficulty": {}, "tags": {},
	}
	allowedOptionFields = map[string]struct{}{"text": {}, "isCorrect": {}}
)

// Validate checks the shape of raw content. Violations are critical unless the
// schema marks them otherwise (title and description are major, duration is
// minor). The report is invalid on any critical or major issue; minor issues
// only reduce the penalty-derived score.
func (v *StructuralValidator) Validate(content map[string]any) StructuralReport {
	var issues []ValidationIssue

	add := func(severity Severity, field, message, suggestion string) {
		issues = append(issues, ValidationIssue{
			Category:   CategoryStructure,
			Severity:   severity,
			Field:      field,
			Message:    message,
			Suggestion: suggestion,
		})
	}

	if content == nil {
		add(SeverityCritical, "", "content is empty or not an object", "provide a quiz object and a questions array")
		return buildStructuralReport(issues)
	}

	for key := range content {
		if _, ok := allowedTopLevelFields[key]; !ok {
			add(SeverityCritical, key, fmt.Sprintf("unknown top-level field %q", key), "remove fields outside the quiz schema")
		}
	}

	quizRaw, ok := content["quiz"]
	if !ok {
		add(SeverityCritical, "quiz", "missing quiz object", "add a quiz object with title, description and estimatedDuration")
	} else if quiz, ok := quizRaw.(map[string]any); !ok {
		add(SeverityCritical, "quiz", "quiz must be an object", "")
	} else {
		v.validateQuizObject(quiz, add)
	}

	questionsRaw, ok := content["questions"]
	if !ok {
		add(SeverityCritical, "questions", "missing questions array", "add at least one question")
	} else if questions, ok := questionsRaw.([]any); !ok {
		add(SeverityCritical, "questions", "questions must be an array", "")
	} else if len(questions) == 0 {
		add(SeverityCritical, "questions", "questions array is empty", "add at least one question")
	} else if len(questions) > maxQuestions {
		add(SeverityCritical, "questions", fmt.Sprintf("too many questions (%d, max %d)", len(questions), maxQuestions), "split the quiz")
	} else {
		for i, qRaw := range questions {
			field := fmt.Sprintf("questions[%d]", i)
			question, ok := qRaw.(map[string]any)
			if !ok {
				add(SeverityCritical, field, "question must be an object", "")
				continue
			}
			v.validateQuestionObject(question, field, add)
		}
	}

	return buildStructuralReport(issues)
}

func (v *StructuralValidator) validateQuizObject(quiz map[string]any, add func(Severity, string, string, string)) {
	for key := range quiz {
		if _, ok := allowedQuizFields[key]; !ok {
			add(SeverityCritical, "quiz."+key, fmt.Sprintf("unknown quiz field %q", key), "remove fields outside the quiz schema")
		}
	}

	if title, ok := stringField(quiz, "title"); !ok {
		add(SeverityCritical, "quiz.title", "title must be a string", "")
	} else if l := len([]rune(title)); l < titleMinLen || l > titleMaxLen {
		add(SeverityMajor, "quiz.title",
			fmt.Sprintf("title length %d outside %d-%d", l, titleMinLen, titleMaxLen),
			"use a descriptive title of 10 to 100 characters")
	}

	if desc, ok := stringField(quiz, "description"); !ok {
		add(SeverityCritical, "quiz.description", "description must be a string", "")
	} else if l := len([]rune(desc)); l < descriptionMinLen || l > descriptionMaxLen {
		add(SeverityMajor, "quiz.description",
			fmt.Sprintf("description length %d outside %d-%d", l, descriptionMinLen, descriptionMaxLen),
			"describe the quiz in 20 to 300 characters")
	}

	if dur, ok := numberField(quiz, "estimatedDuration"); !ok {
		add(SeverityCritical, "quiz.estimatedDuration", "estimatedDuration must be a number", "")
	} else if dur < durationMin || dur > durationMax {
		add(SeverityMinor, "quiz.estimatedDuration",
			fmt.Sprintf("estimatedDuration %d outside %d-%d minutes", dur, durationMin, durationMax),
			"estimate between 1 and 120 minutes")
	}
}

func (v *StructuralValidator) validateQuestionObject(question map[string]any, field string, add func(Severity, string, string, string)) {
	for key := range question {
		if _, ok := allowedQuestionFields[key]; !ok {
			add(SeverityCritical, field+"."+key, fmt.Sprintf("unknown question field %q", key), "remove fields outside the quiz schema")
		}
	}

	if text, ok := stringField(question, "questionText"); !ok {
		add(SeverityCritical, field+".questionText", "questionText must be a string", "")
	} else if l := len([]rune(text)); l < questionMinLen || l > questionMaxLen {
		add(SeverityCritical, field+".questionText",
			fmt.Sprintf("questionText length %d outside %d-%d", l, questionMinLen, questionMaxLen), "")
	}

	if expl, ok := stringField(question, "explanation"); !ok {
		add(SeverityCritical, field+".explanation", "explanation must be a string", "")
	} else if l := len([]rune(expl)); l < explanationMinLen || l > explanationMaxLen {
		add(SeverityCritical, field+".explanation",
			fmt.Sprintf("explanation length %d outside %d-%d", l, explanationMinLen, explanationMaxLen),
			"explain why the answer is correct in 50 to 1000 characters")
	}

	if diffRaw, ok := question["difficulty"]; ok {
		diff, isStr := diffRaw.(string)
		if !isStr || difficultyRank(Difficulty(diff)) == 0 {
			add(SeverityCritical, field+".difficulty", "difficulty must be easy, medium or hard", "")
		}
	}
	if tagsRaw, ok := question["tags"]; ok {
		tags, isArr := tagsRaw.([]any)
		if !isArr {
			add(SeverityCritical, field+".tags", "tags must be an array of strings", "")
		} else {
			for i, t := range tags {
				if _, isStr := t.(string); !isStr {
					add(SeverityCritical, fmt.Sprintf("%s.tags[%d]", field, i), "tag must be a string", "")
				}
			}
		}
	}

	optionsRaw, ok := question["options"]
	if !ok {
		add(SeverityCritical, field+".options", "missing options array", "provide exactly 4 options")
		return
	}
	options, ok := optionsRaw.([]any)
	if !ok {
		add(SeverityCritical, field+".options", "options must be an array", "")
		return
	}
	if len(options) != optionCount {
		add(SeverityCritical, field+".options",
			fmt.Sprintf("exactly %d options required (found %d)", optionCount, len(options)), "")
		return
	}

	correct := 0
	for i, oRaw := range options {
		optField := fmt.Sprintf("%s.options[%d]", field, i)
		option, ok := oRaw.(map[string]any)
		if !ok {
			add(SeverityCritical, optField, "option must be an object", "")
			continue
		}
		for key := range option {
			if _, ok := allowedOptionFields[key]; !ok {
				add(SeverityCritical, optField+"."+key, fmt.Sprintf("unknown option field %q", key), "remove fields outside the quiz schema")
			}
		}
		if text, ok := stringField(option, "text"); !ok {
			add(SeverityCritical, optField+".text", "option text must be a string", "")
		} else if l := len([]rune(text)); l < optionMinLen || l > optionMaxLen {
			add(SeverityCritical, optField+".text",
				fmt.Sprintf("option text length %d outside %d-%d", l, optionMinLen, optionMaxLen), "")
		}
		isCorrect, ok := option["isCorrect"].(bool)
		if !ok {
			add(SeverityCritical, optField+".isCorrect", "isCorrect must be a boolean", "")
			continue
		}
		if isCorrect {
			correct++
		}
	}
	if correct != 1 {
		add(SeverityCritical, field+".options",
			fmt.Sprintf("exactly one correct answer required (found %d)", correct), "")
	}
}

func buildStructuralReport(issues []ValidationIssue) StructuralReport {
	report := StructuralReport{IsValid: true, Issues: issues}
	for _, issue := range issues {
		report.Penalty += severityPenalty(issue.Severity)
		if issue.Severity == SeverityCritical || issue.Severity == SeverityMajor {
			report.IsValid = false
		}
	}
	return report
}

func stringField(obj map[string]any, key string) (string, bool) {
	raw, ok := obj[key]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	return s, ok
}

// numberField accepts JSON numbers (float64 after unmarshalling) as well as
// Go ints from hand-built maps.
func numberField(obj map[string]any, key string) (int, bool) {
	switch n := obj[key].(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	}
	return 0, false
}

// Sanitize returns a deep copy of raw content with every string trimmed of
// leading and trailing whitespace. Shape is preserved, so content that meets
// the schema aside from stray whitespace validates after sanitizing.
func Sanitize(content map[string]any) map[string]any {
	if content == nil {
		return nil
	}
	out := make(map[string]any, len(content))
	for key, value := range content {
		out[key] = sanitizeValue(value)
	}
	return out
}

func sanitizeValue(value any) any {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		return Sanitize(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = sanitizeValue(item)
		}
		return out
	default:
		return value
	}
}

// DecodeQuizDraft converts structurally valid raw content into a QuizDraft.
// It tolerates missing optional fields but assumes Validate already passed;
// unexpected types simply yield zero values.
func DecodeQuizDraft(content map[string]any) QuizDraft {
	var draft QuizDraft
	if quiz, ok := content["quiz"].(map[string]any); ok {
		draft.Title, _ = stringField(quiz, "title")
		draft.Description, _ = stringField(quiz, "description")
		draft.EstimatedDurationMinutes, _ = numberField(quiz, "estimatedDuration")
	}
	questions, _ := content["questions"].([]any)
	for _, qRaw := range questions {
		question, ok := qRaw.(map[string]any)
		if !ok {
			continue
		}
		q := QuestionDraft{}
		q.QuestionText, _ = stringField(question, "questionText")
		q.Explanation, _ = stringField(question, "explanation")
		if diff, ok := stringField(question, "difficulty"); ok {
			q.Difficulty = Difficulty(diff)
		}
		if tags, ok := question["tags"].([]any); ok {
			for _, t := range tags {
				if s, ok := t.(string); ok {
					q.Tags = append(q.Tags, s)
				}
			}
		}
		options, _ := question["options"].([]any)
		for _, oRaw := range options {
			option, ok := oRaw.(map[string]any)
			if !ok {
				continue
			}
			text, _ := stringField(option, "text")
			isCorrect, _ := option["isCorrect"].(bool)
			q.Options = append(q.Options, Option{Text: text, IsCorrect: isCorrect})
		}
		draft.Questions = append(draft.Questions, q)
	}
	return draft
}
