package medquiz

import "regexp"

// Structural bounds of the closed quiz schema.
const (
	titleMinLen       = 10
	titleMaxLen       = 100
	descriptionMinLen = 20
	descriptionMaxLen = 300
	durationMin       = 1
	durationMax       = 120
	questionMinLen    = 20
	questionMaxLen    = 500
	optionMinLen      = 5
	optionMaxLen      = 200
	explanationMinLen = 50
	explanationMaxLen = 1000
	optionCount       = 4
	maxQuestions      = 20
)

// Similarity and coverage thresholds.
const (
	// nearDuplicateRatio flags two options whose edit distance is below this
	// fraction of the longer normalized length.
	nearDuplicateRatio = 0.20
	// distractorOverlapMax flags a distractor sharing at least this fraction
	// of the correct option's vocabulary.
	distractorOverlapMax = 0.60
	// coherenceMin is the minimum question/explanation token overlap before a
	// coherence warning is emitted.
	coherenceMin = 0.20
	// terminologyRatioMin is the minimum fraction of the reference medical
	// vocabulary expected in a quiz's combined text.
	terminologyRatioMin = 0.30
	// requiredCoverageMin is the minimum fraction of a level's required
	// vocabulary expected in a quiz's combined text.
	requiredCoverageMin = 0.30
)

// Score weights and acceptance thresholds.
const (
	weightStructure   = 0.30
	weightContent     = 0.25
	weightMedical     = 0.25
	weightPedagogical = 0.20

	// Coarser caller-facing composite: structural pass/fail, content score,
	// combined medical/pedagogical score.
	compositeWeightStructure = 0.20
	compositeWeightContent   = 0.30
	compositeWeightMedPed    = 0.50

	overallScoreMin     = 70
	structureScoreMin   = 90
	contentScoreMin     = 80
	medicalScoreMin     = 75
	pedagogicalScoreMin = 70
	maxMajorIssues      = 2
)

// Penalty points per finding.
const (
	penaltyCritical = 40
	penaltyMajor    = 15
	penaltyMinor    = 5

	// Fixed penalties applied once when any inappropriate-content issue
	// exists, independent of how many were found.
	inappropriateMedicalPenalty = 50
	inappropriateContentPenalty = 30

	// Penalty on the medical score when the terminology ratio is too low.
	lowTerminologyPenalty = 10
	// Penalty per forbidden-vocabulary hit on the pedagogical score.
	forbiddenTermPenalty = 15
	// Penalty when required-vocabulary coverage is below the threshold.
	lowCoveragePenalty = 10
	// Penalty when the declared difficulty exceeds the level ceiling.
	difficultyPenalty = 5
)

// Generation loop bounds.
const (
	// maxGenerationAttempts caps retries per question before forced acceptance.
	maxGenerationAttempts = 3
	// questionAcceptScore is the single-question bar on a 0-100 scale, looser
	// than the quiz-level orchestrator since a lone question has no quiz
	// context.
	questionAcceptScore = 50
)

// severityPenalty returns the score penalty for one finding of severity s.
func severityPenalty(s Severity) int {
	switch s {
	case SeverityCritical:
		return penaltyCritical
	case SeverityMajor:
		return penaltyMajor
	default:
		return penaltyMinor
	}
}

// LevelRule holds the vocabulary and difficulty constraints of one study level.
// All terms are stored normalized (lower-case, diacritics stripped).
type LevelRule struct {
	RequiredTerms  []string
	ForbiddenTerms []string
	MaxDifficulty  Difficulty
	QuestionLenMin int
	QuestionLenMax int
}

// levelRules maps each study level to its rule set. PASS is the first-year
// track: foundational vocabulary only, clinical prescription language is too
// advanced. LAS tolerates harder material.
var levelRules = map[StudentLevel]LevelRule{
	LevelPASS: {
		RequiredTerms: []string{
			"cellule", "membrane", "atome", "molecule", "proteine",
			"enzyme", "adn", "arn", "tissu", "organe",
			"glucide", "lipide", "mitose", "osmose", "homeostasie",
		},
		ForbiddenTerms: []string{
			"prescription medicamenteuse", "posologie", "diagnostic differentiel",
			"pharmacocinetique", "interaction medicamenteuse",
			"protocole therapeutique", "iatrogene", "contre indication",
		},
		MaxDifficulty:  DifficultyMedium,
		QuestionLenMin: 20,
		QuestionLenMax: 250,
	},
	LevelLAS: {
		RequiredTerms: []string{
			"physiologie", "metabolisme", "recepteur", "hormone", "synapse",
			"neurone", "immunite", "anticorps", "pathologie", "inflammation",
			"enzyme", "proteine", "homeostasie", "membrane", "gradient",
		},
		ForbiddenTerms: []string{
			"protocole therapeutique", "posologie pediatrique",
			"titration anesthesique", "prescription medicamenteuse",
		},
		MaxDifficulty:  DifficultyHard,
		QuestionLenMin: 30,
		QuestionLenMax: 400,
	},
}

// medicalReferenceTerms is the fixed multi-domain vocabulary the terminology
// ratio is measured against. Terms are normalized.
var medicalReferenceTerms = map[string][]string{
	"anatomie": {
		"coeur", "artere", "veine", "poumon", "foie",
		"rein", "cerveau", "estomac", "muscle", "nerf",
	},
	"physiologie": {
		"respiration", "circulation", "digestion", "contraction",
		"filtration", "secretion", "absorption", "homeostasie",
	},
	"biochimie": {
		"proteine", "enzyme", "glucide", "lipide", "adn",
		"arn", "glycolyse", "atp", "mitochondrie",
	},
	"pathologie": {
		"inflammation", "tumeur", "infection", "lesion",
		"necrose", "ischemie", "oedeme", "anemie",
	},
	"pharmacologie": {
		"recepteur", "agoniste", "antagoniste", "metabolite",
		"biodisponibilite", "effet secondaire",
	},
}

// allReferenceTerms flattens medicalReferenceTerms once at init.
var allReferenceTerms = func() []string {
	var terms []string
	for _, domain := range []string{"anatomie", "physiologie", "biochimie", "pathologie", "pharmacologie"} {
		terms = append(terms, medicalReferenceTerms[domain]...)
	}
	return terms
}()

// PatternCategory names one of the inappropriate-content scan categories.
type PatternCategory string

const (
	PatternMedicalAdvice  PatternCategory = "medical_advice"
	PatternDiscriminatory PatternCategory = "discriminatory"
	PatternPseudoscience  PatternCategory = "pseudoscience"
	PatternAlarmist       PatternCategory = "alarmist"
	PatternInappropriate  PatternCategory = "inappropriate"
)

// ContentPattern is one entry of the inappropriate-content tables. Patterns
// are written against normalized text (lower-case, diacritics stripped,
// punctuation collapsed to spaces).
type ContentPattern struct {
	Category   PatternCategory
	Pattern    *regexp.Regexp
	Severity   Severity
	Message    string
	Suggestion string
}

// inappropriatePatterns holds the five scan categories. Dangerous medical
// advice and discriminatory content are critical: a single hit invalidates
// the whole draft. Pseudoscience and alarmist language are major, generic
// inappropriate content is minor.
var inappropriatePatterns = []ContentPattern{
	{
		Category:   PatternMedicalAdvice,
		Pattern:    regexp.MustCompile(`\bauto ?medication\b`),
		Severity:   SeverityCritical,
		Message:    "encourages self-medication",
		Suggestion: "remove any self-medication guidance; questions must stay descriptive",
	},
	{
		Category:   PatternMedicalAdvice,
		Pattern:    regexp.MustCompile(`\barret(er|ez)? (votre|le|son) traitement\b`),
		Severity:   SeverityCritical,
		Message:    "suggests stopping a treatment",
		Suggestion: "never instruct patients about their treatment in teaching material",
	},
	{
		Category:   PatternMedicalAdvice,
		Pattern:    regexp.MustCompile(`\bsans (consulter|avis) (un |votre )?medecin\b`),
		Severity:   SeverityCritical,
		Message:    "advises acting without medical supervision",
		Suggestion: "rephrase without bypassing medical supervision",
	},
	{
		Category:   PatternMedicalAdvice,
		Pattern:    regexp.MustCompile(`\bdoubl(er|ez) la dose\b`),
		Severity:   SeverityCritical,
		Message:    "contains dangerous dosage advice",
		Suggestion: "remove dosage instructions entirely",
	},
	{
		Category:   PatternDiscriminatory,
		Pattern:    regexp.MustCompile(`\breserve aux (hommes|femmes)\b`),
		Severity:   SeverityCritical,
		Message:    "contains discriminatory content",
		Suggestion: "remove any discriminatory framing",
	},
	{
		Category:   PatternDiscriminatory,
		Pattern:    regexp.MustCompile(`\bles (femmes|hommes) ne (peuvent|savent) pas\b`),
		Severity:   SeverityCritical,
		Message:    "contains a discriminatory generalization",
		Suggestion: "remove any discriminatory framing",
	},
	{
		Category:   PatternDiscriminatory,
		Pattern:    regexp.MustCompile(`\brace (inferieure|superieure)\b`),
		Severity:   SeverityCritical,
		Message:    "contains discriminatory content",
		Suggestion: "remove any discriminatory framing",
	},
	{
		Category:   PatternPseudoscience,
		Pattern:    regexp.MustCompile(`\bmemoire de l eau\b`),
		Severity:   SeverityMajor,
		Message:    "references pseudoscience",
		Suggestion: "stick to established physiology and pharmacology",
	},
	{
		Category:   PatternPseudoscience,
		Pattern:    regexp.MustCompile(`\bguerison miracle(use)?\b`),
		Severity:   SeverityMajor,
		Message:    "promises miracle cures",
		Suggestion: "stick to established physiology and pharmacology",
	},
	{
		Category:   PatternPseudoscience,
		Pattern:    regexp.MustCompile(`\benergie quantique\b`),
		Severity:   SeverityMajor,
		Message:    "references pseudoscience",
		Suggestion: "stick to established physiology and pharmacology",
	},
	{
		Category:   PatternAlarmist,
		Pattern:    regexp.MustCompile(`\bmort certaine\b`),
		Severity:   SeverityMajor,
		Message:    "uses alarmist language",
		Suggestion: "describe prognosis factually, without alarm",
	},
	{
		Category:   PatternAlarmist,
		Pattern:    regexp.MustCompile(`\btoujours (fatal|mortel)\b`),
		Severity:   SeverityMajor,
		Message:    "uses alarmist language",
		Suggestion: "describe prognosis factually, without alarm",
	},
	{
		Category:   PatternAlarmist,
		Pattern:    regexp.MustCompile(`\baucun espoir\b`),
		Severity:   SeverityMajor,
		Message:    "uses alarmist language",
		Suggestion: "describe prognosis factually, without alarm",
	},
	{
		Category:   PatternInappropriate,
		Pattern:    regexp.MustCompile(`\b(idiot|stupide|imbecile)\b`),
		Severity:   SeverityMinor,
		Message:    "contains inappropriate wording",
		Suggestion: "keep the tone neutral and professional",
	},
	{
		Category:   PatternInappropriate,
		Pattern:    regexp.MustCompile(`\bblague\b`),
		Severity:   SeverityMinor,
		Message:    "contains informal wording",
		Suggestion: "keep the tone neutral and professional",
	},
}

// recommendationPriority ranks categories when composing recommendations;
// lower comes first.
var recommendationPriority = map[IssueCategory]int{
	CategoryMedical:     1,
	CategoryStructure:   2,
	CategoryContent:     3,
	CategoryPedagogical: 4,
}
