package intent

// Vocabularies used to bootstrap confidence before the classifier runs.
// Matching is plain substring matching, so short entries such as "it" fire
// often; the classifier is expected to correct for that.
var (
	technicalVocabulary = []string{
		"java", "python", "sql", "developer", "engineering", "software",
		"programming", "technical", "coding", "it", "cloud",
	}

	behavioralVocabulary = []string{
		"leadership", "collaboration", "communication", "interpersonal",
		"people management", "culture", "cultural", "values",
		"teamwork", "stakeholder", "business teams", "soft skills",
	}
)
