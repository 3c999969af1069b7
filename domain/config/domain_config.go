package config

// DomainConfig holds the fixed educator persona, task wording and sampling
// settings used by the two LLM steps.
type DomainConfig struct {
	// Educator persona
	EducatorRole      string
	EducatorGoal      string
	EducatorBackstory string

	// Educate task
	TaskTip            string
	TaskExpectedOutput string
	RelevantTermsCount int

	// Term extraction
	TermExtractionInstruction string

	// Sampling
	ExplanationTemperature float64
	TermsTemperature       float64
	MaxTokens              int
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		EducatorRole: "Economic Educator",
		EducatorGoal: "To answer user questions about economics, explain complex topics in an accessible manner, " +
			"and provide real-world examples to enhance understanding. " +
			"At the end of your explanation provide four economic terms relevant to the query.",
		EducatorBackstory: "An expert in economics with a mission to educate users on key concepts and their real-world implications. " +
			"Combines academic knowledge with current events to provide clear, structured, and engaging explanations.",

		TaskTip:            "Ensure your response is clear, accurate, and provides real-world examples!",
		TaskExpectedOutput: "An educational explanation of the topic, including examples and connections to other concepts.",
		RelevantTermsCount: 4,

		TermExtractionInstruction: "Identify the most relevant economic terms related to the following query. " +
			"Provide a comma-separated list of terms without explanations.",

		ExplanationTemperature: 0.7,
		TermsTemperature:       0.3,
		MaxTokens:              0, // provider default
	}
}
