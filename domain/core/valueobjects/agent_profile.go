package valueobjects

import (
	"fmt"
	"strings"

	"econbot/domain/config"
)

// AgentProfile is the persona an LLM is asked to adopt
type AgentProfile struct {
	Role      string
	Goal      string
	Backstory string
}

// TaskSpec describes one unit of work handed to an agent
type TaskSpec struct {
	Description    string
	ExpectedOutput string
}

// EconomicEducator returns the educator persona
func EconomicEducator(cfg *config.DomainConfig) AgentProfile {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return AgentProfile{
		Role:      cfg.EducatorRole,
		Goal:      cfg.EducatorGoal,
		Backstory: cfg.EducatorBackstory,
	}
}

// EducateTask builds the explanation task for a topic
func EducateTask(cfg *config.DomainConfig, topic Topic) TaskSpec {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Educate the user on the following topic: \"%s\".\n\n", topic.String())
	fmt.Fprintf(&b, "%s\n\n", cfg.TaskTip)
	b.WriteString("Your explanation should include:\n")
	b.WriteString("- A clear and concise definition or overview of the topic.\n")
	b.WriteString("- Examples of its application in the real world.\n")
	b.WriteString("- Insights into how this topic connects to other economic concepts.\n")
	fmt.Fprintf(&b, "- At the end give a list of %d economic terms relevant to the query. "+
		"Make sure the list is called Relevant economic terms.\n\n", cfg.RelevantTermsCount)
	b.WriteString("Use a structured approach to ensure the user understands the topic thoroughly.")

	return TaskSpec{
		Description:    b.String(),
		ExpectedOutput: cfg.TaskExpectedOutput,
	}
}

// SystemPrompt renders the persona as a system message
func (a AgentProfile) SystemPrompt() string {
	return fmt.Sprintf("You are %s. %s\n\nYour personal goal is: %s", a.Role, a.Backstory, a.Goal)
}

// UserPrompt renders the task as a user message
func (t TaskSpec) UserPrompt() string {
	return fmt.Sprintf("%s\n\nThis is the expected criteria for your final answer: %s", t.Description, t.ExpectedOutput)
}

// TermExtractionPrompt builds the single-message prompt used to list terms
func TermExtractionPrompt(cfg *config.DomainConfig, topic Topic) string {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return fmt.Sprintf("%s\n\nQuery: %s", cfg.TermExtractionInstruction, topic.String())
}
