package commands

// EducateCommand asks for an explanation of a topic and a refreshed knowledge graph
type EducateCommand struct {
	Topic string `json:"topic"`
}

// Validate validates the command. Any string topic is accepted, including an
// empty one; it is passed through to the model unchanged apart from trimming.
func (c EducateCommand) Validate() error {
	return nil
}

// EducateResult is the combined outcome of one educate request
type EducateResult struct {
	Explanation string   `json:"explanation"`
	Terms       []string `json:"terms"`
}
