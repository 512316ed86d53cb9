package domain

// ToolCall represents a request from the model to perform a side-effect.
// Compatible with OpenAI-style tool call schemas.
type ToolCall struct {
	ID   string         `json:"id" mapstructure:"id"`                     // Unique ID for this specific call
	Name string         `json:"name" mapstructure:"name"`                 // Function name to call
	Args map[string]any `json:"args,omitempty" mapstructure:"args"`       // Arguments for the function
}

// Tool defines metadata about a tool available to the model.
// This is used for generating schemas/prompts.
type Tool struct {
	Name        string         `json:"name" mapstructure:"name"`
	Description string         `json:"description" mapstructure:"description"`
	Parameters  map[string]any `json:"parameters,omitempty" mapstructure:"parameters"`
}
