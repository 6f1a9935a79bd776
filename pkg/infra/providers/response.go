package providers

type CompletionResponse struct {
	ID       string `json:"id"`
	Model    string `json:"model"`
	Response string `json:"response"`
	Usage    Usage  `json:"usage"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// FormatInstructions joins instruction lines into a single user message.
func FormatInstructions(instructions []string) string {
	out := ""
	for i, instruction := range instructions {
		if i > 0 {
			out += "\n"
		}
		out += instruction
	}
	return out
}
