package llm

const (
	DefaultMaxTokens   = 2000
	DefaultTemperature = 0.1
)

type LLMRequest struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
}

type LLMResponse struct {
	Content    string
	StopReason string
}
