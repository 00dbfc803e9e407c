package factory

import (
	"fmt"
	"time"

	"eop-planner-be/pkg/llm"
	"eop-planner-be/pkg/llm/gemini"
	"eop-planner-be/pkg/llm/ollama"
)

func NewLLMProvider(providerType, modelName, geminiApiKey, ollamaBaseURL string, timeout time.Duration) (llm.LLMProvider, error) {
	switch providerType {
	case "gemini":
		if geminiApiKey == "" {
			return nil, fmt.Errorf("gemini provider requires an API key")
		}
		return gemini.NewGeminiProvider(geminiApiKey, modelName, timeout), nil
	case "ollama":
		if ollamaBaseURL == "" {
			ollamaBaseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(ollamaBaseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
