package config

// Default assistant behavior. These match the prompts and search parameters the
// seller copilot was tuned with.
const (
	DefaultAssistantName             = "Nem-0"
	DefaultChatMemoryLimit           = 5
	DefaultRecommendationQuery       = "goals challenges inventory cashflow revenue"
	DefaultRecommendationMemoryLimit = 8
	DefaultOnboardingQuery           = "seller business profile"
)

// AssistantConfig tunes how the assistant recalls memories and presents itself
type AssistantConfig struct {
	Name                      string
	ChatMemoryLimit           int
	RecommendationQuery       string
	RecommendationMemoryLimit int
	OnboardingQuery           string
}

// DefaultAssistantConfig returns the configuration used when no config file is given
func DefaultAssistantConfig() *AssistantConfig {
	return &AssistantConfig{
		Name:                      DefaultAssistantName,
		ChatMemoryLimit:           DefaultChatMemoryLimit,
		RecommendationQuery:       DefaultRecommendationQuery,
		RecommendationMemoryLimit: DefaultRecommendationMemoryLimit,
		OnboardingQuery:           DefaultOnboardingQuery,
	}
}
