package usecase

import (
	"strings"

	"github.com/secmon-lab/nem0/pkg/domain/model"
)

// Placeholders rendered inside <seller_context> when nothing was recalled
const (
	noChatContext           = "No previous context available yet."
	noRecommendationContext = "No context available yet."
)

// formatSellerContext renders recalled memories as a bullet list, one per line
func formatSellerContext(memories []*model.Memory, placeholder string) string {
	if len(memories) == 0 {
		return placeholder
	}

	var sb strings.Builder
	for _, m := range memories {
		sb.WriteString("- ")
		sb.WriteString(m.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}

type sellerPromptData struct {
	AssistantName string
	SellerContext string
}
