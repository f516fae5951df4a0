package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/yourusername/shopee-finance-bot/internal/domain/constants"
	"github.com/yourusername/shopee-finance-bot/internal/domain/repository"
)

type suggester struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewSuggester builds the optional Gemini-backed claim suggester. The model
// only ever picks one of the supplied catalog labels; it never invents costs.
func NewSuggester(apiKey string) (repository.AIRepository, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(constants.GeminiModelName)
	model.SetTemperature(constants.AITemperature)
	model.SetTopK(constants.AITopK)
	model.SetTopP(constants.AITopP)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{
			genai.Text("你是電商對帳助手。給你一筆模糊的蝦皮訂單商品與一份成本目錄清單，" +
				"從清單中挑出最可能的真實商品，只回覆該行的完整文字，一字不差。" +
				"沒有把握時只回覆 NONE。不要解釋。"),
		},
	}

	return &suggester{client: client, model: model}, nil
}

func (s *suggester) SuggestClaim(ctx context.Context, productName, optionName string, menuLabels []string) (string, error) {
	if len(menuLabels) == 0 {
		return "", nil
	}

	var b strings.Builder
	b.WriteString("訂單商品: " + productName + "\n")
	if optionName != "" {
		b.WriteString("商品選項: " + optionName + "\n")
	}
	b.WriteString("成本目錄:\n")
	for _, label := range menuLabels {
		b.WriteString(label + "\n")
	}

	resp, err := s.model.GenerateContent(ctx, genai.Text(b.String()))
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	answer := strings.TrimSpace(extractText(resp))
	if answer == "" || answer == "NONE" {
		return "", nil
	}
	// Accept only an exact catalog label; anything else is a hallucination.
	for _, label := range menuLabels {
		if answer == label {
			return label, nil
		}
	}
	return "", nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	var result strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				result.WriteString(fmt.Sprintf("%v", part))
			}
		}
	}
	return result.String()
}

func (s *suggester) Close() error {
	return s.client.Close()
}
