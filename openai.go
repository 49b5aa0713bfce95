package medquiz

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// TextGenerator is the opaque text-completion boundary. Implementations may
// return malformed JSON; the generation loop treats that as a retryable
// attempt failure, never as a validator failure.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// OpenAIGenerator is the production TextGenerator backed by an
// OpenAI-compatible chat-completion endpoint.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

// NewOpenAIGenerator creates a generator. An empty baseURL keeps the default
// endpoint; an empty model falls back to GPT-4o.
func NewOpenAIGenerator(apiKey, baseURL, model string) *OpenAIGenerator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4o
	}
	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Generate sends the prompt and returns the raw completion text.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: g.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role: openai.ChatMessageRoleSystem,
					Content: "Tu es un générateur de QCM pour les études de santé (PASS/LAS). " +
						"Réponds uniquement avec un objet JSON valide, sans texte autour.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate question: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from model")
	}
	return resp.Choices[0].Message.Content, nil
}

// buildQuestionPrompt builds the prompt for one question of a generation
// request. Prompt text is an opaque contract with the model; the pipeline only
// relies on the JSON shape it requests.
func buildQuestionPrompt(req GenerationRequest, index int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Génère la question %d d'un QCM de niveau %s sur le domaine : %s\n\n",
		index+1, req.Level, req.Domain))

	if req.SourceContent != "" {
		sb.WriteString("Appuie-toi sur le support de cours suivant :\n")
		sb.WriteString(req.SourceContent)
		sb.WriteString("\n\n")
	}
	if req.Difficulty != "" {
		sb.WriteString(fmt.Sprintf("Difficulté visée : %s\n\n", req.Difficulty))
	}

	sb.WriteString("Contraintes :\n")
	sb.WriteString("- Exactement 4 propositions, une seule correcte\n")
	sb.WriteString("- Question de 20 à 500 caractères, propositions de 5 à 200 caractères\n")
	sb.WriteString("- Explication de 50 à 1000 caractères justifiant la bonne réponse\n")
	sb.WriteString("- Vocabulaire adapté au niveau, aucune recommandation médicale au lecteur\n\n")

	sb.WriteString("Réponds avec exactement ce JSON :\n")
	sb.WriteString(`{"questionText": "...", "options": [{"text": "...", "isCorrect": true}, {"text": "...", "isCorrect": false}, {"text": "...", "isCorrect": false}, {"text": "...", "isCorrect": false}], "explanation": "...", "difficulty": "easy|medium|hard"}`)

	return sb.String()
}
