package summary

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/sashabaranov/go-openai"
)

const (
	defaultPrompt = "\n\nSummarize the article above in two or three sentences. Answer in the language of the article."
	// Длинные статьи обрезаем, модели хватает начала
	maxInputRunes = 6000
)

var ErrEmptyCompletion = errors.New("openai returned no choices")

// Выжимка статьи для режима чтения. Без ключа выключен и ничего не делает
type OpenAISummarizer struct {
	// sdk для openai
	client *openai.Client
	prompt string
	// Флаг вкл/выкл summarizer
	enabled bool
	mu      sync.Mutex
}

func NewOpenAISummarizer(apiKey string, prompt string) *OpenAISummarizer {
	if prompt == "" {
		prompt = defaultPrompt
	}

	s := &OpenAISummarizer{
		client:  openai.NewClient(apiKey),
		prompt:  prompt,
		enabled: apiKey != "",
	}

	log.Printf("[INFO] openai summarizer enabled: %v", s.enabled)

	return s
}

func (s *OpenAISummarizer) Enabled() bool {
	return s.enabled
}

func (s *OpenAISummarizer) Summarize(ctx context.Context, text string) (string, error) {
	// Обкладываем мьютексами, т.к. конкурентный доступ может вызывать сюрпризы
	s.mu.Lock()
	defer s.mu.Unlock()

	text = strings.TrimSpace(text)
	if !s.enabled || text == "" {
		return "", nil
	}

	request := openai.ChatCompletionRequest{
		Model: openai.GPT3Dot5Turbo,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf("%s%s", truncateRunes(text, maxInputRunes), s.prompt),
			},
		},
		MaxTokens:   256,
		Temperature: 0.7,
		TopP:        1,
	}

	resp, err := s.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	return trimToSentence(resp.Choices[0].Message.Content), nil
}

// Ответ может оборваться на полуслове из-за MaxTokens. Отрезаем незаконченное предложение
func trimToSentence(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasSuffix(raw, ".") {
		return raw
	}

	idx := strings.LastIndex(raw, ".")
	if idx < 0 {
		return raw
	}

	return raw[:idx+1]
}

func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
