package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"material-kb/pkg/config"

	"github.com/Role1776/gigago"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Translator turns extracted text into the working language. Implementations
// must return the original text when they cannot translate.
type Translator interface {
	Translate(ctx context.Context, text string) string
}

// NoopTranslator is used when translation is disabled.
type NoopTranslator struct{}

func (NoopTranslator) Translate(_ context.Context, text string) string {
	return text
}

// completer sends one prompt and returns the model's reply.
type completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type gigaChatCompleter struct {
	model *gigago.GenerativeModel
}

func (c *gigaChatCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	messages := []gigago.Message{
		{Role: gigago.RoleUser, Content: prompt},
	}

	resp, err := c.model.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from LLM")
	}
	return resp.Choices[0].Message.Content, nil
}

// TranslationService translates supplier documents through GigaChat.
type TranslationService struct {
	client  *gigago.Client
	llm     completer
	limiter *rate.Limiter
	cfg     config.TranslationConfig
	logger  *zap.Logger
}

func NewTranslationService(gigaCfg *config.GigaChatConfig, cfg *config.TranslationConfig, logger *zap.Logger) (*TranslationService, error) {
	if gigaCfg.APIKey == "" {
		return nil, fmt.Errorf("%w: GIGACHAT_API_KEY is required when translation is enabled", ErrMissingCredential)
	}

	opts := []gigago.Option{
		gigago.WithCustomScope(gigaCfg.Scope),
	}
	if gigaCfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(context.Background(), gigaCfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	model := client.GenerativeModel(gigaCfg.Model)
	model.SystemInstruction = "You are a professional translator of industrial supplier documents. Reply with the translation only."
	model.Temperature = 0.1

	svc := newTranslationService(&gigaChatCompleter{model: model}, *cfg, logger)
	svc.client = client
	return svc, nil
}

func newTranslationService(llm completer, cfg config.TranslationConfig, logger *zap.Logger) *TranslationService {
	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))
	}
	return &TranslationService{
		llm:     llm,
		limiter: rate.NewLimiter(limit, 1),
		cfg:     cfg,
		logger:  logger,
	}
}

// Translate returns a best-effort translation that keeps line breaks and table
// layout. Any failure returns text unchanged.
func (s *TranslationService) Translate(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	if err := s.limiter.Wait(ctx); err != nil {
		s.logger.Warn("Translation skipped, rate limiter wait failed", zap.Error(err))
		return text
	}

	translated, err := s.llm.Complete(ctx, s.buildPrompt(text))
	if err != nil {
		s.logger.Warn("Translation failed, keeping original text", zap.Error(err))
		return text
	}

	translated = strings.TrimSpace(translated)
	if translated == "" {
		s.logger.Warn("Translation returned empty text, keeping original text")
		return text
	}

	s.logger.Info("Text translated",
		zap.String("from", s.cfg.SourceLanguage),
		zap.String("to", s.cfg.TargetLanguage),
		zap.Int("source_length", len(text)),
		zap.Int("translated_length", len(translated)),
	)
	return translated
}

func (s *TranslationService) buildPrompt(text string) string {
	return fmt.Sprintf(`Translate the following text from %s to %s. Maintain all original formatting, including line breaks and tables.

%s Text:
%s

%s Translation:`, s.cfg.SourceLanguage, s.cfg.TargetLanguage, s.cfg.SourceLanguage, text, s.cfg.TargetLanguage)
}

func (s *TranslationService) Close() error {
	if s.client != nil {
		s.client.Close()
	}
	return nil
}
