package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/finsight-ai/finsight/internal/common"
	"github.com/finsight-ai/finsight/internal/interfaces"
)

// GeminiService implements the LLMService interface using the Google Gemini
// API. Transient failures are retried with exponential backoff.
type GeminiService struct {
	config  *common.GeminiConfig
	logger  arbor.ILogger
	client  *genai.Client
	retry   *RetryConfig
	limiter *rate.Limiter
	timeout time.Duration
}

// NewGeminiService creates a new Gemini LLM service instance.
func NewGeminiService(config *common.GeminiConfig, logger arbor.ILogger) (*GeminiService, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required (set GEMINI_API_KEY or gemini.api_key in config)")
	}
	if config.Model == "" {
		config.Model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	timeout := common.ParseDurationOr(config.Timeout, 2*time.Minute)
	interval := common.ParseDurationOr(config.RateLimit, time.Second)

	service := &GeminiService{
		config:  config,
		logger:  logger,
		client:  client,
		retry:   NewDefaultRetryConfig(),
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		timeout: timeout,
	}

	logger.Info().
		Str("model", config.Model).
		Dur("timeout", timeout).
		Msg("Gemini LLM service initialized")

	return service, nil
}

// Generate produces a completion for the user prompt under the system prompt.
// Transient errors are retried up to the configured attempt count with the
// backoff doubling between attempts; a cancelled wait aborts immediately.
func (s *GeminiService) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if userPrompt == "" {
		return "", fmt.Errorf("user prompt cannot be empty")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt < s.retry.MaxAttempts; attempt++ {
		if attempt > 0 {
			backoff := s.retry.Backoff(attempt - 1)
			s.logger.Warn().
				Err(lastErr).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Retrying Gemini generation after transient error")
			select {
			case <-time.After(backoff):
			case <-timeoutCtx.Done():
				return "", fmt.Errorf("generation aborted while waiting to retry: %w", timeoutCtx.Err())
			}
		}

		if err := s.limiter.Wait(timeoutCtx); err != nil {
			return "", fmt.Errorf("generation aborted while rate limited: %w", err)
		}

		startTime := time.Now()
		response, err := s.generateCompletion(timeoutCtx, systemPrompt, userPrompt)
		if err == nil {
			s.logger.Debug().
				Int("response_length", len(response)).
				Dur("duration", time.Since(startTime)).
				Msg("Gemini generation completed")
			return response, nil
		}

		lastErr = err
		if !IsRetryableError(err) {
			return "", fmt.Errorf("generation failed: %w", err)
		}
	}

	return "", fmt.Errorf("generation failed after %d attempts: %w", s.retry.MaxAttempts, lastErr)
}

func (s *GeminiService) generateCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(s.config.Temperature),
	}
	if systemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	contents := []*genai.Content{genai.NewContentFromText(userPrompt, genai.RoleUser)}

	resp, err := s.client.Models.GenerateContent(ctx, s.config.Model, contents, config)
	if err != nil {
		return "", fmt.Errorf("chat generation failed: %w", err)
	}

	var response strings.Builder
	if resp != nil && len(resp.Candidates) > 0 {
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					response.WriteString(part.Text)
				}
			}
			if response.Len() > 0 {
				break
			}
		}
	}

	if response.Len() == 0 {
		return "", fmt.Errorf("no response generated from chat model")
	}

	return response.String(), nil
}

// HealthCheck verifies the client is initialized and the API is reachable.
func (s *GeminiService) HealthCheck(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("genai client is not initialized")
	}

	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	response, err := s.generateCompletion(probeCtx, "", "ping")
	if err != nil {
		return fmt.Errorf("Gemini probe failed: %w", err)
	}
	if strings.TrimSpace(response) == "" {
		return fmt.Errorf("Gemini probe returned empty response")
	}
	return nil
}

func (s *GeminiService) Provider() string {
	return string(common.LLMProviderGemini)
}

func (s *GeminiService) Close() error {
	s.logger.Debug().Msg("Closing Gemini LLM service")
	s.client = nil
	return nil
}

var _ interfaces.LLMService = (*GeminiService)(nil)
