package vision

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/guidle/guidle/backend/internal/infrastructure/resilience"
)

// ErrNotConfigured is returned when no API credential is present.
var ErrNotConfigured = errors.New("vision not configured")

// Config holds the external model connection settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

const (
	defaultBaseURL = "https://api.openai.com"
	defaultModel   = "gpt-4o"
	defaultTimeout = 30 * time.Second

	completionsPath = "/v1/chat/completions"
	maxTokens       = 1000
)

// Analyzer calls the external multimodal model to detect UI elements in
// screenshots.
type Analyzer struct {
	cfg     Config
	client  *resty.Client
	breaker *resilience.Breaker
	logger  *zap.Logger
}

// New creates an analyzer. An empty API key produces an unconfigured
// analyzer whose Analyze always reports failure, which callers treat as
// "degrade to the selector path".
func New(cfg Config, logger *zap.Logger) *Analyzer {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 2
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = nil

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("User-Agent", "Guidle-Backend/1.0")
	client.SetTransport(retryClient.HTTPClient.Transport)

	breaker := resilience.New("vision", resilience.Settings{
		MaxRequests: 2,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("Vision breaker state change",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
		},
	})

	return &Analyzer{
		cfg:     cfg,
		client:  client,
		breaker: breaker,
		logger:  logger,
	}
}

// Configured reports whether an API credential is present.
func (a *Analyzer) Configured() bool {
	return a.cfg.APIKey != ""
}

// Analyze sends the screenshot and query to the model and parses its
// strict-JSON element report. The returned Result has Success=false for
// every failure mode; the error adds detail for logging but callers must
// branch on Success, not on the error.
func (a *Analyzer) Analyze(ctx context.Context, screenshotB64, query string) (Result, error) {
	if !a.Configured() {
		return failure("vision not available: API key not configured"), ErrNotConfigured
	}
	if screenshotB64 == "" {
		return failure("no screenshot provided"), errors.New("empty screenshot")
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	body := chatRequest{
		Model: a.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: []contentPart{
				{
					Type: "text",
					Text: fmt.Sprintf("User wants to: %q\n\nFind all UI elements that would help the user accomplish this. Return bounding boxes as percentage coordinates.", query),
				},
				{
					Type: "image_url",
					ImageURL: &imageURL{
						URL:    "data:image/png;base64," + screenshotB64,
						Detail: "high",
					},
				},
			}},
		},
		MaxTokens:      maxTokens,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	raw, err := a.breaker.Execute(func() (any, error) {
		resp, err := a.client.R().
			SetContext(ctx).
			SetAuthToken(a.cfg.APIKey).
			SetBody(body).
			Post(completionsPath)
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("vision model returned status %d", resp.StatusCode())
		}
		return resp.Body(), nil
	})
	if err != nil {
		return failure("vision analysis failed"), fmt.Errorf("vision call: %w", err)
	}

	result, err := parseResponse(raw.([]byte))
	if err != nil {
		return failure("vision response malformed"), err
	}

	// A well-formed response with no elements is still a miss.
	if len(result.Elements) == 0 {
		result.Success = false
	}

	a.logger.Debug("Vision analysis complete",
		zap.Int("elements", len(result.Elements)),
		zap.Bool("success", result.Success),
	)
	return result, nil
}

// parseResponse extracts and validates the model's JSON payload. Any
// deviation from the contract shape is a parse failure.
func parseResponse(data []byte) (Result, error) {
	var resp chatResponse
	if err := sonic.Unmarshal(data, &resp); err != nil {
		return Result{}, fmt.Errorf("decode completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return Result{}, errors.New("empty completion")
	}

	var result Result
	if err := sonic.Unmarshal([]byte(resp.Choices[0].Message.Content), &result); err != nil {
		return Result{}, fmt.Errorf("decode element report: %w", err)
	}
	return result, nil
}

func failure(explanation string) Result {
	return Result{Elements: []DetectedElement{}, Explanation: explanation, Success: false}
}

// Wire types of the OpenAI-compatible chat completions API.

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}
