package localai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"github.com/Abraxas-365/localembed/embedding"
	"github.com/Abraxas-365/localembed/pricing"
	"github.com/Abraxas-365/localembed/tokenizer"
)

const (
	// placeholderToken is sent as bearer token on every request; LocalAI
	// servers accept any token and the credentials carry none.
	placeholderToken = "123"

	embeddingsPath = "embeddings"
	probeText      = "ping"
)

var invokeErrorMapping = embedding.ErrorMapping{
	{Code: embedding.ErrCodeConnection, Causes: []error{embedding.ErrConnection}},
	{Code: embedding.ErrCodeServerUnavailable, Causes: []error{embedding.ErrServerUnavailable}},
	{Code: embedding.ErrCodeRateLimit, Causes: []error{embedding.ErrRateLimit}},
	{Code: embedding.ErrCodeAuthorization, Causes: []error{embedding.ErrAuthorization}},
	{Code: embedding.ErrCodeBadRequest, Causes: []error{embedding.ErrMissingKey}},
}

// ErrorMapping returns the table used to fold failures into the error taxonomy
func ErrorMapping() embedding.ErrorMapping {
	return invokeErrorMapping
}

var _ embedding.TextEmbeddingModel = (*LocalAIEmbedder)(nil)

// LocalAIEmbedder calls the OpenAI compatible /embeddings endpoint of a
// self-hosted LocalAI server
type LocalAIEmbedder struct {
	client  *resty.Client
	options *embedding.EmbeddingOptions
	prices  embedding.PriceCalculator
	metrics *metrics
}

// NewLocalAIEmbedder creates a new LocalAI embedder with the given options
func NewLocalAIEmbedder(opts ...embedding.Option) *LocalAIEmbedder {
	options := embedding.DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	client := resty.New().
		SetTimeout(options.Timeout).
		SetAuthToken(placeholderToken).
		SetHeader("Content-Type", "application/json").
		SetLogger(restyLogger{log: options.Logger})

	var prices embedding.PriceCalculator = pricing.NewTable(nil)
	if options.Prices != nil {
		prices = options.Prices
	}

	return &LocalAIEmbedder{
		client:  client,
		options: options,
		prices:  prices,
		metrics: newMetrics(options.Registerer, options.Logger),
	}
}

// Invoke implements the TextEmbeddingModel interface.
// Only a single text per call is supported; user is accepted for interface
// compatibility and not sent to the server.
func (e *LocalAIEmbedder) Invoke(ctx context.Context, model string, credentials embedding.Credentials, texts []string, user string) (*embedding.Result, error) {
	started := time.Now()

	result, err := e.invoke(ctx, started, model, credentials, texts)
	if err != nil {
		err = invokeErrorMapping.Transform("Invoke", err)
	}

	e.metrics.observe(model, outcome(err), time.Since(started))

	if err != nil {
		return nil, err
	}
	return result, nil
}

func (e *LocalAIEmbedder) invoke(ctx context.Context, started time.Time, model string, credentials embedding.Credentials, texts []string) (*embedding.Result, error) {
	if len(texts) != 1 {
		return nil, embedding.ErrInvalidRequest("Invoke", "only one text is supported")
	}

	serverURL := credentials.ServerURL()
	if serverURL == "" {
		return nil, embedding.ErrInvalidCredentials("Invoke", nil, "server_url is required")
	}
	if model == "" {
		return nil, embedding.ErrInvalidCredentials("Invoke", nil, "model_name is required")
	}

	url := joinURL(serverURL, embeddingsPath)
	log := e.options.Logger.With().
		Str("request_id", uuid.NewString()).
		Str("model", model).
		Str("url", url).
		Logger()

	log.Debug().Msg("sending embedding request")

	resp, err := e.client.R().
		SetContext(ctx).
		SetBody(openai.EmbeddingRequest{
			Model: openai.EmbeddingModel(model),
			Input: texts[0],
		}).
		Post(url)
	if err != nil {
		log.Warn().Stack().Err(err).Msg("embedding request failed")
		return nil, embedding.ErrConnectionFailed("Invoke", err)
	}

	if resp.StatusCode() != http.StatusOK {
		err := decodeErrorResponse(resp.StatusCode(), resp.Body())
		log.Warn().Stack().Err(err).Int("status", resp.StatusCode()).Msg("embedding server returned an error")
		return nil, err
	}

	embeddings, totalTokens, err := decodeEmbeddingResponse(resp.Body())
	if err != nil {
		log.Warn().Stack().Err(err).Msg("invalid embedding response")
		return nil, err
	}

	if len(embeddings) != len(texts) {
		return nil, embedding.ErrUnavailable("Invoke", nil,
			fmt.Sprintf("expected %d embeddings, got %d", len(texts), len(embeddings)))
	}

	usage := e.calcResponseUsage(model, totalTokens, started)

	log.Debug().
		Int("tokens", totalTokens).
		Dur("latency", usage.Latency).
		Msg("embedding request completed")

	return &embedding.Result{
		Model:      model,
		Embeddings: embeddings,
		Usage:      usage,
	}, nil
}

// GetNumTokens implements the TextEmbeddingModel interface using the local
// GPT-2 tokenizer
func (e *LocalAIEmbedder) GetNumTokens(ctx context.Context, model string, credentials embedding.Credentials, texts []string) (int, error) {
	total := 0
	for _, text := range texts {
		n, err := tokenizer.GetNumTokens(text)
		if err != nil {
			return 0, embedding.ErrInvokeFailed("GetNumTokens", err, "failed to load tokenizer")
		}
		total += n
	}
	return total, nil
}

// ValidateCredentials implements the TextEmbeddingModel interface.
// Authorization and connection failures become CredentialsValidation errors;
// any other failure is returned unchanged.
func (e *LocalAIEmbedder) ValidateCredentials(ctx context.Context, model string, credentials embedding.Credentials) error {
	_, err := e.Invoke(ctx, model, credentials, []string{probeText}, "")
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, embedding.ErrAuthorization):
		return embedding.ErrInvalidCredentials("ValidateCredentials", err, "invalid credentials")
	case errors.Is(err, embedding.ErrConnection):
		return embedding.ErrInvalidCredentials("ValidateCredentials", err,
			fmt.Sprintf("invalid credentials: %s", causeMessage(err)))
	default:
		return err
	}
}

func (e *LocalAIEmbedder) calcResponseUsage(model string, tokens int, started time.Time) embedding.Usage {
	price := e.prices.GetPrice(model, pricing.Input, tokens)

	return embedding.Usage{
		Tokens:      tokens,
		TotalTokens: tokens,
		UnitPrice:   price.UnitPrice,
		PriceUnit:   price.Unit,
		TotalPrice:  price.TotalAmount,
		Currency:    price.Currency,
		Latency:     time.Since(started),
	}
}

func joinURL(base, elem string) string {
	if strings.HasSuffix(base, "/") {
		return base + elem
	}
	return base + "/" + elem
}

func causeMessage(err error) string {
	var ee *embedding.EmbeddingError
	if errors.As(err, &ee) {
		return ee.Message
	}
	return err.Error()
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}
	if code := embedding.CodeOf(err); code != "" {
		return code
	}
	return embedding.ErrCodeInvoke
}

type restyLogger struct {
	log zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) { l.log.Error().Msgf(format, v...) }
func (l restyLogger) Warnf(format string, v ...interface{})  { l.log.Warn().Msgf(format, v...) }
func (l restyLogger) Debugf(format string, v ...interface{}) { l.log.Debug().Msgf(format, v...) }
