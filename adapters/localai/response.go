package localai

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/Abraxas-365/localembed/embedding"
)

// serverErrorCode is the embedded error code that always means the server is unavailable
const serverErrorCode = 500

// decodeErrorResponse maps a non-200 response to an error.
// Shape errors are returned as embedding.ErrMissingKey for the error mapping.
func decodeErrorResponse(status int, body []byte) error {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return embedding.ErrUnavailable("Invoke", err, jsonFailure(err, body))
	}

	root, ok := payload.(map[string]any)
	if !ok {
		return embedding.ErrInvokeFailed("Invoke", nil, fmt.Sprintf("unexpected error response: %s", body))
	}

	field, ok := root["error"]
	if !ok {
		return embedding.MissingKey("error")
	}
	errObj, ok := field.(map[string]any)
	if !ok {
		return embedding.ErrInvokeFailed("Invoke", nil, fmt.Sprintf("unexpected error response: %s", body))
	}

	code, ok := errObj["code"]
	if !ok {
		return embedding.MissingKey("code")
	}
	rawMessage, ok := errObj["message"]
	if !ok {
		return embedding.MissingKey("message")
	}
	message := fmt.Sprint(rawMessage)
	if s, ok := rawMessage.(string); ok {
		message = s
	}

	if n, ok := code.(float64); ok && n == serverErrorCode {
		return embedding.ErrUnavailable("Invoke", nil, message)
	}

	switch status {
	case http.StatusUnauthorized:
		return embedding.ErrUnauthorized("Invoke", message)
	case http.StatusTooManyRequests:
		return embedding.ErrRateLimitExceeded("Invoke", message)
	case http.StatusInternalServerError:
		return embedding.ErrUnavailable("Invoke", nil, message)
	default:
		return embedding.ErrInvokeFailed("Invoke", nil, message)
	}
}

// decodeEmbeddingResponse extracts the vectors and usage.total_tokens of a 200 response
func decodeEmbeddingResponse(body []byte) ([][]float64, int, error) {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, 0, embedding.ErrUnavailable("Invoke", err, jsonFailure(err, body))
	}

	root, ok := payload.(map[string]any)
	if !ok {
		err := errors.New("response is not a JSON object")
		return nil, 0, embedding.ErrUnavailable("Invoke", err, jsonFailure(err, body))
	}

	data, ok := root["data"]
	if !ok {
		err := embedding.MissingKey("data")
		return nil, 0, embedding.ErrUnavailable("Invoke", err, jsonFailure(err, body))
	}
	usage, ok := root["usage"]
	if !ok {
		err := embedding.MissingKey("usage")
		return nil, 0, embedding.ErrUnavailable("Invoke", err, jsonFailure(err, body))
	}

	tokens, err := decodeTotalTokens(usage)
	if err != nil {
		return nil, 0, err
	}

	embeddings, err := decodeData(data)
	if err != nil {
		return nil, 0, err
	}

	return embeddings, tokens, nil
}

func decodeTotalTokens(usage any) (int, error) {
	obj, ok := usage.(map[string]any)
	if !ok {
		return 0, embedding.ErrInvokeFailed("Invoke", nil, "usage is not an object")
	}

	raw, ok := obj["total_tokens"]
	if !ok {
		return 0, embedding.MissingKey("total_tokens")
	}

	n, ok := raw.(float64)
	if !ok || n < 0 || n >= float64(math.MaxInt) || n != math.Trunc(n) {
		return 0, embedding.ErrInvokeFailed("Invoke", nil, fmt.Sprintf("invalid total_tokens: %v", raw))
	}
	return int(n), nil
}

func decodeData(data any) ([][]float64, error) {
	items, ok := data.([]any)
	if !ok {
		return nil, embedding.ErrInvokeFailed("Invoke", nil, "data is not a list")
	}

	embeddings := make([][]float64, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, embedding.ErrInvokeFailed("Invoke", nil, fmt.Sprintf("data[%d] is not an object", i))
		}

		raw, ok := obj["embedding"]
		if !ok {
			return nil, embedding.MissingKey("embedding")
		}
		values, ok := raw.([]any)
		if !ok {
			return nil, embedding.ErrInvokeFailed("Invoke", nil, fmt.Sprintf("data[%d].embedding is not a list", i))
		}

		vector := make([]float64, len(values))
		for j, v := range values {
			f, ok := v.(float64)
			if !ok {
				return nil, embedding.ErrInvokeFailed("Invoke", nil,
					fmt.Sprintf("data[%d].embedding[%d] is not a number", i, j))
			}
			vector[j] = f
		}
		embeddings = append(embeddings, vector)
	}

	return embeddings, nil
}

func jsonFailure(err error, body []byte) string {
	return fmt.Sprintf("failed to convert response to json: %v with text: %s", err, body)
}
