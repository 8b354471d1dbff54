package embedding

import "errors"

// MappingRule folds a set of underlying causes into one surfaced error code
type MappingRule struct {
	Code   string
	Causes []error
}

// ErrorMapping is a declarative table of MappingRules, evaluated in order
type ErrorMapping []MappingRule

// Lookup returns the code of the first rule with a cause matching err
func (m ErrorMapping) Lookup(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	for _, rule := range m {
		for _, cause := range rule.Causes {
			if errors.Is(err, cause) {
				return rule.Code, true
			}
		}
	}
	return "", false
}

// Transform converts err into the surfaced taxonomy.
// Errors already of the matched code are returned as is; unmatched errors
// that are not EmbeddingErrors become Invoke errors.
func (m ErrorMapping) Transform(op string, err error) error {
	if err == nil {
		return nil
	}

	if code, ok := m.Lookup(err); ok {
		if CodeOf(err) == code {
			return err
		}
		return NewEmbeddingError(op, err, code, err.Error())
	}

	var ee *EmbeddingError
	if errors.As(err, &ee) {
		return err
	}

	return ErrInvokeFailed(op, err, err.Error())
}
