package geminiservice

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"AssistantDashboard_V0.1/internal/models"
)

// Parse decodes raw into the domain value of uc: models.FinancialAdvice,
// []models.Recipe, models.FitnessPlan or []models.SubTask.
func Parse(raw string, uc UseCase) (any, error) {
	switch uc {
	case UseCaseAdvice:
		return ParseFinancialAdvice(raw)
	case UseCaseRecipes:
		return ParseRecipes(raw)
	case UseCaseFitness:
		return ParseFitnessPlan(raw)
	case UseCaseGoals:
		return ParseSubTasks(raw)
	}
	return nil, &DecodeError{UseCase: uc, Err: fmt.Errorf("unknown use case")}
}

func ParseFinancialAdvice(raw string) (models.FinancialAdvice, error) {
	return decodeStrict[models.FinancialAdvice](raw, UseCaseAdvice)
}

func ParseRecipes(raw string) ([]models.Recipe, error) {
	return decodeStrict[[]models.Recipe](raw, UseCaseRecipes)
}

func ParseFitnessPlan(raw string) (models.FitnessPlan, error) {
	return decodeStrict[models.FitnessPlan](raw, UseCaseFitness)
}

func ParseSubTasks(raw string) ([]models.SubTask, error) {
	return decodeStrict[[]models.SubTask](raw, UseCaseGoals)
}

// decodeStrict is all-or-nothing: the text must be exactly one JSON value,
// the value must match the use case schema, and only then is it decoded into T.
func decodeStrict[T any](raw string, uc UseCase) (T, error) {
	var zero T

	schema := SchemaFor(uc)
	if schema == nil {
		return zero, &DecodeError{UseCase: uc, Err: fmt.Errorf("unknown use case")}
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var tree any
	if err := dec.Decode(&tree); err != nil {
		return zero, &DecodeError{UseCase: uc, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return zero, &DecodeError{UseCase: uc, Err: fmt.Errorf("invalid JSON: trailing data after top-level value")}
	}

	if err := validateNode(tree, schema, "$"); err != nil {
		err.UseCase = uc
		return zero, err
	}

	var out T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return zero, &DecodeError{UseCase: uc, Err: err}
	}
	return out, nil
}

// validateNode walks a decoded JSON tree (decoded with UseNumber) against s.
func validateNode(node any, s *GeminiSchema, path string) *DecodeError {
	if node == nil {
		return mismatch(path, "expected %s, got null", s.Type)
	}

	switch s.Type {
	case TypeObject:
		obj, ok := node.(map[string]any)
		if !ok {
			return mismatch(path, "expected %s, got %s", s.Type, kindOf(node))
		}
		for _, name := range s.Required {
			if _, ok := obj[name]; !ok {
				return mismatch(path+"."+name, "missing required field")
			}
		}
		for _, name := range slices.Sorted(maps.Keys(obj)) {
			child, ok := s.Properties[name]
			if !ok {
				return mismatch(path+"."+name, "unknown field")
			}
			if obj[name] == nil && !slices.Contains(s.Required, name) {
				continue
			}
			if err := validateNode(obj[name], child, path+"."+name); err != nil {
				return err
			}
		}

	case TypeArray:
		arr, ok := node.([]any)
		if !ok {
			return mismatch(path, "expected %s, got %s", s.Type, kindOf(node))
		}
		if s.Items == nil {
			return nil
		}
		for i, elem := range arr {
			if err := validateNode(elem, s.Items, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}

	case TypeString:
		if _, ok := node.(string); !ok {
			return mismatch(path, "expected %s, got %s", s.Type, kindOf(node))
		}

	case TypeBoolean:
		if _, ok := node.(bool); !ok {
			return mismatch(path, "expected %s, got %s", s.Type, kindOf(node))
		}

	case TypeNumber:
		if _, ok := node.(json.Number); !ok {
			return mismatch(path, "expected %s, got %s", s.Type, kindOf(node))
		}

	case TypeInteger:
		n, ok := node.(json.Number)
		if !ok {
			return mismatch(path, "expected %s, got %s", s.Type, kindOf(node))
		}
		if _, err := n.Int64(); err != nil {
			return mismatch(path, "expected %s, got %s", s.Type, n.String())
		}

	default:
		return mismatch(path, "schema has unsupported type %q", s.Type)
	}
	return nil
}

func mismatch(path, format string, args ...any) *DecodeError {
	return &DecodeError{Path: path, Err: fmt.Errorf(format, args...)}
}

func kindOf(node any) string {
	switch node.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	}
	return fmt.Sprintf("%T", node)
}
