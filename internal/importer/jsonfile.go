package importer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yourusername/onthi-api/internal/domain/entity"
	apperrors "github.com/yourusername/onthi-api/internal/pkg/errors"
)

// JSONNormalizer разбирает свободный JSON-файл с вопросами.
// Принимает три формы: голый массив объектов, объект {questions: [...]},
// либо словарь, значения которого похожи на вопросы (есть поле Q или content).
// Исторические псевдонимы полей сводятся к каноническим именам.
type JSONNormalizer struct{}

// NewJSONNormalizer создает нормализатор свободного JSON
func NewJSONNormalizer() *JSONNormalizer {
	return &JSONNormalizer{}
}

// Parse разбирает файл. Иерархию предметов этот путь не импортирует:
// все записи получают предмет от оркестратора.
func (n *JSONNormalizer) Parse(data []byte) (*ParseResult, error) {
	var parsed interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("%w: cannot parse json: %v", apperrors.ErrFormat, err)
	}

	var rawQuestions []map[string]interface{}
	switch v := parsed.(type) {
	case []interface{}:
		for _, item := range v {
			if m, ok := item.(map[string]interface{}); ok {
				rawQuestions = append(rawQuestions, m)
			}
		}
	case map[string]interface{}:
		if list, ok := v["questions"].([]interface{}); ok {
			for _, item := range list {
				if m, ok := item.(map[string]interface{}); ok {
					rawQuestions = append(rawQuestions, m)
				}
			}
		} else {
			// Словарь: берём значения, эвристически похожие на вопросы
			for _, item := range v {
				if m, ok := item.(map[string]interface{}); ok {
					if _, hasQ := m["Q"]; hasQ {
						rawQuestions = append(rawQuestions, m)
						continue
					}
					if _, hasContent := m["content"]; hasContent {
						rawQuestions = append(rawQuestions, m)
					}
				}
			}
		}
	default:
		return nil, fmt.Errorf("%w: json root must be an array or object", apperrors.ErrFormat)
	}

	questions := make([]entity.Question, 0, len(rawQuestions))
	for _, raw := range rawQuestions {
		q := normalizeLooseQuestion(raw)
		if q == nil {
			continue // запись без содержимого пропускается молча
		}
		questions = append(questions, *q)
	}

	return &ParseResult{Questions: questions}, nil
}

// normalizeLooseQuestion сводит запись с псевдонимами полей к каноническому
// виду: content<->Q, image<->img, explanation<->explain,
// explanationImage<->img_explain, options<->ключи "1".."4",
// correctAnswers<->строка с запятыми под ключом A.
func normalizeLooseQuestion(raw map[string]interface{}) *entity.Question {
	content := stringField(raw, "Q", "content")
	if strings.TrimSpace(content) == "" {
		return nil
	}

	questionType := stringField(raw, "type", "questionType")
	if questionType == "" {
		questionType = entity.TypeMultipleChoice
	}

	options := stringListField(raw, "options")
	if len(options) == 0 {
		for _, key := range []string{"1", "2", "3", "4"} {
			if v := stringField(raw, key); v != "" {
				options = append(options, v)
			}
		}
	}

	optionImages := nullableListField(raw, "optionImages")
	if len(optionImages) == 0 {
		for _, key := range []string{"img1", "img2", "img3", "img4"} {
			if v := stringField(raw, key); v != "" {
				img := v
				optionImages = append(optionImages, &img)
			}
		}
	}

	var correctAnswers entity.StringArray
	if a, ok := raw["A"].(string); ok && a != "" {
		for _, part := range strings.Split(a, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				correctAnswers = append(correctAnswers, trimmed)
			}
		}
	} else {
		correctAnswers = stringListField(raw, "correctAnswers")
	}
	if len(correctAnswers) == 0 && questionType == entity.TypeMultipleChoice {
		correctAnswers = entity.StringArray{"A"}
	}

	subAnswers := entity.BoolArray{}
	if list, ok := raw["subAnswers"].([]interface{}); ok {
		for _, item := range list {
			if b, ok := item.(bool); ok {
				subAnswers = append(subAnswers, b)
			}
		}
	}

	return &entity.Question{
		Content:          content,
		QuestionType:     questionType,
		Options:          options,
		OptionImages:     padOptionImages(optionImages, len(options)),
		CorrectAnswers:   correctAnswers,
		SubQuestions:     stringListField(raw, "subQuestions"),
		SubAnswers:       subAnswers,
		Explanation:      optionalStringField(raw, "explain", "explanation"),
		Image:            optionalStringField(raw, "img", "image"),
		ExplanationImage: optionalStringField(raw, "img_explain", "explanationImage"),
		Status:           entity.StatusNew,
	}
}

// stringField возвращает первое непустое строковое значение из перечисленных ключей
func stringField(raw map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v, ok := raw[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func optionalStringField(raw map[string]interface{}, keys ...string) *string {
	if v := stringField(raw, keys...); v != "" {
		return &v
	}
	return nil
}

func stringListField(raw map[string]interface{}, key string) entity.StringArray {
	list, ok := raw[key].([]interface{})
	if !ok {
		return entity.StringArray{}
	}
	result := entity.StringArray{}
	for _, item := range list {
		if s, ok := item.(string); ok {
			result = append(result, s)
		}
	}
	return result
}

func nullableListField(raw map[string]interface{}, key string) entity.NullableStringArray {
	list, ok := raw[key].([]interface{})
	if !ok {
		return entity.NullableStringArray{}
	}
	result := entity.NullableStringArray{}
	for _, item := range list {
		if s, ok := item.(string); ok && s != "" {
			v := s
			result = append(result, &v)
		} else {
			result = append(result, nil)
		}
	}
	return result
}
