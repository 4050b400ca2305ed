package importer

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"

	"github.com/yourusername/onthi-api/internal/domain/entity"
	apperrors "github.com/yourusername/onthi-api/internal/pkg/errors"
)

// Шаблоны строк документа: начало вопроса, вариант ответа, строка ответа
var (
	questionLineRe = regexp.MustCompile(`(?i)^(Câu\s*\d+[:.)]?|\d+[:.)]?)\s*(.+)`)
	optionLineRe   = regexp.MustCompile(`(?i)^[A-H][.):,]\s*(.+)`)
	answerLineRe   = regexp.MustCompile(`(?i)^(Đáp án|ĐA|Answer)[:\s]+(.+)`)
)

// DocumentNormalizer - строковый конечный автомат над извлечённым плоским
// текстом документа. Состояния: поиск вопроса / сбор вариантов. Черновик с
// менее чем двумя вариантами молча отбрасывается: это сознательная политика
// терпимости к кривым документам, а не ошибка.
type DocumentNormalizer struct{}

// NewDocumentNormalizer создает нормализатор документов
func NewDocumentNormalizer() *DocumentNormalizer {
	return &DocumentNormalizer{}
}

// Parse принимает либо docx (текст извлекается из word/document.xml),
// либо плоский текст в UTF-8
func (n *DocumentNormalizer) Parse(data []byte) (*ParseResult, error) {
	text, err := extractText(data)
	if err != nil {
		return nil, err
	}

	var questions []entity.Question
	var current *entity.Question
	var options entity.StringArray

	flush := func() {
		if current == nil || len(options) < 2 {
			return
		}
		current.Options = options
		current.OptionImages = padOptionImages(nil, len(options))
		questions = append(questions, *current)
	}

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		if m := questionLineRe.FindStringSubmatch(line); m != nil {
			flush()
			current = &entity.Question{
				Content:        m[2],
				QuestionType:   entity.TypeMultipleChoice,
				CorrectAnswers: entity.StringArray{"A"},
				SubQuestions:   entity.StringArray{},
				SubAnswers:     entity.BoolArray{},
				Status:         entity.StatusNew,
			}
			options = entity.StringArray{}
			continue
		}

		if current == nil {
			continue
		}

		if m := optionLineRe.FindStringSubmatch(line); m != nil {
			options = append(options, m[1])
			continue
		}

		if m := answerLineRe.FindStringSubmatch(line); m != nil {
			// Строка ответа перезаписывает буквы текущего черновика
			answers := entity.StringArray{}
			for _, part := range regexp.MustCompile(`[,\s]+`).Split(m[2], -1) {
				if trimmed := strings.ToUpper(strings.TrimSpace(part)); trimmed != "" {
					answers = append(answers, trimmed)
				}
			}
			if len(answers) > 0 {
				current.CorrectAnswers = answers
			}
			continue
		}
	}
	flush() // конец входа сбрасывает последний черновик

	return &ParseResult{Questions: questions}, nil
}

// extractText возвращает плоский текст документа.
// docx распознаётся по zip-сигнатуре; остальное считается текстом UTF-8.
func extractText(data []byte) (string, error) {
	if !bytes.HasPrefix(data, []byte("PK\x03\x04")) {
		return string(data), nil
	}

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: not a docx package: %v", apperrors.ErrFormat, err)
	}
	for _, f := range reader.File {
		if f.Name == "word/document.xml" {
			raw, err := readZipFile(f)
			if err != nil {
				return "", fmt.Errorf("%w: cannot read word/document.xml: %v", apperrors.ErrFormat, err)
			}
			return docxToText(raw)
		}
	}
	return "", fmt.Errorf("%w: word/document.xml is missing", apperrors.ErrFormat)
}

// docxToText собирает текстовые прогоны документа, закрывая абзацы переводом строки
func docxToText(raw []byte) (string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(raw))
	var sb strings.Builder
	var inText bool

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}
