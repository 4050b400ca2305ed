package importer

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yourusername/onthi-api/internal/domain/entity"
	apperrors "github.com/yourusername/onthi-api/internal/pkg/errors"
)

// Имена каналов метаданных внутри архива
const (
	archiveMetadataFile  = "metadata.json"
	archiveQuestionsFile = "questions.json"
	archiveImagesPrefix  = "images/"
)

// archiveMetadata описывает metadata.json архива
type archiveMetadata struct {
	Version  string `json:"version"`
	Subjects []struct {
		ID       uint   `json:"id"`
		ParentID *uint  `json:"parentId"`
		Name     string `json:"name"`
		Level    string `json:"level"`
		Type     string `json:"type"`
		ExamTerm string `json:"examTerm"`
	} `json:"subjects"`
}

// archiveQuestion описывает запись questions.json архива
type archiveQuestion struct {
	SubjectID        uint                       `json:"subjectId"`
	Content          string                     `json:"content"`
	QuestionType     string                     `json:"questionType"`
	Options          entity.StringArray         `json:"options"`
	OptionImages     entity.NullableStringArray `json:"optionImages"`
	CorrectAnswers   entity.StringArray         `json:"correctAnswers"`
	SubQuestions     entity.StringArray         `json:"subQuestions"`
	SubAnswers       entity.BoolArray           `json:"subAnswers"`
	Explanation      *string                    `json:"explanation"`
	Image            *string                    `json:"image"`
	ExplanationImage *string                    `json:"explanationImage"`
}

// ArchiveNormalizer разбирает zip-пакет с иерархией предметов,
// списком вопросов и встроенными картинками
type ArchiveNormalizer struct{}

// NewArchiveNormalizer создает нормализатор архивов
func NewArchiveNormalizer() *ArchiveNormalizer {
	return &ArchiveNormalizer{}
}

// Parse разбирает архив. Отсутствие questions.json - структурная ошибка;
// отсутствие metadata.json допустимо (импорт без иерархии предметов).
func (n *ArchiveNormalizer) Parse(data []byte) (*ParseResult, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a zip archive: %v", apperrors.ErrFormat, err)
	}

	files := make(map[string]*zip.File, len(reader.File))
	for _, f := range reader.File {
		files[f.Name] = f
	}

	questionsRaw, err := readZipFile(files[archiveQuestionsFile])
	if err != nil {
		return nil, fmt.Errorf("%w: %s is missing", apperrors.ErrFormat, archiveQuestionsFile)
	}

	var rawQuestions []archiveQuestion
	if err := json.Unmarshal(questionsRaw, &rawQuestions); err != nil {
		return nil, fmt.Errorf("%w: cannot parse %s: %v", apperrors.ErrFormat, archiveQuestionsFile, err)
	}

	// Черновики предметов: сортируем так, чтобы корни шли раньше детей.
	// Это стабильное разбиение на корни/не-корни, а не полная топологическая
	// сортировка: многоуровневая иерархия, где ребёнок указан в файле раньше
	// своего не-корневого родителя, гарантированно корректна только на один
	// уровень. Известное ограничение, унаследованное от исходного поведения.
	var subjects []SubjectDraft
	if metaRaw, err := readZipFile(files[archiveMetadataFile]); err == nil {
		var meta archiveMetadata
		if err := json.Unmarshal(metaRaw, &meta); err != nil {
			return nil, fmt.Errorf("%w: cannot parse %s: %v", apperrors.ErrFormat, archiveMetadataFile, err)
		}
		for _, s := range meta.Subjects {
			subjects = append(subjects, SubjectDraft{
				SourceID:       s.ID,
				ParentSourceID: s.ParentID,
				Name:           s.Name,
				Level:          s.Level,
				Type:           s.Type,
				ExamTerm:       s.ExamTerm,
			})
		}
		sort.SliceStable(subjects, func(i, j int) bool {
			return subjects[i].ParentSourceID == nil && subjects[j].ParentSourceID != nil
		})
	}

	// Материализуем встроенные картинки: ключ - путь внутри архива,
	// значение - data-URL с содержимым файла
	assets := map[string]string{}
	for name, f := range files {
		if !strings.HasPrefix(name, archiveImagesPrefix) || f.FileInfo().IsDir() {
			continue
		}
		content, err := readZipFile(f)
		if err != nil {
			log.Printf("[ArchiveNormalizer] Не удалось прочитать %s, пропускаю: %v", name, err)
			continue
		}
		assets[name] = toDataURL(name, content)
	}

	questions := make([]entity.Question, 0, len(rawQuestions))
	for _, raw := range rawQuestions {
		if strings.TrimSpace(raw.Content) == "" {
			continue // испорченная запись пропускается молча
		}
		questionType := raw.QuestionType
		if questionType == "" {
			questionType = entity.TypeMultipleChoice
		}

		q := entity.Question{
			SubjectID:        raw.SubjectID, // id исходного файла, переназначается оркестратором
			Content:          raw.Content,
			QuestionType:     questionType,
			Options:          raw.Options,
			OptionImages:     padOptionImages(resolveAssetList(raw.OptionImages, assets), len(raw.Options)),
			CorrectAnswers:   raw.CorrectAnswers,
			SubQuestions:     raw.SubQuestions,
			SubAnswers:       raw.SubAnswers,
			Explanation:      raw.Explanation,
			Image:            resolveAsset(raw.Image, assets),
			ExplanationImage: resolveAsset(raw.ExplanationImage, assets),
			Status:           entity.StatusNew,
		}
		questions = append(questions, q)
	}

	return &ParseResult{Subjects: subjects, Questions: questions}, nil
}

// resolveAsset заменяет путь внутри архива на материализованный data-URL.
// Строка без соответствия в архиве остаётся как есть: это уже пригодная
// ссылка (например, внешний URL).
func resolveAsset(ref *string, assets map[string]string) *string {
	if ref == nil || *ref == "" {
		return ref
	}
	if dataURL, ok := assets[*ref]; ok {
		return &dataURL
	}
	return ref
}

func resolveAssetList(refs entity.NullableStringArray, assets map[string]string) entity.NullableStringArray {
	resolved := make(entity.NullableStringArray, len(refs))
	for i, ref := range refs {
		resolved[i] = resolveAsset(ref, assets)
	}
	return resolved
}

func readZipFile(f *zip.File) ([]byte, error) {
	if f == nil {
		return nil, fmt.Errorf("file not present in archive")
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// toDataURL кодирует бинарный файл в data-URL; тип определяется расширением
func toDataURL(name string, content []byte) string {
	mime := "application/octet-stream"
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		mime = "image/png"
	case ".jpg", ".jpeg":
		mime = "image/jpeg"
	case ".gif":
		mime = "image/gif"
	case ".webp":
		mime = "image/webp"
	case ".svg":
		mime = "image/svg+xml"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(content)
}
