package service

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/yourusername/onthi-api/internal/domain/entity"
	"github.com/yourusername/onthi-api/internal/domain/repository"
)

// ExportService выгружает поддерево предметов в zip-архив того же формата,
// который принимает импорт: metadata.json + questions.json + images/.
// Встроенные data-URL картинки материализуются в файлы архива, чтобы
// questions.json оставался читаемым и компактным.
type ExportService struct {
	subjectRepo  repository.SubjectRepository
	questionRepo repository.QuestionRepository
}

// NewExportService создает новый сервис выгрузки
func NewExportService(
	subjectRepo repository.SubjectRepository,
	questionRepo repository.QuestionRepository,
) *ExportService {
	return &ExportService{
		subjectRepo:  subjectRepo,
		questionRepo: questionRepo,
	}
}

// exportMetadata - корень metadata.json архива
type exportMetadata struct {
	Version  string          `json:"version"`
	Subjects []exportSubject `json:"subjects"`
}

type exportSubject struct {
	ID       uint   `json:"id"`
	ParentID *uint  `json:"parentId"`
	Name     string `json:"name"`
	Level    string `json:"level"`
	Type     string `json:"type"`
	ExamTerm string `json:"examTerm"`
}

type exportQuestion struct {
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

// ExportSubject выгружает предмет с потомками и всеми их вопросами.
// Корень поддерева получает parentId null: архив самодостаточен и может
// быть импортирован под любой предмет другой установки.
func (s *ExportService) ExportSubject(subjectID uint) ([]byte, error) {
	root, err := s.subjectRepo.GetByID(subjectID)
	if err != nil {
		return nil, err
	}

	ids, err := s.subjectRepo.DescendantIDs(subjectID)
	if err != nil {
		return nil, err
	}
	questions, err := s.questionRepo.GetBySubjectIDs(ids)
	if err != nil {
		return nil, err
	}

	all, err := s.subjectRepo.GetAll()
	if err != nil {
		return nil, err
	}
	inSubtree := make(map[uint]bool, len(ids))
	for _, id := range ids {
		inSubtree[id] = true
	}

	meta := exportMetadata{Version: "1"}
	for _, subject := range all {
		if !inSubtree[subject.ID] {
			continue
		}
		exported := exportSubject{
			ID:       subject.ID,
			ParentID: subject.ParentID,
			Name:     subject.Name,
			Level:    subject.Level,
			Type:     subject.Type,
			ExamTerm: subject.ExamTerm,
		}
		if subject.ID == root.ID {
			exported.ParentID = nil
		}
		meta.Subjects = append(meta.Subjects, exported)
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	// Собирает data-URL в файл images/ и возвращает ссылку на него
	imageCount := 0
	extractImage := func(ref *string) *string {
		if ref == nil || !strings.HasPrefix(*ref, "data:") {
			return ref
		}
		name, content, ok := decodeDataURL(*ref, imageCount)
		if !ok {
			return ref
		}
		imageCount++
		f, err := w.Create(name)
		if err != nil {
			return ref
		}
		if _, err := f.Write(content); err != nil {
			return ref
		}
		return &name
	}

	exportedQuestions := make([]exportQuestion, 0, len(questions))
	for _, q := range questions {
		optionImages := make(entity.NullableStringArray, len(q.OptionImages))
		for i, img := range q.OptionImages {
			optionImages[i] = extractImage(img)
		}
		exportedQuestions = append(exportedQuestions, exportQuestion{
			SubjectID:        q.SubjectID,
			Content:          q.Content,
			QuestionType:     q.QuestionType,
			Options:          q.Options,
			OptionImages:     optionImages,
			CorrectAnswers:   q.CorrectAnswers,
			SubQuestions:     q.SubQuestions,
			SubAnswers:       q.SubAnswers,
			Explanation:      q.Explanation,
			Image:            extractImage(q.Image),
			ExplanationImage: extractImage(q.ExplanationImage),
		})
	}

	if err := writeZipJSON(w, "metadata.json", meta); err != nil {
		return nil, err
	}
	if err := writeZipJSON(w, "questions.json", exportedQuestions); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	log.Printf("[ExportService] Выгружен предмет #%d: %d предметов, %d вопросов, %d картинок",
		subjectID, len(meta.Subjects), len(exportedQuestions), imageCount)
	return buf.Bytes(), nil
}

func writeZipJSON(w *zip.Writer, name string, value interface{}) error {
	f, err := w.Create(name)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = f.Write(data)
	return err
}

// decodeDataURL разбирает data-URL и придумывает имя файла внутри архива
func decodeDataURL(dataURL string, index int) (string, []byte, bool) {
	rest := strings.TrimPrefix(dataURL, "data:")
	semi := strings.Index(rest, ";base64,")
	if semi < 0 {
		return "", nil, false
	}
	mime := rest[:semi]
	content, err := base64.StdEncoding.DecodeString(rest[semi+len(";base64,"):])
	if err != nil {
		return "", nil, false
	}

	ext := ".bin"
	switch mime {
	case "image/png":
		ext = ".png"
	case "image/jpeg":
		ext = ".jpg"
	case "image/gif":
		ext = ".gif"
	case "image/webp":
		ext = ".webp"
	case "image/svg+xml":
		ext = ".svg"
	}
	return fmt.Sprintf("images/img_%d%s", index, ext), content, true
}
