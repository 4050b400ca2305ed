package examsession

import (
	"encoding/json"
	"time"

	"github.com/yourusername/onthi-api/internal/domain/entity"
)

// PassThreshold - минимальная доля правильных элементов для сдачи предмета
const PassThreshold = 0.7

// maxScore - максимальный балл по 10-балльной шкале
const maxScore = 10.0

// EvaluateSubject подсчитывает итог одного предмета. Каждое утверждение
// TRUE_FALSE_TABLE считается отдельным оцениваемым элементом; вопрос любого
// другого типа даёт ровно один элемент. Отсутствующий ответ просто не
// приносит баллов.
func EvaluateSubject(cfg entity.SubjectConfig, questions []entity.Question, answers map[uint]Answer) entity.SubjectResult {
	correct := 0
	total := 0

	for i := range questions {
		q := &questions[i]
		total += q.ScoringItems()

		answer, ok := answers[q.ID]
		if !ok {
			continue
		}

		if q.QuestionType == entity.TypeTrueFalseTable {
			for j, expected := range q.SubAnswers {
				if j < len(answer.Sub) && answer.Sub[j] != nil && *answer.Sub[j] == expected {
					correct++
				}
			}
			continue
		}
		if q.IsAnswerCorrect(answer.Choice) {
			correct++
		}
	}

	var score float64
	if total > 0 {
		score = float64(correct) / float64(total) * maxScore
	}

	return entity.SubjectResult{
		SubjectID:      cfg.SubjectID,
		SubjectName:    cfg.SubjectName,
		Score:          score,
		CorrectCount:   correct,
		TotalQuestions: total,
		Passed:         total > 0 && float64(correct)/float64(total) >= PassThreshold,
	}
}

// BuildResult собирает неизменяемую запись результата из завершённой сессии.
// Балл экзамена - среднее баллов предметов; экзамен сдан, только если сданы
// все предметы. Порядок QuestionIDs повторяет порядок предъявления вопросов,
// что позволяет точно воспроизвести экзамен в режиме просмотра.
func BuildResult(session *Session) *entity.ExamResult {
	subjectResults := append(entity.SubjectResultList{}, session.AccumulatedResults...)

	totalScore := 0.0
	correct := 0
	total := 0
	passed := len(subjectResults) > 0
	for _, sr := range subjectResults {
		totalScore += sr.Score
		correct += sr.CorrectCount
		total += sr.TotalQuestions
		if !sr.Passed {
			passed = false
		}
	}
	avgScore := 0.0
	if len(subjectResults) > 0 {
		avgScore = totalScore / float64(len(subjectResults))
	}

	questionIDs := make(entity.UintArray, 0, len(session.Questions))
	for _, q := range session.Questions {
		questionIDs = append(questionIDs, q.ID)
	}

	userAnswers := entity.AnswerMap{}
	userSubAnswers := entity.SubAnswerMap{}
	for id, answer := range session.Answers {
		if len(answer.Sub) > 0 {
			userSubAnswers[id] = answer.Sub
			// исторический формат: ответ-таблица хранится и в общей карте
			// как JSON-строка массива
			if raw, err := json.Marshal(answer.Sub); err == nil {
				userAnswers[id] = string(raw)
			}
			continue
		}
		if answer.Choice != "" {
			userAnswers[id] = answer.Choice
		}
	}

	var examName *string
	if session.Name != "" {
		name := session.Name
		examName = &name
	}

	firstSubjectID := uint(0)
	firstSubjectName := ""
	if len(session.Configs) > 0 {
		firstSubjectID = session.Configs[0].SubjectID
		firstSubjectName = session.Configs[0].SubjectName
	}

	return &entity.ExamResult{
		SubjectID:      firstSubjectID,
		SubjectName:    firstSubjectName,
		Score:          avgScore,
		CorrectCount:   correct,
		TotalQuestions: total,
		Timestamp:      time.Now(),
		SessionID:      session.SessionID,
		ExamName:       examName,
		QuestionIDs:    questionIDs,
		UserAnswers:    userAnswers,
		UserSubAnswers: userSubAnswers,
		IsMultiSubject: len(session.Configs) > 1,
		SubjectResults: subjectResults,
		Passed:         passed,
	}
}
