package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/onthi-api/internal/domain/entity"
	apperrors "github.com/yourusername/onthi-api/internal/pkg/errors"
	"github.com/yourusername/onthi-api/internal/service"
)

// QuestionHandler обрабатывает запросы, связанные с банком вопросов
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler создает новый обработчик вопросов
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// QuestionRequest представляет запрос на создание или обновление вопроса
type QuestionRequest struct {
	SubjectID        uint                       `json:"subjectId" binding:"required"`
	Content          string                     `json:"content" binding:"required"`
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

func (r *QuestionRequest) toEntity() *entity.Question {
	questionType := r.QuestionType
	if questionType == "" {
		questionType = entity.TypeMultipleChoice
	}
	optionImages := r.OptionImages
	for len(optionImages) < len(r.Options) {
		optionImages = append(optionImages, nil)
	}
	return &entity.Question{
		SubjectID:        r.SubjectID,
		Content:          r.Content,
		QuestionType:     questionType,
		Options:          r.Options,
		OptionImages:     optionImages,
		CorrectAnswers:   r.CorrectAnswers,
		SubQuestions:     r.SubQuestions,
		SubAnswers:       r.SubAnswers,
		Explanation:      r.Explanation,
		Image:            r.Image,
		ExplanationImage: r.ExplanationImage,
	}
}

// Create обрабатывает запрос на создание вопроса
func (h *QuestionHandler) Create(c *gin.Context) {
	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question := req.toEntity()
	if err := h.questionService.Create(question); err != nil {
		h.handleQuestionError(c, err)
		return
	}
	c.JSON(http.StatusCreated, question)
}

// Get возвращает вопрос по id
func (h *QuestionHandler) Get(c *gin.Context) {
	questionID := c.MustGet("questionID").(uint)

	question, err := h.questionService.GetByID(questionID)
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

// GetBySubject возвращает вопросы поддерева предмета.
// Query-параметр status фильтрует по статусу изучения (0, 1, 2).
func (h *QuestionHandler) GetBySubject(c *gin.Context) {
	subjectID := c.MustGet("subjectID").(uint)

	status := -1
	if raw := c.Query("status"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		status = parsed
	}

	questions, err := h.questionService.GetBySubject(subjectID, status)
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

// Update обрабатывает запрос на обновление вопроса
func (h *QuestionHandler) Update(c *gin.Context) {
	questionID := c.MustGet("questionID").(uint)

	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question := req.toEntity()
	question.ID = questionID
	if err := h.questionService.Update(question); err != nil {
		h.handleQuestionError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

// UpdateStatusRequest представляет запрос на смену статуса изучения
type UpdateStatusRequest struct {
	Status *int `json:"status" binding:"required"`
}

// UpdateStatus помечает вопрос как новый, выученный или часто ошибаемый
func (h *QuestionHandler) UpdateStatus(c *gin.Context) {
	questionID := c.MustGet("questionID").(uint)

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.questionService.UpdateStatus(questionID, *req.Status); err != nil {
		h.handleQuestionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
}

// Delete удаляет вопрос
func (h *QuestionHandler) Delete(c *gin.Context) {
	questionID := c.MustGet("questionID").(uint)

	if err := h.questionService.Delete(questionID); err != nil {
		h.handleQuestionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question deleted"})
}

func (h *QuestionHandler) handleQuestionError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in QuestionHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
