package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/onthi-api/internal/domain/repository"
	apperrors "github.com/yourusername/onthi-api/internal/pkg/errors"
	"github.com/yourusername/onthi-api/internal/service"
)

// ResultHandler обрабатывает запросы к истории результатов,
// просмотру и пересдаче
type ResultHandler struct {
	resultRepo    repository.ResultRepository
	reviewService *service.ReviewService
}

// NewResultHandler создает новый обработчик результатов
func NewResultHandler(resultRepo repository.ResultRepository, reviewService *service.ReviewService) *ResultHandler {
	return &ResultHandler{
		resultRepo:    resultRepo,
		reviewService: reviewService,
	}
}

// GetAll возвращает историю результатов (свежие раньше)
func (h *ResultHandler) GetAll(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	results, total, err := h.resultRepo.GetAll(limit, offset)
	if err != nil {
		h.handleResultError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// Review возвращает результат с вопросами в порядке их предъявления
func (h *ResultHandler) Review(c *gin.Context) {
	resultID := c.MustGet("resultID").(uint)

	review, err := h.reviewService.LoadForReview(resultID)
	if err != nil {
		h.handleResultError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// Retake запускает новую сессию с вопросами прошлой попытки
func (h *ResultHandler) Retake(c *gin.Context) {
	resultID := c.MustGet("resultID").(uint)

	session, err := h.reviewService.Retake(resultID)
	if err != nil {
		h.handleResultError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// Delete удаляет запись результата
func (h *ResultHandler) Delete(c *gin.Context) {
	resultID := c.MustGet("resultID").(uint)

	if err := h.resultRepo.Delete(resultID); err != nil {
		h.handleResultError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Result deleted"})
}

func (h *ResultHandler) handleResultError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in ResultHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
