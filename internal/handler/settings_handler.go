package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/onthi-api/internal/domain/entity"
	"github.com/yourusername/onthi-api/internal/domain/repository"
	apperrors "github.com/yourusername/onthi-api/internal/pkg/errors"
)

// SettingsHandler обрабатывает профиль, напоминания и справочники свойств
type SettingsHandler struct {
	profileRepo  repository.ProfileRepository
	reminderRepo repository.ReminderRepository
	propertyRepo repository.PropertyOptionRepository
}

// NewSettingsHandler создает новый обработчик настроек
func NewSettingsHandler(
	profileRepo repository.ProfileRepository,
	reminderRepo repository.ReminderRepository,
	propertyRepo repository.PropertyOptionRepository,
) *SettingsHandler {
	return &SettingsHandler{
		profileRepo:  profileRepo,
		reminderRepo: reminderRepo,
		propertyRepo: propertyRepo,
	}
}

// GetProfile возвращает профиль пользователя
func (h *SettingsHandler) GetProfile(c *gin.Context) {
	profile, err := h.profileRepo.Get()
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusOK, entity.UserProfile{})
			return
		}
		h.handleSettingsError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ProfileRequest представляет запрос на сохранение профиля
type ProfileRequest struct {
	FullName       string  `json:"fullName" binding:"omitempty,max=255"`
	Gender         string  `json:"gender" binding:"omitempty,max=32"`
	BirthYear      int     `json:"birthYear"`
	EducationLevel string  `json:"educationLevel" binding:"omitempty,max=100"`
	Avatar         *string `json:"avatar"`
}

// SaveProfile сохраняет профиль пользователя (единственная запись)
func (h *SettingsHandler) SaveProfile(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile := &entity.UserProfile{
		FullName:       req.FullName,
		Gender:         req.Gender,
		BirthYear:      req.BirthYear,
		EducationLevel: req.EducationLevel,
		Avatar:         req.Avatar,
	}
	if err := h.profileRepo.Save(profile); err != nil {
		h.handleSettingsError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ReminderRequest представляет запрос на создание или обновление напоминания
type ReminderRequest struct {
	Title    string          `json:"title" binding:"required,max=255"`
	Message  string          `json:"message" binding:"omitempty,max=500"`
	Time     string          `json:"time" binding:"required,len=5"` // HH:mm
	Days     entity.IntArray `json:"days" binding:"required,min=1,dive,min=0,max=6"`
	IsActive *bool           `json:"isActive"`
}

// CreateReminder создает напоминание
func (h *SettingsHandler) CreateReminder(c *gin.Context) {
	var req ReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reminder := &entity.Reminder{
		Title:    req.Title,
		Message:  req.Message,
		Time:     req.Time,
		Days:     req.Days,
		IsActive: req.IsActive == nil || *req.IsActive,
	}
	if err := h.reminderRepo.Create(reminder); err != nil {
		h.handleSettingsError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reminder)
}

// GetReminders возвращает все напоминания
func (h *SettingsHandler) GetReminders(c *gin.Context) {
	reminders, err := h.reminderRepo.GetAll()
	if err != nil {
		h.handleSettingsError(c, err)
		return
	}
	c.JSON(http.StatusOK, reminders)
}

// UpdateReminder обновляет напоминание
func (h *SettingsHandler) UpdateReminder(c *gin.Context) {
	reminderID := c.MustGet("reminderID").(uint)

	var req ReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reminder := &entity.Reminder{
		ID:       reminderID,
		Title:    req.Title,
		Message:  req.Message,
		Time:     req.Time,
		Days:     req.Days,
		IsActive: req.IsActive == nil || *req.IsActive,
	}
	if err := h.reminderRepo.Update(reminder); err != nil {
		h.handleSettingsError(c, err)
		return
	}
	c.JSON(http.StatusOK, reminder)
}

// DeleteReminder удаляет напоминание
func (h *SettingsHandler) DeleteReminder(c *gin.Context) {
	reminderID := c.MustGet("reminderID").(uint)

	if err := h.reminderRepo.Delete(reminderID); err != nil {
		h.handleSettingsError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reminder deleted"})
}

// PropertyOptionRequest представляет запрос на создание значения справочника
type PropertyOptionRequest struct {
	Name string `json:"name" binding:"required,max=255"`
	Type string `json:"type" binding:"required,oneof=level type examTerm"`
}

// CreatePropertyOption создает значение справочника свойств
func (h *SettingsHandler) CreatePropertyOption(c *gin.Context) {
	var req PropertyOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	option := &entity.PropertyOption{Name: req.Name, Type: req.Type}
	if err := h.propertyRepo.Create(option); err != nil {
		h.handleSettingsError(c, err)
		return
	}
	c.JSON(http.StatusCreated, option)
}

// GetPropertyOptions возвращает значения справочника.
// Query-параметр type фильтрует по виду свойства.
func (h *SettingsHandler) GetPropertyOptions(c *gin.Context) {
	optionType := c.Query("type")

	var options []entity.PropertyOption
	var err error
	if optionType != "" {
		options, err = h.propertyRepo.GetByType(optionType)
	} else {
		options, err = h.propertyRepo.GetAll()
	}
	if err != nil {
		h.handleSettingsError(c, err)
		return
	}
	c.JSON(http.StatusOK, options)
}

// DeletePropertyOption удаляет значение справочника
func (h *SettingsHandler) DeletePropertyOption(c *gin.Context) {
	optionID := c.MustGet("optionID").(uint)

	if err := h.propertyRepo.Delete(optionID); err != nil {
		h.handleSettingsError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Property option deleted"})
}

func (h *SettingsHandler) handleSettingsError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in SettingsHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
