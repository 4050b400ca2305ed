package repository

import (
	"github.com/yourusername/onthi-api/internal/domain/entity"
)

// ProfileRepository определяет методы для работы с профилем пользователя.
// Профиль хранится единственной записью.
type ProfileRepository interface {
	Get() (*entity.UserProfile, error)
	Save(profile *entity.UserProfile) error
}

// ReminderRepository определяет методы для работы с напоминаниями
type ReminderRepository interface {
	Create(reminder *entity.Reminder) error
	GetAll() ([]entity.Reminder, error)
	Update(reminder *entity.Reminder) error
	Delete(id uint) error
}

// PropertyOptionRepository определяет методы для работы со справочниками свойств
type PropertyOptionRepository interface {
	Create(option *entity.PropertyOption) error
	GetByType(optionType string) ([]entity.PropertyOption, error)
	GetAll() ([]entity.PropertyOption, error)
	Delete(id uint) error
}
