package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/onthi-api/internal/domain/entity"
)

// ProfileRepo реализует repository.ProfileRepository
type ProfileRepo struct {
	db *gorm.DB
}

// NewProfileRepo создает новый репозиторий профиля
func NewProfileRepo(db *gorm.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// Get возвращает профиль пользователя; если записи ещё нет - пустой профиль
func (r *ProfileRepo) Get() (*entity.UserProfile, error) {
	var profile entity.UserProfile
	err := r.db.First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &entity.UserProfile{}, nil
		}
		return nil, err
	}
	return &profile, nil
}

// Save сохраняет профиль (создаёт или перезаписывает единственную запись)
func (r *ProfileRepo) Save(profile *entity.UserProfile) error {
	if profile.ID == 0 {
		var existing entity.UserProfile
		err := r.db.First(&existing).Error
		if err == nil {
			profile.ID = existing.ID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	return r.db.Save(profile).Error
}

// ReminderRepo реализует repository.ReminderRepository
type ReminderRepo struct {
	db *gorm.DB
}

// NewReminderRepo создает новый репозиторий напоминаний
func NewReminderRepo(db *gorm.DB) *ReminderRepo {
	return &ReminderRepo{db: db}
}

// Create создает новое напоминание
func (r *ReminderRepo) Create(reminder *entity.Reminder) error {
	return r.db.Create(reminder).Error
}

// GetAll возвращает все напоминания
func (r *ReminderRepo) GetAll() ([]entity.Reminder, error) {
	var reminders []entity.Reminder
	err := r.db.Order("id").Find(&reminders).Error
	if err != nil {
		return nil, err
	}
	return reminders, nil
}

// Update обновляет напоминание
func (r *ReminderRepo) Update(reminder *entity.Reminder) error {
	return r.db.Save(reminder).Error
}

// Delete удаляет напоминание
func (r *ReminderRepo) Delete(id uint) error {
	return r.db.Delete(&entity.Reminder{}, id).Error
}

// PropertyOptionRepo реализует repository.PropertyOptionRepository
type PropertyOptionRepo struct {
	db *gorm.DB
}

// NewPropertyOptionRepo создает новый репозиторий справочников свойств
func NewPropertyOptionRepo(db *gorm.DB) *PropertyOptionRepo {
	return &PropertyOptionRepo{db: db}
}

// Create создает значение справочника
func (r *PropertyOptionRepo) Create(option *entity.PropertyOption) error {
	return r.db.Create(option).Error
}

// GetByType возвращает значения справочника заданного типа
func (r *PropertyOptionRepo) GetByType(optionType string) ([]entity.PropertyOption, error) {
	var options []entity.PropertyOption
	err := r.db.Where("type = ?", optionType).Order("id").Find(&options).Error
	if err != nil {
		return nil, err
	}
	return options, nil
}

// GetAll возвращает все значения справочников
func (r *PropertyOptionRepo) GetAll() ([]entity.PropertyOption, error) {
	var options []entity.PropertyOption
	err := r.db.Order("id").Find(&options).Error
	if err != nil {
		return nil, err
	}
	return options, nil
}

// Delete удаляет значение справочника
func (r *PropertyOptionRepo) Delete(id uint) error {
	return r.db.Delete(&entity.PropertyOption{}, id).Error
}
