package repository

import (
	"icd201_backend/internal/model"

	"gorm.io/gorm"
)

type CalendarRepository struct {
	DB *gorm.DB
}

func NewCalendarRepository(db *gorm.DB) *CalendarRepository {
	return &CalendarRepository{DB: db}
}

// FindAll 按日期排序返回事件，unitID 非空时只返回该单元的事件
func (r *CalendarRepository) FindAll(unitID *uint) ([]model.CalendarEvent, error) {
	var events []model.CalendarEvent
	q := r.DB.Order("date ASC").Order("id ASC")
	if unitID != nil {
		q = q.Where("unit_id = ?", *unitID)
	}
	err := q.Find(&events).Error
	return events, err
}

func (r *CalendarRepository) FindByDate(date string) ([]model.CalendarEvent, error) {
	var events []model.CalendarEvent
	err := r.DB.Where("date = ?", date).Order("id ASC").Find(&events).Error
	return events, err
}

func (r *CalendarRepository) FindByID(id uint) (*model.CalendarEvent, error) {
	var event model.CalendarEvent
	err := r.DB.First(&event, id).Error
	return &event, err
}

func (r *CalendarRepository) Create(event *model.CalendarEvent) error {
	return r.DB.Create(event).Error
}

func (r *CalendarRepository) Update(event *model.CalendarEvent) error {
	return r.DB.Save(event).Error
}

func (r *CalendarRepository) Delete(id uint) error {
	res := r.DB.Delete(&model.CalendarEvent{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
