package repository

import (
	"icd201_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UnitRepository struct {
	DB *gorm.DB
}

func NewUnitRepository(db *gorm.DB) *UnitRepository {
	return &UnitRepository{DB: db}
}

func orderedLessons(db *gorm.DB) *gorm.DB {
	return db.Order("lessons.id ASC")
}

// FindAll 获取全部单元（含课时），按 id 升序
func (r *UnitRepository) FindAll() ([]model.Unit, error) {
	var units []model.Unit
	err := r.DB.Preload("Lessons", orderedLessons).Order("id ASC").Find(&units).Error
	return units, err
}

func (r *UnitRepository) FindByIDs(ids []uint) ([]model.Unit, error) {
	var units []model.Unit
	err := r.DB.Preload("Lessons", orderedLessons).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&units).Error
	return units, err
}

func (r *UnitRepository) FindByID(id uint) (*model.Unit, error) {
	var unit model.Unit
	err := r.DB.Preload("Lessons", orderedLessons).First(&unit, id).Error
	return &unit, err
}

func (r *UnitRepository) Create(unit *model.Unit) error {
	return r.DB.Omit(clause.Associations).Create(unit).Error
}

// Update 只更新单元本身的字段，课时通过单独的接口维护
func (r *UnitRepository) Update(unit *model.Unit) error {
	return r.DB.Omit(clause.Associations).Save(unit).Error
}

// Delete 删除单元，同时删除其课时和相关日历事件
func (r *UnitRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("unit_id = ?", id).Delete(&model.CalendarEvent{}).Error; err != nil {
			return err
		}
		if err := tx.Where("unit_id = ?", id).Delete(&model.Lesson{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Unit{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *UnitRepository) CreateLesson(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *UnitRepository) FindLesson(unitID, lessonID uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.Where("id = ? AND unit_id = ?", lessonID, unitID).First(&lesson).Error
	return &lesson, err
}

func (r *UnitRepository) UpdateLesson(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

// DeleteLesson 删除课时以及引用它的日历事件
func (r *UnitRepository) DeleteLesson(unitID, lessonID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND unit_id = ?", lessonID, unitID).Delete(&model.Lesson{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("lesson_id = ?", lessonID).Delete(&model.CalendarEvent{}).Error
	})
}
