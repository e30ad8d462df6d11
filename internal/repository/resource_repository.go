package repository

import (
	"encoding/json"
	"strings"

	"icd201_backend/internal/model"

	"gorm.io/gorm"
)

type ResourceRepository struct {
	DB *gorm.DB
}

func NewResourceRepository(db *gorm.DB) *ResourceRepository {
	return &ResourceRepository{DB: db}
}

func (r *ResourceRepository) FindAll() ([]model.Resource, error) {
	var resources []model.Resource
	err := r.DB.Order("position ASC").Order("id ASC").Find(&resources).Error
	return resources, err
}

func (r *ResourceRepository) FindByID(id string) (*model.Resource, error) {
	var resource model.Resource
	err := r.DB.Where("id = ?", id).First(&resource).Error
	return &resource, err
}

func (r *ResourceRepository) Exists(id string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Resource{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Create 新资源排在末尾
func (r *ResourceRepository) Create(resource *model.Resource) error {
	if resource.Position == 0 {
		var last int
		if err := r.DB.Model(&model.Resource{}).Select("COALESCE(MAX(position), 0)").Scan(&last).Error; err != nil {
			return err
		}
		resource.Position = last + 1
	}
	return r.DB.Create(resource).Error
}

func (r *ResourceRepository) Update(resource *model.Resource) error {
	return r.DB.Save(resource).Error
}

// Delete 删除资源，并把该资源 id 从所有课时和日历事件中移除
func (r *ResourceRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&model.Resource{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		// JSON 列先用 LIKE 粗筛，再在内存中精确匹配
		pattern, err := jsonLikePattern(id)
		if err != nil {
			return err
		}

		var lessons []model.Lesson
		if err := tx.Where("resources LIKE ? ESCAPE '!'", pattern).Find(&lessons).Error; err != nil {
			return err
		}
		for i := range lessons {
			if !lessons[i].UsesResource(id) {
				continue
			}
			lessons[i].Resources = without(lessons[i].Resources, id)
			if err := tx.Save(&lessons[i]).Error; err != nil {
				return err
			}
		}

		var events []model.CalendarEvent
		if err := tx.Where("resources LIKE ? ESCAPE '!'", pattern).Find(&events).Error; err != nil {
			return err
		}
		for i := range events {
			if !events[i].UsesResource(id) {
				continue
			}
			events[i].Resources = without(events[i].Resources, id)
			if err := tx.Save(&events[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func without(list []string, id string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s != id {
			out = append(out, s)
		}
	}
	return out
}

// jsonLikePattern 按 JSON 列中的实际编码（含 \u0026 等转义）构造 LIKE 模式，
// 并转义 LIKE 通配符
func jsonLikePattern(id string) (string, error) {
	raw, err := json.Marshal(id)
	if err != nil {
		return "", err
	}
	escaped := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(string(raw))
	return "%" + escaped + "%", nil
}
