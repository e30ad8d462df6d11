package util

import (
	"errors"

	"icd201_backend/internal/planner"
)

var (
	ErrUnitNotFound     = errors.New("unit not found")
	ErrLessonNotFound   = errors.New("lesson not found")
	ErrResourceNotFound = errors.New("resource not found")
	ErrEventNotFound    = errors.New("calendar event not found")
	ErrExportNotFound   = errors.New("export not found")
	ErrNoUnits          = errors.New("no units match the export selection")
	ErrResourceExists   = errors.New("resource id already exists")
	ErrStorageDisabled  = errors.New("export archive storage is not configured")

	// 校验错误与规划引擎共用同一组哨兵
	ErrInvalidDuration = planner.ErrInvalidDuration
	ErrInvalidDate     = planner.ErrInvalidDate
	ErrUnknownResource = planner.ErrUnknownResource
	ErrUnknownUnit     = planner.ErrUnknownUnit
	ErrInvalidSettings = planner.ErrInvalidSettings
	ErrLessonNotInUnit = planner.ErrLessonNotInUnit
)

// IsNotFound 是否为资源不存在类错误
func IsNotFound(err error) bool {
	for _, target := range []error{ErrUnitNotFound, ErrLessonNotFound, ErrResourceNotFound, ErrEventNotFound, ErrExportNotFound, ErrNoUnits} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsBadRequest 是否为调用方输入导致的错误
func IsBadRequest(err error) bool {
	if planner.IsValidationError(err) {
		return true
	}
	for _, target := range []error{ErrResourceExists, ErrInvalidDate, ErrInvalidDuration, ErrInvalidSettings, ErrUnknownResource, ErrUnknownUnit, ErrLessonNotInUnit} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
