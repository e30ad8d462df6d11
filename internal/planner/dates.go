package planner

import (
	"strings"
	"time"
)

// DateLayout 事件与设置中使用的日期格式
const DateLayout = "2006-01-02"

// NormalizeDate 只保留 YYYY-MM-DD 部分，忽略时间和时区后缀
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > len(DateLayout) {
		return s[:len(DateLayout)]
	}
	return s
}

// ParseDate 解析日期（宽松：允许带时间后缀），结果为 UTC 零点
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, NormalizeDate(s))
}

// IsValidDate 严格校验 YYYY-MM-DD
func IsValidDate(s string) bool {
	if len(s) != len(DateLayout) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WeekOf 返回日期所在的周序号（从 1 开始）。超出学期范围或无法解析时返回 false
func WeekOf(date string, start time.Time, weekCount int) (int, bool) {
	if weekCount <= 0 {
		weekCount = DefaultWeekCount
	}
	d, err := ParseDate(date)
	if err != nil {
		return 0, false
	}
	days := int(d.Sub(dayOf(start)).Hours() / 24)
	if days < 0 || days >= weekCount*7 {
		return 0, false
	}
	return days/7 + 1, true
}
