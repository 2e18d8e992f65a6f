package utils

import (
	"fmt"
	"time"
)

// ParseTime 解析时间字符串（HH:MM 或 HH:MM:SS）并应用到指定日期
func ParseTime(timeStr string, date time.Time) (time.Time, error) {
	if timeStr == "" {
		return date, nil
	}

	parsedTime, err := time.Parse("15:04:05", timeStr)
	if err != nil {
		parsedTime, err = time.Parse("15:04", timeStr)
		if err != nil {
			return date, err
		}
	}

	return time.Date(
		date.Year(),
		date.Month(),
		date.Day(),
		parsedTime.Hour(),
		parsedTime.Minute(),
		parsedTime.Second(),
		0,
		date.Location(),
	), nil
}

// ServiceDay 服务日：给定时区的自然日零点
// 签到去重、历史记录都以它为基准，UTC 时刻跨天不影响结果
func ServiceDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// ServiceDayString 服务日的字符串形式，用作缓存键
func ServiceDayString(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// InWindow now 是否落在 [start, end] 窗口内（同一服务日，"HH:MM" 格式）
// end 早于 start 视为配置错误，直接返回 false
func InWindow(now time.Time, startStr, endStr string, loc *time.Location) (bool, error) {
	local := now.In(loc)

	start, err := ParseTime(startStr, local)
	if err != nil {
		return false, fmt.Errorf("parse window start %q: %w", startStr, err)
	}
	end, err := ParseTime(endStr, local)
	if err != nil {
		return false, fmt.Errorf("parse window end %q: %w", endStr, err)
	}

	if end.Before(start) {
		return false, fmt.Errorf("window end %q before start %q", endStr, startStr)
	}

	return !local.Before(start) && !local.After(end), nil
}
