package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	MinutesPerDay = 24 * 60
	DateLayout    = "2006-01-02"
)

// TimeOfDay 表示一天中的某个时刻，单位为自零点起的分钟数
type TimeOfDay int

var timeOfDayLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04PM",
	"3 PM",
	"3PM",
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	value := strings.ToUpper(strings.TrimSpace(s))
	if value == "" {
		return 0, fmt.Errorf("时间不能为空")
	}

	for _, layout := range timeOfDayLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return TimeOfDay(t.Hour()*60 + t.Minute()), nil
		}
	}

	return 0, fmt.Errorf("无法解析时间 %q", s)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Span 是一段墙上时间，End 早于 Start 时表示跨越午夜
type Span struct {
	Start TimeOfDay
	End   TimeOfDay
}

func ParseSpan(start, end string) (Span, error) {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		return Span{}, err
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		return Span{}, err
	}
	if s == e {
		return Span{}, fmt.Errorf("开始时间和结束时间不能相同（%s）", s)
	}
	return Span{Start: s, End: e}, nil
}

var spanSeparators = []string{"~", "–", "—", "至", "到", " - ", "-"}

// ParseSpanString 解析排班表中的时间段，例如 "08:00-14:00" 或 "6:00 AM - 2:00 PM"
func ParseSpanString(s string) (Span, error) {
	for _, sep := range spanSeparators {
		if parts := strings.SplitN(s, sep, 2); len(parts) == 2 {
			return ParseSpan(parts[0], parts[1])
		}
	}
	return Span{}, fmt.Errorf("无法解析时间段 %q", s)
}

func (s Span) CrossesMidnight() bool {
	return s.End < s.Start
}

// Duration 返回时间段的分钟数，跨午夜的时间段为 24h - start + end
func (s Span) Duration() int {
	if s.CrossesMidnight() {
		return MinutesPerDay - int(s.Start) + int(s.End)
	}
	return int(s.End - s.Start)
}

// Contains 判断 other 是否完全落在 s 之内
func (s Span) Contains(other Span) bool {
	start := int(s.Start)
	end := start + s.Duration()

	// other 可能位于 s 跨过午夜之后的那一部分，所以要在次日再试一次
	for _, offset := range []int{0, MinutesPerDay} {
		otherStart := int(other.Start) + offset
		otherEnd := otherStart + other.Duration()
		if otherStart >= start && otherEnd <= end {
			return true
		}
	}
	return false
}

func (s Span) Overlaps(other Span) bool {
	for _, a := range s.segments() {
		for _, b := range other.segments() {
			if a[0] < b[1] && b[0] < a[1] {
				return true
			}
		}
	}
	return false
}

// segments 把时间段拆分成 [0, 1440) 上的半开区间
func (s Span) segments() [][2]int {
	if s.CrossesMidnight() {
		segs := [][2]int{{int(s.Start), MinutesPerDay}}
		if s.End > 0 {
			segs = append(segs, [2]int{0, int(s.End)})
		}
		return segs
	}
	return [][2]int{{int(s.Start), int(s.End)}}
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}

func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("日期 %q 格式错误，应为 YYYY-MM-DD", s)
	}
	return d, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
