package score

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Value 可缺失的分数值
// 无法解析的单元格以 Valid=false 表示，JSON 序列化为 null（图表渲染为断点）
type Value struct {
	F     float64
	Valid bool
}

// Some 有效值
func Some(f float64) Value {
	return Value{F: f, Valid: true}
}

// None 缺失值
func None() Value {
	return Value{}
}

// Parse 把单元格文本解析为分数值
// 空白或解析失败一律视为缺失，不报错
func Parse(cell string) Value {
	s := strings.TrimSpace(cell)
	if s == "" {
		return None()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return None()
	}
	// ParseFloat 也接受 NaN/Inf，但它们不是成绩
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return None()
	}
	return Some(f)
}

// String 渲染回单元格文本，缺失值渲染为空串
// Parse(v.String()) 与 v 等价，保证归一化的幂等性
func (v Value) String() string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.F, 'g', -1, 64)
}

// MarshalJSON 缺失值序列化为 null
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.F)
}

// UnmarshalJSON null 反序列化为缺失值
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = None()
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Some(f)
	return nil
}
