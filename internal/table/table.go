package table

import "strings"

// Table 内存表格：表头 + 行数据，所有单元格均为字符串
// 来源为工作表的原始取值，首行作为表头
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// FromValues 从原始取值构建表格
// 首行为表头；短行补空、长行截断到表头宽度；全空行丢弃；
// 所有文本经 UTF-8 清洗，无法解码的字节直接丢弃
func FromValues(values [][]string) Table {
	if len(values) == 0 {
		return Table{}
	}

	header := make([]string, len(values[0]))
	for i, h := range values[0] {
		header[i] = Sanitize(strings.TrimSpace(h))
	}

	t := Table{Columns: header}
	for _, raw := range values[1:] {
		row := make([]string, len(header))
		empty := true
		for i := range header {
			if i < len(raw) {
				cell := Sanitize(raw[i])
				row[i] = cell
				if strings.TrimSpace(cell) != "" {
					empty = false
				}
			}
		}
		if empty {
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Sanitize 清洗文本编码，丢弃无法解码的字节
func Sanitize(s string) string {
	return strings.ToValidUTF8(s, "")
}

// IsEmpty 是否无数据行
func (t Table) IsEmpty() bool {
	return len(t.Rows) == 0
}

// ColumnIndex 列名对应的下标，不存在返回 -1
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column 某一列的全部取值；列不存在返回 nil
func (t Table) Column(name string) []string {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[idx]
	}
	return values
}

// Cell 第 row 行 name 列的取值
func (t Table) Cell(row int, name string) string {
	idx := t.ColumnIndex(name)
	if idx < 0 || row < 0 || row >= len(t.Rows) {
		return ""
	}
	return t.Rows[row][idx]
}
