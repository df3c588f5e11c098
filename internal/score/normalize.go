package score

import (
	"scoreview/internal/table"
)

// SplitColumns 把表头拆为成绩列与缺失的身份列
// 身份列必须全部存在；成绩列为其余所有列，保持表内顺序
func SplitColumns(tbl table.Table, identity []string) (scoreCols, missing []string) {
	identitySet := make(map[string]bool, len(identity))
	for _, c := range identity {
		identitySet[c] = true
		if tbl.ColumnIndex(c) < 0 {
			missing = append(missing, c)
		}
	}

	for _, c := range tbl.Columns {
		if !identitySet[c] {
			scoreCols = append(scoreCols, c)
		}
	}
	return scoreCols, missing
}

// Normalized 归一化后的成绩表
// 身份列保持原始文本，成绩列全部转为可缺失的数值
type Normalized struct {
	Source    table.Table
	ScoreCols []string
	// cells[col][row] 与 Source.Rows 同序
	cells map[string][]Value
}

// Normalize 把成绩列逐格转为数值，解析失败的单元格记为缺失
// 身份列检查（SplitColumns）应在本步骤之前完成
func Normalize(tbl table.Table, scoreCols []string) Normalized {
	n := Normalized{
		Source:    tbl,
		ScoreCols: scoreCols,
		cells:     make(map[string][]Value, len(scoreCols)),
	}
	for _, col := range scoreCols {
		raw := tbl.Column(col)
		values := make([]Value, len(tbl.Rows))
		for i := range tbl.Rows {
			if raw != nil {
				values[i] = Parse(raw[i])
			}
		}
		n.cells[col] = values
	}
	return n
}

// Values 某成绩列的全部取值，与数据行同序
func (n Normalized) Values(col string) []Value {
	return n.cells[col]
}

// Cell 第 row 行 col 列的分数
func (n Normalized) Cell(row int, col string) Value {
	values, ok := n.cells[col]
	if !ok || row < 0 || row >= len(values) {
		return None()
	}
	return values[row]
}

// Render 把归一化结果渲染回字符串表格
// 缺失值渲染为空单元格，数值用最短精确表示；再次 Normalize 结果不变
func (n Normalized) Render() table.Table {
	out := table.Table{
		Columns: append([]string(nil), n.Source.Columns...),
		Rows:    make([][]string, len(n.Source.Rows)),
	}
	scoreSet := make(map[string]bool, len(n.ScoreCols))
	for _, c := range n.ScoreCols {
		scoreSet[c] = true
	}
	for i, srcRow := range n.Source.Rows {
		row := make([]string, len(out.Columns))
		for j, col := range out.Columns {
			if scoreSet[col] {
				row[j] = n.Cell(i, col).String()
			} else {
				row[j] = srcRow[j]
			}
		}
		out.Rows[i] = row
	}
	return out
}
