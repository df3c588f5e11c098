package score

import (
	"errors"
	"log"
)

// ErrStudentNotFound 选中的学生在表中不存在
var ErrStudentNotFound = errors.New("student not found")

// ComparisonRow 对比表的一行：单元名 + 全班平均 + 学生得分
type ComparisonRow struct {
	Column       string `json:"column"`
	ClassAverage Value  `json:"classAverage"`
	StudentScore Value  `json:"studentScore"`
}

// Comparison 构建单个学生的长格式对比表
// 每个成绩列恰好一行；平均值按列名左外连接，平均缺失时该行仍然产出。
// 同名学生取首行并记录告警；零匹配返回 ErrStudentNotFound
func Comparison(n Normalized, averages []Average, nameCol, student string) ([]ComparisonRow, error) {
	row := -1
	for i, name := range n.Source.Column(nameCol) {
		if name != student {
			continue
		}
		if row >= 0 {
			log.Printf("重名学生 %q：取首行（第 %d 行），忽略第 %d 行", student, row+1, i+1)
			continue
		}
		row = i
	}
	if row < 0 {
		return nil, ErrStudentNotFound
	}

	meanByCol := make(map[string]Value, len(averages))
	for _, a := range averages {
		meanByCol[a.Column] = a.Mean
	}

	rows := make([]ComparisonRow, 0, len(n.ScoreCols))
	for _, col := range n.ScoreCols {
		rows = append(rows, ComparisonRow{
			Column:       col,
			ClassAverage: meanByCol[col],
			StudentScore: n.Cell(row, col),
		})
	}
	return rows, nil
}

// StudentRow 学生在原始表中的首个匹配行号，未找到返回 -1
func StudentRow(n Normalized, nameCol, student string) int {
	for i, name := range n.Source.Column(nameCol) {
		if name == student {
			return i
		}
	}
	return -1
}
