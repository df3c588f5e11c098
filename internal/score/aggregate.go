package score

import (
	"github.com/montanaflynn/stats"
)

// Average 单个成绩列的全班平均
// 该列全部缺失时 Mean 为缺失值，不报错也不取零
type Average struct {
	Column string `json:"column"`
	Mean   Value  `json:"mean"`
}

// ClassAverages 逐列计算全班平均分，忽略缺失值
// 每个成绩列恰好产出一行，保持列序；与行序无关
func ClassAverages(n Normalized) []Average {
	averages := make([]Average, 0, len(n.ScoreCols))
	for _, col := range n.ScoreCols {
		var valid []float64
		for _, v := range n.Values(col) {
			if v.Valid {
				valid = append(valid, v.F)
			}
		}

		mean := None()
		// stats.Mean 对空输入返回 EmptyInputErr，正好对应"无平均可用"
		if m, err := stats.Mean(valid); err == nil {
			mean = Some(m)
		}

		averages = append(averages, Average{Column: col, Mean: mean})
	}
	return averages
}
