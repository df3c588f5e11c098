package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"scoreview/internal/cache"
	"scoreview/internal/score"
	"scoreview/internal/sheets"
	"scoreview/internal/table"
)

// ErrNoData 工作表存在但没有任何数据行
var ErrNoData = errors.New("no data")

// SchemaError 表头缺少身份列，附带原始表格供页面展示
type SchemaError struct {
	Missing []string
	Raw     table.Table
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("데이터에 예상된 열 [%s]이(가) 없습니다", strings.Join(e.Missing, ", "))
}

// Service 报表流水线
// 每个阶段返回 值或错误，由调用方决定在哪一阶段停止渲染；
// 工作表列表与单表数据分别按 TTL 记忆化，手动刷新整体失效
type Service struct {
	src      sheets.Source
	cache    *cache.Cache
	identity []string
	// nameCol 姓名列，约定为身份列中的第二列（编号/姓名/性别）
	nameCol string
}

// NewService 创建报表服务
// identity 须为三列：编号、姓名、性别，顺序固定
func NewService(src sheets.Source, identity []string, ttl time.Duration) *Service {
	nameCol := ""
	if len(identity) >= 2 {
		nameCol = identity[1]
	}
	return &Service{
		src:      src,
		cache:    cache.New(ttl),
		identity: identity,
		nameCol:  nameCol,
	}
}

// IdentityColumns 身份列名
func (s *Service) IdentityColumns() []string {
	return s.identity
}

// Worksheets 工作表标题列表（缓存）
// 空列表是合法结果，由展示层给出警告
func (s *Service) Worksheets(ctx context.Context) ([]string, error) {
	key := cache.Key("worksheets")
	if v, ok := s.cache.Get(key); ok {
		return v.([]string), nil
	}

	names, err := s.src.ListWorksheets(ctx)
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	s.cache.Set(key, names)
	return names, nil
}

// loadTable 加载单个工作表为表格（缓存）
// 首行作表头、全空行丢弃、文本经 UTF-8 清洗
func (s *Service) loadTable(ctx context.Context, worksheet string) (table.Table, error) {
	key := cache.Key("load", worksheet)
	if v, ok := s.cache.Get(key); ok {
		return v.(table.Table), nil
	}

	values, err := s.src.Values(ctx, worksheet)
	if err != nil {
		return table.Table{}, err
	}
	tbl := table.FromValues(values)
	s.cache.Set(key, tbl)
	return tbl, nil
}

// Dashboard 某工作表的看板数据
type Dashboard struct {
	Worksheet string          `json:"worksheet"`
	Table     table.Table     `json:"table"`
	ScoreCols []string        `json:"scoreColumns"`
	Students  []string        `json:"students"`
	Averages  []score.Average `json:"averages"`
}

// Dashboard 执行 加载→身份列检查→归一化→求平均 流水线
// 失败以类型化错误返回：ErrNoData / *SchemaError / 加载错误
func (s *Service) Dashboard(ctx context.Context, worksheet string) (*Dashboard, error) {
	tbl, err := s.loadTable(ctx, worksheet)
	if err != nil {
		return nil, err
	}
	if tbl.IsEmpty() {
		return nil, ErrNoData
	}

	scoreCols, missing := score.SplitColumns(tbl, s.identity)
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing, Raw: tbl}
	}

	n := score.Normalize(tbl, scoreCols)

	// 姓名为空的行不进入选择列表
	var students []string
	for _, name := range tbl.Column(s.nameCol) {
		if strings.TrimSpace(name) != "" {
			students = append(students, name)
		}
	}
	if students == nil {
		students = []string{}
	}

	return &Dashboard{
		Worksheet: worksheet,
		Table:     n.Render(),
		ScoreCols: scoreCols,
		Students:  students,
		Averages:  score.ClassAverages(n),
	}, nil
}

// StudentReport 单个学生的报表
type StudentReport struct {
	Worksheet  string                `json:"worksheet"`
	Student    string                `json:"student"`
	Preview    table.Table           `json:"preview"`
	Comparison []score.ComparisonRow `json:"comparison"`
}

// Student 生成学生对比报表：原始行预览 + 长格式对比表
func (s *Service) Student(ctx context.Context, worksheet, student string) (*StudentReport, error) {
	tbl, err := s.loadTable(ctx, worksheet)
	if err != nil {
		return nil, err
	}
	if tbl.IsEmpty() {
		return nil, ErrNoData
	}

	scoreCols, missing := score.SplitColumns(tbl, s.identity)
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing, Raw: tbl}
	}

	n := score.Normalize(tbl, scoreCols)

	rows, err := score.Comparison(n, score.ClassAverages(n), s.nameCol, student)
	if err != nil {
		return nil, err
	}

	idx := score.StudentRow(n, s.nameCol, student)
	preview := table.Table{
		Columns: tbl.Columns,
		Rows:    [][]string{tbl.Rows[idx]},
	}

	return &StudentReport{
		Worksheet:  worksheet,
		Student:    student,
		Preview:    preview,
		Comparison: rows,
	}, nil
}

// Refresh 清空全部缓存（工作表列表 + 所有已加载工作表）
func (s *Service) Refresh() {
	s.cache.InvalidateAll()
}
