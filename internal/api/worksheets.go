package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"scoreview/internal/report"
	"scoreview/internal/score"
)

// ListWorksheets 工作表标题列表
// GET /api/worksheets
// 空列表是合法响应，由前端给出"没有工作表"的警告
func (h *Handler) ListWorksheets(c *gin.Context) {
	names, err := h.svc.Worksheets(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "워크시트 목록을 가져오는 데 실패했습니다: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"worksheets": names})
}

// GetDashboard 某工作表的看板数据：预览表、成绩列、学生列表、全班平均
// GET /api/worksheets/:name
func (h *Handler) GetDashboard(c *gin.Context) {
	d, err := h.svc.Dashboard(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.renderPipelineError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// GetStudent 某学生的预览行与对比表
// GET /api/worksheets/:name/students/:student
func (h *Handler) GetStudent(c *gin.Context) {
	r, err := h.svc.Student(c.Request.Context(), c.Param("name"), c.Param("student"))
	if err != nil {
		h.renderPipelineError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// renderPipelineError 把流水线错误映射为用户可见响应
// 数据为空 → 404 提示信息；缺少身份列 → 422 附原始表格；其余 → 502
func (h *Handler) renderPipelineError(c *gin.Context, err error) {
	var schemaErr *report.SchemaError
	switch {
	case errors.Is(err, report.ErrNoData):
		c.JSON(http.StatusNotFound, gin.H{"error": "선택된 시트에서 데이터를 찾을 수 없습니다. 시트 내용을 확인해주세요."})
	case errors.As(err, &schemaErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   schemaErr.Error() + ". 구글 시트의 열 구조를 확인해주세요.",
			"missing": schemaErr.Missing,
			"table":   schemaErr.Raw,
		})
	case errors.Is(err, score.ErrStudentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "해당 학생을 찾을 수 없습니다."})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "시트에서 데이터를 불러오는 데 실패했습니다: " + err.Error()})
	}
}

// Refresh 手动刷新：整体清空缓存
// POST /api/refresh
func (h *Handler) Refresh(c *gin.Context) {
	h.svc.Refresh()
	c.JSON(http.StatusOK, gin.H{"refreshed": true})
}
