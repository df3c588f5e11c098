package api

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"scoreview/internal/score"
)

// ExportRequest 导出请求
type ExportRequest struct {
	Worksheet string `json:"worksheet" binding:"required"`
	Student   string `json:"student" binding:"required"`
}

// Export 把某学生的对比表导出为 xlsx，返回一次性下载地址
// POST /api/export
func (h *Handler) Export(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "요청 파라미터가 올바르지 않습니다."})
		return
	}

	r, err := h.svc.Student(c.Request.Context(), req.Worksheet, req.Student)
	if err != nil {
		h.renderPipelineError(c, err)
		return
	}

	f, err := buildComparisonWorkbook(req.Student, r.Comparison)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "내보내기 파일 생성에 실패했습니다: " + err.Error()})
		return
	}
	defer f.Close()

	tempPath := filepath.Join(os.TempDir(),
		fmt.Sprintf("scoreview_export_%d_%d.xlsx", time.Now().UnixNano(), os.Getpid()))
	if err := f.SaveAs(tempPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "내보내기 파일 저장에 실패했습니다: " + err.Error()})
		_ = os.Remove(tempPath)
		return
	}

	token := h.downloads.put(tempPath, req.Worksheet, req.Student, 10*time.Minute)
	c.JSON(http.StatusOK, gin.H{
		"downloadUrl": "/api/export/download/" + token,
	})
}

// buildComparisonWorkbook 生成对比表工作簿：单元 / 全班平均 / 学生得分
// 缺失值写为空单元格
func buildComparisonWorkbook(student string, rows []score.ComparisonRow) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Sheet1"

	header := []any{"단원", "전체 평균", student}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, r := range rows {
		row := []any{r.Column, nil, nil}
		if r.ClassAverage.Valid {
			row[1] = r.ClassAverage.F
		}
		if r.StudentScore.Valid {
			row[2] = r.StudentScore.F
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// DownloadExport 下载导出的 xlsx（一次性）
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token이 없습니다."})
		return
	}

	item, ok := h.downloads.get(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "다운로드 링크가 만료되었습니다."})
		return
	}

	if _, err := os.Stat(item.filePath); err != nil {
		h.downloads.delete(token)
		c.JSON(http.StatusNotFound, gin.H{"error": "내보내기 파일이 존재하지 않습니다."})
		return
	}

	c.Header("Content-Disposition", buildExportContentDisposition(item.worksheet, item.student))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.File(item.filePath)

	h.downloads.delete(token)
	_ = os.Remove(item.filePath)
}

// buildExportContentDisposition ASCII 回退名 + RFC 5987 编码的原始文件名
func buildExportContentDisposition(worksheet, student string) string {
	display := fmt.Sprintf("%s-%s.xlsx", worksheet, student)
	return fmt.Sprintf(
		"attachment; filename=\"comparison.xlsx\"; filename*=UTF-8''%s",
		url.PathEscape(display),
	)
}
