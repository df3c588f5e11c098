package api

import (
	"github.com/gin-gonic/gin"

	"scoreview/internal/report"
)

// Handler 看板 API 处理器
type Handler struct {
	svc           *report.Service
	spreadsheetID string
	downloads     *exportDownloadStore
}

// NewHandler 创建 API 处理器
func NewHandler(svc *report.Service, spreadsheetID string) *Handler {
	return &Handler{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		downloads:     newExportDownloadStore(),
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 工作表与学生报表
	router.GET("/worksheets", h.ListWorksheets)
	router.GET("/worksheets/:name", h.GetDashboard)
	router.GET("/worksheets/:name/students/:student", h.GetStudent)

	// 手动刷新（整体清空缓存）
	router.POST("/refresh", h.Refresh)

	// 对比表导出
	router.POST("/export", h.Export)
	router.GET("/export/download/:token", h.DownloadExport)
}
