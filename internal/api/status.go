package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	SpreadsheetID   string   `json:"spreadsheetId"`   // 绑定的表格 ID
	IdentityColumns []string `json:"identityColumns"` // 身份列
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{
		SpreadsheetID:   h.spreadsheetID,
		IdentityColumns: h.svc.IdentityColumns(),
	})
}
