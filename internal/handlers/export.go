package handlers

import (
	"fmt"
	"net/http"

	"leadlink/internal/apperr"
	"leadlink/internal/services"
	"leadlink/internal/utils"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	export *services.ExportService
}

func NewExportHandler(export *services.ExportService) *ExportHandler {
	return &ExportHandler{export: export}
}

// CSV streams the post's leads as a CSV download.
func (h *ExportHandler) CSV(c *gin.Context) {
	id, ok := utils.StringToUint(c.Param("id"))
	if !ok {
		AbortError(c, apperr.Validation("id", "invalid post id"))
		return
	}

	data, filename, err := h.export.CSV(id)
	if err != nil {
		AbortError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv", data)
}

// Excel streams the post's leads as an XLSX download.
func (h *ExportHandler) Excel(c *gin.Context) {
	id, ok := utils.StringToUint(c.Param("id"))
	if !ok {
		AbortError(c, apperr.Validation("id", "invalid post id"))
		return
	}

	data, filename, err := h.export.Excel(id)
	if err != nil {
		AbortError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
