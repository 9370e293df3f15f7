package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/triorate/triorate-backend/internal/app/service"
	"github.com/triorate/triorate-backend/internal/errors"
	"github.com/triorate/triorate-backend/internal/middleware"
)

// ExportController serves the admin review dump.
type ExportController struct {
	exportService *service.ExportService
}

func NewExportController(exportService *service.ExportService) *ExportController {
	return &ExportController{
		exportService: exportService,
	}
}

// ExportReviews streams an XLSX workbook of every review (admin)
// GET /api/v1/admin/reviews/export
func (ctrl *ExportController) ExportReviews(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	f, err := ctrl.exportService.BuildReviewWorkbook()
	if err != nil {
		log.Error("Failed to build review export", err, nil)
		errors.InternalError(c, "")
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("reviews-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Status(http.StatusOK)

	if err := f.Write(c.Writer); err != nil {
		log.Error("Failed to stream review export", err, nil)
	}
}
