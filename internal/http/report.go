package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/loadsight/pallet-analysis/internal/domain/model"
	"github.com/loadsight/pallet-analysis/internal/i18n"
	"github.com/loadsight/pallet-analysis/internal/service"
)

const (
	reportSheetSummary = "Summary"
	reportSheetGrid    = "Weight Grid"
	reportSheetBoxes   = "Boxes"
)

// ExportReport handles GET /api/loads/:id/report requests.
//
// @Summary      Export a load analysis report
// @Description  Exports the active pallet's current metrics as an Excel workbook with a summary sheet, the weight distribution grid and the box list.
// @Tags         Loads
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id path string true "Load session ID"
// @Success      200 {file} binary "XLSX report"
// @Failure      404 {object} dto.ErrorResponse "Load session not found or expired"
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /api/loads/{id}/report [get]
func (h *Handler) ExportReport(c *gin.Context) {
	builder := NewResponseBuilder(c)

	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		builder.Error(http.StatusNotFound, i18n.ErrKeyLoadNotFound, err)
		return
	}

	f, err := buildReportWorkbook(sess)
	if err != nil {
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
		return
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("closing report workbook")
		}
	}()

	filename := fmt.Sprintf("load-%d-pallet-%d.xlsx", sess.Order().ID, sess.PalletIndex())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if _, err := f.WriteTo(c.Writer); err != nil {
		log.Error().Err(err).Str("session_id", sess.ID).Msg("writing report workbook")
	}
}

// buildReportWorkbook renders the session's latest snapshot into a
// three-sheet workbook.
func buildReportWorkbook(sess *service.Session) (*excelize.File, error) {
	snapshot := sess.Snapshot()
	order := sess.Order()
	pallet := &order.Pallets[sess.PalletIndex()]

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", reportSheetSummary); err != nil {
		return nil, err
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	if err := writeSummarySheet(f, boldStyle, order, pallet, sess, snapshot); err != nil {
		return nil, err
	}
	if err := writeGridSheet(f, boldStyle, snapshot.Grid); err != nil {
		return nil, err
	}
	if err := writeBoxesSheet(f, boldStyle, order, pallet); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeSummarySheet(f *excelize.File, boldStyle int, order *model.Order, pallet *model.Pallet, sess *service.Session, snapshot model.MetricsSnapshot) error {
	rows := [][]interface{}{
		{"Order", order.ID},
		{"Pallet", pallet.ID},
		{"Pallet size (mm)", fmt.Sprintf("%.0f x %.0f x %.0f", pallet.LengthMM, pallet.WidthMM, pallet.HeightMM)},
		{"Boxes placed", fmt.Sprintf("%d / %d", sess.Placed(), len(pallet.Boxes))},
		{"Stack height (cm)", snapshot.HeightCm},
		{},
		{"Stability index", snapshot.Stability.Value},
		{"Stability rating", string(snapshot.Stability.Rating)},
		{"Center-of-mass score", snapshot.Stability.CenterOfMassScore},
		{"Weight distribution score", snapshot.Stability.WeightDistributionScore},
		{},
		{"Total weight (kg)", snapshot.Grid.TotalWeightKg},
		{"Max cell weight (kg)", snapshot.Grid.MaxCellWeightKg},
		{"Grid occupancy (%)", snapshot.Grid.OccupancyPercent},
		{"Balanced", snapshot.Grid.Balanced},
		{},
		{"Volume efficiency (%)", snapshot.Volume.EfficiencyPercent},
		{"Occupied volume", snapshot.Volume.OccupiedVolume},
		{"Available volume", snapshot.Volume.AvailableVolume},
	}

	if snapshot.Centroid != nil {
		rows = append(rows,
			[]interface{}{},
			[]interface{}{"Centroid deviation (cm)", snapshot.Centroid.DeviationCm},
			[]interface{}{"Centroid rating", snapshot.Centroid.Rating},
		)
	}

	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(reportSheetSummary, cell, v); err != nil {
				return err
			}
		}
		if len(row) > 0 {
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			if err := f.SetCellStyle(reportSheetSummary, cell, cell, boldStyle); err != nil {
				return err
			}
		}
	}

	return f.SetColWidth(reportSheetSummary, "A", "A", 28)
}

func writeGridSheet(f *excelize.File, boldStyle int, grid model.WeightGridResult) error {
	if _, err := f.NewSheet(reportSheetGrid); err != nil {
		return err
	}

	// Column headers across the pallet length.
	for col := 0; col < grid.Cols; col++ {
		cell, err := excelize.CoordinatesToCellName(col+2, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(reportSheetGrid, cell, col); err != nil {
			return err
		}
		if err := f.SetCellStyle(reportSheetGrid, cell, cell, boldStyle); err != nil {
			return err
		}
	}

	for row := 0; row < grid.Rows; row++ {
		head, err := excelize.CoordinatesToCellName(1, row+2)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(reportSheetGrid, head, row); err != nil {
			return err
		}
		if err := f.SetCellStyle(reportSheetGrid, head, head, boldStyle); err != nil {
			return err
		}
		for col := 0; col < grid.Cols; col++ {
			cell, err := excelize.CoordinatesToCellName(col+2, row+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(reportSheetGrid, cell, grid.Cells[row][col]); err != nil {
				return err
			}
		}
	}

	return nil
}

func writeBoxesSheet(f *excelize.File, boldStyle int, order *model.Order, pallet *model.Pallet) error {
	if _, err := f.NewSheet(reportSheetBoxes); err != nil {
		return err
	}

	headers := []string{"Sequence", "Item type", "Color", "Weight (kg)", "X", "Y", "Z", "Width", "Height", "Depth"}
	for j, hdr := range headers {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(reportSheetBoxes, cell, hdr); err != nil {
			return err
		}
		if err := f.SetCellStyle(reportSheetBoxes, cell, cell, boldStyle); err != nil {
			return err
		}
	}

	for i, b := range pallet.Boxes {
		values := []interface{}{
			b.Sequence,
			b.ItemType,
			order.ColorFor(b.ItemType),
			b.WeightKg(),
			b.Position.X, b.Position.Y, b.Position.Z,
			b.Dimensions.X, b.Dimensions.Y, b.Dimensions.Z,
		}
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(reportSheetBoxes, cell, v); err != nil {
				return err
			}
		}
	}

	return nil
}
