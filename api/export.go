package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/snptech2/snp-fin-sub002/database"
	"github.com/snptech2/snp-fin-sub002/middleware"
	"github.com/snptech2/snp-fin-sub002/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler transaction export endpoints
type ExportHandler struct{}

func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// parseExportRange reads and validates the start_time/end_time query pair.
func parseExportRange(c *gin.Context) (start, end time.Time, ok bool) {
	startStr := c.Query("start_time")
	endStr := c.Query("end_time")
	if startStr == "" || endStr == "" {
		BadRequest(c, "start_time and end_time required")
		return
	}

	start, err := time.ParseInLocation("2006-01-02", startStr, time.Local)
	if err != nil {
		BadRequest(c, "invalid start_time, expected format: 2006-01-02")
		return
	}
	end, err = time.ParseInLocation("2006-01-02", endStr, time.Local)
	if err != nil {
		BadRequest(c, "invalid end_time, expected format: 2006-01-02")
		return
	}
	end = end.Add(24*time.Hour - time.Second)
	return start, end, true
}

func exportTransactions(userID uint, start, end time.Time) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := database.DB.Preload("Account").Preload("Category").
		Where("user_id = ? AND date >= ? AND date <= ?", userID, start, end).
		Order("date DESC").
		Find(&transactions).Error
	return transactions, err
}

// ExportCSV exports the transactions of a date range as a CSV file.
// @Summary Export transactions as CSV
// @Tags export
// @Produce text/csv
// @Security BearerAuth
// @Param start_time query string true "start date (2024-01-01)"
// @Param end_time query string true "end date (2024-12-31)"
// @Success 200 {file} file "CSV file"
// @Failure 400 {object} Response "invalid range"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	start, end, ok := parseExportRange(c)
	if !ok {
		return
	}

	transactions, err := exportTransactions(userID, start, end)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to load transactions"))
		return
	}

	buf := new(bytes.Buffer)
	// BOM so Excel detects UTF-8
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)

	headers := []string{"ID", "Date", "Type", "Amount", "Account", "Category", "Description"}
	if err := writer.Write(headers); err != nil {
		InternalError(c, "failed to generate CSV")
		return
	}

	for _, txn := range transactions {
		row := []string{
			fmt.Sprintf("%d", txn.ID),
			txn.Date.Format("2006-01-02"),
			txn.Type,
			fmt.Sprintf("%.2f", txn.Amount),
			txn.Account.Name,
			txn.Category.Name,
			txn.Description,
		}
		if err := writer.Write(row); err != nil {
			InternalError(c, "failed to generate CSV")
			return
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "failed to generate CSV")
		return
	}

	filename := fmt.Sprintf("transactions_%s_%s.csv", start.Format("2006-01-02"), end.Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))

	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportXLSX exports the transactions of a date range as a styled Excel
// workbook with a summary row.
// @Summary Export transactions as Excel
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param start_time query string true "start date (2024-01-01)"
// @Param end_time query string true "end date (2024-12-31)"
// @Success 200 {file} file "Excel file"
// @Failure 400 {object} Response "invalid range"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/export/xlsx [get]
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	start, end, ok := parseExportRange(c)
	if !ok {
		return
	}

	transactions, err := exportTransactions(userID, start, end)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to load transactions"))
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Transactions"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	f.SetColWidth(sheetName, "B", "B", 14)
	f.SetColWidth(sheetName, "E", "F", 18)
	f.SetColWidth(sheetName, "G", "G", 32)

	headers := []string{"ID", "Date", "Type", "Amount", "Account", "Category", "Description"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	var totalIncome, totalExpense float64
	for i, txn := range transactions {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), txn.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), txn.Date.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), txn.Type)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), txn.Amount)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), txn.Account.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), txn.Category.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), txn.Description)

		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("G%d", row), dataStyle)

		if txn.Type == models.TransactionTypeIncome {
			totalIncome += txn.Amount
		} else {
			totalExpense += txn.Amount
		}
	}

	summaryRow := len(transactions) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow), "Total")
	f.MergeCell(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("C%d", summaryRow))
	f.SetCellValue(sheetName, fmt.Sprintf("D%d", summaryRow), totalIncome-totalExpense)
	f.SetCellValue(sheetName, fmt.Sprintf("E%d", summaryRow),
		fmt.Sprintf("%d records, income %.2f, expense %.2f", len(transactions), totalIncome, totalExpense))
	f.MergeCell(sheetName, fmt.Sprintf("E%d", summaryRow), fmt.Sprintf("G%d", summaryRow))
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("G%d", summaryRow), summaryStyle)

	filename := fmt.Sprintf("transactions_%s_%s.xlsx", start.Format("2006-01-02"), end.Format("2006-01-02"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", filename))

	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to generate Excel file"})
		return
	}
}
