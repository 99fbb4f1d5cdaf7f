package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/ratiolens/ratiolens-api/internal/chart"
	"github.com/ratiolens/ratiolens-api/internal/models"
	"github.com/ratiolens/ratiolens-api/internal/services"
	"github.com/ratiolens/ratiolens-api/internal/utils"
)

// TableParser reads an uploaded file into a raw table.
type TableParser interface {
	ParseFile(file io.Reader, filename string) (*models.Table, error)
}

// TableNormalizer turns a raw table into canonical account records.
type TableNormalizer interface {
	Normalize(table *models.Table) ([]models.AccountRecord, error)
}

// RatioEngine derives the ratio set and breakdown from account records.
type RatioEngine interface {
	Compute(records []models.AccountRecord) (models.RatioResult, []models.BreakdownRow)
	Chart() *chart.Chart
}

// ReportWriter renders an analysis as an XLSX workbook.
type ReportWriter interface {
	WriteReport(title string, ratios models.RatioResult, breakdown []models.BreakdownRow, records []models.AccountRecord) (*bytes.Buffer, error)
}

// UploadValidator screens an upload before it reaches the parser.
type UploadValidator interface {
	ValidateFilename(filename string) error
	ValidateFileSize(size int64) error
	DetectContentSignature(data []byte) (string, error)
}

// AnalysisResponse is the display-ready output for one trial balance.
type AnalysisResponse struct {
	Source    string                 `json:"source"`
	RowCount  int                    `json:"row_count"`
	Ratios    models.RatioResult     `json:"ratios"`
	Breakdown []models.BreakdownRow  `json:"breakdown"`
	Records   []models.AccountRecord `json:"records"`
}

// AnalyzeHandler serves trial balance analysis requests.
type AnalyzeHandler struct {
	parser     TableParser
	normalizer TableNormalizer
	engine     RatioEngine
	report     ReportWriter
	validator  UploadValidator
}

// NewAnalyzeHandler creates an analyze handler.
func NewAnalyzeHandler(parser TableParser, normalizer TableNormalizer, engine RatioEngine, report ReportWriter, validator UploadValidator) *AnalyzeHandler {
	return &AnalyzeHandler{
		parser:     parser,
		normalizer: normalizer,
		engine:     engine,
		report:     report,
		validator:  validator,
	}
}

// Analyze handles POST /v1/analyze. Multipart field "file" carries a
// CSV/XLSX trial balance export; `?format=xlsx` returns the workbook
// report instead of JSON.
func (h *AnalyzeHandler) Analyze(c fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.NewBadRequestError("multipart field 'file' is required", nil)
	}
	if err := h.validator.ValidateFilename(fileHeader.Filename); err != nil {
		return utils.NewBadRequestError("invalid filename", err.Error())
	}
	if err := h.validator.ValidateFileSize(fileHeader.Size); err != nil {
		return utils.NewBadRequestError(err.Error(), nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return utils.NewBadRequestError("failed to open uploaded file", err.Error())
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return utils.NewBadRequestError("failed to read uploaded file", err.Error())
	}
	if _, err := h.validator.DetectContentSignature(data); err != nil {
		return utils.NewBadRequestError("unrecognized file content", err.Error())
	}

	resp, err := h.analyze(bytes.NewReader(data), fileHeader.Filename)
	if err != nil {
		return err
	}

	if strings.EqualFold(c.Query("format"), "xlsx") {
		return h.sendReport(c, fileHeader.Filename, resp)
	}
	return c.JSON(resp)
}

// Demo handles GET /v1/demo using the built-in Sage 50 dataset.
func (h *AnalyzeHandler) Demo(c fiber.Ctx) error {
	records := services.DemoTrialBalance()
	ratios, breakdown := h.engine.Compute(records)

	return c.JSON(AnalysisResponse{
		Source:    services.DemoCompanyName,
		RowCount:  len(records),
		Ratios:    ratios,
		Breakdown: breakdown,
		Records:   records,
	})
}

// DemoReport handles GET /v1/demo/report, returning the demo analysis
// as an XLSX download.
func (h *AnalyzeHandler) DemoReport(c fiber.Ctx) error {
	records := services.DemoTrialBalance()
	ratios, breakdown := h.engine.Compute(records)

	return h.sendReport(c, "demo", &AnalysisResponse{
		Source:    services.DemoCompanyName,
		Ratios:    ratios,
		Breakdown: breakdown,
		Records:   records,
	})
}

// Chart handles GET /v1/chart, exposing the active category map.
func (h *AnalyzeHandler) Chart(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"chart": h.engine.Chart(),
	})
}

// analyze runs the parse → normalize → compute pipeline.
func (h *AnalyzeHandler) analyze(file io.Reader, filename string) (*AnalysisResponse, error) {
	table, err := h.parser.ParseFile(file, filename)
	if err != nil {
		return nil, utils.NewBadRequestError("failed to parse file", err.Error())
	}

	records, err := h.normalizer.Normalize(table)
	if err != nil {
		var schemaErr *services.SchemaError
		if errors.As(err, &schemaErr) {
			return nil, utils.NewSchemaError(schemaErr.Reason)
		}
		return nil, utils.NewInternalError(err)
	}

	ratios, breakdown := h.engine.Compute(records)
	return &AnalysisResponse{
		Source:    filename,
		RowCount:  len(records),
		Ratios:    ratios,
		Breakdown: breakdown,
		Records:   records,
	}, nil
}

func (h *AnalyzeHandler) sendReport(c fiber.Ctx, name string, resp *AnalysisResponse) error {
	buf, err := h.report.WriteReport(resp.Source, resp.Ratios, resp.Breakdown, resp.Records)
	if err != nil {
		return utils.NewInternalError(err)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s-ratios.xlsx"`, sanitizeName(name)))
	return c.Send(buf.Bytes())
}

func sanitizeName(name string) string {
	name = strings.TrimSuffix(name, ".xlsx")
	name = strings.TrimSuffix(name, ".csv")
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)
}
