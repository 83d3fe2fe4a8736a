package catalog

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"raymarket-backend/internal/auth"
	"raymarket-backend/internal/database"
	"raymarket-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type ImportRow struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
}

type ImportResponse struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

// parseCatalog reads an xlsx with columns name | description | price |
// stock. The header row is detected by its first cell and skipped. Bad
// rows are reported and skipped, they never abort the import.
func parseCatalog(r io.Reader) ([]ImportRow, []string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("not a valid xlsx file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	var (
		parsed  []ImportRow
		rowErrs []string
	)
	for i, row := range rows {
		if i == 0 && len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "name") {
			continue
		}
		if len(row) == 0 {
			continue
		}

		rowNum := i + 1 // 1-based, as shown in spreadsheet apps

		name := strings.TrimSpace(cell(row, 0))
		if name == "" {
			rowErrs = append(rowErrs, fmt.Sprintf("row %d: name is empty", rowNum))
			continue
		}

		price, err := decimal.NewFromString(strings.TrimSpace(cell(row, 2)))
		if err != nil || price.IsNegative() {
			rowErrs = append(rowErrs, fmt.Sprintf("row %d: price %q is not a valid amount", rowNum, cell(row, 2)))
			continue
		}

		stock := 0
		if s := strings.TrimSpace(cell(row, 3)); s != "" {
			stock, err = strconv.Atoi(s)
			if err != nil || stock < 0 {
				rowErrs = append(rowErrs, fmt.Sprintf("row %d: stock %q is not a valid count", rowNum, s))
				continue
			}
		}

		parsed = append(parsed, ImportRow{
			Name:        name,
			Description: strings.TrimSpace(cell(row, 1)),
			Price:       price,
			Stock:       stock,
		})
	}

	return parsed, rowErrs, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// POST /api/merchant/products/import (multipart, field "file")
func ImportProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		shopID, err := auth.ShopID(c)
		if err != nil {
			return err
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "file is required")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "failed to open uploaded file")
		}
		defer file.Close()

		rows, rowErrs, err := parseCatalog(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		imported := 0
		for _, row := range rows {
			p := models.Product{
				ShopID:      shopID,
				Name:        row.Name,
				Description: row.Description,
				Price:       row.Price,
				Stock:       row.Stock,
				Available:   true,
			}
			if err := database.DB.Create(&p).Error; err != nil {
				rowErrs = append(rowErrs, fmt.Sprintf("%s: insert failed", row.Name))
				continue
			}
			imported++
		}

		if rowErrs == nil {
			rowErrs = []string{}
		}
		return c.JSON(ImportResponse{
			Imported: imported,
			Skipped:  len(rowErrs),
			Errors:   rowErrs,
		})
	}
}
