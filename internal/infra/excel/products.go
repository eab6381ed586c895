package excel

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"cookieshop/internal/domain/model"
	"cookieshop/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
)

const sheetName = "Products"

var headers = []string{
	"ID", "Name", "Description", "Price", "Weight", "QuantityInStock", "Image", "CategoryIDs",
}

// 商品一覧をxlsxで書き出す
func WriteProducts(w io.Writer, products []model.Product) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(sheetName)
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range headers {
		headerRow.AddCell().SetValue(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetInt64(p.ID)
		row.AddCell().SetString(p.Name)
		row.AddCell().SetString(p.Description)
		row.AddCell().SetString(p.Price.StringFixed(2))
		row.AddCell().SetString(p.Weight.StringFixed(2))
		row.AddCell().SetInt64(p.Stock)
		row.AddCell().SetString(p.Image)

		ids := make([]string, 0, len(p.CategoryIDs))
		for _, id := range p.CategoryIDs {
			ids = append(ids, strconv.FormatInt(id, 10))
		}
		row.AddCell().SetString(strings.Join(ids, ","))
	}

	return file.Write(w)
}

// 1行目はヘッダ。ID列は読み飛ばす（常に新規作成）
func ReadProducts(r io.ReaderAt, size int64) ([]usecase.ProductInput, error) {
	xlFile, err := xlsx.OpenReaderAt(r, size)
	if err != nil {
		return nil, fmt.Errorf("parse xlsx: %w", err)
	}
	if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
		return nil, fmt.Errorf("excel file is empty or missing header row")
	}

	sheet := xlFile.Sheets[0]
	out := make([]usecase.ProductInput, 0, sheet.MaxRow-1)
	for i := 1; i < sheet.MaxRow && i < len(sheet.Rows); i++ {
		row := sheet.Rows[i]
		get := func(index int) string {
			if row != nil && index < len(row.Cells) {
				return strings.TrimSpace(row.Cells[index].String())
			}
			return ""
		}

		//空行はスキップ
		if get(1) == "" && get(3) == "" {
			continue
		}

		price, err := decimal.NewFromString(get(3))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid price %q", i+1, get(3))
		}
		weight := decimal.Zero
		if s := get(4); s != "" {
			if weight, err = decimal.NewFromString(s); err != nil {
				return nil, fmt.Errorf("row %d: invalid weight %q", i+1, s)
			}
		}
		var stock int64
		if s := get(5); s != "" {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid quantity %q", i+1, s)
			}
			stock = int64(f)
		}
		ids, err := parseIDs(get(7))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		out = append(out, usecase.ProductInput{
			Name:        get(1),
			Description: get(2),
			Price:       price,
			Weight:      weight,
			Stock:       stock,
			Image:       get(6),
			CategoryIDs: ids,
		})
	}
	return out, nil
}

func parseIDs(s string) ([]int64, error) {
	ids := []int64{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid category id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
