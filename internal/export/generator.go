package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/fitbite/server/internal/mealplans"
	"github.com/jung-kurt/gofpdf"
)

// Format identifies an export output format.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// Generator renders a meal plan as a downloadable document.
type Generator struct{}

// NewGenerator creates a new export generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders the plan in the requested format and returns the
// bytes plus a content type.
func (g *Generator) Generate(plan mealplans.MealPlanDetailResponse, format Format) ([]byte, string, error) {
	switch format {
	case FormatCSV:
		data, err := g.generateCSV(plan)
		return data, "text/csv", err
	case FormatPDF:
		data, err := g.generatePDF(plan)
		return data, "application/pdf", err
	default:
		return nil, "", fmt.Errorf("unsupported format: %s", format)
	}
}

func (g *Generator) generateCSV(plan mealplans.MealPlanDetailResponse) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"meal_type", "food", "quantity_g", "calories", "protein_g", "carbs_g", "fat_g"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, meal := range plan.Meals {
		for _, food := range meal.Foods {
			row := []string{
				meal.MealType,
				food.Name,
				formatGrams(food.QuantityG),
				formatMacro(food.Calories),
				formatMacro(food.ProteinG),
				formatMacro(food.CarbsG),
				formatMacro(food.FatG),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}

	// Trailing totals row.
	totals := []string{
		"total", "",
		"",
		formatMacro(plan.Totals.Calories),
		formatMacro(plan.Totals.ProteinG),
		formatMacro(plan.Totals.CarbsG),
		formatMacro(plan.Totals.FatG),
	}
	if err := w.Write(totals); err != nil {
		return nil, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (g *Generator) generatePDF(plan mealplans.MealPlanDetailResponse) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, plan.Name)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Date: %s", plan.MealDate))
	pdf.Ln(10)

	for _, meal := range plan.Meals {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, titleCase(meal.MealType))
		pdf.Ln(7)

		if len(meal.Foods) == 0 {
			pdf.SetFont("Helvetica", "I", 10)
			pdf.Cell(0, 6, "No foods")
			pdf.Ln(8)
			continue
		}

		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(60, 6, "Food", "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, "Grams", "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, "Calories", "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, "Protein", "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, "Carbs", "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, "Fat", "1", 1, "C", false, 0, "")

		for _, food := range meal.Foods {
			pdf.CellFormat(60, 6, food.Name, "1", 0, "L", false, 0, "")
			pdf.CellFormat(25, 6, formatGrams(food.QuantityG), "1", 0, "C", false, 0, "")
			pdf.CellFormat(25, 6, formatMacro(food.Calories), "1", 0, "C", false, 0, "")
			pdf.CellFormat(25, 6, formatMacro(food.ProteinG), "1", 0, "C", false, 0, "")
			pdf.CellFormat(25, 6, formatMacro(food.CarbsG), "1", 0, "C", false, 0, "")
			pdf.CellFormat(25, 6, formatMacro(food.FatG), "1", 1, "C", false, 0, "")
		}

		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(85, 6, "Slot total", "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, formatMacro(meal.Totals.Calories), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, formatMacro(meal.Totals.ProteinG), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, formatMacro(meal.Totals.CarbsG), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, formatMacro(meal.Totals.FatG), "1", 1, "C", false, 0, "")
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Day total: %s kcal / %sg protein / %sg carbs / %sg fat",
		formatMacro(plan.Totals.Calories),
		formatMacro(plan.Totals.ProteinG),
		formatMacro(plan.Totals.CarbsG),
		formatMacro(plan.Totals.FatG),
	))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return buf.Bytes(), nil
}

func formatGrams(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatMacro(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
