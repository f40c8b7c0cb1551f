package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"leadlink/internal/db"
	"leadlink/internal/models"

	"github.com/xuri/excelize/v2"
)

// exportColumns is the fixed column order for both formats.
var exportColumns = []string{
	"Full Name", "LinkedIn URL", "Headline", "Company", "Job Title",
	"Location", "Industry", "Interaction Type", "Liked", "Commented",
	"Comment Count", "Enriched",
}

// ExportService renders a post's current lead set as a downloadable table.
// It reads at call time; an empty lead set yields a header-only table.
type ExportService struct{}

var exportService *ExportService

func GetExport() *ExportService {
	if exportService == nil {
		exportService = &ExportService{}
	}
	return exportService
}

func (s *ExportService) leads(postID uint) ([]models.Lead, error) {
	if _, err := GetExtractor().GetPost(postID); err != nil {
		return nil, err
	}
	var leads []models.Lead
	if err := db.DB.Where("post_id = ?", postID).Order("id ASC").Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

func exportRow(lead *models.Lead) []string {
	return []string{
		lead.FullName,
		lead.ProfileURL,
		lead.Headline,
		lead.Company,
		lead.JobTitle,
		lead.Location,
		lead.Industry,
		lead.InteractionType,
		strconv.FormatBool(lead.Liked),
		strconv.FormatBool(lead.Commented),
		strconv.Itoa(lead.CommentCount),
		strconv.FormatBool(lead.Enriched),
	}
}

// CSV renders the post's leads as CSV. The csv writer handles quoting of
// delimiters and embedded newlines.
func (s *ExportService) CSV(postID uint) ([]byte, string, error) {
	leads, err := s.leads(postID)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportColumns); err != nil {
		return nil, "", err
	}
	for i := range leads {
		if err := w.Write(exportRow(&leads[i])); err != nil {
			return nil, "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), fmt.Sprintf("leads_post_%d.csv", postID), nil
}

// Excel renders the post's leads as a real XLSX workbook with a single
// "Leads" sheet.
func (s *ExportService) Excel(postID uint) ([]byte, string, error) {
	leads, err := s.leads(postID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Leads"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, "", err
	}

	for col, h := range exportColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, "", err
		}
	}

	for i := range leads {
		row := exportRow(&leads[i])
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, "", err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, "", err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("leads_post_%d.xlsx", postID), nil
}
