package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Freeeeeet/timetable_builder/internal/layout"
	"github.com/Freeeeeet/timetable_builder/internal/model"
	"github.com/xuri/excelize/v2"
)

// SheetName лист с недельной сеткой
const SheetName = "Week"

// WeekSheet XLSX с той же сеткой: строка 1 дни, колонка A часы,
// каждая лекция занимает объединённые ячейки своих часовых строк.
func WeekSheet(snap model.Snapshot, w layout.Window) ([]byte, error) {
	if w.Rows() <= 0 {
		return nil, fmt.Errorf("empty grid window %d-%d", w.StartHour, w.EndHour)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DCEFC9"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "#8C8C8C", Style: 1},
			{Type: "right", Color: "#8C8C8C", Style: 1},
			{Type: "top", Color: "#8C8C8C", Style: 1},
			{Type: "bottom", Color: "#8C8C8C", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	if err := f.SetColWidth(SheetName, "B", "F", 24); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}

	for _, day := range model.Weekdays {
		if err := setCell(f, int(day)+2, 1, day.Label()); err != nil {
			return nil, err
		}
	}
	for i, h := range w.HourLabels() {
		if err := setCell(f, 1, i+2, model.FormatMinute(h*60)); err != nil {
			return nil, err
		}
	}

	// ячейки, уже занятые лекцией: второй блок в ту же ячейку дописывается текстом
	occupied := make(map[string]string)
	for _, p := range layout.ProjectAll(snap.Lectures, w) {
		col := p.Cell.DayColumn + 2
		top, err := excelize.CoordinatesToCellName(col, p.Cell.StartRow+2)
		if err != nil {
			return nil, err
		}
		bottom, err := excelize.CoordinatesToCellName(col, p.Cell.EndRow+2)
		if err != nil {
			return nil, err
		}

		text := cellText(p)
		if prev, ok := occupied[top]; ok {
			text = strings.TrimPrefix(prev+"\n"+text, "\n")
			bottom = top
		} else if bottom != top && !rangeFree(occupied, col, p.Cell.StartRow+2, p.Cell.EndRow+2) {
			bottom = top
		}
		occupied[top] = text

		if err := f.SetCellValue(SheetName, top, text); err != nil {
			return nil, fmt.Errorf("set cell %s: %w", top, err)
		}
		if bottom != top {
			if err := f.MergeCell(SheetName, top, bottom); err != nil {
				return nil, fmt.Errorf("merge %s:%s: %w", top, bottom, err)
			}
			markRange(occupied, col, p.Cell.StartRow+3, p.Cell.EndRow+2)
		}
		if err := f.SetCellStyle(SheetName, top, bottom, style); err != nil {
			return nil, fmt.Errorf("style %s:%s: %w", top, bottom, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func setCell(f *excelize.File, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(SheetName, cell, value); err != nil {
		return fmt.Errorf("set cell %s: %w", cell, err)
	}
	return nil
}

func cellText(p layout.Placement) string {
	parts := []string{p.Lecture.Title, model.FormatMinute(p.Slot.StartMinute) + "-" + model.FormatMinute(p.Slot.EndMinute)}
	if p.Slot.Place != "" {
		parts = append(parts, p.Slot.Place)
	}
	return strings.Join(parts, "\n")
}

func rangeFree(occupied map[string]string, col, from, to int) bool {
	for row := from; row <= to; row++ {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		if _, ok := occupied[cell]; ok {
			return false
		}
	}
	return true
}

func markRange(occupied map[string]string, col, from, to int) {
	for row := from; row <= to; row++ {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		occupied[cell] = ""
	}
}
