// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sink

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/thetrajectory/applicant-processor/internal/models"
)

// WorkbookWriter collects candidate rows into a local XLSX file. Used on dry
// runs so a full pipeline pass can be reviewed without touching the shared
// sheet or the database.
type WorkbookWriter struct {
	path      string
	sheetName string
	file      *excelize.File
	nextRow   int
}

// NewWorkbookWriter creates a fresh workbook with the standard header row.
func NewWorkbookWriter(path, sheetName string) (*WorkbookWriter, error) {
	f := excelize.NewFile()
	defaultSheet := f.GetSheetName(0)
	if defaultSheet != sheetName {
		if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
			return nil, fmt.Errorf("rename workbook sheet: %w", err)
		}
	}

	for i, col := range models.SheetColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell name: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, col); err != nil {
			return nil, fmt.Errorf("write workbook header: %w", err)
		}
	}

	return &WorkbookWriter{path: path, sheetName: sheetName, file: f, nextRow: 2}, nil
}

// Append adds one record as the next row. The context parameter keeps the
// writer interchangeable with the sheet sink; nothing here blocks.
func (w *WorkbookWriter) Append(_ context.Context, rec *models.CandidateRecord) error {
	for i, v := range rec.SheetRow() {
		cell, err := excelize.CoordinatesToCellName(i+1, w.nextRow)
		if err != nil {
			return fmt.Errorf("workbook cell name: %w", err)
		}
		if err := w.file.SetCellValue(w.sheetName, cell, v); err != nil {
			return fmt.Errorf("write workbook row: %w", err)
		}
	}
	w.nextRow++
	return nil
}

// Close writes the workbook to disk.
func (w *WorkbookWriter) Close() error {
	if err := w.file.SaveAs(w.path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	slog.Info("dry-run workbook written", "path", w.path, "rows", w.nextRow-2)
	return w.file.Close()
}
