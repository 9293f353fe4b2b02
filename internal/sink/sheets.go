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

// Package sink persists finished candidate records: a Google Sheet for the
// recruiting team, Postgres for queries, and a local workbook for dry runs.
package sink

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/thetrajectory/applicant-processor/internal/models"
)

// SheetWriter appends candidate rows to one tab of a Google Sheet.
type SheetWriter struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	sheetName     string
}

// NewSheetWriter creates the writer and makes sure the header row exists.
func NewSheetWriter(ctx context.Context, client *http.Client, spreadsheetID, sheetName string) (*SheetWriter, error) {
	svc, err := sheetsapi.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	w := &SheetWriter{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}
	if err := w.ensureHeader(ctx); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *SheetWriter) ensureHeader(ctx context.Context) error {
	resp, err := w.svc.Spreadsheets.Values.
		Get(w.spreadsheetID, w.sheetName+"!1:1").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read sheet header: %w", err)
	}
	if len(resp.Values) > 0 {
		return nil
	}

	header := make([]interface{}, len(models.SheetColumns))
	for i, c := range models.SheetColumns {
		header[i] = c
	}
	_, err = w.svc.Spreadsheets.Values.
		Update(w.spreadsheetID, w.sheetName+"!A1", &sheetsapi.ValueRange{Values: [][]interface{}{header}}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write sheet header: %w", err)
	}
	slog.Info("sheet header created", "sheet", w.sheetName)
	return nil
}

// Append writes one record as a new row at the bottom of the sheet.
func (w *SheetWriter) Append(ctx context.Context, rec *models.CandidateRecord) error {
	_, err := w.svc.Spreadsheets.Values.
		Append(w.spreadsheetID, w.sheetName+"!A1", &sheetsapi.ValueRange{Values: [][]interface{}{rec.SheetRow()}}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append sheet row for %s: %w", rec.MessageID, err)
	}
	return nil
}
