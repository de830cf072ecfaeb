package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/focuslock/internal/ledger"
)

type jsonExport struct {
	ExportedAt string        `json:"exported_at"`
	Count      int           `json:"count"`
	Sessions   []jsonSession `json:"sessions"`
}

type jsonSession struct {
	ID               string   `json:"id"`
	StartTime        string   `json:"start_time"`
	EndTime          string   `json:"end_time"`
	DurationSec      int64    `json:"duration_seconds"`
	Duration         string   `json:"duration"`
	AppsBlocked      int      `json:"apps_blocked"`
	BlockedAppIDs    []string `json:"blocked_app_ids"`
	BlockedAppNames  []string `json:"blocked_app_names"`
	UnresolvedAppIDs []string `json:"unresolved_app_ids,omitempty"`
}

func ToJSON(details []ledger.SessionDetail, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(details),
	}

	for _, d := range details {
		export.Sessions = append(export.Sessions, jsonSession{
			ID:               d.ID,
			StartTime:        d.StartTime.Local().Format(time.RFC3339),
			EndTime:          d.EndTime.Local().Format(time.RFC3339),
			DurationSec:      seconds(d.Duration),
			Duration:         formatDuration(seconds(d.Duration)),
			AppsBlocked:      d.AppsBlocked,
			BlockedAppIDs:    d.BlockedAppIDs,
			BlockedAppNames:  d.BlockedAppNames,
			UnresolvedAppIDs: d.UnresolvedAppIDs,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
