package store

import (
	"fmt"
	"strconv"
	"time"
)

const (
	SettingReportDays  = "report_days"
	SettingRecentLimit = "recent_limit"
	// SettingFocusGoal is in whole minutes; 0 disables the goal.
	SettingFocusGoal = "focus_goal"
)

// settingDefaults are seeded on first open.
var settingDefaults = []Setting{
	{Key: SettingReportDays, Value: "7"},
	{Key: SettingRecentLimit, Value: "10"},
	{Key: SettingFocusGoal, Value: "0"},
}

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	if err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value); err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

// GetIntSetting returns the integer value of key, or fallback if it is
// missing or not a number.
func (s *Store) GetIntSetting(key string, fallback int) int {
	v, err := s.GetSetting(key)
	if err != nil {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

// FocusGoal is the configured focus goal; zero or negative means none.
func (s *Store) FocusGoal() time.Duration {
	return time.Duration(max(0, s.GetIntSetting(SettingFocusGoal, 0))) * time.Minute
}

// SetFocusGoal stores d rounded down to whole minutes.
func (s *Store) SetFocusGoal(d time.Duration) error {
	return s.SetSetting(SettingFocusGoal, strconv.Itoa(int(max(0, d)/time.Minute)))
}

// GetAllSettings lists every setting ordered by key.
func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var out []Setting
	for rows.Next() {
		var st Setting
		if err := rows.Scan(&st.Key, &st.Value); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
