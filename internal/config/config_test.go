package config

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.LLM.Model != "Qwen/Qwen2.5-7B-Instruct" {
		t.Errorf("default model = %q", cfg.LLM.Model)
	}
	if cfg.Reminders.PollSeconds != 60 {
		t.Errorf("default poll interval = %d", cfg.Reminders.PollSeconds)
	}
	if !cfg.Notifications.Enabled {
		t.Error("notifications should default to enabled")
	}
	if cfg.Calendar.ExportPath != "mawid.ics" {
		t.Errorf("default export path = %q", cfg.Calendar.ExportPath)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("MAWID_LLM_MODEL", "other/model")
	t.Setenv("MAWID_EXPORT_PATH", "/tmp/out.ics")

	cfg := DefaultConfig()
	applyEnvOverrides(&cfg)

	if cfg.LLM.Model != "other/model" {
		t.Errorf("model override not applied: %q", cfg.LLM.Model)
	}
	if cfg.Calendar.ExportPath != "/tmp/out.ics" {
		t.Errorf("export path override not applied: %q", cfg.Calendar.ExportPath)
	}
}
