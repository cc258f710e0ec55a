package model

import "testing"

func TestDefaultAppConfigMatchesDefaultSettings(t *testing.T) {
	cfg := DefaultAppConfig()
	defaults := DefaultSettings()

	if cfg.DefaultWidth != defaults.Width {
		t.Errorf("Width mismatch: config=%d settings=%d", cfg.DefaultWidth, defaults.Width)
	}
	if cfg.DefaultHeight != defaults.Height {
		t.Errorf("Height mismatch: config=%d settings=%d", cfg.DefaultHeight, defaults.Height)
	}
	if cfg.DefaultStrategy != defaults.Strategy {
		t.Errorf("Strategy mismatch: config=%s settings=%s", cfg.DefaultStrategy, defaults.Strategy)
	}
	if cfg.Outputs.Metadata != "atlas.json" {
		t.Errorf("expected default metadata output atlas.json, got %s", cfg.Outputs.Metadata)
	}
	if cfg.RecentProjects == nil {
		t.Error("RecentProjects should not be nil")
	}
}

func TestApplyToSettings(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.DefaultWidth = 2048
	cfg.DefaultStrategy = StrategyGuillotine
	cfg.DefaultOrder = OrderArea

	s := DefaultSettings()
	cfg.ApplyToSettings(&s)

	if s.Width != 2048 {
		t.Errorf("expected Width=2048, got %d", s.Width)
	}
	if s.Height != 1024 {
		t.Errorf("expected Height unchanged at 1024, got %d", s.Height)
	}
	if s.Strategy != StrategyGuillotine {
		t.Errorf("expected Strategy=guillotine, got %s", s.Strategy)
	}
	if s.Order != OrderArea {
		t.Errorf("expected Order=area, got %s", s.Order)
	}
}

func TestApplyToSettingsZeroConfigKeepsSettings(t *testing.T) {
	s := DefaultSettings()
	AppConfig{}.ApplyToSettings(&s)
	if s != DefaultSettings() {
		t.Errorf("zero config should not change settings, got %+v", s)
	}
}
