package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadYAML(t *testing.T, doc string) (*Config, error) {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(doc)))
	return Load(v)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "Documentation", cfg.Project)
	assert.Equal(t, "index", cfg.RootDoc)
	assert.Equal(t, "_build", cfg.OutputDir)
	assert.Equal(t, "vivliostyle", cfg.Builder)
	assert.Equal(t, DefaultThemeName, cfg.Vivliostyle.Theme)
	assert.Equal(t, map[string][]string{"**": {"localtoc.html"}}, cfg.Vivliostyle.Sidebars)
	assert.Equal(t, time.Duration(0), cfg.Vivliostyle.Timeout)
	assert.Equal(t, 0, cfg.Vivliostyle.Retries)
	assert.Equal(t, "vivliostyle", cfg.Vivliostyle.Command)
	assert.False(t, cfg.Vivliostyle.Debug)
	assert.Equal(t, "Documentation.pdf", cfg.FileName())
}

func TestLoad_FromYAML(t *testing.T) {
	cfg, err := loadYAML(t, `
project: Handbook
author: Jane Doe
features:
  appendix: true
vivliostyle:
  timeout: 90
  retries: 2
  flags: ["--press-ready"]
  file_name: handbook-print.pdf
  vars:
    page_size: A5
`)
	require.NoError(t, err)

	assert.Equal(t, "Handbook", cfg.Project)
	assert.Equal(t, "Jane Doe", cfg.Author)
	assert.Equal(t, 90*time.Second, cfg.Vivliostyle.Timeout)
	assert.Equal(t, 2, cfg.Vivliostyle.Retries)
	assert.Equal(t, []string{"--press-ready"}, cfg.Vivliostyle.Flags)
	assert.Equal(t, "handbook-print.pdf", cfg.FileName())
	assert.True(t, cfg.FeatureEnabled("appendix"))
	assert.True(t, cfg.FeatureEnabled("Appendix"))
	assert.False(t, cfg.FeatureEnabled("glossary"))
}

func TestLoad_DurationString(t *testing.T) {
	cfg, err := loadYAML(t, "vivliostyle:\n  timeout: 2m30s\n")
	require.NoError(t, err)
	assert.Equal(t, 150*time.Second, cfg.Vivliostyle.Timeout)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "negative retries", doc: "vivliostyle:\n  retries: -1\n"},
		{name: "negative timeout", doc: "vivliostyle:\n  timeout: -5\n"},
		{name: "empty root doc", doc: "root_doc: \"  \"\n"},
		{name: "retries not a number", doc: "vivliostyle:\n  retries: many\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := loadYAML(t, tt.doc)
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestSnapshot_IsIndependentCopy(t *testing.T) {
	cfg, err := loadYAML(t, `
vivliostyle:
  debug: true
  theme_options:
    cover: true
  context:
    edition: second
`)
	require.NoError(t, err)

	s := cfg.Snapshot("html")
	assert.Equal(t, "html", s.Builder)
	assert.Equal(t, true, s.Context["debug"])
	assert.Equal(t, "second", s.Context["edition"])
	assert.False(t, s.Permalinks)

	s.Context["edition"] = "third"
	s.Sidebars["**"][0] = "other.html"
	assert.Equal(t, "second", cfg.Vivliostyle.Context["edition"])
	assert.Equal(t, "localtoc.html", cfg.Vivliostyle.Sidebars["**"][0])
	_, leaked := cfg.Vivliostyle.Context["debug"]
	assert.False(t, leaked)

	assert.Equal(t, true, s.ThemeOption("cover", false))
	assert.Equal(t, "A4", s.Var("page_size", "A4"))
}
