package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureUserConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.yml")

	created, err := EnsureUserConfig(path)
	require.NoError(t, err)
	assert.True(t, created)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://guardianlife.wd5.myworkdayjobs.com/Guardian-Life-Careers", cfg.Target.BoardURL)
	assert.Equal(t, 20, cfg.Target.PageSize)
	assert.Equal(t, time.Second, cfg.Target.RequestDelay)
	assert.True(t, cfg.Output.SaveExcel)

	require.NoError(t, os.WriteFile(path, []byte("target:\n  board_url: https://x.wd1.myworkdayjobs.com/site\n"), 0o644))
	created, err = EnsureUserConfig(path)
	require.NoError(t, err)
	assert.False(t, created, "existing config is left alone")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://x.wd1.myworkdayjobs.com/site", cfg.Target.BoardURL)
}

func TestLoadPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("target:\n  board_url: https://acme.wd1.myworkdayjobs.com/Careers\noutput:\n  save_excel: false\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://acme.wd1.myworkdayjobs.com/Careers", cfg.Target.BoardURL)
	assert.False(t, cfg.Output.SaveExcel, "explicit false wins over the default")
	assert.True(t, cfg.Output.SaveCSV)
	assert.True(t, cfg.Output.SaveJSON)
	assert.True(t, cfg.Target.FetchDetails)
	assert.Equal(t, time.Second, cfg.Target.RequestDelay)
	assert.Equal(t, 180, cfg.Dedup.RetentionDays)

	_, res := NormalizeAndValidate(cfg)
	assert.True(t, res.OK(), res.Errors)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("target: [oops"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DedupStore, cfg.Dedup.Source)
	assert.Equal(t, "GuardianLife_Jobs", cfg.Output.FilePrefix)
	assert.Equal(t, "Asia/Kolkata", cfg.Location().String())
	assert.Equal(t, filepath.Join("logs", "run_history.json"), cfg.HistoryPath())
	assert.Equal(t, filepath.Join("output", "seen.db"), cfg.StorePath())
}

func TestNormalizeAndValidate(t *testing.T) {
	t.Run("defaults filled", func(t *testing.T) {
		var cfg Config
		cfg.Target.BoardURL = " https://acme.wd5.myworkdayjobs.com/en-US/Careers "
		cfg.Target.Company = "Acme Corp"
		cfg.Output.SaveCSV = true

		out, res := NormalizeAndValidate(cfg)
		require.True(t, res.OK(), res.Errors)
		require.NoError(t, res.Err())
		assert.Equal(t, "https://acme.wd5.myworkdayjobs.com/en-US/Careers", out.Target.BoardURL)
		assert.Equal(t, 20, out.Target.PageSize)
		assert.Equal(t, 1000, out.Target.MaxJobs)
		assert.Equal(t, 30*time.Second, out.Target.Timeout)
		assert.Equal(t, "AcmeCorp_Jobs", out.Output.FilePrefix)
		assert.Equal(t, "output", out.Output.Dir)
		assert.Equal(t, "logs", out.Logs.Dir)
		assert.Equal(t, DedupStore, out.Dedup.Source)
		assert.NotEmpty(t, res.Warnings, "no cookies and zero delay are warned about")
	})

	t.Run("errors", func(t *testing.T) {
		var cfg Config
		cfg.Target.PageSize = 500
		cfg.Dedup.Source = "redis"
		cfg.Dedup.RetentionDays = -1

		_, res := NormalizeAndValidate(cfg)
		assert.False(t, res.OK())
		assert.Contains(t, res.Errors, "target.board_url is required")
		assert.Contains(t, res.Errors, "target.page_size must be 1..100")
		assert.Contains(t, res.Errors, "output: at least one of save_excel, save_csv, save_json must be enabled")
		assert.Contains(t, res.Errors, `dedup.source must be "store" or "output", got "redis"`)
		assert.Contains(t, res.Errors, "dedup.retention_days must be >= 0")
		assert.Error(t, res.Err())
	})

	t.Run("output dedup needs json", func(t *testing.T) {
		var cfg Config
		cfg.Target.BoardURL = "https://acme.wd5.myworkdayjobs.com/Careers"
		cfg.Output.SaveCSV = true
		cfg.Dedup.Source = "Output"

		out, res := NormalizeAndValidate(cfg)
		assert.Equal(t, DedupOutput, out.Dedup.Source)
		assert.Contains(t, res.Errors, "dedup.source=output needs output.save_json=true")
	})
}
