package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// Err folds the errors into one, nil when OK.
func (v Validation) Err() error {
	if v.OK() {
		return nil
	}
	return fmt.Errorf("config validation failed:\n- %s", strings.Join(v.Errors, "\n- "))
}

// NormalizeAndValidate fills defaults for zero values and reports problems.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	out.Target.BoardURL = strings.TrimSpace(out.Target.BoardURL)
	if out.Target.PageSize == 0 {
		out.Target.PageSize = 20
	}
	if out.Target.MaxJobs == 0 {
		out.Target.MaxJobs = 1000
	}
	if out.Target.Timeout == 0 {
		out.Target.Timeout = 30 * time.Second
	}
	if strings.TrimSpace(out.Target.Company) == "" {
		out.Target.Company = "Company"
	}
	if out.Session.UserAgent == "" {
		out.Session.UserAgent = "Mozilla/5.0"
	}
	if out.Session.AcceptLanguage == "" {
		out.Session.AcceptLanguage = "en-US"
	}
	if out.Output.Dir == "" {
		out.Output.Dir = "output"
	}
	if out.Output.FilePrefix == "" {
		out.Output.FilePrefix = strings.ReplaceAll(out.Target.Company, " ", "") + "_Jobs"
	}
	if out.Logs.Dir == "" {
		out.Logs.Dir = "logs"
	}
	if out.Logs.MaxSizeMB == 0 {
		out.Logs.MaxSizeMB = 10
	}
	out.Dedup.Source = strings.ToLower(strings.TrimSpace(out.Dedup.Source))
	if out.Dedup.Source == "" {
		out.Dedup.Source = DedupStore
	}

	// ---- Validation rules ----

	if out.Target.BoardURL == "" {
		res.addErr("target.board_url is required")
	} else if u, err := url.Parse(out.Target.BoardURL); err != nil || u.Host == "" {
		res.addErr("target.board_url %q is not an absolute URL", out.Target.BoardURL)
	}

	if out.Target.PageSize < 0 || out.Target.PageSize > 100 {
		res.addErr("target.page_size must be 1..100")
	}
	if out.Target.MaxJobs < 0 {
		res.addErr("target.max_jobs must be > 0")
	} else if out.Target.MaxJobs < out.Target.PageSize {
		res.addWarn("target.max_jobs (%d) is below page_size (%d); only one page will be fetched", out.Target.MaxJobs, out.Target.PageSize)
	}
	if out.Target.RequestDelay < 0 {
		res.addErr("target.request_delay must be >= 0")
	} else if out.Target.RequestDelay < 200*time.Millisecond {
		res.addWarn("target.request_delay is very low (%s) and may get the session blocked", out.Target.RequestDelay)
	}

	if !out.Output.SaveExcel && !out.Output.SaveCSV && !out.Output.SaveJSON {
		res.addErr("output: at least one of save_excel, save_csv, save_json must be enabled")
	}

	switch out.Dedup.Source {
	case DedupStore:
	case DedupOutput:
		if !out.Output.SaveJSON {
			res.addErr("dedup.source=output needs output.save_json=true")
		}
	default:
		res.addErr("dedup.source must be %q or %q, got %q", DedupStore, DedupOutput, out.Dedup.Source)
	}

	if out.Dedup.RetentionDays < 0 {
		res.addErr("dedup.retention_days must be >= 0")
	}

	if len(out.Session.Cookies) == 0 && out.Session.CookieEnv == "" && !out.Session.UseKeyring {
		res.addWarn("no session cookies configured; the API will likely reject requests")
	}

	if out.Timezone != "" {
		if _, err := time.LoadLocation(out.Timezone); err != nil {
			res.addWarn("timezone %q is unknown, using UTC", out.Timezone)
		}
	}

	return out, res
}
