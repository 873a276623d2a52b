package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/umputun/go-flags"
	"gopkg.in/natefinch/lumberjack.v2"

	"careers-scraper/internal/config"
	"careers-scraper/internal/httpapi"
	"careers-scraper/internal/poll"
	"careers-scraper/internal/scheduler"
	"careers-scraper/internal/scrape/session"
	"careers-scraper/internal/scrape/types"
	"careers-scraper/internal/secrets"
)

const (
	exitOK   = 0
	exitFail = 1
	exitAuth = 3
)

type options struct {
	Config string `short:"c" long:"config" env:"SCRAPER_CONFIG" default:"config.yml" description:"config file, created with defaults if missing"`
	Cron   string `long:"cron" env:"SCRAPER_CRON" description:"stay running and scrape on this cron schedule, e.g. \"30 2 * * 1,3,5\""`
	CronTZ string `long:"cron-tz" env:"SCRAPER_CRON_TZ" default:"UTC" description:"time zone of the cron schedule"`
	Listen string `long:"listen" env:"SCRAPER_LISTEN" description:"with --cron, serve /health, /status, /runs and POST /run on this address"`

	BoardURL  string `long:"board-url" env:"SCRAPER_BOARD_URL" description:"override target.board_url"`
	OutputDir string `long:"output" env:"SCRAPER_OUTPUT_DIR" description:"override output.dir"`

	SetCookies    string `long:"set-cookies" description:"store a Cookie header in the OS keychain and exit, \"-\" reads stdin"`
	DeleteCookies bool   `long:"delete-cookies" description:"remove the stored Cookie header and exit"`

	NoLogFile bool `long:"no-log-file" env:"SCRAPER_NO_LOG_FILE" description:"log to stdout only"`
	Dbg       bool `long:"dbg" env:"SCRAPER_DEBUG" description:"debug mode"`
}

var revision = "unknown"

func main() {
	fmt.Printf("careers-scraper %s\n", revision)

	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		var fe *flags.Error
		if errors.As(err, &fe) && fe.Type == flags.ErrHelp {
			os.Exit(exitOK)
		}
		os.Exit(2)
	}
	setupLogs(os.Stdout, opts.Dbg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Printf("[WARN] interrupted")
		cancel()
	}()

	os.Exit(run(ctx, opts, os.Stdin))
}

func run(ctx context.Context, opts options, stdin io.Reader) int {
	cfg, err := loadConfig(opts)
	if err != nil {
		log.Printf("[ERROR] %v", err)
		return exitFail
	}

	if !opts.NoLogFile {
		lj := logFile(cfg)
		defer func() {
			setupLogs(os.Stdout, opts.Dbg)
			_ = lj.Close()
		}()
		setupLogs(io.MultiWriter(os.Stdout, lj), opts.Dbg)
	}

	account := secrets.KeyringAccount(cfg.Target.BoardURL)
	switch {
	case opts.SetCookies != "":
		return setCookies(account, opts.SetCookies, stdin)
	case opts.DeleteCookies:
		if err := secrets.DeleteCookieHeader(account); err != nil {
			log.Printf("[ERROR] delete cookies: %v", err)
			return exitFail
		}
		log.Printf("[INFO] cookies removed from keychain for %s", account)
		return exitOK
	}

	poller := poll.NewPoller(cfg, poll.Options{Source: cookieSource(cfg, account)})
	lockPath := filepath.Join(cfg.Logs.Dir, "scraper.lock")

	if opts.Cron != "" {
		loc, err := time.LoadLocation(opts.CronTZ)
		if err != nil {
			log.Printf("[ERROR] cron time zone %q: %v", opts.CronTZ, err)
			return exitFail
		}
		if opts.Listen != "" {
			handler := httpapi.NewHandler(httpapi.Deps{
				Status:      poller.Status,
				HistoryPath: cfg.HistoryPath(),
				Lock:        func() (func(), error) { return scheduler.TryLock(lockPath) },
				Run:         poller.Run,
			})
			go func() {
				if err := httpapi.Serve(ctx, opts.Listen, handler); err != nil {
					log.Printf("[ERROR] status server: %v", err)
				}
			}()
		}
		if err := scheduler.Cron(ctx, opts.Cron, "scraper", lockPath, loc, poller.Run); err != nil {
			log.Printf("[ERROR] %v", err)
			return exitFail
		}
		return exitOK
	}

	return exitCode(scheduler.RunLocked(ctx, lockPath, "scraper", poller.Run), opts.Dbg)
}

func loadConfig(opts options) (config.Config, error) {
	created, err := config.EnsureUserConfig(opts.Config)
	if err != nil {
		return config.Config{}, fmt.Errorf("config bootstrap failed: %w", err)
	}
	if created {
		log.Printf("[INFO] wrote default config to %s", opts.Config)
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return config.Config{}, fmt.Errorf("config load failed (%s): %w", opts.Config, err)
	}
	if opts.BoardURL != "" {
		cfg.Target.BoardURL = opts.BoardURL
	}
	if opts.OutputDir != "" {
		cfg.Output.Dir = opts.OutputDir
	}

	cfg, res := config.NormalizeAndValidate(cfg)
	for _, w := range res.Warnings {
		log.Printf("[WARN] config: %s", w)
	}
	if err := res.Err(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// cookieSource tries the config map, then the env var, then the keychain.
func cookieSource(cfg config.Config, account string) session.Source {
	chain := session.Chain{session.Static(cfg.Session.Cookies)}
	if cfg.Session.CookieEnv != "" {
		chain = append(chain, session.Env{Var: cfg.Session.CookieEnv})
	}
	if cfg.Session.UseKeyring {
		chain = append(chain, session.Keyring{Account: account})
	}
	return chain
}

func setCookies(account, value string, stdin io.Reader) int {
	if value == "-" {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			log.Printf("[ERROR] read cookies from stdin: %v", err)
			return exitFail
		}
		value = strings.TrimSpace(line)
	}
	if _, err := session.ParseCookieHeader(value); err != nil {
		log.Printf("[ERROR] bad cookie header: %v", err)
		return exitFail
	}
	if err := secrets.SetCookieHeader(account, value); err != nil {
		log.Printf("[ERROR] store cookies: %v", err)
		return exitFail
	}
	log.Printf("[INFO] cookies stored in keychain for %s", account)
	return exitOK
}

// exitCode maps a run error to the process status CI sees.
func exitCode(err error, dbg bool) int {
	if err == nil {
		return exitOK
	}
	if errors.Is(err, scheduler.ErrLocked) {
		return exitFail
	}

	var stack []byte
	code := exitFail
	var authErr *types.AuthenticationError
	var netErr *types.NetworkError
	switch {
	case errors.As(err, &authErr):
		log.Printf("[ERROR] session rejected by %s, copy fresh cookies from the browser", authErr.URL)
		stack, code = authErr.StackTrace(), exitAuth
	case errors.As(err, &netErr):
		stack = netErr.StackTrace()
	}
	if dbg && len(stack) > 0 {
		log.Printf("[DEBUG] stack:\n%s", stack)
	}
	return code
}

func logFile(cfg config.Config) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Logs.Dir, "scraper.log"),
		MaxSize:    cfg.Logs.MaxSizeMB,
		MaxBackups: cfg.Logs.MaxBackups,
		Compress:   false,
	}
}

func setupLogs(out io.Writer, dbg bool) {
	if dbg {
		log.Setup(log.Out(out), log.Err(out), log.Debug, log.Msec, log.CallerFunc, log.CallerPkg, log.CallerFile)
		return
	}
	log.Setup(log.Out(out), log.Err(out), log.Msec)
}
