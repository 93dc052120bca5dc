package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	captcha9kw "github.com/anatolykoptev/go-captcha9kw"
	"github.com/anatolykoptev/go-captcha9kw/internal/cliconfig"
)

const longHelp = `Command-line client for the 9kw.eu captcha solving service.

Configuration is read from $HOME/.captcha9kw/config.toml, then CAPTCHA9KW_*
environment variables, then flags. Results are printed as JSON on stdout.`

var exampleUsage = strings.TrimSpace(`
  captcha9kw balance --api-key <key>
  captcha9kw submit-image captcha.png --wait
  captcha9kw submit-interactive --sitekey 6Lc... --page-url https://example.com --type recaptchav2 --wait
  captcha9kw solved --filter notok --page 2
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return captcha9kw.Version
}

// app carries state shared by all subcommands.
type app struct {
	cfg     cliconfig.Config
	cfgPath string
	log     zerolog.Logger
	client  *captcha9kw.Client
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		cliconfig.Logger(false).Error().Err(err).Msg("captcha9kw")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: cliconfig.DefaultConfig()}

	root := &cobra.Command{
		Use:               "captcha9kw",
		Short:             "Command-line client for the 9kw.eu captcha service",
		Long:              longHelp,
		Example:           exampleUsage,
		Version:           fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgPath, "config", "", "path to config file (default: $HOME/.captcha9kw/config.toml)")
	pf.StringVar(&a.cfg.APIKey, "api-key", a.cfg.APIKey, "9kw.eu API key")
	pf.StringVar(&a.cfg.Source, "source", a.cfg.Source, "software name reported to the service")
	pf.StringVar(&a.cfg.Proxy, "proxy", a.cfg.Proxy, "proxy URL (implies --stealth)")
	pf.BoolVar(&a.cfg.Stealth, "stealth", a.cfg.Stealth, "use a browser-fingerprinted HTTP client")
	pf.BoolVar(&a.cfg.Debug, "debug", a.cfg.Debug, "log HTTP traffic and debug messages")
	pf.DurationVar(&a.cfg.ConnectTimeout, "connect-timeout", a.cfg.ConnectTimeout, "connect timeout")
	pf.DurationVar(&a.cfg.ReadTimeout, "read-timeout", a.cfg.ReadTimeout, "read timeout")
	pf.DurationVar(&a.cfg.PollTimeout, "poll-timeout", a.cfg.PollTimeout, "maximum time to wait for an answer (0 = unbounded)")
	pf.DurationVar(&a.cfg.PollInterval, "poll-interval", a.cfg.PollInterval, "wait between answer queries")
	pf.StringVar(&a.cfg.BaseURL, "base-url", a.cfg.BaseURL, "API endpoint override")
	pf.StringVar(&a.cfg.StatusURL, "status-url", a.cfg.StatusURL, "status endpoint override")
	for _, hidden := range []string{"base-url", "status-url"} {
		_ = pf.MarkHidden(hidden)
	}

	root.AddCommand(
		a.balanceCmd(),
		a.settingsCmd(),
		a.setCmd(),
		a.referralsCmd(),
		a.statusCmd(),
		a.submitImageCmd(),
		a.submitInteractiveCmd(),
		a.answerCmd(),
		a.solvedCmd(),
		a.submittedCmd(),
		a.failedCmd(),
		a.detailCmd(),
		a.feedbackCmd(),
		a.transferCmd(),
		a.couponCmd(),
		a.createAccountCmd(),
	)
	return root
}

// setup resolves configuration (file, env, flags) and builds the client.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	cfgFile := a.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}
	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&a.cfg, fc, changed); err != nil {
			return err
		}
	}
	if err := cliconfig.ApplyEnvConfig(&a.cfg, changed); err != nil {
		return err
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	a.log = cliconfig.Logger(a.cfg.Debug)
	slog.SetDefault(slog.New(cliconfig.SlogHandler(a.log, a.cfg.Debug)))
	a.log.Debug().Interface("config", a.cfg.Masked()).Msg("configuration")

	client, err := captcha9kw.NewClient(a.cfg.ClientConfig())
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	a.client = client
	return nil
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
