package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/mailbridge/pkg/mailer"
)

// sendFlags maps command line flags onto mailer.SendParams.
type sendFlags struct {
	headers map[string]string
	params  map[string]string

	template    string
	from        string
	lang        string
	contextFile string
	prefix      string
	suffix      string
	dir         string
	ext         string
	layout      string
	ipPool      string
	sendAt      string

	to  []string
	cc  []string
	bcc []string

	failSilently bool
	dryRun       bool
	async        bool
}

func (f *sendFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.template, "template", "t", "", "template name without directory or extension")
	fs.StringVarP(&f.from, "from", "f", "", `sender, e.g. "Jane Doe jane@example.com"`)
	fs.StringSliceVar(&f.to, "to", nil, "recipient address (repeatable)")
	fs.StringSliceVar(&f.cc, "cc", nil, "carbon copy address (repeatable)")
	fs.StringSliceVar(&f.bcc, "bcc", nil, "blind carbon copy address (repeatable)")
	fs.StringVarP(&f.contextFile, "context", "c", "", `YAML or JSON file with template data, "-" for stdin`)
	fs.StringToStringVar(&f.headers, "header", nil, "custom header as Name=value")
	fs.StringToStringVar(&f.params, "param", nil, "extra message param as key=value, value parsed as YAML")
	fs.StringVar(&f.lang, "lang", "", "language of the fallback subject")
	fs.StringVar(&f.prefix, "template-prefix", "", "template directory, overrides --template-dir")
	fs.StringVar(&f.suffix, "template-suffix", "", "template extension, overrides --file-extension")
	fs.StringVar(&f.dir, "template-dir", "", "template directory")
	fs.StringVar(&f.ext, "file-extension", "", "template extension without the dot")
	fs.StringVar(&f.layout, "layout", "", "layout wrapping markdown templates")
	fs.BoolVar(&f.failSilently, "fail-silently", false, "log provider errors instead of failing")
	fs.BoolVar(&f.dryRun, "dry-run", false, "build the message but do not send it")
	fs.BoolVar(&f.async, "async", false, "ask the provider to queue the message")
	fs.StringVar(&f.ipPool, "ip-pool", "", "dedicated IP pool")
	fs.StringVar(&f.sendAt, "send-at", "", "schedule delivery at an RFC 3339 time")
}

func (f *sendFlags) sendParams(stdin io.Reader) (mailer.SendParams, error) {
	data, err := readContext(f.contextFile, stdin)
	if err != nil {
		return mailer.SendParams{}, err
	}

	extra, err := parseParams(f.params)
	if err != nil {
		return mailer.SendParams{}, err
	}

	opts := mailer.SendOptions{IPPool: f.ipPool, Async: f.async}
	if f.sendAt != "" {
		if opts.SendAt, err = time.Parse(time.RFC3339, f.sendAt); err != nil {
			return mailer.SendParams{}, fmt.Errorf("invalid --send-at: %w", err)
		}
	}

	return mailer.SendParams{
		Context:        data,
		Headers:        f.headers,
		ExtraParams:    extra,
		Template:       f.template,
		From:           f.from,
		Language:       f.lang,
		TemplatePrefix: f.prefix,
		TemplateSuffix: f.suffix,
		TemplateDir:    f.dir,
		FileExtension:  f.ext,
		Layout:         f.layout,
		To:             f.to,
		CC:             f.cc,
		BCC:            f.bcc,
		Options:        opts,
		FailSilently:   f.failSilently,
		DryRun:         f.dryRun,
	}, nil
}

func newSendCmd(load appLoader) *cobra.Command {
	var flags sendFlags

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Render a template and send it",
		Example: `  mailbridge send -t welcome -f "Team team@example.com" --to user@example.com -c data.yaml
  mailbridge send -t invoice --to a@example.com --param track_clicks=false --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params, err := flags.sendParams(cmd.InOrStdin())
			if err != nil {
				return err
			}

			a, err := load(cmd)
			if err != nil {
				return err
			}

			results, err := a.Mailer.Send(cmd.Context(), params)
			if err != nil {
				return err
			}
			if results == nil {
				results = []mailer.Result{}
			}
			return writeJSON(cmd.OutOrStdout(), results)
		},
	}

	flags.register(cmd.Flags())
	_ = cmd.MarkFlagRequired("template")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newRenderCmd(load appLoader) *cobra.Command {
	var flags sendFlags

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the message that send would deliver",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params, err := flags.sendParams(cmd.InOrStdin())
			if err != nil {
				return err
			}

			a, err := load(cmd)
			if err != nil {
				return err
			}

			msg, err := a.Mailer.Build(cmd.Context(), params)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), msg)
		},
	}

	flags.register(cmd.Flags())
	_ = cmd.MarkFlagRequired("template")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

// readContext decodes template data from a YAML or JSON file.
func readContext(name string, stdin io.Reader) (map[string]any, error) {
	if name == "" {
		return nil, nil
	}

	var (
		raw []byte
		err error
	)
	if name == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read context: %w", err)
	}

	data := map[string]any{}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse context: %w", err)
	}
	return data, nil
}

// parseParams decodes each value as a YAML scalar so booleans and numbers
// reach the provider typed.
func parseParams(params map[string]string) (map[string]any, error) {
	if len(params) == 0 {
		return nil, nil
	}

	out := make(map[string]any, len(params))
	for key, raw := range params {
		if raw == "" {
			out[key] = ""
			continue
		}
		var v any
		if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("invalid --param %s: %w", key, err)
		}
		out[key] = v
	}
	return out, nil
}
