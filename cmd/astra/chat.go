package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	astra "github.com/shimonpozd/astra-web-client-sub000"
	bt "github.com/shimonpozd/astra-web-client-sub000/bubbletea"
	astrahttp "github.com/shimonpozd/astra-web-client-sub000/http"
	astrajson "github.com/shimonpozd/astra-web-client-sub000/json"
	astraws "github.com/shimonpozd/astra-web-client-sub000/websocket"
	"github.com/shimonpozd/astra-web-client-sub000/wire"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var endpoints = map[string]astra.Endpoint{
	"chat":   astra.EndpointChat,
	"blocks": astra.EndpointBlocks,
	"study":  astra.EndpointStudy,
}

type chatFlags struct {
	endpoint  string
	session   string
	agent     string
	context   string
	panel     string
	transport string
	out       string
	tui       bool
}

func newChatCmd(a *app) *cobra.Command {
	var f chatFlags
	cmd := &cobra.Command{
		Use:   "chat TEXT",
		Short: "Stream an answer to a question",
		Long: `Send TEXT to the server and render the streamed answer.

The interactive viewer is used when stdout is a terminal; pass --tui=false
for plain output. --out saves the reconstructed document as JSON and only
applies to plain output.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := f.request(strings.Join(args, " "))
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("tui") {
				f.tui = isTerminal(a.stdout)
			}
			return a.chat(cmd, req, f)
		},
	}
	cmd.Flags().StringVar(&f.endpoint, "endpoint", "chat", "Endpoint: chat, blocks, study")
	cmd.Flags().StringVar(&f.session, "session", "", "Session ID (required for study)")
	cmd.Flags().StringVar(&f.agent, "agent", "", "Agent ID")
	cmd.Flags().StringVar(&f.context, "context", "", "Chat context: focus, workbench-left, workbench-right")
	cmd.Flags().StringVar(&f.panel, "panel", "", "Selected panel ID (study only)")
	cmd.Flags().StringVar(&f.transport, "transport", "", "Transport: http, websocket (overrides config)")
	cmd.Flags().StringVar(&f.out, "out", "", "Save the reconstructed document to this path")
	cmd.Flags().BoolVar(&f.tui, "tui", false, "Use the interactive viewer (default: when stdout is a terminal)")
	return cmd
}

func (f chatFlags) request(text string) (astra.Request, error) {
	ep, ok := endpoints[f.endpoint]
	if !ok {
		return astra.Request{}, fmt.Errorf("unknown endpoint %q", f.endpoint)
	}
	req := astra.Request{
		Endpoint:        ep,
		Text:            text,
		SessionID:       f.session,
		AgentID:         f.agent,
		Context:         f.context,
		SelectedPanelID: f.panel,
	}
	return req, req.Validate()
}

func (a *app) chat(cmd *cobra.Command, req astra.Request, f chatFlags) error {
	transport, err := a.transport(f.transport)
	if err != nil {
		return err
	}
	loop := astra.NewLoop(wire.New(transport,
		wire.WithLogger(a.log),
		wire.WithReadSize(a.cfg.ReadSize),
	))

	if f.tui {
		base := req
		base.Text = ""
		m := bt.New(bt.LoopRunner(loop), base, astra.DefaultTheme()).WithPrompt(req.Text)
		if err := bt.Run(cmd.Context(), m); err != nil {
			return fmt.Errorf("TUI: %w", err)
		}
		return nil
	}

	var b astra.Builder
	err = loop.Run(cmd.Context(), req, astra.Handler{
		OnChunk: func(text string) { fmt.Fprint(a.stdout, text) },
		OnError: func(err error) {
			var remote *astra.RemoteError
			if errors.As(err, &remote) {
				fmt.Fprintf(a.stderr, "astra: %v\n", remote)
			}
		},
	}, astra.WithEventHandler(b.Apply))
	if err != nil {
		return err
	}

	doc := b.Document()
	if b.Text() != "" {
		fmt.Fprintln(a.stdout)
	}
	if out := bt.Render(doc, "", 0, bt.PlainStyles()); out != "" {
		fmt.Fprintln(a.stdout, out)
	}
	if f.out != "" {
		if err := astrajson.Save(f.out, doc); err != nil {
			return fmt.Errorf("save document: %w", err)
		}
		a.log.Info("document saved", zap.String("path", f.out))
	}
	return nil
}

// transport builds the configured transport. name overrides the config.
func (a *app) transport(name string) (astra.Transport, error) {
	if name == "" {
		name = a.cfg.Transport
	}
	switch name {
	case "http":
		opts := []astrahttp.Option{
			astrahttp.WithBaseURL(a.cfg.BaseURL),
			astrahttp.WithToken(a.cfg.Token),
			astrahttp.WithRetry(a.cfg.MaxRetries, a.cfg.RetryBackoff),
			astrahttp.WithLogger(a.log),
		}
		if a.cfg.RateLimitRPM > 0 {
			opts = append(opts, astrahttp.WithRateLimit(a.cfg.RateLimitRPM))
		}
		return astrahttp.New(opts...), nil
	case "websocket":
		return astraws.New(
			astraws.WithBaseURL(a.cfg.WSURL),
			astraws.WithToken(a.cfg.Token),
			astraws.WithLogger(a.log),
		), nil
	default:
		return nil, fmt.Errorf("unknown transport %q", name)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
