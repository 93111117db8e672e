// SPDX-FileCopyrightText: The go-mimesmtp Authors
//
// SPDX-License-Identifier: MIT

// Command mimesend composes a MIME message from its flags and submits it to
// the SMTP server named in the configuration.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	mail "github.com/mimesmtp/go-mimesmtp"
	"github.com/mimesmtp/go-mimesmtp/config"
	"github.com/mimesmtp/go-mimesmtp/log"
)

// listFlag collects a flag that may be given more than once. Each value may
// hold a comma separated list.
type listFlag []string

func (l *listFlag) String() string {
	return strings.Join(*l, ",")
}

func (l *listFlag) Set(value string) error {
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			*l = append(*l, v)
		}
	}
	return nil
}

type options struct {
	configPath string
	from       string
	fromName   string
	replyTo    string
	to         listFlag
	cc         listFlag
	subject    string
	text       string
	html       string
	attach     listFlag
	embed      listFlag
}

func main() {
	zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr}).With().Caller().Logger()

	var opts options
	flag.StringVar(&opts.configPath, "config", "", "path to a YAML configuration file")
	flag.StringVar(&opts.from, "from", "", "sender address")
	flag.StringVar(&opts.fromName, "from-name", "", "sender display name")
	flag.StringVar(&opts.replyTo, "reply-to", "", "reply-to address")
	flag.Var(&opts.to, "to", "recipient address, may be repeated")
	flag.Var(&opts.cc, "cc", "carbon copy address, may be repeated")
	flag.StringVar(&opts.subject, "subject", "", "message subject")
	flag.StringVar(&opts.text, "text", "", "plain text body")
	flag.StringVar(&opts.html, "html", "", "HTML body, replaces -text")
	flag.Var(&opts.attach, "attach", "file to attach, may be repeated")
	flag.Var(&opts.embed, "embed", "file to embed inline, may be repeated")
	level := flag.String("level", "info", `log level of the command: "debug", "info" or "warn"`)
	flag.Parse()

	switch *level {
	case "debug":
		zlog.Logger = zlog.Logger.Level(zerolog.DebugLevel)
	case "warn":
		zlog.Logger = zlog.Logger.Level(zerolog.WarnLevel)
	default:
		zlog.Logger = zlog.Logger.Level(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts); err != nil {
		zlog.Error().Err(err).Msg("failed to send message")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	zlog.Debug().Str("server", cfg.Server.Host).Str("connection", cfg.Server.Connection).
		Msg("configuration loaded")

	var logger log.Logger
	if cfg.Logging.Format == "zerolog" {
		logLevel, err := log.ParseLevel(cfg.Logging.Level)
		if err != nil {
			return err
		}
		logger = log.WrapZerolog(zlog.Logger, logLevel)
	} else if logger, err = cfg.Logger(os.Stderr); err != nil {
		return err
	}

	msg, err := buildMessage(opts)
	if err != nil {
		return err
	}
	client, err := cfg.NewClient(logger)
	if err != nil {
		return err
	}
	if err = client.ConnectAndSend(ctx, msg); err != nil {
		return err
	}
	zlog.Info().Str("server", client.ServerAddr()).Int("recipients", len(msg.Recipients())).
		Msg("message sent")
	return nil
}

func buildMessage(opts options) (*mail.Msg, error) {
	msg := mail.NewMsg()
	msg.SetSender(mail.NewAddress(opts.from, opts.fromName))
	if opts.replyTo != "" {
		msg.SetReplyTo(mail.NewAddress(opts.replyTo, ""))
	}
	for _, to := range opts.to {
		msg.AddTo(mail.NewAddress(to, ""))
	}
	for _, cc := range opts.cc {
		msg.AddCc(mail.NewAddress(cc, ""))
	}
	msg.SetSubject(opts.subject)
	msg.SetText(opts.text)
	if opts.html != "" {
		msg.SetHTML(opts.html)
	}

	for _, path := range opts.attach {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read attachment: %w", err)
		}
		msg.AttachFile(content, filepath.Base(path))
	}
	for _, path := range opts.embed {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read inline file: %w", err)
		}
		msg.EmbedFile(content, filepath.Base(path))
	}
	return msg, msg.Validate()
}
