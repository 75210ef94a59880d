// inkchat runs document chat commands against a plain text file. The file
// plays the role of the editor buffer: the prompt is read from it, and the
// metadata block, encoded turns, and reply are written back into it.
//
// Two commands:
//
//	inkchat prompt <file>   submit only the captured prompt
//	inkchat chat <file>     submit the decoded conversation as history
//
// With --watch, inkchat keeps running and re-executes the command each time
// the file is saved with a new prompt in it.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/inkwell-dev/inkchat/inkchat/config"
	"github.com/inkwell-dev/inkchat/inkchat/document"
	"github.com/inkwell-dev/inkchat/inkchat/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var watch bool
	var logLevel string

	flagSet := pflag.NewFlagSet("inkchat", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to a config file (default: config.yaml in the working directory, then /etc/inkchat)")
	flagSet.BoolVar(&watch, "watch", false, "keep running and re-execute on file save")
	flagSet.StringVar(&logLevel, "log-level", "", "log level override (trace, debug, info, warn, error)")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	args := flagSet.Args()
	if len(args) != 2 {
		printHelp(flagSet)
		return fmt.Errorf("expected a command and a file, got %d argument(s)", len(args))
	}
	command, path := args[0], args[1]
	if command != "prompt" && command != "chat" {
		return fmt.Errorf("unknown command %q (want prompt or chat)", command)
	}

	settings, err := config.LoadSettings(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		settings.Log.Level = logLevel
	}

	logger, err := newLogger(settings.Log.Level)
	if err != nil {
		return err
	}

	sess, err := session.NewFactory(*settings, logger).CreateSession()
	if err != nil {
		return err
	}

	runner := &fileRunner{
		command:   command,
		path:      path,
		delimiter: settings.PromptDelimiter,
		session:   sess,
		logger:    logger,
	}

	if watch {
		return runner.watch(context.Background())
	}
	return runner.runOnce(context.Background())
}

func newLogger(level string) (zerolog.Logger, error) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(writer).Level(parsed).With().Timestamp().Logger(), nil
}

// fileRunner executes one chat command against a file-backed buffer and
// writes the mutated document back.
type fileRunner struct {
	command   string
	path      string
	delimiter string
	session   *session.Session
	logger    zerolog.Logger

	// lastWritten suppresses reacting to our own save in watch mode.
	lastWritten string
}

func (r *fileRunner) runOnce(ctx context.Context) error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", r.path, err)
	}

	ed := document.NewBuffer(r.path, string(data))
	ed.SetCursor(ed.End())

	if r.command == "chat" {
		err = r.session.RunChat(ctx, ed)
	} else {
		err = r.session.RunPrompt(ctx, ed)
	}
	if err != nil {
		return err
	}

	r.lastWritten = ed.Value()
	if err := os.WriteFile(r.path, []byte(r.lastWritten), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", r.path, err)
	}
	return nil
}

// watch re-executes the command whenever the file is saved with a prompt in
// it. Saves without a trailing prompt, and our own write-backs, are skipped.
func (r *fileRunner) watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(r.path); err != nil {
		return fmt.Errorf("failed to watch %s: %w", r.path, err)
	}
	r.logger.Info().Str("file", r.path).Str("command", r.command).Msg("watching for prompts")

	// Editors emit bursts of write events per save; debounce them.
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			pending = time.After(200 * time.Millisecond)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn().Err(err).Msg("watch error")
		case <-pending:
			pending = nil
			if err := r.maybeRun(ctx); err != nil {
				r.logger.Error().Err(err).Msg("command failed")
			}
			// Some editors replace the file on save, dropping the watch.
			_ = watcher.Add(r.path)
		}
	}
}

// maybeRun runs the command only when the saved file actually ends in a
// prompt. A save that merely edits prose is not a submission.
func (r *fileRunner) maybeRun(ctx context.Context) error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", r.path, err)
	}
	text := string(data)
	if text == r.lastWritten {
		return nil
	}
	if !strings.Contains(text, r.delimiter) {
		return nil
	}
	return r.runOnce(ctx)
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `inkchat — chat with a language model inside a text document.

Prompts are written after the configured delimiter (default %q) or held in
an editor selection. The reply and the conversation metadata are written
back into the document itself.

Usage:
  inkchat [flags] prompt <file>
  inkchat [flags] chat <file>

Examples:
  # Submit the text after the last // in notes.md, alone
  inkchat prompt notes.md

  # Submit the whole conversation recorded in notes.md
  inkchat chat notes.md

  # Keep running and submit each time the file is saved with a prompt
  inkchat chat --watch notes.md

Flags:
`, "//")
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
