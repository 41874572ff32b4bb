package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chzyer/readline"

	"github.com/funcompany/justlog-go/pkg/config"
	"github.com/funcompany/justlog-go/pkg/logger"
	"github.com/funcompany/justlog-go/pkg/record"
)

// repl drives a logger from an interactive prompt.
type repl struct {
	log  *logger.Logger
	conf config.Config
	rl   *readline.Instance
}

func newREPL(log *logger.Logger, conf config.Config) (*repl, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "justlog> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &repl{log: log, conf: conf, rl: rl}, nil
}

// Run starts the interactive command loop. It returns when the user
// exits.
func (r *repl) Run() {
	defer r.rl.Close()

	r.printHelp()

	for {
		line, err := r.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(r.rl.Stdout(), "Exiting...")
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			r.printHelp()

		case "verbose", "v", "debug", "d", "info", "i", "warning", "w", "error", "e":
			r.cmdLog(cmd, args)

		case "fields", "f":
			r.cmdFields(args)

		case "fail":
			r.cmdFail(args)

		case "send", "s":
			r.cmdSend()

		case "cancel", "c":
			r.cmdCancel()

		case "stats":
			r.cmdStats()

		case "quit", "exit", "q":
			fmt.Fprintln(r.rl.Stdout(), "Exiting...")
			return

		default:
			fmt.Fprintf(r.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

// cmdLog logs the remaining words at the chosen level.
func (r *repl) cmdLog(cmd string, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(r.rl.Stdout(), "Usage: <level> <message...>")
		return
	}
	msg := strings.Join(args, " ")

	switch cmd {
	case "verbose", "v":
		r.log.Verbose(msg)
	case "debug", "d":
		r.log.Debug(msg)
	case "info", "i":
		r.log.Info(msg)
	case "warning", "w":
		r.log.Warning(msg)
	case "error", "e":
		r.log.Error(msg)
	}
}

// cmdFields logs an info record with key=value fields.
func (r *repl) cmdFields(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(r.rl.Stdout(), "Usage: fields <message> <key=value>...")
		return
	}

	fields := make(map[string]any)
	for _, kv := range args[1:] {
		key, value, found := strings.Cut(kv, "=")
		if !found {
			fmt.Fprintf(r.rl.Stdout(), "Skipping %q: want key=value\n", kv)
			continue
		}
		fields[key] = value
	}

	r.log.Info(args[0], logger.WithFields(fields))
}

// cmdFail logs an error record with an attached error.
func (r *repl) cmdFail(args []string) {
	msg := "operation failed"
	if len(args) > 0 {
		msg = strings.Join(args, " ")
	}
	cause := fmt.Errorf("demo failure: %w", errors.New(msg))
	r.log.Error(msg, logger.WithError(cause))
}

// cmdSend forces a network flush and reports the outcome.
func (r *repl) cmdSend() {
	done := make(chan error, 1)
	r.log.ForceSend(func(err error) { done <- err })
	if err := <-done; err != nil {
		fmt.Fprintf(r.rl.Stdout(), "Send failed: %v\n", err)
		return
	}
	fmt.Fprintln(r.rl.Stdout(), "Sent.")
}

// cmdCancel aborts any in-flight delivery.
func (r *repl) cmdCancel() {
	r.log.CancelSending()
	fmt.Fprintln(r.rl.Stdout(), "Cancelled.")
}

// cmdStats prints logger counters and the effective configuration.
func (r *repl) cmdStats() {
	stats := r.log.Stats()
	fmt.Fprintf(r.rl.Stdout(), "Instance:          %s\n", r.log.InstanceID())
	fmt.Fprintf(r.rl.Stdout(), "Sink errors:       %d\n", stats.SinkErrors)
	fmt.Fprintf(r.rl.Stdout(), "Encode fallbacks:  %d\n", stats.EncodeFallbacks)
	fmt.Fprintf(r.rl.Stdout(), "Level floor:       %s\n", levelName(r.conf.Level))
	if r.conf.Network != nil {
		fmt.Fprintf(r.rl.Stdout(), "Collector:         %s:%d\n", r.conf.Network.Host, r.conf.Network.Port)
	} else {
		fmt.Fprintln(r.rl.Stdout(), "Collector:         none")
	}
}

func levelName(s string) string {
	if s == "" {
		return record.LevelVerbose.String()
	}
	return s
}

func (r *repl) printHelp() {
	fmt.Fprintln(r.rl.Stdout(), `
justlog-demo Commands:
  Logging:
    verbose|debug|info|warning|error <message...>  - Log at a level
    fields <message> <key=value>...                - Log with structured fields
    fail [message]                                 - Log an error with a cause chain

  Network:
    send     - Force delivery of buffered records
    cancel   - Abort an in-flight delivery

  Other:
    stats    - Show logger counters
    help     - Show this help
    quit     - Exit`)
}
