package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/sandevgo/dazi/internal/core"
	"github.com/sandevgo/dazi/internal/service/agent"
	"github.com/sandevgo/dazi/internal/service/ui"
	"github.com/sandevgo/dazi/pkg/conv"
	"github.com/sandevgo/dazi/pkg/log"
)

const (
	// ReplyWidth is the reply wrap width in display cells. CJK runes take
	// two cells, so Chinese text wraps at 50 characters.
	ReplyWidth = 100

	banner   = "输入内容直接对话，回车空行退出。"
	question = "你想让" + core.PartnerName + "帮什么？"
	header   = "--- " + core.PartnerName + "回复 ---"
	rule     = "----------------"
)

type Session interface {
	Turn(ctx context.Context, input string, show func(agent.Reply) error) error
	Finish()
}

type lineReader interface {
	Readline() (string, error)
	Close() error
}

type Config interface {
	GetRuntimePath() string
	GetMemoryPath() string
}

type ReadLine struct {
	session    Session
	rl         lineReader
	out        io.Writer
	memoryPath string
}

func NewReadLine(session Session, cfg Config) (*ReadLine, error) {
	if err := os.MkdirAll(cfg.GetRuntimePath(), 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     filepath.Join(cfg.GetRuntimePath(), "input_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "",
	})
	if err != nil {
		return nil, err
	}

	return newReadLine(session, rl, rl.Stdout(), cfg.GetMemoryPath()), nil
}

func newReadLine(session Session, rl lineReader, out io.Writer, memoryPath string) *ReadLine {
	return &ReadLine{
		session:    session,
		rl:         rl,
		out:        out,
		memoryPath: memoryPath,
	}
}

// Start runs the chat until an empty line, end of input or an error.
// Errors end the chat without the goodbye lines.
func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Debug().Str("memory", r.memoryPath).Msg("chat started")

	fmt.Fprintln(r.out, banner)

	for {
		select {
		case <-ctx.Done():
			r.session.Finish()
			return ctx.Err()
		default:
		}

		fmt.Fprintf(r.out, "\n%s\n", question)

		line, err := r.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) && len(strings.TrimSpace(line)) > 0 {
				continue
			}
			if !errors.Is(err, readline.ErrInterrupt) && !errors.Is(err, io.EOF) {
				r.session.Finish()
				return err
			}
			line = ""
		}

		input := strings.TrimSpace(line)
		if input == "" {
			r.session.Finish()
			fmt.Fprintln(r.out, "退出对话。")
			break
		}

		if err := r.session.Turn(ctx, input, r.show); err != nil {
			logger.Error().Err(err).Msg("turn failed")
			return err
		}
	}

	fmt.Fprintf(r.out, "记忆保存在 %s\n", r.memoryPath)
	return nil
}

func (r *ReadLine) show(reply agent.Reply) error {
	_, err := fmt.Fprintf(r.out, "\n%s\n%s\n%s\n\n",
		ui.ReplyStyle.Render(header),
		conv.Fill(reply.Visible, ReplyWidth),
		ui.ReplyStyle.Render(rule),
	)
	return err
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}
