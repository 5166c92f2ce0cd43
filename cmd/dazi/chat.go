package main

import (
	"github.com/sandevgo/dazi/pkg/log"
	"github.com/sandevgo/dazi/pkg/srv"
	"github.com/spf13/cobra"
)

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var flushLog func()
	ctx, flushLog = setupLogger(ctx)
	defer flushLog()

	logger := log.FromCtx(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	chat, err := NewChat(ctx, cfg)
	if err != nil {
		return err
	}

	if err := srv.Run(ctx, chat); err != nil {
		return err
	}

	logger.Debug().Msg("chat finished")
	return nil
}
