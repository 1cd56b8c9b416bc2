package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"regexp"
	"syscall"
	"time"

	"webby/pkg/channel"
	"webby/pkg/channel/shell"
	"webby/pkg/channel/telegram"
	"webby/pkg/config"
	"webby/pkg/logger"
	"webby/pkg/message"
	"webby/pkg/robot"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the bot",
	Long:  "Runs Webby against every enabled channel with the built-in listener set.",
	Run: func(cmd *cobra.Command, args []string) {
		_ = args

		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("failed to load config: %v\n", err)
			return
		}

		appLogger, err := logger.New(cfg.Logging)
		if err != nil {
			fmt.Printf("failed to initialize logger: %v\n", err)
			return
		}
		slog.SetDefault(appLogger)
		log := slog.Default().With("component", "cmd.run")

		adapters, err := enabledAdapters(cfg, log)
		if err != nil {
			log.Error("Channel configuration invalid", "error", err)
			return
		}

		runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		bot, err := robot.New(cfg.Bot.Name, cfg.Bot.Alias, adapters, log)
		if err != nil {
			log.Error("Failed to initialize robot", "error", err)
			return
		}

		if err := registerBuiltins(bot); err != nil {
			log.Error("Failed to register built-in listeners", "error", err)
			return
		}

		if err := bot.Run(runCtx); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			log.Error("Robot runtime failed", "error", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func enabledAdapters(cfg *config.Config, log *slog.Logger) ([]channel.Adapter, error) {
	adapters := make([]channel.Adapter, 0, 2)

	if cfg.Channels.Telegram.Enabled {
		adapter, err := telegram.NewAdapter(cfg.Channels.Telegram, log)
		if err != nil {
			return nil, fmt.Errorf("configure telegram channel: %w", err)
		}
		adapters = append(adapters, adapter)
	}

	if cfg.Channels.Shell.Enabled || len(adapters) == 0 {
		adapters = append(adapters, shell.NewAdapter(log))
	}

	return adapters, nil
}

// registerBuiltins wires the minimal listener set shipped with the binary.
// Plugin loading from disk is out of scope; anything beyond these is
// registered by embedding the robot package.
func registerBuiltins(bot *robot.Robot) error {
	if err := bot.Respond(regexp.MustCompile(`(?i)ping$`), robot.Options{"id": "builtin.ping"}, func(ctx context.Context, resp *robot.Response) {
		_ = resp.Send(ctx, "PONG")
		resp.Finish()
	}); err != nil {
		return err
	}

	if err := bot.Respond(regexp.MustCompile(`(?i)echo (.+)`), robot.Options{"id": "builtin.echo"}, func(ctx context.Context, resp *robot.Response) {
		_ = resp.Send(ctx, resp.Match[1])
		resp.Finish()
	}); err != nil {
		return err
	}

	if err := bot.Respond(regexp.MustCompile(`(?i)time$`), robot.Options{"id": "builtin.time"}, func(ctx context.Context, resp *robot.Response) {
		_ = resp.Reply(ctx, time.Now().UTC().Format(time.RFC1123))
		resp.Finish()
	}); err != nil {
		return err
	}

	bot.CatchAll(robot.Options{"id": "builtin.catchall"}, func(ctx context.Context, resp *robot.Response) {
		// Only text deserves a fallback reply; presence and topic events
		// going unhandled is normal.
		if resp.Message.Wrapped == nil || resp.Message.Wrapped.Kind != message.KindText {
			return
		}
		_ = resp.Reply(ctx, "sorry, I didn't understand that")
		resp.Finish()
	})

	return nil
}
