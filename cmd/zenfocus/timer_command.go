package main

import (
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"zenfocus/internal/clock"
	"zenfocus/internal/model"
	"zenfocus/internal/timer"
)

var breakTips = []string{
	"Time to stretch! Reach for the sky.",
	"20-20-20 Rule: Look at something 20ft away for 20s.",
	"Hydrate! Drink a glass of water.",
	"Take a deep breath. Inhale... Exhale...",
	"Walk around the room for a minute.",
	"Rest your eyes. Close them for 30 seconds.",
	"Roll your shoulders back and release tension.",
}

var modeLabels = map[model.TimerMode]string{
	model.ModeFocus:      "Focus",
	model.ModeShortBreak: "Short Break",
	model.ModeLongBreak:  "Long Break",
}

var timerModeFlag string

var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Run focus/break cycles in the terminal",
	Long: `Starts the countdown immediately and keeps cycling: a finished focus
period is recorded to history and rolls into a short break, a finished
break rolls back into focus (paused, waiting for you). Ctrl-C quits.`,
	RunE: runTimer,
}

func init() {
	timerCmd.Flags().StringVar(&timerModeFlag, "mode", "focus", "starting mode: focus, short or long")
}

func runTimer(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go a.auth.Verify(ctx)

	settings := a.gw.GetSettings(ctx)
	a.ledger.Load(ctx)

	engine := timer.NewEngine(clock.NewSystem(), a.ledger, settings, a.log)

	mode, err := parseMode(timerModeFlag)
	if err != nil {
		return err
	}
	if mode != model.ModeFocus {
		engine.SwitchMode(mode)
	}

	go engine.Run(ctx)
	engine.ToggleRunning()

	render := time.NewTicker(250 * time.Millisecond)
	defer render.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Println()
			return nil
		case completion := <-engine.Completions():
			fmt.Printf("\r%s done (%s).%*s\n",
				modeLabels[completion.Mode],
				formatSeconds(completion.DurationSeconds),
				10, "")
			if completion.Mode == model.ModeFocus {
				fmt.Println("Break time: " + breakTips[rand.Intn(len(breakTips))])
			}
			// Next countdown is armed but paused; keep cycling hands-free.
			engine.ToggleRunning()
		case <-render.C:
			state := engine.State()
			fmt.Printf("\r[%s] %s  today: %.0f%%  ",
				modeLabels[state.Mode],
				formatSeconds(state.RemainingSeconds),
				a.ledger.ProgressPercent(engine.Settings().DailyGoalHours, time.Now()))
		}
	}
}

func parseMode(raw string) (model.TimerMode, error) {
	switch raw {
	case "focus":
		return model.ModeFocus, nil
	case "short", "shortBreak":
		return model.ModeShortBreak, nil
	case "long", "longBreak":
		return model.ModeLongBreak, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want focus, short or long)", raw)
	}
}

func formatSeconds(total int) string {
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
