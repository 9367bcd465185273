package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"zenfocus/internal/gateway"
	"zenfocus/internal/model"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage the to-do list",
}

var taskAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskAdd,
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE:  runTaskList,
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskDone,
}

var taskRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskRm,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show completed sessions, oldest first",
	RunE:  runHistory,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show today's focus total and goal progress",
	RunE:  runStats,
}

var (
	settingsFocusFlag float64
	settingsShortFlag float64
	settingsLongFlag  float64
	settingsGoalFlag  float64
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change timer settings",
	Long: `With no flags, prints the current settings. Flags change durations
(minutes) and the daily goal (hours); all values must be positive.`,
	RunE: runSettings,
}

var themeCmd = &cobra.Command{
	Use:       "theme [nature|lofi|tech|vintage]",
	Short:     "Show or set the ambience theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{model.ThemeNature, model.ThemeLofi, model.ThemeTech, model.ThemeVintage},
	RunE:      runTheme,
}

func init() {
	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskDoneCmd, taskRmCmd)

	settingsCmd.Flags().Float64Var(&settingsFocusFlag, "focus", 0, "focus duration in minutes")
	settingsCmd.Flags().Float64Var(&settingsShortFlag, "short", 0, "short break duration in minutes")
	settingsCmd.Flags().Float64Var(&settingsLongFlag, "long", 0, "long break duration in minutes")
	settingsCmd.Flags().Float64Var(&settingsGoalFlag, "goal", 0, "daily focus goal in hours")
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	task := model.Task{
		ID:        uuid.NewString(),
		Title:     args[0],
		Completed: false,
		CreatedAt: time.Now().UnixMilli(),
	}
	a.gw.CreateTask(task)
	fmt.Printf("Added %s\n", task.ID)
	return nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	tasks := a.gw.GetTasks(cmd.Context())
	if len(tasks) == 0 {
		fmt.Println("No tasks.")
		return nil
	}
	for _, task := range tasks {
		mark := " "
		if task.Completed {
			mark = "x"
		}
		fmt.Printf("[%s] %s  %s\n", mark, task.ID, task.Title)
	}
	return nil
}

func runTaskDone(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	completed := true
	a.gw.UpdateTask(args[0], gateway.TaskPatch{Completed: &completed})
	fmt.Println("Done.")
	return nil
}

func runTaskRm(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	a.gw.DeleteTask(args[0])
	fmt.Println("Deleted.")
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	a.ledger.Load(cmd.Context())
	entries := a.ledger.Entries()
	if len(entries) == 0 {
		fmt.Println("No sessions yet.")
		return nil
	}
	for _, entry := range entries {
		completed := time.UnixMilli(entry.CompletedAt).Local()
		fmt.Printf("%s  %-11s %s\n",
			completed.Format("2006-01-02 15:04"),
			modeLabels[entry.Mode],
			formatSeconds(entry.Duration))
	}
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	a.ledger.Load(cmd.Context())
	settings := a.gw.GetSettings(cmd.Context())
	now := time.Now()

	focusSeconds := a.ledger.DailyFocusSeconds(now)
	fmt.Printf("Today: %s focused, %.0f%% of %.1gh goal\n",
		formatSeconds(focusSeconds),
		a.ledger.ProgressPercent(settings.DailyGoalHours, now),
		settings.DailyGoalHours)
	return nil
}

func runSettings(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	settings := a.gw.GetSettings(cmd.Context())

	changed := false
	if settingsFocusFlag > 0 {
		settings.FocusDuration = int(settingsFocusFlag)
		changed = true
	}
	if settingsShortFlag > 0 {
		settings.ShortBreakDuration = int(settingsShortFlag)
		changed = true
	}
	if settingsLongFlag > 0 {
		settings.LongBreakDuration = int(settingsLongFlag)
		changed = true
	}
	if settingsGoalFlag > 0 {
		settings.DailyGoalHours = settingsGoalFlag
		changed = true
	}

	if changed {
		if !settings.Validate() {
			return fmt.Errorf("all durations and the daily goal must be positive")
		}
		a.gw.PutSettings(settings)
	}

	fmt.Printf("focus %dm, short break %dm, long break %dm, daily goal %.1gh\n",
		settings.FocusDuration,
		settings.ShortBreakDuration,
		settings.LongBreakDuration,
		settings.DailyGoalHours)
	return nil
}

func runTheme(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if len(args) == 0 {
		fmt.Println(a.gw.GetTheme(cmd.Context()))
		return nil
	}

	theme := args[0]
	switch theme {
	case model.ThemeNature, model.ThemeLofi, model.ThemeTech, model.ThemeVintage:
	default:
		return fmt.Errorf("unknown theme %q", theme)
	}
	a.gw.PutTheme(theme)
	fmt.Println("Theme set to " + theme)
	return nil
}
