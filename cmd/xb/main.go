package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"execboard/internal/activity"
	"execboard/internal/app"
	"execboard/internal/config"
	"execboard/internal/db"
	"execboard/internal/domain"
	"execboard/internal/format"
	"execboard/internal/remote"
	"execboard/internal/server"
)

var rootCmd = &cobra.Command{
	Use:   "xb",
	Short: "Execboard CLI",
	Long: `Execboard is a task-delegation and reporting dashboard for executive roles.
Create tasks assigned to a C-Level role, review AI briefs from completed work,
track per-role strategy and KPIs, and watch the aggregate business dashboard.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		workspace := viper.GetString("workspace")
		if _, err := db.EnsureWorkspace(workspace); err != nil {
			return err
		}
		return nil
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("EXECBOARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func registerCommands() {
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(taskCmd())
	rootCmd.AddCommand(briefCmd())
	rootCmd.AddCommand(strategyCmd())
	rootCmd.AddCommand(dashboardCmd())
	rootCmd.AddCommand(feedbackCmd())
	rootCmd.AddCommand(activityCmd())
	rootCmd.AddCommand(telegramCmd())
	rootCmd.AddCommand(apikeyCmd())
	rootCmd.AddCommand(serveCmd())
}

func initCmd() *cobra.Command {
	var boardID string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default execboard.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace := viper.GetString("workspace")
			path := config.Path(workspace)
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if boardID == "" {
				boardID = "default"
			}
			if err := os.WriteFile(path, []byte(config.GenerateDefault(boardID)), 0o644); err != nil {
				return err
			}
			fmt.Println("wrote", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&boardID, "board", "default", "board id")
	return cmd
}

func taskCmd() *cobra.Command {
	task := &cobra.Command{Use: "task", Short: "Manage tasks"}
	task.AddCommand(taskListCmd())
	task.AddCommand(taskShowCmd())
	task.AddCommand(taskCreateCmd())
	task.AddCommand(taskUpdateCmd())
	task.AddCommand(taskDeleteCmd())
	task.AddCommand(taskProblematicCmd())
	return task
}

func taskListCmd() *cobra.Command {
	var role, status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				a.Tasks.FetchAll(ctx)
				a.Tasks.SetFilters(role, status)
				snap := a.Tasks.Snapshot()
				if snap.Error != "" {
					return errors.New(snap.Error)
				}
				if viper.GetBool("json") {
					return printJSON(snap.Filtered)
				}
				renderTaskTable(snap.Filtered)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "role filter (CEO, CTO, ...)")
	cmd.Flags().StringVar(&status, "status", "", "status filter")
	return cmd
}

func renderTaskTable(tasks []domain.Task) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"ID", "Title", "Role", "Status", "Created"})
	for _, t := range tasks {
		tw.AppendRow(table.Row{
			t.ID,
			format.Truncate(t.Title, 40),
			t.Role,
			format.StatusColor(t.Status).Sprint(format.StatusName(t.Status)),
			format.FormatDate(t.CreatedAt),
		})
	}
	tw.Render()
}

func taskShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				a.Tasks.FetchByID(ctx, args[0])
				snap := a.Tasks.Snapshot()
				if snap.Error != "" {
					return errors.New(snap.Error)
				}
				return printJSON(snap.Current)
			})
		},
	}
	return cmd
}

func taskCreateCmd() *cobra.Command {
	var draft remote.TaskDraft
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			if draft.Title == "" {
				return fmt.Errorf("--title is required")
			}
			if draft.Role == "" {
				return fmt.Errorf("--role is required")
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				a.Tasks.Create(ctx, draft)
				snap := a.Tasks.Snapshot()
				if snap.Error != "" {
					return errors.New(snap.Error)
				}
				return printJSON(snap.Tasks[0])
			})
		},
	}
	cmd.Flags().StringVar(&draft.Title, "title", "", "task title")
	cmd.Flags().StringVar(&draft.Description, "description", "", "task description")
	cmd.Flags().StringVar(&draft.Role, "role", "", "assigned role (CEO, CTO, ...)")
	cmd.Flags().StringVar(&draft.Status, "status", "", "initial status (default pending)")
	return cmd
}

func taskUpdateCmd() *cobra.Command {
	var title, description, role, status string
	cmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Update a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := remote.TaskPatch{
				Title:       optionalString(title),
				Description: optionalString(description),
				Role:        optionalString(role),
				Status:      optionalString(status),
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				a.Tasks.FetchByID(ctx, args[0])
				a.Tasks.Update(ctx, args[0], patch)
				snap := a.Tasks.Snapshot()
				if snap.Error != "" {
					return errors.New(snap.Error)
				}
				return printJSON(snap.Current)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&role, "role", "", "new role")
	cmd.Flags().StringVar(&status, "status", "", "new status")
	return cmd
}

func taskDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				a.Tasks.Delete(ctx, args[0])
				snap := a.Tasks.Snapshot()
				if snap.Error != "" {
					return errors.New(snap.Error)
				}
				fmt.Println("deleted", args[0])
				return nil
			})
		},
	}
	return cmd
}

func taskProblematicCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "problematic",
		Short: "List tasks needing attention",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				tasks, err := a.Tasks.Problematic(ctx, a.Config.ProblematicStatuses())
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(tasks)
				}
				renderTaskTable(tasks)
				return nil
			})
		},
	}
	return cmd
}

func briefCmd() *cobra.Command {
	brief := &cobra.Command{Use: "brief", Short: "Manage briefs"}
	brief.AddCommand(briefListCmd())
	brief.AddCommand(briefShowCmd())
	brief.AddCommand(briefCreateCmd())
	brief.AddCommand(briefLatestCmd())
	return brief
}

func briefListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List briefs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				a.Briefs.FetchAll(ctx)
				snap := a.Briefs.Snapshot()
				if snap.Error != "" {
					return errors.New(snap.Error)
				}
				if viper.GetBool("json") {
					return printJSON(snap.Briefs)
				}
				renderBriefTable(snap.Briefs)
				return nil
			})
		},
	}
	return cmd
}

func renderBriefTable(briefs []domain.Brief) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"ID", "Task", "Content", "Created"})
	for _, b := range briefs {
		tw.AppendRow(table.Row{b.ID, b.TaskID, format.Truncate(b.Content, 50), format.FormatDate(b.CreatedAt)})
	}
	tw.Render()
}

func briefShowCmd() *cobra.Command {
	var taskID string
	cmd := &cobra.Command{
		Use:   "show [brief-id]",
		Short: "Show a brief by id or by task",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				switch {
				case len(args) == 1:
					a.Briefs.FetchByID(ctx, args[0])
				case taskID != "":
					a.Briefs.FetchByTask(ctx, taskID)
				default:
					return fmt.Errorf("brief id or --task is required")
				}
				snap := a.Briefs.Snapshot()
				if snap.Error != "" {
					return errors.New(snap.Error)
				}
				return printJSON(snap.Current)
			})
		},
	}
	cmd.Flags().StringVar(&taskID, "task", "", "look up the brief by task id")
	return cmd
}

func briefCreateCmd() *cobra.Command {
	var draft remote.BriefDraft
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a brief",
		RunE: func(cmd *cobra.Command, args []string) error {
			if draft.TaskID == "" || draft.Content == "" {
				return fmt.Errorf("--task and --content are required")
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				a.Briefs.Create(ctx, draft)
				snap := a.Briefs.Snapshot()
				if snap.Error != "" {
					return errors.New(snap.Error)
				}
				return printJSON(snap.Briefs[len(snap.Briefs)-1])
			})
		},
	}
	cmd.Flags().StringVar(&draft.TaskID, "task", "", "task id the brief reports on")
	cmd.Flags().StringVar(&draft.Content, "content", "", "brief content")
	cmd.Flags().StringSliceVar(&draft.Recommendations, "recommendation", nil, "recommendation (repeatable)")
	return cmd
}

func briefLatestCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "latest",
		Short: "Show the most recent briefs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if n <= 0 {
					n = a.Config.BriefLimit()
				}
				a.Briefs.FetchLatest(ctx, n)
				snap := a.Briefs.Snapshot()
				if snap.Error != "" {
					return errors.New(snap.Error)
				}
				if viper.GetBool("json") {
					return printJSON(snap.Briefs)
				}
				renderBriefTable(snap.Briefs)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&n, "n", 0, "number of briefs (default from config)")
	return cmd
}

func strategyCmd() *cobra.Command {
	strategy := &cobra.Command{Use: "strategy", Short: "Manage role strategies"}
	strategy.AddCommand(strategyListCmd())
	strategy.AddCommand(strategyShowCmd())
	strategy.AddCommand(strategySetCmd())
	return strategy
}

func strategyListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List strategies",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				a.Strategies.FetchAll(ctx)
				snap := a.Strategies.Snapshot()
				if snap.Error != "" {
					return errors.New(snap.Error)
				}
				if viper.GetBool("json") {
					return printJSON(snap.Strategies)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Role", "Title", "Objectives", "KPIs", "Updated"})
				for _, s := range snap.Strategies {
					tw.AppendRow(table.Row{s.Role, format.Truncate(s.Title, 40), len(s.Objectives), len(s.KPIs), format.FormatDate(s.UpdatedAt)})
				}
				tw.Render()
				return nil
			})
		},
	}
	return cmd
}

func strategyShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <role>",
		Short: "Show a role's strategy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				a.Strategies.FetchByRole(ctx, args[0])
				snap := a.Strategies.Snapshot()
				if snap.Error != "" {
					return errors.New(snap.Error)
				}
				return printJSON(snap.Current)
			})
		},
	}
	return cmd
}

func strategySetCmd() *cobra.Command {
	var draft remote.StrategyDraft
	cmd := &cobra.Command{
		Use:   "set <role>",
		Short: "Set a role's strategy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft.Role = args[0]
			if draft.Title == "" {
				return fmt.Errorf("--title is required")
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				a.Strategies.Set(ctx, draft)
				snap := a.Strategies.Snapshot()
				if snap.Error != "" {
					return errors.New(snap.Error)
				}
				// Set merges into the collection, not Current; print the
				// role's entry from there.
				for _, st := range snap.Strategies {
					if st.Role == draft.Role {
						return printJSON(st)
					}
				}
				return printJSON(snap.Current)
			})
		},
	}
	cmd.Flags().StringVar(&draft.Title, "title", "", "strategy title")
	cmd.Flags().StringVar(&draft.Description, "description", "", "strategy description")
	cmd.Flags().StringSliceVar(&draft.Objectives, "objective", nil, "objective (repeatable)")
	cmd.Flags().StringSliceVar(&draft.KPIs, "kpi", nil, "kpi (repeatable)")
	return cmd
}

func dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the aggregate dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				a.Dashboard.FetchAll(ctx)
				snap := a.Dashboard.Snapshot()
				if snap.Error != "" {
					return errors.New(snap.Error)
				}
				if viper.GetBool("json") {
					return printJSON(snap)
				}
				if snap.Metrics != nil {
					fmt.Printf("LTV %s   MRR %s   Cash flow %s\n",
						format.FormatCurrency(snap.Metrics.LTV),
						format.FormatCurrency(snap.Metrics.MRR),
						format.FormatCurrency(snap.Metrics.CashFlow))
				} else {
					fmt.Println("no business metrics recorded")
				}
				if len(snap.Performance) > 0 {
					tw := table.NewWriter()
					tw.SetOutputMirror(os.Stdout)
					tw.AppendHeader(table.Row{"Role", "KPIs", "Confidence"})
					for _, p := range snap.Performance {
						tw.AppendRow(table.Row{
							format.RoleName(p.Role),
							fmt.Sprintf("%d/%d", p.CompletedKPIs, p.TotalKPIs),
							fmt.Sprintf("%d%%", p.ConfidenceScore),
						})
					}
					tw.Render()
				}
				if len(snap.LatestBriefs) > 0 {
					fmt.Println("Latest briefs:")
					renderBriefTable(snap.LatestBriefs)
				}
				if len(snap.ProblematicTasks) > 0 {
					fmt.Println("Needs attention:")
					renderTaskTable(snap.ProblematicTasks)
				}
				return nil
			})
		},
	}
	return cmd
}

func feedbackCmd() *cobra.Command {
	feedback := &cobra.Command{Use: "feedback", Short: "Submit and list feedback"}

	var draft remote.FeedbackDraft
	var taskID, briefID string
	send := &cobra.Command{
		Use:   "send",
		Short: "Submit feedback",
		RunE: func(cmd *cobra.Command, args []string) error {
			if draft.Content == "" {
				return fmt.Errorf("--content is required")
			}
			draft.TaskID = optionalString(taskID)
			draft.BriefID = optionalString(briefID)
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				f, err := a.Remote.Feedback.Submit(ctx, draft)
				if err != nil {
					return err
				}
				return printJSON(f)
			})
		},
	}
	send.Flags().StringVar(&draft.Content, "content", "", "feedback text")
	send.Flags().IntVar(&draft.Rating, "rating", 3, "rating 1-5")
	send.Flags().StringVar(&taskID, "task", "", "related task id")
	send.Flags().StringVar(&briefID, "brief", "", "related brief id")

	list := &cobra.Command{
		Use:   "list",
		Short: "List feedback",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				items, err := a.Remote.Feedback.ListAll(ctx)
				if err != nil {
					return err
				}
				return printJSON(items)
			})
		},
	}

	feedback.AddCommand(send, list)
	return feedback
}

func activityCmd() *cobra.Command {
	act := &cobra.Command{Use: "activity", Short: "Inspect the activity log"}
	var n int
	tail := &cobra.Command{
		Use:   "tail",
		Short: "Show recent activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				entries, err := activity.List(ctx, a.DB, n)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(entries)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"TS", "Type", "Entity", "ID"})
				for _, e := range entries {
					tw.AppendRow(table.Row{e.TS, e.Type, e.EntityKind, e.EntityID})
				}
				tw.Render()
				return nil
			})
		},
	}
	tail.Flags().IntVar(&n, "n", 20, "number of entries")
	act.AddCommand(tail)
	return act
}

func telegramCmd() *cobra.Command {
	telegram := &cobra.Command{Use: "telegram", Short: "Manage the telegram link"}

	var userID string
	link := &cobra.Command{
		Use:   "link <telegram-id>",
		Short: "Link a telegram chat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return fmt.Errorf("--user is required")
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				a.Telegram.Link(ctx, userID, args[0])
				snap := a.Telegram.Snapshot()
				if snap.Error != "" {
					return errors.New(snap.Error)
				}
				fmt.Println("linked")
				return nil
			})
		},
	}
	link.Flags().StringVar(&userID, "user", "", "user id")

	var unlinkUser string
	unlink := &cobra.Command{
		Use:   "unlink",
		Short: "Unlink the telegram chat",
		RunE: func(cmd *cobra.Command, args []string) error {
			if unlinkUser == "" {
				return fmt.Errorf("--user is required")
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				a.Telegram.Unlink(ctx, unlinkUser)
				snap := a.Telegram.Snapshot()
				if snap.Error != "" {
					return errors.New(snap.Error)
				}
				fmt.Println("unlinked")
				return nil
			})
		},
	}
	unlink.Flags().StringVar(&unlinkUser, "user", "", "user id")

	test := &cobra.Command{
		Use:   "test",
		Short: "Send a test notification",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				a.Telegram.SendTest(ctx)
				snap := a.Telegram.Snapshot()
				if snap.Error != "" {
					return errors.New(snap.Error)
				}
				fmt.Println("sent")
				return nil
			})
		},
	}

	telegram.AddCommand(link, unlink, test)
	return telegram
}

func apikeyCmd() *cobra.Command {
	apikey := &cobra.Command{Use: "apikey", Short: "Manage API keys"}

	var userID, name string
	create := &cobra.Command{
		Use:   "create",
		Short: "Mint an API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return fmt.Errorf("--user is required")
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				key, raw, err := a.Remote.APIKeys.Create(ctx, userID, name)
				if err != nil {
					return err
				}
				fmt.Printf("id: %s\nkey: %s\n(store the key now; it is not shown again)\n", key.ID, raw)
				return nil
			})
		},
	}
	create.Flags().StringVar(&userID, "user", "", "user id")
	create.Flags().StringVar(&name, "name", "", "key name")

	var listUser string
	list := &cobra.Command{
		Use:   "list",
		Short: "List API keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			if listUser == "" {
				return fmt.Errorf("--user is required")
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				keys, err := a.Remote.APIKeys.ListByUser(ctx, listUser)
				if err != nil {
					return err
				}
				return printJSON(keys)
			})
		},
	}
	list.Flags().StringVar(&listUser, "user", "", "user id")

	del := &cobra.Command{
		Use:   "delete <key-id>",
		Short: "Delete an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				return a.Remote.APIKeys.Delete(ctx, args[0])
			})
		},
	}

	apikey.AddCommand(create, list, del)
	return apikey
}

func serveCmd() *cobra.Command {
	var addr, basePath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				authCfg := server.AuthConfig{JWTSecret: os.Getenv("EXECBOARD_JWT_SECRET")}
				if authCfg.JWTSecret == "" {
					return fmt.Errorf("EXECBOARD_JWT_SECRET is required for bearer auth")
				}
				handler, err := server.New(server.Config{App: a, BasePath: basePath, Auth: authCfg})
				if err != nil {
					return err
				}
				srv := &http.Server{Addr: addr, Handler: handler}
				go func() {
					<-ctx.Done()
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					srv.Shutdown(shutdownCtx)
				}()
				fmt.Printf("Serving Execboard API on http://%s%s (OpenAPI at %s/openapi.json)\n", addr, basePath, basePath)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVar(&basePath, "base-path", "/v0", "API base path")
	return cmd
}

// --- helpers ---

func withApp(ctx context.Context, fn func(context.Context, *app.App) error) error {
	a, err := app.New(app.Options{
		Workspace:     viper.GetString("workspace"),
		TelegramToken: os.Getenv("EXECBOARD_TELEGRAM_TOKEN"),
	})
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
