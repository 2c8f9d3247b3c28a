package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	"execboard/internal/activity"
	"execboard/internal/app"
	"execboard/internal/remote"
)

// Config for the HTTP API handler.
type Config struct {
	App      *app.App
	BasePath string
	Auth     AuthConfig
}

type apiErrorBody struct {
	Code    string         `json:"code" example:"not_found"`
	Message string         `json:"message" example:"task not found"`
	Details map[string]any `json:"details,omitempty" jsonschema:"type=object,additionalProperties=true"`
}

// apiError is the error envelope every endpoint uses.
type apiError struct {
	status int
	Body   apiErrorBody `json:"error"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Body.Message }

// New returns an HTTP handler exposing the execboard API.
func New(cfg Config) (http.Handler, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/v0"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	huma.DefaultArrayNullable = false
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		return newAPIError(status, "", msg, nil)
	}
	huma.NewErrorWithContext = func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
		if status == http.StatusUnprocessableEntity && strings.Contains(strings.ToLower(msg), "validation") {
			status = http.StatusBadRequest
		}
		var details map[string]any
		if len(errs) > 0 {
			details = map[string]any{"errors": errs}
		}
		return newAPIError(status, "", msg, details)
	}

	router := chi.NewRouter()
	router.Use(newAuthMiddleware(basePath, cfg.Auth, cfg.App.Remote.APIKeys))
	hcfg := huma.DefaultConfig("Execboard API", "0.1.0")
	hcfg.OpenAPIPath = "/openapi"
	api := humachi.New(router, hcfg)
	group := huma.NewGroup(api, basePath)

	registerHealth(group)
	registerAuth(group, cfg.App, cfg.Auth)
	registerTasks(group, cfg.App)
	registerBriefs(group, cfg.App)
	registerStrategies(group, cfg.App)
	registerDashboard(group, cfg.App)
	registerFeedback(group, cfg.App)
	registerActivity(group, cfg.App)

	return router, nil
}

func newAPIError(status int, code, message string, details map[string]any) huma.StatusError {
	if code == "" {
		code = defaultCodeForStatus(status)
	}
	return &apiError{
		status: status,
		Body:   apiErrorBody{Code: code, Message: message, Details: details},
	}
}

func handleError(err error) huma.StatusError {
	if err == nil {
		return nil
	}
	if errors.Is(err, remote.ErrNotFound) {
		return newAPIError(http.StatusNotFound, "not_found", err.Error(), nil)
	}
	msg := err.Error()
	lowered := strings.ToLower(msg)
	switch {
	case strings.Contains(lowered, "unknown role"),
		strings.Contains(lowered, "unknown status"),
		strings.Contains(lowered, "out of range"),
		strings.Contains(lowered, "invalid"),
		strings.Contains(lowered, "required"):
		return newAPIError(http.StatusBadRequest, "bad_request", msg, nil)
	default:
		return newAPIError(http.StatusInternalServerError, "internal_error", "internal error", map[string]any{"error": msg})
	}
}

func defaultCodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusUnprocessableEntity:
		return "validation_failed"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusInternalServerError:
		return "internal_error"
	default:
		return strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "ok"}}, nil
	})
}

func registerAuth(api huma.API, a *app.App, authCfg AuthConfig) {
	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Log in and mint a bearer token",
		Errors:      []int{http.StatusBadRequest, http.StatusUnauthorized},
	}, func(ctx context.Context, input *struct {
		Body LoginRequest `json:"body"`
	}) (*struct {
		Body LoginResponse `json:"body"`
	}, error) {
		email := strings.TrimSpace(input.Body.Email)
		if email == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "email is required", nil)
		}
		user, err := app.LocalAuth{Users: a.Remote.Users}.Login(ctx, email, input.Body.Password)
		if err != nil {
			return nil, handleError(err)
		}
		token, err := signToken(authCfg.JWTSecret, user.ID, user.Email, authCfg.ttl())
		if err != nil {
			return nil, newAPIError(http.StatusInternalServerError, "internal_error", err.Error(), nil)
		}
		return &struct {
			Body LoginResponse `json:"body"`
		}{Body: LoginResponse{Token: token, User: userResponse(user)}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "me",
		Method:      http.MethodGet,
		Path:        "/me",
		Summary:     "Current user",
		Errors:      []int{http.StatusUnauthorized, http.StatusNotFound},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body UserResponse `json:"body"`
	}, error) {
		userID, authErr := userIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		user, err := a.Remote.Users.GetByID(ctx, userID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body UserResponse `json:"body"`
		}{Body: userResponse(user)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "link-telegram",
		Method:      http.MethodPost,
		Path:        "/me/telegram",
		Summary:     "Link a telegram chat to the current user",
		Errors:      []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		Body struct {
			TelegramID string `json:"telegram_id" minLength:"1"`
		} `json:"body"`
	}) (*struct {
		Body UserResponse `json:"body"`
	}, error) {
		userID, authErr := userIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		if err := a.Remote.Users.LinkTelegram(ctx, userID, input.Body.TelegramID); err != nil {
			return nil, handleError(err)
		}
		user, err := a.Remote.Users.GetByID(ctx, userID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body UserResponse `json:"body"`
		}{Body: userResponse(user)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "unlink-telegram",
		Method:      http.MethodDelete,
		Path:        "/me/telegram",
		Summary:     "Unlink the current user's telegram chat",
		Errors:      []int{http.StatusUnauthorized, http.StatusNotFound},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body UserResponse `json:"body"`
	}, error) {
		userID, authErr := userIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		if err := a.Remote.Users.UnlinkTelegram(ctx, userID); err != nil {
			return nil, handleError(err)
		}
		user, err := a.Remote.Users.GetByID(ctx, userID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body UserResponse `json:"body"`
		}{Body: userResponse(user)}, nil
	})
}

func registerTasks(api huma.API, a *app.App) {
	huma.Register(api, huma.Operation{
		OperationID: "list-tasks",
		Method:      http.MethodGet,
		Path:        "/tasks",
		Summary:     "List tasks",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Role   string `query:"role" required:"false"`
		Status string `query:"status" required:"false"`
	}) (*struct {
		Body []TaskResponse `json:"body"`
	}, error) {
		var (
			items []TaskResponse
			list  []TaskResponse
			err   error
		)
		if input.Role != "" {
			res, lerr := a.Remote.Tasks.ListByRole(ctx, input.Role)
			err = lerr
			list = mapTasks(res)
		} else {
			res, lerr := a.Remote.Tasks.ListAll(ctx)
			err = lerr
			list = mapTasks(res)
		}
		if err != nil {
			return nil, handleError(err)
		}
		if input.Status != "" {
			items = make([]TaskResponse, 0, len(list))
			for _, t := range list {
				if t.Status == input.Status {
					items = append(items, t)
				}
			}
		} else {
			items = list
		}
		return &struct {
			Body []TaskResponse `json:"body"`
		}{Body: items}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-problematic-tasks",
		Method:      http.MethodGet,
		Path:        "/tasks/problematic",
		Summary:     "List problematic tasks",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []TaskResponse `json:"body"`
	}, error) {
		items, err := a.Remote.Tasks.ListProblematic(ctx, a.Config.ProblematicStatuses())
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []TaskResponse `json:"body"`
		}{Body: mapTasks(items)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-task",
		Method:        http.MethodPost,
		Path:          "/tasks",
		Summary:       "Create task",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Body CreateTaskRequest `json:"body"`
	}) (*struct {
		Body TaskResponse `json:"body"`
	}, error) {
		task, err := a.Remote.Tasks.Create(ctx, remote.TaskDraft{
			Title:       input.Body.Title,
			Description: input.Body.Description,
			Role:        input.Body.Role,
			Status:      input.Body.Status,
			BriefID:     input.Body.BriefID,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body TaskResponse `json:"body"`
		}{Body: taskResponse(task)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-task",
		Method:      http.MethodGet,
		Path:        "/tasks/{task_id}",
		Summary:     "Get task",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		TaskID string `path:"task_id"`
	}) (*struct {
		Body TaskResponse `json:"body"`
	}, error) {
		task, err := a.Remote.Tasks.GetByID(ctx, input.TaskID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body TaskResponse `json:"body"`
		}{Body: taskResponse(task)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-task",
		Method:      http.MethodPatch,
		Path:        "/tasks/{task_id}",
		Summary:     "Update task",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		TaskID string            `path:"task_id"`
		Body   UpdateTaskRequest `json:"body"`
	}) (*struct {
		Body TaskResponse `json:"body"`
	}, error) {
		err := a.Remote.Tasks.Update(ctx, input.TaskID, remote.TaskPatch{
			Title:       input.Body.Title,
			Description: input.Body.Description,
			Role:        input.Body.Role,
			Status:      input.Body.Status,
			BriefID:     input.Body.BriefID,
			CompletedAt: input.Body.CompletedAt,
		})
		if err != nil {
			return nil, handleError(err)
		}
		task, err := a.Remote.Tasks.GetByID(ctx, input.TaskID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body TaskResponse `json:"body"`
		}{Body: taskResponse(task)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-task",
		Method:      http.MethodDelete,
		Path:        "/tasks/{task_id}",
		Summary:     "Delete task",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		TaskID string `path:"task_id"`
	}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		if err := a.Remote.Tasks.Delete(ctx, input.TaskID); err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "deleted"}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-task-brief",
		Method:      http.MethodGet,
		Path:        "/tasks/{task_id}/brief",
		Summary:     "Get the brief linked to a task",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		TaskID string `path:"task_id"`
	}) (*struct {
		Body BriefResponse `json:"body"`
	}, error) {
		brief, err := a.Remote.Briefs.GetByTask(ctx, input.TaskID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body BriefResponse `json:"body"`
		}{Body: briefResponse(brief)}, nil
	})
}

func registerBriefs(api huma.API, a *app.App) {
	huma.Register(api, huma.Operation{
		OperationID: "list-briefs",
		Method:      http.MethodGet,
		Path:        "/briefs",
		Summary:     "List briefs",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []BriefResponse `json:"body"`
	}, error) {
		items, err := a.Remote.Briefs.ListAll(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []BriefResponse `json:"body"`
		}{Body: mapBriefs(items)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "latest-briefs",
		Method:      http.MethodGet,
		Path:        "/briefs/latest",
		Summary:     "Latest briefs",
	}, func(ctx context.Context, input *struct {
		Limit int `query:"limit" required:"false" minimum:"1"`
	}) (*struct {
		Body []BriefResponse `json:"body"`
	}, error) {
		limit := input.Limit
		if limit <= 0 {
			limit = a.Config.BriefLimit()
		}
		items, err := a.Remote.Briefs.Latest(ctx, limit)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []BriefResponse `json:"body"`
		}{Body: mapBriefs(items)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-brief",
		Method:        http.MethodPost,
		Path:          "/briefs",
		Summary:       "Create brief",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Body CreateBriefRequest `json:"body"`
	}) (*struct {
		Body BriefResponse `json:"body"`
	}, error) {
		brief, err := a.Remote.Briefs.Create(ctx, remote.BriefDraft{
			TaskID:          input.Body.TaskID,
			Content:         input.Body.Content,
			Recommendations: input.Body.Recommendations,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body BriefResponse `json:"body"`
		}{Body: briefResponse(brief)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-brief",
		Method:      http.MethodGet,
		Path:        "/briefs/{brief_id}",
		Summary:     "Get brief",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		BriefID string `path:"brief_id"`
	}) (*struct {
		Body BriefResponse `json:"body"`
	}, error) {
		brief, err := a.Remote.Briefs.GetByID(ctx, input.BriefID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body BriefResponse `json:"body"`
		}{Body: briefResponse(brief)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-brief",
		Method:      http.MethodPatch,
		Path:        "/briefs/{brief_id}",
		Summary:     "Update brief",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		BriefID string             `path:"brief_id"`
		Body    UpdateBriefRequest `json:"body"`
	}) (*struct {
		Body BriefResponse `json:"body"`
	}, error) {
		err := a.Remote.Briefs.Update(ctx, input.BriefID, remote.BriefPatch{
			Content:         input.Body.Content,
			Recommendations: input.Body.Recommendations,
		})
		if err != nil {
			return nil, handleError(err)
		}
		brief, err := a.Remote.Briefs.GetByID(ctx, input.BriefID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body BriefResponse `json:"body"`
		}{Body: briefResponse(brief)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-brief",
		Method:      http.MethodDelete,
		Path:        "/briefs/{brief_id}",
		Summary:     "Delete brief",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		BriefID string `path:"brief_id"`
	}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		if err := a.Remote.Briefs.Delete(ctx, input.BriefID); err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "deleted"}}, nil
	})
}

func registerStrategies(api huma.API, a *app.App) {
	huma.Register(api, huma.Operation{
		OperationID: "list-strategies",
		Method:      http.MethodGet,
		Path:        "/strategies",
		Summary:     "List strategies",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []StrategyResponse `json:"body"`
	}, error) {
		items, err := a.Remote.Strategies.ListAll(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		res := make([]StrategyResponse, 0, len(items))
		for _, s := range items {
			res = append(res, strategyResponse(s))
		}
		return &struct {
			Body []StrategyResponse `json:"body"`
		}{Body: res}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-strategy",
		Method:      http.MethodGet,
		Path:        "/strategies/{role}",
		Summary:     "Get a role's strategy",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		Role string `path:"role"`
	}) (*struct {
		Body StrategyResponse `json:"body"`
	}, error) {
		s, err := a.Remote.Strategies.GetByRole(ctx, input.Role)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body StrategyResponse `json:"body"`
		}{Body: strategyResponse(s)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-strategy",
		Method:      http.MethodPut,
		Path:        "/strategies/{role}",
		Summary:     "Set a role's strategy",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Role string             `path:"role"`
		Body SetStrategyRequest `json:"body"`
	}) (*struct {
		Body StrategyResponse `json:"body"`
	}, error) {
		s, err := a.Remote.Strategies.Set(ctx, remote.StrategyDraft{
			Role:        input.Role,
			Title:       input.Body.Title,
			Description: input.Body.Description,
			Objectives:  input.Body.Objectives,
			KPIs:        input.Body.KPIs,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body StrategyResponse `json:"body"`
		}{Body: strategyResponse(s)}, nil
	})
}

func registerDashboard(api huma.API, a *app.App) {
	huma.Register(api, huma.Operation{
		OperationID: "get-metrics",
		Method:      http.MethodGet,
		Path:        "/dashboard/metrics",
		Summary:     "Business metrics",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body MetricsResponse `json:"body"`
	}, error) {
		m, err := a.Remote.Dashboard.GetMetrics(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body MetricsResponse `json:"body"`
		}{Body: metricsResponse(m)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "put-metrics",
		Method:        http.MethodPost,
		Path:          "/dashboard/metrics",
		Summary:       "Record business metrics",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Body PutMetricsRequest `json:"body"`
	}) (*struct {
		Body MetricsResponse `json:"body"`
	}, error) {
		m, err := a.Remote.Dashboard.PutMetrics(ctx, input.Body.LTV, input.Body.MRR, input.Body.CashFlow)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body MetricsResponse `json:"body"`
		}{Body: metricsResponse(m)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-metrics",
		Method:      http.MethodPatch,
		Path:        "/dashboard/metrics/{metrics_id}",
		Summary:     "Update business metrics",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		MetricsID string               `path:"metrics_id"`
		Body      UpdateMetricsRequest `json:"body"`
	}) (*struct {
		Body MetricsResponse `json:"body"`
	}, error) {
		err := a.Remote.Dashboard.UpdateMetrics(ctx, input.MetricsID, remote.MetricsPatch{
			LTV:      input.Body.LTV,
			MRR:      input.Body.MRR,
			CashFlow: input.Body.CashFlow,
		})
		if err != nil {
			return nil, handleError(err)
		}
		m, err := a.Remote.Dashboard.GetMetrics(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body MetricsResponse `json:"body"`
		}{Body: metricsResponse(m)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-performance",
		Method:      http.MethodGet,
		Path:        "/dashboard/performance",
		Summary:     "Per-role performance",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []PerformanceResponse `json:"body"`
	}, error) {
		items, err := a.Remote.Dashboard.ListPerformance(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []PerformanceResponse `json:"body"`
		}{Body: mapPerformance(items)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-performance",
		Method:        http.MethodPost,
		Path:          "/dashboard/performance",
		Summary:       "Record per-role performance",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Body CreatePerformanceRequest `json:"body"`
	}) (*struct {
		Body PerformanceResponse `json:"body"`
	}, error) {
		p, err := a.Remote.Dashboard.CreatePerformance(ctx, remote.PerformanceDraft{
			Role:            input.Body.Role,
			CompletedKPIs:   input.Body.CompletedKPIs,
			TotalKPIs:       input.Body.TotalKPIs,
			ConfidenceScore: input.Body.ConfidenceScore,
			PositiveNotes:   input.Body.PositiveNotes,
			NegativeNotes:   input.Body.NegativeNotes,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body PerformanceResponse `json:"body"`
		}{Body: performanceResponse(p)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-performance",
		Method:      http.MethodPatch,
		Path:        "/dashboard/performance/{performance_id}",
		Summary:     "Update per-role performance",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		PerformanceID string                   `path:"performance_id"`
		Body          UpdatePerformanceRequest `json:"body"`
	}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		err := a.Remote.Dashboard.UpdatePerformance(ctx, input.PerformanceID, remote.PerformancePatch{
			CompletedKPIs:   input.Body.CompletedKPIs,
			TotalKPIs:       input.Body.TotalKPIs,
			ConfidenceScore: input.Body.ConfidenceScore,
			PositiveNotes:   input.Body.PositiveNotes,
			NegativeNotes:   input.Body.NegativeNotes,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "updated"}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "dashboard-latest-briefs",
		Method:      http.MethodGet,
		Path:        "/dashboard/latest-briefs",
		Summary:     "Latest briefs for the dashboard",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []BriefResponse `json:"body"`
	}, error) {
		items, err := a.Remote.Briefs.Latest(ctx, a.Config.BriefLimit())
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []BriefResponse `json:"body"`
		}{Body: mapBriefs(items)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "dashboard-problematic-tasks",
		Method:      http.MethodGet,
		Path:        "/dashboard/problematic-tasks",
		Summary:     "Problematic tasks for the dashboard",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []TaskResponse `json:"body"`
	}, error) {
		items, err := a.Remote.Tasks.ListProblematic(ctx, a.Config.ProblematicStatuses())
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []TaskResponse `json:"body"`
		}{Body: mapTasks(items)}, nil
	})
}

func registerFeedback(api huma.API, a *app.App) {
	huma.Register(api, huma.Operation{
		OperationID:   "submit-feedback",
		Method:        http.MethodPost,
		Path:          "/feedback",
		Summary:       "Submit feedback",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Body SubmitFeedbackRequest `json:"body"`
	}) (*struct {
		Body FeedbackResponse `json:"body"`
	}, error) {
		f, err := a.Remote.Feedback.Submit(ctx, remote.FeedbackDraft{
			TaskID:  input.Body.TaskID,
			BriefID: input.Body.BriefID,
			Content: input.Body.Content,
			Rating:  input.Body.Rating,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body FeedbackResponse `json:"body"`
		}{Body: feedbackResponse(f)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-feedback",
		Method:      http.MethodGet,
		Path:        "/feedback",
		Summary:     "List feedback",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []FeedbackResponse `json:"body"`
	}, error) {
		items, err := a.Remote.Feedback.ListAll(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []FeedbackResponse `json:"body"`
		}{Body: mapFeedback(items)}, nil
	})
}

func registerActivity(api huma.API, a *app.App) {
	huma.Register(api, huma.Operation{
		OperationID: "list-activity",
		Method:      http.MethodGet,
		Path:        "/activity",
		Summary:     "Recent activity",
	}, func(ctx context.Context, input *struct {
		Limit int `query:"limit" required:"false" minimum:"1"`
	}) (*struct {
		Body []ActivityResponse `json:"body"`
	}, error) {
		limit := input.Limit
		if limit <= 0 {
			limit = 50
		}
		items, err := activity.List(ctx, a.DB, limit)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []ActivityResponse `json:"body"`
		}{Body: mapActivity(items)}, nil
	})
}
