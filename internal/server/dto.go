package server

import (
	"execboard/internal/domain"
)

type TaskResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Role        string  `json:"role"`
	Status      string  `json:"status"`
	BriefID     *string `json:"brief_id,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
	CompletedAt *string `json:"completed_at,omitempty"`
}

func taskResponse(t domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Role:        t.Role,
		Status:      t.Status,
		BriefID:     t.BriefID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		CompletedAt: t.CompletedAt,
	}
}

func mapTasks(items []domain.Task) []TaskResponse {
	res := make([]TaskResponse, 0, len(items))
	for _, t := range items {
		res = append(res, taskResponse(t))
	}
	return res
}

type CreateTaskRequest struct {
	Title       string  `json:"title" minLength:"1"`
	Description string  `json:"description,omitempty"`
	Role        string  `json:"role" enum:"CEO,COO,CMO,CCO,CTO,CFO,CHRO"`
	Status      string  `json:"status,omitempty" enum:"pending,in_progress,completed,failed"`
	BriefID     *string `json:"brief_id,omitempty"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Role        *string `json:"role,omitempty" enum:"CEO,COO,CMO,CCO,CTO,CFO,CHRO"`
	Status      *string `json:"status,omitempty" enum:"pending,in_progress,completed,failed"`
	BriefID     *string `json:"brief_id,omitempty"`
	CompletedAt *string `json:"completed_at,omitempty"`
}

type BriefResponse struct {
	ID              string   `json:"id"`
	TaskID          string   `json:"task_id"`
	Content         string   `json:"content"`
	Recommendations []string `json:"recommendations"`
	CreatedAt       string   `json:"created_at"`
}

func briefResponse(b domain.Brief) BriefResponse {
	return BriefResponse{
		ID:              b.ID,
		TaskID:          b.TaskID,
		Content:         b.Content,
		Recommendations: b.Recommendations,
		CreatedAt:       b.CreatedAt,
	}
}

func mapBriefs(items []domain.Brief) []BriefResponse {
	res := make([]BriefResponse, 0, len(items))
	for _, b := range items {
		res = append(res, briefResponse(b))
	}
	return res
}

type CreateBriefRequest struct {
	TaskID          string   `json:"task_id" minLength:"1"`
	Content         string   `json:"content" minLength:"1"`
	Recommendations []string `json:"recommendations,omitempty"`
}

type UpdateBriefRequest struct {
	Content         *string  `json:"content,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

type StrategyResponse struct {
	ID          string   `json:"id"`
	Role        string   `json:"role"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Objectives  []string `json:"objectives"`
	KPIs        []string `json:"kpis"`
	UpdatedAt   string   `json:"updated_at"`
}

func strategyResponse(s domain.Strategy) StrategyResponse {
	return StrategyResponse{
		ID:          s.ID,
		Role:        s.Role,
		Title:       s.Title,
		Description: s.Description,
		Objectives:  s.Objectives,
		KPIs:        s.KPIs,
		UpdatedAt:   s.UpdatedAt,
	}
}

type SetStrategyRequest struct {
	Title       string   `json:"title" minLength:"1"`
	Description string   `json:"description,omitempty"`
	Objectives  []string `json:"objectives,omitempty"`
	KPIs        []string `json:"kpis,omitempty"`
}

type MetricsResponse struct {
	ID        string  `json:"id"`
	LTV       float64 `json:"ltv"`
	MRR       float64 `json:"mrr"`
	CashFlow  float64 `json:"cash_flow"`
	UpdatedAt *string `json:"updated_at,omitempty"`
}

func metricsResponse(m domain.BusinessMetrics) MetricsResponse {
	return MetricsResponse{ID: m.ID, LTV: m.LTV, MRR: m.MRR, CashFlow: m.CashFlow, UpdatedAt: m.UpdatedAt}
}

type PutMetricsRequest struct {
	LTV      float64 `json:"ltv"`
	MRR      float64 `json:"mrr"`
	CashFlow float64 `json:"cash_flow"`
}

type UpdateMetricsRequest struct {
	LTV      *float64 `json:"ltv,omitempty"`
	MRR      *float64 `json:"mrr,omitempty"`
	CashFlow *float64 `json:"cash_flow,omitempty"`
}

type PerformanceResponse struct {
	ID              string   `json:"id"`
	Role            string   `json:"role"`
	CompletedKPIs   int      `json:"completed_kpis"`
	TotalKPIs       int      `json:"total_kpis"`
	ConfidenceScore int      `json:"confidence_score"`
	PositiveNotes   []string `json:"positive_notes"`
	NegativeNotes   []string `json:"negative_notes"`
	UpdatedAt       string   `json:"updated_at"`
}

func performanceResponse(p domain.CLevelPerformance) PerformanceResponse {
	return PerformanceResponse{
		ID:              p.ID,
		Role:            p.Role,
		CompletedKPIs:   p.CompletedKPIs,
		TotalKPIs:       p.TotalKPIs,
		ConfidenceScore: p.ConfidenceScore,
		PositiveNotes:   p.PositiveNotes,
		NegativeNotes:   p.NegativeNotes,
		UpdatedAt:       p.UpdatedAt,
	}
}

func mapPerformance(items []domain.CLevelPerformance) []PerformanceResponse {
	res := make([]PerformanceResponse, 0, len(items))
	for _, p := range items {
		res = append(res, performanceResponse(p))
	}
	return res
}

type CreatePerformanceRequest struct {
	Role            string   `json:"role" enum:"CEO,COO,CMO,CCO,CTO,CFO,CHRO"`
	CompletedKPIs   int      `json:"completed_kpis" minimum:"0"`
	TotalKPIs       int      `json:"total_kpis" minimum:"0"`
	ConfidenceScore int      `json:"confidence_score" minimum:"0" maximum:"100"`
	PositiveNotes   []string `json:"positive_notes,omitempty"`
	NegativeNotes   []string `json:"negative_notes,omitempty"`
}

type UpdatePerformanceRequest struct {
	CompletedKPIs   *int     `json:"completed_kpis,omitempty"`
	TotalKPIs       *int     `json:"total_kpis,omitempty"`
	ConfidenceScore *int     `json:"confidence_score,omitempty"`
	PositiveNotes   []string `json:"positive_notes,omitempty"`
	NegativeNotes   []string `json:"negative_notes,omitempty"`
}

type FeedbackResponse struct {
	ID        string  `json:"id"`
	TaskID    *string `json:"task_id,omitempty"`
	BriefID   *string `json:"brief_id,omitempty"`
	Content   string  `json:"content"`
	Rating    int     `json:"rating"`
	CreatedAt string  `json:"created_at"`
}

func feedbackResponse(f domain.Feedback) FeedbackResponse {
	return FeedbackResponse{ID: f.ID, TaskID: f.TaskID, BriefID: f.BriefID, Content: f.Content, Rating: f.Rating, CreatedAt: f.CreatedAt}
}

func mapFeedback(items []domain.Feedback) []FeedbackResponse {
	res := make([]FeedbackResponse, 0, len(items))
	for _, f := range items {
		res = append(res, feedbackResponse(f))
	}
	return res
}

type SubmitFeedbackRequest struct {
	TaskID  *string `json:"task_id,omitempty"`
	BriefID *string `json:"brief_id,omitempty"`
	Content string  `json:"content" minLength:"1"`
	Rating  int     `json:"rating" minimum:"1" maximum:"5"`
}

type ActivityResponse struct {
	ID         int64  `json:"id"`
	TS         string `json:"ts"`
	Type       string `json:"type"`
	EntityKind string `json:"entity_kind"`
	EntityID   string `json:"entity_id,omitempty"`
	Payload    string `json:"payload_json,omitempty"`
}

func mapActivity(items []domain.ActivityEntry) []ActivityResponse {
	res := make([]ActivityResponse, 0, len(items))
	for _, e := range items {
		res = append(res, ActivityResponse{ID: e.ID, TS: e.TS, Type: e.Type, EntityKind: e.EntityKind, EntityID: e.EntityID, Payload: e.Payload})
	}
	return res
}

type UserResponse struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Email       string                  `json:"email"`
	Role        string                  `json:"role,omitempty"`
	TelegramID  *string                 `json:"telegram_id,omitempty"`
	Preferences *domain.UserPreferences `json:"preferences,omitempty"`
}

func userResponse(u domain.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, TelegramID: u.TelegramID, Preferences: u.Preferences}
}

type LoginRequest struct {
	Email    string `json:"email" format:"email"`
	Password string `json:"password,omitempty"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
