package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/baiirun/board/internal/board"
	"github.com/baiirun/board/internal/model"
	"github.com/labstack/echo/v4"
)

// Tip is attached to every process response.
const Tip = `Tip: Add keywords like "post", "deploy", "blog", "fix", "research" to trigger automatic actions!`

type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

type BoardResponse struct {
	Projects []model.Project `json:"projects"`
	Cards    []model.Card    `json:"cards"`
}

func (s *Server) handleListCards(c echo.Context) error {
	ctx := c.Request().Context()

	f := model.CardFilter{ProjectID: c.QueryParam("project_id")}
	if st := c.QueryParam("status"); st != "" {
		status := model.Status(st)
		f.Status = &status
	}

	projects, err := s.svc.ListProjects(ctx)
	if err != nil {
		return s.fail(c, err)
	}
	cards, err := s.svc.ListCards(ctx, f)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, BoardResponse{Projects: projects, Cards: cards})
}

type CreateCardRequest struct {
	Title       string         `json:"title"`
	Description *string        `json:"description"`
	ProjectID   string         `json:"project_id"`
	Priority    model.Priority `json:"priority"`
	CreatedBy   *string        `json:"created_by"`
}

type CardResponse struct {
	Card *model.Card `json:"card"`
}

func (s *Server) handleCreateCard(c echo.Context) error {
	var req CreateCardRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	card, err := s.svc.CreateCard(c.Request().Context(), board.CreateCardInput{
		Title:       req.Title,
		Description: req.Description,
		ProjectID:   req.ProjectID,
		Priority:    req.Priority,
		CreatedBy:   req.CreatedBy,
	})
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, CardResponse{Card: card})
}

type UpdateCardRequest struct {
	ID          string          `json:"id"`
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	ProjectID   *string         `json:"project_id"`
	Status      *model.Status   `json:"status"`
	Priority    *model.Priority `json:"priority"`
	Position    *float64        `json:"position"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

func (s *Server) handleUpdateCard(c echo.Context) error {
	var req UpdateCardRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.ID == "" {
		return badRequest(c, "card id is required")
	}

	err := s.svc.UpdateCard(c.Request().Context(), req.ID, model.CardUpdate{
		Title:       req.Title,
		Description: req.Description,
		ProjectID:   req.ProjectID,
		Status:      req.Status,
		Priority:    req.Priority,
		Position:    req.Position,
	})
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func (s *Server) handleDeleteCard(c echo.Context) error {
	ctx := c.Request().Context()

	if c.QueryParam("all") == "true" {
		if err := s.svc.DeleteAllCards(ctx); err != nil {
			return s.fail(c, err)
		}
		return c.JSON(http.StatusOK, SuccessResponse{Success: true})
	}

	id := c.QueryParam("id")
	if id == "" {
		return badRequest(c, "card id is required")
	}
	if err := s.svc.DeleteCard(ctx, id); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

type MoveRequest struct {
	Direction string `json:"direction"`
}

func (s *Server) handleMoveCard(c echo.Context) error {
	var req MoveRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	dir, err := model.ParseDirection(req.Direction)
	if err != nil {
		return badRequest(c, err.Error())
	}

	card, err := s.svc.MoveCard(c.Request().Context(), c.Param("id"), dir)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, CardResponse{Card: card})
}

type CountResponse struct {
	Count int `json:"count"`
}

type CommentsResponse struct {
	Comments []model.Comment `json:"comments"`
}

func (s *Server) handleGetVotes(c echo.Context) error {
	ctx := c.Request().Context()

	cardID := c.QueryParam("card_id")
	if cardID == "" {
		return badRequest(c, "card_id required")
	}

	if c.QueryParam("action") == "comments" {
		comments, err := s.svc.Comments(ctx, cardID)
		if err != nil {
			return s.fail(c, err)
		}
		return c.JSON(http.StatusOK, CommentsResponse{Comments: comments})
	}

	count, err := s.svc.VoteCount(ctx, cardID)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, CountResponse{Count: count})
}

type VoteRequest struct {
	CardID  string `json:"card_id"`
	Action  string `json:"action"`
	Author  string `json:"author"`
	Content string `json:"content"`
}

type VoteResponse struct {
	Success  bool `json:"success"`
	Recorded bool `json:"recorded"`
}

type CommentResponse struct {
	Comment *model.Comment `json:"comment"`
}

func (s *Server) handlePostVotes(c echo.Context) error {
	ctx := c.Request().Context()

	var req VoteRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.CardID == "" {
		return badRequest(c, "card_id required")
	}

	switch req.Action {
	case "vote":
		recorded, err := s.svc.Vote(ctx, req.CardID, voterIdentity(c.Request()))
		if err != nil {
			return s.fail(c, err)
		}
		return c.JSON(http.StatusOK, VoteResponse{Success: true, Recorded: recorded})
	case "comment":
		comment, err := s.svc.AddComment(ctx, req.CardID, req.Author, req.Content)
		if err != nil {
			return s.fail(c, err)
		}
		return c.JSON(http.StatusOK, CommentResponse{Comment: comment})
	default:
		return badRequest(c, "invalid action")
	}
}

// voterIdentity prefers the first X-Forwarded-For hop, then X-Real-IP.
func voterIdentity(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
			return first
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	return board.AnonymousVoter
}

type ProcessRequest struct {
	CardID string `json:"card_id"`
	Action string `json:"action"`
}

type ProcessResponse struct {
	Success  bool        `json:"success"`
	Card     *model.Card `json:"card"`
	Executed []string    `json:"executed"`
	Errors   []string    `json:"errors"`
	Message  string      `json:"message"`
	Tip      string      `json:"tip"`
}

func (s *Server) handleProcess(c echo.Context) error {
	var req ProcessRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Action != "process" || req.CardID == "" {
		return badRequest(c, "invalid action")
	}

	res, err := s.svc.ProcessCard(c.Request().Context(), req.CardID)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, ProcessResponse{
		Success:  res.Success,
		Card:     res.Card,
		Executed: res.Executed,
		Errors:   res.Errors,
		Message:  res.Message,
		Tip:      Tip,
	})
}

type ExecuteRequest struct {
	Task   string `json:"task"`
	TaskID string `json:"task_id"`
}

type ExecuteResponse struct {
	Success  bool     `json:"success"`
	TaskID   string   `json:"task_id"`
	Category string   `json:"category"`
	Result   string   `json:"result"`
	Message  string   `json:"message"`
	Errors   []string `json:"errors"`
}

func (s *Server) handleExecute(c echo.Context) error {
	var req ExecuteRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	exec, err := s.svc.ExecuteTask(c.Request().Context(), req.Task)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, ExecuteResponse{
		Success:  len(exec.Errors) == 0,
		TaskID:   req.TaskID,
		Category: exec.Category.String(),
		Result:   exec.Result,
		Message:  exec.Result,
		Errors:   exec.Errors,
	})
}

type HeartbeatResponse struct {
	Online        bool    `json:"online"`
	Timestamp     string  `json:"timestamp"`
	Version       string  `json:"version"`
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

func (s *Server) handleHeartbeat(c echo.Context) error {
	return c.JSON(http.StatusOK, HeartbeatResponse{
		Online:        true,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Version:       Version,
		Status:        "idle",
		UptimeSeconds: time.Since(s.started).Seconds(),
	})
}
