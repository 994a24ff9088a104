package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/nem0/pkg/domain/model"
	"github.com/secmon-lab/nem0/pkg/usecase"
	"github.com/secmon-lab/nem0/pkg/utils/errutil"
)

const maxRequestBodySize = 1 << 20

const healthMessage = "Nem-0 API is running"

type chatRequest struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

type chatResponse struct {
	Reply        string `json:"reply"`
	MemoriesUsed int    `json:"memoriesUsed"`
	UserID       string `json:"userId"`
}

type memoryEntry struct {
	ID        string    `json:"id"`
	Memory    string    `json:"memory"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

type memoriesResponse struct {
	Memories []memoryEntry `json:"memories"`
	Count    int           `json:"count"`
	UserID   string        `json:"userId"`
}

type deletedResponse struct {
	Deleted bool   `json:"deleted"`
	UserID  string `json:"userId"`
}

type profileRequest struct {
	UserID        string `json:"userId"`
	BusinessType  string `json:"businessType"`
	RevenueRange  string `json:"revenueRange"`
	PrimaryGoals  string `json:"primaryGoals"`
	PainPoints    string `json:"painPoints"`
	RiskTolerance string `json:"riskTolerance"`
}

type savedResponse struct {
	Saved  bool   `json:"saved"`
	UserID string `json:"userId"`
}

type onboardingResponse struct {
	OnboardingComplete bool   `json:"onboardingComplete"`
	UserID             string `json:"userId"`
}

type recommendationRequest struct {
	UserID string `json:"userId"`
}

type recommendationResponse struct {
	Recommendations string   `json:"recommendations"`
	Actions         []string `json:"actions"`
	UserID          string   `json:"userId"`
}

type trackActionRequest struct {
	UserID     string `json:"userId"`
	ActionText string `json:"actionText"`
	Status     string `json:"status"`
}

type trackedResponse struct {
	Tracked bool   `json:"tracked"`
	UserID  string `json:"userId"`
}

type checkInRequest struct {
	UserID        string `json:"userId"`
	WeekNumber    int    `json:"weekNumber"`
	KeyWins       string `json:"keyWins"`
	KeyChallenges string `json:"keyChallenges"`
	Summary       string `json:"summary"`
	Sentiment     string `json:"sentiment"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// decodeBody rejects malformed or oversized JSON as a validation error
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return goerr.Wrap(model.ErrValidation, "malformed request body: "+err.Error())
	}
	return nil
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	errutil.WriteJSON(r.Context(), w, http.StatusOK, messageResponse{Message: healthMessage})
}

func (s *Server) chatHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req chatRequest
	if err := decodeBody(w, r, &req); err != nil {
		errutil.HandleHTTP(ctx, w, err)
		return
	}

	reply, err := s.uc.Chat.Chat(ctx, req.UserID, req.Message)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err)
		return
	}

	errutil.WriteJSON(ctx, w, http.StatusOK, chatResponse{
		Reply:        reply.Reply,
		MemoriesUsed: reply.MemoriesUsed,
		UserID:       reply.UserID.String(),
	})
}

func (s *Server) listMemoriesHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	memories, userID, err := s.uc.Memory.ListMemories(ctx, chi.URLParam(r, "userId"))
	if err != nil {
		errutil.HandleHTTP(ctx, w, err)
		return
	}

	entries := make([]memoryEntry, 0, len(memories))
	for _, m := range memories {
		entries = append(entries, memoryEntry{
			ID:        string(m.ID),
			Memory:    m.Content,
			UserID:    m.UserID.String(),
			CreatedAt: m.CreatedAt,
		})
	}

	errutil.WriteJSON(ctx, w, http.StatusOK, memoriesResponse{
		Memories: entries,
		Count:    len(entries),
		UserID:   userID.String(),
	})
}

func (s *Server) deleteMemoriesHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := s.uc.Memory.DeleteMemories(ctx, chi.URLParam(r, "userId"))
	if err != nil {
		errutil.HandleHTTP(ctx, w, err)
		return
	}

	errutil.WriteJSON(ctx, w, http.StatusOK, deletedResponse{Deleted: true, UserID: userID.String()})
}

func (s *Server) saveProfileHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req profileRequest
	if err := decodeBody(w, r, &req); err != nil {
		errutil.HandleHTTP(ctx, w, err)
		return
	}

	userID, err := s.uc.Profile.SaveProfile(ctx, usecase.ProfileInput{
		UserID:        req.UserID,
		BusinessType:  req.BusinessType,
		RevenueRange:  req.RevenueRange,
		PrimaryGoals:  req.PrimaryGoals,
		PainPoints:    req.PainPoints,
		RiskTolerance: req.RiskTolerance,
	})
	if err != nil {
		errutil.HandleHTTP(ctx, w, err)
		return
	}

	errutil.WriteJSON(ctx, w, http.StatusOK, savedResponse{Saved: true, UserID: userID.String()})
}

func (s *Server) onboardingHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	complete, userID, err := s.uc.Profile.CheckOnboarding(ctx, chi.URLParam(r, "userId"))
	if err != nil {
		errutil.HandleHTTP(ctx, w, err)
		return
	}

	errutil.WriteJSON(ctx, w, http.StatusOK, onboardingResponse{
		OnboardingComplete: complete,
		UserID:             userID.String(),
	})
}

func (s *Server) recommendHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req recommendationRequest
	if err := decodeBody(w, r, &req); err != nil {
		errutil.HandleHTTP(ctx, w, err)
		return
	}

	rec, err := s.uc.Recommendation.Recommend(ctx, req.UserID)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err)
		return
	}

	errutil.WriteJSON(ctx, w, http.StatusOK, recommendationResponse{
		Recommendations: rec.Text,
		Actions:         rec.Actions,
		UserID:          rec.UserID.String(),
	})
}

func (s *Server) trackActionHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req trackActionRequest
	if err := decodeBody(w, r, &req); err != nil {
		errutil.HandleHTTP(ctx, w, err)
		return
	}

	userID, err := s.uc.Recommendation.TrackAction(ctx, req.UserID, req.ActionText, req.Status)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err)
		return
	}

	errutil.WriteJSON(ctx, w, http.StatusOK, trackedResponse{Tracked: true, UserID: userID.String()})
}

func (s *Server) checkInHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req checkInRequest
	if err := decodeBody(w, r, &req); err != nil {
		errutil.HandleHTTP(ctx, w, err)
		return
	}

	userID, err := s.uc.CheckIn.SaveCheckIn(ctx, usecase.CheckInInput{
		UserID:        req.UserID,
		WeekNumber:    req.WeekNumber,
		KeyWins:       req.KeyWins,
		KeyChallenges: req.KeyChallenges,
		Summary:       req.Summary,
		Sentiment:     req.Sentiment,
	})
	if err != nil {
		errutil.HandleHTTP(ctx, w, err)
		return
	}

	errutil.WriteJSON(ctx, w, http.StatusOK, savedResponse{Saved: true, UserID: userID.String()})
}
