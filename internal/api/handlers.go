package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/nervilabs/nervi-backend/internal/auth"
	"github.com/nervilabs/nervi-backend/internal/core"
	"github.com/nervilabs/nervi-backend/internal/store"
)

// UserStore is the slice of the store the auth surface needs.
type UserStore interface {
	GetUserByEmail(email string) (*store.User, error)
	GetUserByID(id string) (*store.User, error)
	CreateUser(email, passwordHash string) (*store.User, error)
}

// Services bundles the wired service layer for the handler.
type Services struct {
	Chat      *core.ChatService
	DailyRead *core.DailyReadService
	Schedules *core.ScheduleService
	Journal   *core.JournalService
	Triggers  *core.TriggerService
	LifeStory *core.LifeStoryService
	Programs  *core.ProgramService
	Tasks     *core.TaskService
	Push      *core.PushService
	Promos    *core.PromoService
}

type Handler struct {
	users      UserStore
	tokens     *auth.TokenIssuer
	svc        Services
	validate   *validator.Validate
	logger     *zap.Logger
	cronSecret string
}

func NewHandler(users UserStore, tokens *auth.TokenIssuer, svc Services, cronSecret string, logger *zap.Logger) *Handler {
	return &Handler{
		users:      users,
		tokens:     tokens,
		svc:        svc,
		validate:   validator.New(),
		logger:     logger,
		cronSecret: cronSecret,
	}
}

// decodeAndValidate decodes the JSON body into req and runs its
// validation tags. Callers get false after a response was written.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return false
	}
	return true
}

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	existing, err := h.users.GetUserByEmail(req.Email)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "an account with that email already exists")
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("password hashing failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to process password")
		return
	}

	user, err := h.users.CreateUser(req.Email, hashed)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		h.logger.Error("token generation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"user": user, "token": token})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.GetUserByEmail(req.Email)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if user == nil || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		h.logger.Error("token generation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetUserByID(UserID(r.Context()))
	if err != nil || user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
