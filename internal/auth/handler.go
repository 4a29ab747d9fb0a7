package auth

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/redmonkez12/go-auth-api/internal/httputil"
	"github.com/redmonkez12/go-auth-api/internal/logging"
	"github.com/redmonkez12/go-auth-api/internal/user"
)

const maxBodyBytes = 1 << 20

// Outcome labels passed to the Recorder
const (
	OutcomeSuccess   = "success"
	OutcomeInvalid   = "invalid"
	OutcomeDuplicate = "duplicate"
	OutcomeError     = "error"
)

// Recorder receives one outcome per register or login attempt
type Recorder interface {
	RecordRegistration(outcome string)
	RecordLogin(outcome string)
}

type noopRecorder struct{}

func (noopRecorder) RecordRegistration(string) {}
func (noopRecorder) RecordLogin(string)        {}

// Handler contains HTTP handlers for authentication endpoints
type Handler struct {
	service *Service
	metrics Recorder
}

func NewHandler(service *Service, metrics Recorder) *Handler {
	if metrics == nil {
		metrics = noopRecorder{}
	}
	return &Handler{
		service: service,
		metrics: metrics,
	}
}

// ProfileResponse documents the GET /auth body
type ProfileResponse = user.User

// Register handles user registration
// @Summary      Register a new user
// @Description  Create an account and receive a bearer token valid for one hour
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body RegisterInput true "Registration details"
// @Success      200 {object} TokenResponse
// @Failure      400 {object} httputil.ErrorsResponse "Validation error or user already exists"
// @Failure      500 {object} httputil.ErrorsResponse "Server Error"
// @Router       /users [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req RegisterInput
	if !decodeBody(w, r, &req) {
		h.metrics.RecordRegistration(OutcomeInvalid)
		return
	}

	logger = logger.WithFields(map[string]any{"email": user.NormalizeEmail(req.Email)})

	token, err := h.service.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserExists):
			h.metrics.RecordRegistration(OutcomeDuplicate)
		case isClientError(err):
			h.metrics.RecordRegistration(OutcomeInvalid)
		default:
			h.metrics.RecordRegistration(OutcomeError)
		}
		respondServiceError(w, logger, "registration failed", err)
		return
	}

	h.metrics.RecordRegistration(OutcomeSuccess)
	logger.Info("user registered successfully")
	httputil.RespondJSON(w, TokenResponse{Token: token}, http.StatusOK)
}

// Login handles user login
// @Summary      User login
// @Description  Authenticate with email and password and receive a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginInput true "Login credentials"
// @Success      200 {object} TokenResponse
// @Failure      400 {object} httputil.ErrorsResponse "Validation error or invalid credentials"
// @Failure      500 {object} httputil.ErrorsResponse "Server Error"
// @Router       /auth [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req LoginInput
	if !decodeBody(w, r, &req) {
		h.metrics.RecordLogin(OutcomeInvalid)
		return
	}

	logger = logger.WithFields(map[string]any{"email": user.NormalizeEmail(req.Email)})

	token, err := h.service.Login(r.Context(), req)
	if err != nil {
		if isClientError(err) {
			h.metrics.RecordLogin(OutcomeInvalid)
		} else {
			h.metrics.RecordLogin(OutcomeError)
		}
		respondServiceError(w, logger, "login failed", err)
		return
	}

	h.metrics.RecordLogin(OutcomeSuccess)
	logger.Info("user logged in successfully")
	httputil.RespondJSON(w, TokenResponse{Token: token}, http.StatusOK)
}

// Me returns the profile of the token's owner
// @Summary      Current user
// @Description  Return the authenticated user's profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} ProfileResponse
// @Failure      401 {object} httputil.MessageResponse "Missing or invalid token"
// @Failure      404 {object} httputil.ErrorsResponse "User not found"
// @Failure      500 {object} httputil.ErrorsResponse "Server Error"
// @Router       /auth [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	token, ok := TokenFromContext(r.Context())
	if !ok {
		httputil.RespondMessage(w, httputil.MsgNoToken, http.StatusUnauthorized)
		return
	}

	profile, err := h.service.Profile(r.Context(), token)
	if err != nil {
		respondServiceError(w, logger, "profile lookup failed", err)
		return
	}

	httputil.RespondJSON(w, profile, http.StatusOK)
}

// decodeBody reads a JSON body into dst. An empty body decodes to the zero
// value so field validation can report what is missing.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		logging.GetLoggerFromContext(r.Context()).Warn("invalid request body", "error", err.Error())
		httputil.RespondError(w, httputil.MsgInvalidRequestBody, http.StatusBadRequest)
		return false
	}
	return true
}

func isClientError(err error) bool {
	var verrs ValidationErrors
	return errors.As(err, &verrs) ||
		errors.Is(err, ErrUserExists) ||
		errors.Is(err, ErrInvalidCredentials)
}

// respondServiceError maps a service error to its response. Client errors
// are logged at warn, everything else at error with the cause kept out of
// the response.
func respondServiceError(w http.ResponseWriter, logger *logging.Logger, op string, err error) {
	var verrs ValidationErrors
	switch {
	case errors.As(err, &verrs):
		logger.Warn(op+": validation error", "error", err.Error())
		details := make([]httputil.ErrorDetail, len(verrs))
		for i, fe := range verrs {
			details[i] = httputil.ErrorDetail{Msg: fe.Message, Param: fe.Field, Location: "body"}
		}
		httputil.RespondErrors(w, http.StatusBadRequest, details...)
	case errors.Is(err, ErrUserExists):
		logger.Warn(op, "error", err.Error())
		httputil.RespondError(w, ErrUserExists.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrInvalidCredentials):
		logger.Warn(op, "error", err.Error())
		httputil.RespondError(w, ErrInvalidCredentials.Error(), http.StatusBadRequest)
	case IsAuthenticationError(err):
		logger.Warn(op, "error", err.Error())
		httputil.RespondMessage(w, httputil.MsgInvalidToken, http.StatusUnauthorized)
	case errors.Is(err, ErrUserNotFound):
		logger.Warn(op, "error", err.Error())
		httputil.RespondError(w, ErrUserNotFound.Error(), http.StatusNotFound)
	default:
		logger.Error(op+": internal error", "error", err.Error())
		httputil.RespondServerError(w)
	}
}
