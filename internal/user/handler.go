package user

import (
	"errors"
	"net/http"

	"umkm-store-be/internal/logger"
	"umkm-store-be/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// Routes registers the public auth endpoints. requireAuth guards /me.
func (h *Handler) Routes(requireAuth func(http.Handler) http.Handler) func(chi.Router) {
	return func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Get("/verify-email", h.VerifyEmail)
		r.Post("/login", h.Login)
		r.Post("/forgot-password", h.ForgotPassword)
		r.Post("/reset-password", h.ResetPassword)
		r.With(requireAuth).Get("/me", h.Me)
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type authResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var input RegisterInput
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.WriteJSONError(w, "Invalid request body.", http.StatusBadRequest)
		return
	}

	u, err := h.svc.Register(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.Response{
		Success: true,
		Message: "Registration successful. Please check your email to verify your account.",
		Data:    u,
	})
}

func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.VerifyEmail(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Response{
		Success: true,
		Message: "Email verified. Please log in.",
		Data:    u,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteJSONError(w, "Invalid request body.", http.StatusBadRequest)
		return
	}

	token, u, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Response{
		Success: true,
		Message: "Login successful.",
		Data:    authResponse{User: u, Token: token},
	})
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteJSONError(w, "Invalid request body.", http.StatusBadRequest)
		return
	}

	if err := h.svc.ForgotPassword(r.Context(), req.Email); err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Response{
		Success: true,
		Message: "If the email is registered, a password reset link has been sent.",
	})
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var input ResetPasswordInput
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.WriteJSONError(w, "Invalid request body.", http.StatusBadRequest)
		return
	}

	if err := h.svc.ResetPassword(r.Context(), input); err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Response{
		Success: true,
		Message: "Password has been reset. Please log in with your new password.",
	})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	u, err := h.svc.Me(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Response{Success: true, Data: u})
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrMissingFields),
		errors.Is(err, ErrMissingCredentials),
		errors.Is(err, ErrEmailDomainNotAllowed),
		errors.Is(err, ErrPasswordTooShort),
		errors.Is(err, ErrEmailExists),
		errors.Is(err, ErrMissingVerificationToken),
		errors.Is(err, ErrInvalidVerificationToken),
		errors.Is(err, ErrAlreadyVerified),
		errors.Is(err, ErrMissingEmail),
		errors.Is(err, ErrMissingResetFields),
		errors.Is(err, ErrInvalidResetToken),
		errors.Is(err, ErrResetTokenExpired):
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrInvalidCredentials):
		utils.WriteJSONError(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, ErrAccountBlocked),
		errors.Is(err, ErrEmailNotVerified):
		utils.WriteJSONError(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrUserNotFound):
		utils.WriteJSONError(w, "User not found.", http.StatusNotFound)
	default:
		logger.FromCtx(r.Context()).Error("auth request failed", zap.Error(err))
		utils.WriteJSONError(w, "Internal server error.", http.StatusInternalServerError)
	}
}
