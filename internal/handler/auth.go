package handler

import (
	"net/http"

	"github.com/vasapolrittideah/stories-api/internal/payload"
	"github.com/vasapolrittideah/stories-api/internal/response"
	"github.com/vasapolrittideah/stories-api/internal/usecase"
)

func (h *httpHandler) signIn(w http.ResponseWriter, r *http.Request) {
	var req payload.SignInRequest
	if !h.bindJSON(w, r, &req) {
		return
	}

	res, err := h.Auth.Login(r.Context(), usecase.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.handleError(w, r, err, "failed to sign in")
		return
	}

	response.JSON(w, http.StatusOK, response.Envelope{
		Status:  http.StatusOK,
		Success: true,
		Message: "Log in successful",
		Token:   res.Token,
		User:    payload.NewUserResponse(res.User),
	})
}

func (h *httpHandler) signUp(w http.ResponseWriter, r *http.Request) {
	var req payload.CreateUserRequest
	if !h.bindJSON(w, r, &req) {
		return
	}

	res, err := h.Auth.Register(r.Context(), usecase.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
		Gender:   req.Gender,
		Role:     req.Role,
	})
	if err != nil {
		h.handleError(w, r, err, "failed to create user")
		return
	}

	response.JSON(w, http.StatusCreated, response.Envelope{
		Status:  http.StatusCreated,
		Success: true,
		Message: "User created",
		Token:   res.Token,
		User:    payload.NewUserResponse(res.User),
	})
}

func (h *httpHandler) forgetPassword(w http.ResponseWriter, r *http.Request) {
	var req payload.ForgetPasswordRequest
	if !h.bindJSON(w, r, &req) {
		return
	}

	if err := h.PasswordReset.RequestPasswordReset(r.Context(), req.Email); err != nil {
		h.handleError(w, r, err, "failed to request password reset")
		return
	}

	response.OK(w, http.StatusOK, "OTP sent to your email", nil)
}

func (h *httpHandler) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var req payload.VerifyOTPRequest
	if !h.bindJSON(w, r, &req) {
		return
	}

	if err := h.PasswordReset.VerifyOTP(r.Context(), req.Email, req.OTP); err != nil {
		h.handleError(w, r, err, "failed to verify otp")
		return
	}

	response.OK(w, http.StatusOK, "OTP verified successfully", nil)
}

func (h *httpHandler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req payload.ResetPasswordRequest
	if !h.bindJSON(w, r, &req) {
		return
	}

	if err := h.PasswordReset.ResetPassword(r.Context(), req.Email, req.NewPassword); err != nil {
		h.handleError(w, r, err, "failed to reset password")
		return
	}

	response.OK(w, http.StatusOK, "Password reset successfully", nil)
}
