package payload

type SignInRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type ForgetPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp"   validate:"required"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"       validate:"required,email"`
	NewPassword string `json:"newPassword" validate:"required,password_policy"`
}
