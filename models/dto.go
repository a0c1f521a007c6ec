package models

// DeleteAccountPhrase must be typed verbatim to confirm self-service deletion.
const DeleteAccountPhrase = "delete my account"

// Passwords are limited to 72 bytes, the most bcrypt will hash.
type RegisterRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email,max=100"`
	Password string `json:"password" form:"password" validate:"required,bytemax=72"`
	Name     string `json:"name" form:"name" validate:"required,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,max=100"`
	Password string `json:"password" form:"password" validate:"required,bytemax=72"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type ResetPasswordRequest struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

type ConfirmResetRequest struct {
	NewPassword        string `json:"new_password" form:"new_password" validate:"required,bytemax=72"`
	NewPasswordConfirm string `json:"new_password_confirm" form:"new_password_confirm" validate:"required,eqfield=NewPassword"`
}

type DeleteAccountRequest struct {
	Password     string `json:"password" form:"password" validate:"required"`
	Confirmation string `json:"confirmation" form:"confirmation" validate:"required"`
}

type CreatePostRequest struct {
	Title    string `json:"title" form:"title" validate:"required,max=250"`
	Subtitle string `json:"subtitle" form:"subtitle" validate:"required,max=250"`
	ImgURL   string `json:"img_url" form:"img_url" validate:"required,url,max=250"`
	Body     string `json:"body" form:"body" validate:"required"`
}

type CreateCommentRequest struct {
	Text     string `json:"text" form:"text" validate:"required"`
	ParentID *uint  `json:"parent_id" form:"parent_id"`
}

type SuggestEditRequest struct {
	EditType  string `json:"edit_type" form:"edit_type" validate:"required,oneof=article_error new_feature bug_fix other"`
	EditText  string `json:"edit_text" form:"edit_text" validate:"required"`
	OtherInfo string `json:"other_info" form:"other_info" validate:"max=250"`
}

type NewsletterSignupRequest struct {
	Interest       string `json:"interest" form:"interest" validate:"required,max=100"`
	ApproxLocation string `json:"approx_location" form:"approx_location" validate:"max=250"`
	OtherInfo      string `json:"other_info" form:"other_info" validate:"omitempty,oneof=Yes No yes no"`
}

type PostListParams struct {
	Page  int `form:"page,default=1"`
	Limit int `form:"limit,default=10"`
}
