package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/go2hand/go2hand/internal/accounts"
	"github.com/go2hand/go2hand/internal/supabase"
)

// AccountStore is the slice of the account service these handlers need.
type AccountStore interface {
	SignUp(ctx context.Context, email, password, username string) (*supabase.Session, error)
	SignIn(ctx context.Context, email, password string) (*supabase.Session, error)
	CurrentUser(ctx context.Context, accessToken string) (*accounts.Profile, error)
	UploadAvatar(ctx context.Context, accessToken string, r io.Reader, contentType string) (string, error)
}

// AccountsHandler handles authentication and profile endpoints.
type AccountsHandler struct {
	accounts AccountStore
}

// NewAccountsHandler creates a new AccountsHandler.
func NewAccountsHandler(a AccountStore) *AccountsHandler {
	return &AccountsHandler{accounts: a}
}

// --- Input/Output types ---

// SignUpInput is the input for account registration.
type SignUpInput struct {
	Body struct {
		Email    string `json:"email"    required:"true" format:"email" doc:"Account email"`
		Password string `json:"password" required:"true" minLength:"8"  doc:"Account password"`
		Username string `json:"username" required:"true" minLength:"3"  doc:"Public username"`
	}
}

// SessionOutput is the response for sign-up and sign-in.
type SessionOutput struct {
	Body struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token,omitempty"`
		ExpiresIn    int    `json:"expires_in,omitempty"`
		UserID       string `json:"user_id"`
	}
}

// SignInInput is the input for password sign-in.
type SignInInput struct {
	Body struct {
		Email    string `json:"email"    required:"true" doc:"Account email"`
		Password string `json:"password" required:"true" doc:"Account password"`
	}
}

// MeInput is the input for the current-user lookup.
type MeInput struct {
	Authorization string `header:"Authorization" required:"true" doc:"Bearer access token"`
}

// MeOutput is the response for the current-user lookup.
type MeOutput struct {
	Body accounts.Profile
}

// UploadAvatarInput carries a raw image body for the avatar upload.
type UploadAvatarInput struct {
	Authorization string `header:"Authorization" required:"true" doc:"Bearer access token"`
	ContentType   string `header:"Content-Type" doc:"Image content type"`
	RawBody       []byte
}

// UploadAvatarOutput is the response for the avatar upload.
type UploadAvatarOutput struct {
	Body struct {
		AvatarURL string `json:"avatar_url"`
	}
}

// --- Handlers ---

// SignUp registers a new buyer account.
func (h *AccountsHandler) SignUp(
	ctx context.Context,
	input *SignUpInput,
) (*SessionOutput, error) {
	session, err := h.accounts.SignUp(ctx, input.Body.Email, input.Body.Password, input.Body.Username)
	if err != nil {
		return nil, huma.Error400BadRequest("sign-up failed")
	}
	return sessionOutput(session), nil
}

// SignIn exchanges credentials for a session.
func (h *AccountsHandler) SignIn(
	ctx context.Context,
	input *SignInInput,
) (*SessionOutput, error) {
	session, err := h.accounts.SignIn(ctx, input.Body.Email, input.Body.Password)
	if err != nil {
		return nil, huma.Error401Unauthorized("invalid credentials")
	}
	return sessionOutput(session), nil
}

// Me returns the profile behind a bearer token.
func (h *AccountsHandler) Me(
	ctx context.Context,
	input *MeInput,
) (*MeOutput, error) {
	token := strings.TrimPrefix(input.Authorization, "Bearer ")
	if token == "" || token == input.Authorization {
		return nil, huma.Error401Unauthorized("missing bearer token")
	}

	profile, err := h.accounts.CurrentUser(ctx, token)
	if err != nil {
		return nil, huma.Error401Unauthorized("invalid session")
	}
	return &MeOutput{Body: *profile}, nil
}

// UploadAvatar replaces the avatar behind a bearer token.
func (h *AccountsHandler) UploadAvatar(
	ctx context.Context,
	input *UploadAvatarInput,
) (*UploadAvatarOutput, error) {
	token := strings.TrimPrefix(input.Authorization, "Bearer ")
	if token == "" || token == input.Authorization {
		return nil, huma.Error401Unauthorized("missing bearer token")
	}
	if len(input.RawBody) == 0 {
		return nil, huma.Error400BadRequest("empty image body")
	}

	url, err := h.accounts.UploadAvatar(ctx, token, bytes.NewReader(input.RawBody), input.ContentType)
	if err != nil {
		return nil, huma.Error400BadRequest("avatar upload failed")
	}

	resp := &UploadAvatarOutput{}
	resp.Body.AvatarURL = url
	return resp, nil
}

func sessionOutput(session *supabase.Session) *SessionOutput {
	resp := &SessionOutput{}
	resp.Body.AccessToken = session.AccessToken
	resp.Body.RefreshToken = session.RefreshToken
	resp.Body.ExpiresIn = session.ExpiresIn
	resp.Body.UserID = session.User.ID
	return resp
}

// RegisterAccountRoutes registers auth and profile endpoints with the Huma
// API.
func RegisterAccountRoutes(api huma.API, h *AccountsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "sign-up",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/signup",
		Summary:     "Register an account",
		Description: "Creates an account and its buyer profile.",
		Tags:        []string{"accounts"},
		Errors:      []int{http.StatusBadRequest},
	}, h.SignUp)

	huma.Register(api, huma.Operation{
		OperationID: "sign-in",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/signin",
		Summary:     "Sign in",
		Description: "Exchanges email and password for a session.",
		Tags:        []string{"accounts"},
		Errors:      []int{http.StatusUnauthorized},
	}, h.SignIn)

	huma.Register(api, huma.Operation{
		OperationID: "current-user",
		Method:      http.MethodGet,
		Path:        "/api/v1/me",
		Summary:     "Current user",
		Description: "Returns the profile behind the bearer token.",
		Tags:        []string{"accounts"},
		Errors:      []int{http.StatusUnauthorized},
	}, h.Me)

	huma.Register(api, huma.Operation{
		OperationID: "upload-avatar",
		Method:      http.MethodPost,
		Path:        "/api/v1/me/avatar",
		Summary:     "Upload avatar",
		Description: "Replaces the avatar image behind the bearer token.",
		Tags:        []string{"accounts"},
		Errors:      []int{http.StatusBadRequest, http.StatusUnauthorized},
	}, h.UploadAvatar)
}
