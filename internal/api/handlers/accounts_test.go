package handlers_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go2hand/go2hand/internal/accounts"
	"github.com/go2hand/go2hand/internal/api/handlers"
	"github.com/go2hand/go2hand/internal/supabase"
)

type fakeAccounts struct {
	signUpFn func(ctx context.Context, email, password, username string) (*supabase.Session, error)
	signInFn func(ctx context.Context, email, password string) (*supabase.Session, error)
	userFn   func(ctx context.Context, accessToken string) (*accounts.Profile, error)
	avatarFn func(ctx context.Context, accessToken string, r io.Reader, contentType string) (string, error)
}

func (f *fakeAccounts) SignUp(ctx context.Context, email, password, username string) (*supabase.Session, error) {
	return f.signUpFn(ctx, email, password, username)
}

func (f *fakeAccounts) SignIn(ctx context.Context, email, password string) (*supabase.Session, error) {
	return f.signInFn(ctx, email, password)
}

func (f *fakeAccounts) CurrentUser(ctx context.Context, accessToken string) (*accounts.Profile, error) {
	return f.userFn(ctx, accessToken)
}

func (f *fakeAccounts) UploadAvatar(ctx context.Context, accessToken string, r io.Reader, contentType string) (string, error) {
	return f.avatarFn(ctx, accessToken, r, contentType)
}

func TestAccountsHandler_SignUp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       any
		signUpFn   func(ctx context.Context, email, password, username string) (*supabase.Session, error)
		wantStatus int
		wantBody   string
	}{
		{
			name: "valid sign-up returns session",
			body: map[string]any{
				"email":    "jo@example.com",
				"password": "hunter2222",
				"username": "jo2hand",
			},
			signUpFn: func(_ context.Context, email, _, username string) (*supabase.Session, error) {
				assert.Equal(t, "jo@example.com", email)
				assert.Equal(t, "jo2hand", username)
				return &supabase.Session{
					AccessToken: "tok",
					User:        supabase.AuthUser{ID: "u1"},
				}, nil
			},
			wantStatus: http.StatusOK,
			wantBody:   `"user_id":"u1"`,
		},
		{
			name:       "short password returns 422",
			body:       map[string]any{"email": "jo@example.com", "password": "short", "username": "jo2hand"},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "backend rejection returns 400",
			body: map[string]any{
				"email":    "jo@example.com",
				"password": "hunter2222",
				"username": "jo2hand",
			},
			signUpFn: func(_ context.Context, _, _, _ string) (*supabase.Session, error) {
				return nil, assert.AnError
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := handlers.NewAccountsHandler(&fakeAccounts{signUpFn: tt.signUpFn})

			_, api := humatest.New(t)
			handlers.RegisterAccountRoutes(api, h)

			resp := api.Post("/api/v1/auth/signup", tt.body)
			require.Equal(t, tt.wantStatus, resp.Code)
			if tt.wantBody != "" {
				assert.Contains(t, resp.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestAccountsHandler_SignIn(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		signInFn   func(ctx context.Context, email, password string) (*supabase.Session, error)
		wantStatus int
		wantBody   string
	}{
		{
			name: "valid credentials return session",
			signInFn: func(_ context.Context, _, _ string) (*supabase.Session, error) {
				return &supabase.Session{AccessToken: "tok", User: supabase.AuthUser{ID: "u1"}}, nil
			},
			wantStatus: http.StatusOK,
			wantBody:   `"access_token":"tok"`,
		},
		{
			name: "bad credentials return 401",
			signInFn: func(_ context.Context, _, _ string) (*supabase.Session, error) {
				return nil, assert.AnError
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   "invalid credentials",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := handlers.NewAccountsHandler(&fakeAccounts{signInFn: tt.signInFn})

			_, api := humatest.New(t)
			handlers.RegisterAccountRoutes(api, h)

			resp := api.Post("/api/v1/auth/signin", map[string]any{
				"email":    "jo@example.com",
				"password": "hunter2222",
			})
			require.Equal(t, tt.wantStatus, resp.Code)
			assert.Contains(t, resp.Body.String(), tt.wantBody)
		})
	}
}

func TestAccountsHandler_Me(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		header     string
		userFn     func(ctx context.Context, accessToken string) (*accounts.Profile, error)
		wantStatus int
		wantBody   string
	}{
		{
			name:   "valid token returns profile",
			header: "Bearer tok",
			userFn: func(_ context.Context, accessToken string) (*accounts.Profile, error) {
				assert.Equal(t, "tok", accessToken)
				return &accounts.Profile{ID: "u1", Username: "jo2hand", Role: "buyer"}, nil
			},
			wantStatus: http.StatusOK,
			wantBody:   `"username":"jo2hand"`,
		},
		{
			name:       "non-bearer header returns 401",
			header:     "Basic dXNlcg==",
			wantStatus: http.StatusUnauthorized,
			wantBody:   "missing bearer token",
		},
		{
			name:   "stale token returns 401",
			header: "Bearer stale",
			userFn: func(_ context.Context, _ string) (*accounts.Profile, error) {
				return nil, assert.AnError
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   "invalid session",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := handlers.NewAccountsHandler(&fakeAccounts{userFn: tt.userFn})

			_, api := humatest.New(t)
			handlers.RegisterAccountRoutes(api, h)

			resp := api.Get("/api/v1/me", "Authorization: "+tt.header)
			require.Equal(t, tt.wantStatus, resp.Code)
			assert.Contains(t, resp.Body.String(), tt.wantBody)
		})
	}
}

func TestAccountsHandler_UploadAvatar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		header     string
		body       []byte
		avatarFn   func(ctx context.Context, accessToken string, r io.Reader, contentType string) (string, error)
		wantStatus int
		wantBody   string
	}{
		{
			name:   "valid upload returns url",
			header: "Bearer tok",
			body:   []byte("imagebytes"),
			avatarFn: func(_ context.Context, accessToken string, r io.Reader, contentType string) (string, error) {
				assert.Equal(t, "tok", accessToken)
				assert.Equal(t, "image/png", contentType)
				body, err := io.ReadAll(r)
				require.NoError(t, err)
				assert.Equal(t, "imagebytes", string(body))
				return "https://cdn.example.com/avatars/u1/1.png", nil
			},
			wantStatus: http.StatusOK,
			wantBody:   `"avatar_url":"https://cdn.example.com/avatars/u1/1.png"`,
		},
		{
			name:       "non-bearer header returns 401",
			header:     "Basic dXNlcg==",
			body:       []byte("imagebytes"),
			wantStatus: http.StatusUnauthorized,
			wantBody:   "missing bearer token",
		},
		{
			name:       "empty body returns 400",
			header:     "Bearer tok",
			body:       nil,
			wantStatus: http.StatusBadRequest,
			wantBody:   "empty image body",
		},
		{
			name:   "storage failure returns 400",
			header: "Bearer tok",
			body:   []byte("imagebytes"),
			avatarFn: func(_ context.Context, _ string, _ io.Reader, _ string) (string, error) {
				return "", assert.AnError
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   "avatar upload failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := handlers.NewAccountsHandler(&fakeAccounts{avatarFn: tt.avatarFn})

			_, api := humatest.New(t)
			handlers.RegisterAccountRoutes(api, h)

			resp := api.Post("/api/v1/me/avatar",
				"Authorization: "+tt.header,
				"Content-Type: image/png",
				bytes.NewReader(tt.body),
			)
			require.Equal(t, tt.wantStatus, resp.Code)
			assert.Contains(t, resp.Body.String(), tt.wantBody)
		})
	}
}
