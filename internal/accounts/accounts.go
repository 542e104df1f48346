// Package accounts ties authentication sessions to marketplace user
// profiles.
package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go2hand/go2hand/internal/supabase"
)

// ErrProfileNotFound marks an authenticated user with no profile row.
var ErrProfileNotFound = errors.New("profile not found")

// Profile is a user's marketplace profile row.
type Profile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FullName  string `json:"full_name,omitempty"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Location  string `json:"location,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Authenticator is the slice of the auth API this service needs.
type Authenticator interface {
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (*supabase.Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*supabase.Session, error)
	User(ctx context.Context, accessToken string) (*supabase.AuthUser, error)
}

// ObjectStore is the slice of the storage API this service needs.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, path string, r io.Reader, contentType string) (string, error)
	List(ctx context.Context, bucket, prefix string) ([]supabase.ObjectInfo, error)
	Remove(ctx context.Context, bucket string, paths []string) error
}

// avatarBucket holds one avatar object per user, under a userID/ prefix.
const avatarBucket = "avatars"

// Service joins the auth API with the users table and avatar storage.
type Service struct {
	auth    Authenticator
	backend supabase.Client
	storage ObjectStore
}

// NewService returns an account service.
func NewService(auth Authenticator, backend supabase.Client, storage ObjectStore) *Service {
	return &Service{auth: auth, backend: backend, storage: storage}
}

// SignUp registers a new account and seeds its profile row. New accounts
// start as buyers.
func (s *Service) SignUp(ctx context.Context, email, password, username string) (*supabase.Session, error) {
	session, err := s.auth.SignUp(ctx, email, password, map[string]any{"username": username})
	if err != nil {
		return nil, fmt.Errorf("signing up %q: %w", email, err)
	}

	_, err = s.backend.InsertRow(ctx, "users", map[string]any{
		"id":         session.User.ID,
		"email":      email,
		"username":   username,
		"role":       "buyer",
		"created_at": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("creating profile for %q: %w", email, err)
	}
	return session, nil
}

// SignIn exchanges credentials for a session.
func (s *Service) SignIn(ctx context.Context, email, password string) (*supabase.Session, error) {
	session, err := s.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("signing in %q: %w", email, err)
	}
	return session, nil
}

// CurrentUser resolves an access token to its profile.
func (s *Service) CurrentUser(ctx context.Context, accessToken string) (*Profile, error) {
	user, err := s.auth.User(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("resolving session: %w", err)
	}

	res, err := s.backend.Select(ctx, supabase.SelectRequest{
		Table:   "users",
		Filters: []supabase.Filter{supabase.Eq("id", user.ID)},
		Limit:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching profile %q: %w", user.ID, err)
	}
	if len(res.Rows) == 0 {
		return nil, fmt.Errorf("profile %q: %w", user.ID, ErrProfileNotFound)
	}

	var profile Profile
	if err := json.Unmarshal(res.Rows[0], &profile); err != nil {
		return nil, fmt.Errorf("decoding profile %q: %w", user.ID, err)
	}
	return &profile, nil
}

// UpdateProfile applies a partial profile update and stamps the change
// time.
func (s *Service) UpdateProfile(ctx context.Context, userID string, fields map[string]any) error {
	updated := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		updated[k] = v
	}
	updated["updated_at"] = time.Now().UTC().Format(time.RFC3339)

	if err := s.backend.UpdateByID(ctx, "users", userID, updated); err != nil {
		return fmt.Errorf("updating profile %q: %w", userID, err)
	}
	return nil
}

// UploadAvatar replaces the avatar behind the session's profile and returns
// the new public URL. Earlier avatar objects are removed first so the bucket
// keeps a single object per user.
func (s *Service) UploadAvatar(ctx context.Context, accessToken string, r io.Reader, contentType string) (string, error) {
	user, err := s.auth.User(ctx, accessToken)
	if err != nil {
		return "", fmt.Errorf("resolving session: %w", err)
	}

	old, err := s.storage.List(ctx, avatarBucket, user.ID)
	if err != nil {
		return "", fmt.Errorf("listing avatars for %q: %w", user.ID, err)
	}
	if len(old) > 0 {
		paths := make([]string, 0, len(old))
		for _, obj := range old {
			paths = append(paths, user.ID+"/"+obj.Name)
		}
		if err := s.storage.Remove(ctx, avatarBucket, paths); err != nil {
			return "", fmt.Errorf("removing old avatars for %q: %w", user.ID, err)
		}
	}

	objectPath := fmt.Sprintf("%s/%d%s", user.ID, time.Now().UnixNano(), avatarExtension(contentType))
	url, err := s.storage.Upload(ctx, avatarBucket, objectPath, r, contentType)
	if err != nil {
		return "", fmt.Errorf("uploading avatar for %q: %w", user.ID, err)
	}

	if err := s.UpdateProfile(ctx, user.ID, map[string]any{"avatar_url": url}); err != nil {
		return "", err
	}
	return url, nil
}

func avatarExtension(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
