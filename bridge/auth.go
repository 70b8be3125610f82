package bridge

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Credentials identify a staff member, optionally within one store.
type Credentials struct {
	Name     string
	Password string
	StoreID  string
}

// StaffUser is the signed-in staff member.
type StaffUser struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	StoreID string `json:"store_id"`
}

// HashPassword returns the bcrypt hash stored in waitstaff.password.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// SignInWithPassword looks the staff member up by name (and store when
// given) and verifies the password. Rows still holding a plaintext password
// are re-hashed after a successful match.
func (c *Client) SignInWithPassword(ctx context.Context, creds Credentials) (*StaffUser, error) {
	if strings.TrimSpace(creds.Name) == "" || creds.Password == "" {
		return nil, ErrInvalidCredentials
	}

	q := c.From(TableWaitstaff).Eq("name", creds.Name)
	if creds.StoreID != "" {
		q = q.Eq("store_id", creds.StoreID)
	}
	rows, err := q.Get(ctx)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		stored, _ := row["password"].(string)
		legacy, ok := verifyPassword(stored, creds.Password)
		if !ok {
			continue
		}
		user := &StaffUser{
			ID:      fmt.Sprint(row["id"]),
			Name:    stringValue(row["name"]),
			Role:    stringValue(row["role"]),
			StoreID: stringValue(row["store_id"]),
		}
		if legacy {
			c.upgradePassword(ctx, user.ID, creds.Password)
		}
		return user, nil
	}
	return nil, ErrInvalidCredentials
}

// verifyPassword reports whether plain matches stored and whether stored
// was a legacy plaintext value.
func verifyPassword(stored, plain string) (legacy bool, ok bool) {
	if isBcryptHash(stored) {
		return false, bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil
	}
	return true, subtle.ConstantTimeCompare([]byte(stored), []byte(plain)) == 1
}

func isBcryptHash(s string) bool {
	return len(s) == 60 && (strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$"))
}

func (c *Client) upgradePassword(ctx context.Context, id, plain string) {
	hash, err := HashPassword(plain)
	if err == nil {
		_, err = c.From(TableWaitstaff).Eq("id", id).Update(ctx, Row{"password": hash})
	}
	if err != nil {
		c.state.logger.Warn("failed to upgrade legacy password", zap.String("waitstaff_id", id), zap.Error(err))
	}
}

func stringValue(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
