package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hackfolio/catalog-backend/interfaces"
)

// Session is the short-lived login descriptor. A signed token references the
// session by id; archiving the session is how logout invalidates the token
// before its expiry.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SessionRepository manages session entities and the HS256 tokens that
// reference them. Token claims are read only after signature verification;
// an unverifiable token never reaches the catalog.
type SessionRepository struct {
	catalog interfaces.CatalogManager
	secret  []byte
	ttl     time.Duration
	log     *slog.Logger
}

func NewSessionRepository(mgr interfaces.CatalogManager, secret []byte, ttl time.Duration, log *slog.Logger) *SessionRepository {
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &SessionRepository{catalog: mgr, secret: secret, ttl: ttl, log: log}
}

// Issue creates a session for the user and returns the signed token alongside
// the session descriptor.
func (r *SessionRepository) Issue(ctx context.Context, userID string) Result {
	now := time.Now().UTC()
	session := Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		IssuedAt:  now,
		ExpiresAt: now.Add(r.ttl),
	}

	data, err := json.Marshal(session)
	if err != nil {
		return FailErr(fmt.Errorf("marshal session: %w", err))
	}
	if err := r.catalog.Create(ctx, session.ID, session.ID, data); err != nil {
		return FailErr(err)
	}

	claims := jwt.MapClaims{
		"sid": session.ID,
		"sub": userID,
		"iat": now.Unix(),
		"exp": session.ExpiresAt.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.secret)
	if err != nil {
		return FailErr(fmt.Errorf("sign session token: %w", err))
	}

	return OK(map[string]any{"token": token, "session": session})
}

// Verify validates the token signature, then checks that the referenced
// session is still active and unexpired. A logged-out (archived) session fails
// verification even when the signature is valid.
func (r *SessionRepository) Verify(ctx context.Context, token string) Result {
	session, err := r.sessionForToken(ctx, token)
	if err != nil {
		return Fail(CodeSessionInvalid, "session is not valid")
	}
	return OK(session)
}

// Logout archives the token's session, invalidating the token for all future
// verifications.
func (r *SessionRepository) Logout(ctx context.Context, token string) Result {
	session, err := r.sessionForToken(ctx, token)
	if err != nil {
		return Fail(CodeSessionInvalid, "session is not valid")
	}
	if err := r.catalog.Archive(ctx, session.ID); err != nil {
		return FailErr(err)
	}
	r.log.Debug("Session archived on logout", slog.String("sessionID", session.ID))
	return OK(map[string]string{"sessionId": session.ID, "status": string(interfaces.StatusArchived)})
}

func (r *SessionRepository) sessionForToken(ctx context.Context, token string) (Session, error) {
	sid, err := r.sessionIDFromToken(token)
	if err != nil {
		return Session{}, err
	}

	data, err := r.catalog.Read(ctx, sid)
	if err != nil {
		return Session{}, fmt.Errorf("session lookup: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return Session{}, fmt.Errorf("decode session record: %w", err)
	}
	if time.Now().After(session.ExpiresAt) {
		return Session{}, fmt.Errorf("session expired")
	}
	return session, nil
}

// sessionIDFromToken extracts the session id from a token. The signature and
// standard claims are verified first; claims from an unverified token are
// never trusted.
func (r *SessionRepository) sessionIDFromToken(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return r.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("verify token: %w", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("unexpected claims type")
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", fmt.Errorf("token carries no session id")
	}
	return sid, nil
}
