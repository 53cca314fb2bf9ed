package repository

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hackfolio/catalog-backend/catalog"
	"github.com/hackfolio/catalog-backend/interfaces"
)

// Credential hash schemes. Legacy records carry unsalted sha256 digests;
// verification accepts them but every new write uses bcrypt.
const (
	HashSchemeSHA256 = "sha256"
	HashSchemeBcrypt = "bcrypt"
)

// User is the account record blob. PasswordHash is never included in
// envelope data returned to consumers.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	HashScheme   string    `json:"hashScheme"`
	IsActive     bool      `json:"isActive"`
	IsVerified   bool      `json:"isVerified"`
	CreatedAt    time.Time `json:"createdAt"`
	LastLogin    time.Time `json:"lastLogin,omitempty"`
}

// PublicUser is the consumer-visible projection of a User.
type PublicUser struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	IsActive   bool      `json:"isActive"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
	LastLogin  time.Time `json:"lastLogin,omitempty"`
}

func (u User) public() PublicUser {
	return PublicUser{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		IsActive:   u.IsActive,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
		LastLogin:  u.LastLogin,
	}
}

// UserIDForEmail derives the deterministic account entity id for an email
// address. The id doubles as the email uniqueness key: two registrations with
// the same email map to the same entity id regardless of account status.
func UserIDForEmail(email string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))
	return "u-" + hex.EncodeToString(sum[:])[:20]
}

// UserRepository layers identity uniqueness and credential handling over a
// catalog manager. Uniqueness of email and username is enforced against the
// whole catalog, archived accounts included, since reusing a deactivated
// identity's credentials would be unsafe.
type UserRepository struct {
	catalog interfaces.CatalogManager
	log     *slog.Logger
}

func NewUserRepository(mgr interfaces.CatalogManager, log *slog.Logger) *UserRepository {
	return &UserRepository{catalog: mgr, log: log}
}

// Register creates a new account with a bcrypt credential.
func (r *UserRepository) Register(ctx context.Context, username, email, password string) Result {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return Fail(CodeValidationFailed, "username must not be empty")
	}
	if email == "" || !strings.Contains(email, "@") {
		return Fail(CodeValidationFailed, "a valid email address is required")
	}
	if len(password) < 8 {
		return Fail(CodeValidationFailed, "password must be at least 8 characters")
	}

	id := UserIDForEmail(email)
	if _, err := r.catalog.Entry(ctx, id); err == nil {
		return Fail(CodeDuplicateIdentity, "email already registered")
	} else if !errors.Is(err, interfaces.ErrEntityNotFound) {
		return FailErr(err)
	}

	usernameSlug := catalog.Slugify(username)
	all, err := r.catalog.ListAll(ctx)
	if err != nil {
		return FailErr(err)
	}
	for _, entry := range all {
		if entry.Slug == usernameSlug {
			return Fail(CodeDuplicateIdentity, "username already taken")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return FailErr(fmt.Errorf("hash password: %w", err))
	}

	user := User{
		ID:           id,
		Username:     username,
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
		HashScheme:   HashSchemeBcrypt,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}

	data, err := json.Marshal(user)
	if err != nil {
		return FailErr(fmt.Errorf("marshal user: %w", err))
	}
	if err := r.catalog.Create(ctx, id, username, data); err != nil {
		return FailErr(err)
	}
	return OK(user.public())
}

// Authenticate checks the credential for the account registered under email.
// A matching credential on a deactivated account yields AccountDeactivated;
// everything else that does not match yields CredentialInvalid, without
// distinguishing unknown accounts from wrong passwords.
func (r *UserRepository) Authenticate(ctx context.Context, email, password string) Result {
	user, err := r.load(ctx, UserIDForEmail(email))
	if err != nil {
		return Fail(CodeCredentialInvalid, "invalid credentials")
	}

	if !verifyPassword(user.PasswordHash, user.HashScheme, password) {
		return Fail(CodeCredentialInvalid, "invalid credentials")
	}
	if !user.IsActive {
		return Fail(CodeAccountDeactivated, "account is deactivated")
	}

	user.LastLogin = time.Now().UTC()
	if user.HashScheme == HashSchemeSHA256 {
		// Opportunistic upgrade of legacy digests on successful login.
		if hash, herr := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost); herr == nil {
			user.PasswordHash = string(hash)
			user.HashScheme = HashSchemeBcrypt
		}
	}
	if err := r.save(ctx, user); err != nil {
		r.log.Warn("Failed to persist login metadata", slog.String("userID", user.ID), "err", err)
	}

	return OK(user.public())
}

// Get returns the account by id.
func (r *UserRepository) Get(ctx context.Context, id string) Result {
	user, err := r.load(ctx, id)
	if err != nil {
		return FailErr(err)
	}
	return OK(user.public())
}

// GetByEmail returns the account registered under email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) Result {
	return r.Get(ctx, UserIDForEmail(email))
}

// MarkVerified flags the account as email-verified.
func (r *UserRepository) MarkVerified(ctx context.Context, id string) Result {
	return r.mutate(ctx, id, func(u *User) { u.IsVerified = true })
}

// Deactivate disables logins for the account. The catalog entry stays active
// so the identity remains claimed.
func (r *UserRepository) Deactivate(ctx context.Context, id string) Result {
	return r.mutate(ctx, id, func(u *User) { u.IsActive = false })
}

func (r *UserRepository) mutate(ctx context.Context, id string, fn func(*User)) Result {
	user, err := r.load(ctx, id)
	if err != nil {
		return FailErr(err)
	}
	fn(&user)
	if err := r.save(ctx, user); err != nil {
		return FailErr(err)
	}
	return OK(user.public())
}

func (r *UserRepository) load(ctx context.Context, id string) (User, error) {
	data, err := r.catalog.Read(ctx, id)
	if err != nil {
		return User{}, err
	}
	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return User{}, fmt.Errorf("decode user record: %w", err)
	}
	return user, nil
}

func (r *UserRepository) save(ctx context.Context, user User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	return r.catalog.Update(ctx, user.ID, user.Username, data)
}

// verifyPassword checks a candidate against the stored hash under the record's
// scheme. Unknown schemes never verify.
func verifyPassword(storedHash, scheme, password string) bool {
	switch scheme {
	case HashSchemeBcrypt:
		return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)) == nil
	case HashSchemeSHA256:
		sum := sha256.Sum256([]byte(password))
		digest := hex.EncodeToString(sum[:])
		return subtle.ConstantTimeCompare([]byte(digest), []byte(strings.ToLower(storedHash))) == 1
	default:
		return false
	}
}

// HashPasswordSHA256 produces a legacy-format digest. Used only for fixture
// records that exercise the legacy verification path.
func HashPasswordSHA256(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
