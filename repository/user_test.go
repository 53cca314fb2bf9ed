package repository

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackfolio/catalog-backend/interfaces"
)

func newUserRepo(t *testing.T) (*UserRepository, interfaces.CatalogManager) {
	t.Helper()
	mgr := newTestCatalog(t, CollectionUsers)
	return NewUserRepository(mgr, testLogger()), mgr
}

func TestUserRegister(t *testing.T) {
	repo, _ := newUserRepo(t)

	res := repo.Register(context.Background(), "alice", "alice@example.com", "correct horse battery")
	require.True(t, res.Success, "register failed: %+v", res.Error)

	user, ok := res.Data.(PublicUser)
	require.True(t, ok, "envelope data must not expose the credential hash")
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsVerified)
}

func TestUserRegisterValidation(t *testing.T) {
	repo, _ := newUserRepo(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{name: "empty username", username: "", email: "a@b.c", password: "long enough pw"},
		{name: "missing at sign", username: "alice", email: "not-an-email", password: "long enough pw"},
		{name: "short password", username: "alice", email: "a@b.c", password: "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := repo.Register(ctx, tt.username, tt.email, tt.password)
			require.False(t, res.Success)
			assert.Equal(t, CodeValidationFailed, res.Error.Code)
		})
	}
}

func TestUserIdentityUniqueness(t *testing.T) {
	repo, _ := newUserRepo(t)
	ctx := context.Background()

	require.True(t, repo.Register(ctx, "alice", "alice@example.com", "password-one").Success)

	// Same email, different username.
	res := repo.Register(ctx, "alice2", "Alice@Example.com", "password-two")
	require.False(t, res.Success)
	assert.Equal(t, CodeDuplicateIdentity, res.Error.Code)

	// Same username, different email.
	res = repo.Register(ctx, "Alice", "other@example.com", "password-two")
	require.False(t, res.Success)
	assert.Equal(t, CodeDuplicateIdentity, res.Error.Code)
}

func TestUserIdentityUniquenessSurvivesDeactivation(t *testing.T) {
	repo, _ := newUserRepo(t)
	ctx := context.Background()

	require.True(t, repo.Register(ctx, "alice", "alice@example.com", "password-one").Success)

	id := UserIDForEmail("alice@example.com")
	require.True(t, repo.Deactivate(ctx, id).Success)

	// A deactivated identity still claims its email and username.
	res := repo.Register(ctx, "alice", "alice@example.com", "password-two")
	require.False(t, res.Success)
	assert.Equal(t, CodeDuplicateIdentity, res.Error.Code)
}

func TestUserAuthenticate(t *testing.T) {
	repo, _ := newUserRepo(t)
	ctx := context.Background()

	require.True(t, repo.Register(ctx, "alice", "alice@example.com", "correct horse battery").Success)

	res := repo.Authenticate(ctx, "alice@example.com", "correct horse battery")
	require.True(t, res.Success)
	user := res.Data.(PublicUser)
	assert.False(t, user.LastLogin.IsZero(), "lastLogin is set on login")

	res = repo.Authenticate(ctx, "alice@example.com", "wrong password")
	require.False(t, res.Success)
	assert.Equal(t, CodeCredentialInvalid, res.Error.Code)

	res = repo.Authenticate(ctx, "nobody@example.com", "correct horse battery")
	require.False(t, res.Success)
	assert.Equal(t, CodeCredentialInvalid, res.Error.Code, "unknown accounts are indistinguishable from wrong passwords")
}

func TestUserAuthenticateDeactivated(t *testing.T) {
	repo, _ := newUserRepo(t)
	ctx := context.Background()

	require.True(t, repo.Register(ctx, "alice", "alice@example.com", "correct horse battery").Success)
	require.True(t, repo.Deactivate(ctx, UserIDForEmail("alice@example.com")).Success)

	// Matching credential on a deactivated account is reported as such.
	res := repo.Authenticate(ctx, "alice@example.com", "correct horse battery")
	require.False(t, res.Success)
	assert.Equal(t, CodeAccountDeactivated, res.Error.Code)

	// A wrong credential still reads as invalid, not deactivated.
	res = repo.Authenticate(ctx, "alice@example.com", "wrong password")
	require.False(t, res.Success)
	assert.Equal(t, CodeCredentialInvalid, res.Error.Code)
}

func TestUserLegacyCredentialUpgrade(t *testing.T) {
	repo, mgr := newUserRepo(t)
	ctx := context.Background()

	// A record written with the legacy unsalted digest scheme.
	legacy := User{
		ID:           UserIDForEmail("legacy@example.com"),
		Username:     "legacy",
		Email:        "legacy@example.com",
		PasswordHash: HashPasswordSHA256("legacy-password"),
		HashScheme:   HashSchemeSHA256,
		IsActive:     true,
	}
	data, err := json.Marshal(legacy)
	require.NoError(t, err)
	require.NoError(t, mgr.Create(ctx, legacy.ID, legacy.Username, data))

	res := repo.Authenticate(ctx, "legacy@example.com", "legacy-password")
	require.True(t, res.Success)

	// The stored credential was rewritten with bcrypt on successful login.
	stored, err := mgr.Read(ctx, legacy.ID)
	require.NoError(t, err)
	var upgraded User
	require.NoError(t, json.Unmarshal(stored, &upgraded))
	assert.Equal(t, HashSchemeBcrypt, upgraded.HashScheme)

	// And the password still verifies under the new scheme.
	res = repo.Authenticate(ctx, "legacy@example.com", "legacy-password")
	require.True(t, res.Success)
}

func TestUserMarkVerified(t *testing.T) {
	repo, _ := newUserRepo(t)
	ctx := context.Background()

	require.True(t, repo.Register(ctx, "alice", "alice@example.com", "correct horse battery").Success)

	res := repo.MarkVerified(ctx, UserIDForEmail("alice@example.com"))
	require.True(t, res.Success)
	assert.True(t, res.Data.(PublicUser).IsVerified)
}

func TestUserIDForEmailNormalizes(t *testing.T) {
	assert.Equal(t, UserIDForEmail("Alice@Example.com"), UserIDForEmail(" alice@example.com "))
	assert.NotEqual(t, UserIDForEmail("alice@example.com"), UserIDForEmail("bob@example.com"))
}
