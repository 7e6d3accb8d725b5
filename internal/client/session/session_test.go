package session

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/medsync/internal/client/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func newMemoryStore() *storage.KVStorageMock {
	items := make(map[string]string)
	return &storage.KVStorageMock{
		GetItemFunc: func(ctx context.Context, key string) (string, error) {
			value, ok := items[key]
			if !ok {
				return "", storage.ErrKeyNotFound
			}
			return value, nil
		},
		SetItemFunc: func(ctx context.Context, key, value string) error {
			items[key] = value
			return nil
		},
		DeleteItemFunc: func(ctx context.Context, key string) error {
			delete(items, key)
			return nil
		},
	}
}

// signedToken выпускает HS256 токен с заданным exp
func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestStore_TokensRoundtrip(t *testing.T) {
	store := NewStore(newMemoryStore(), testLogger())
	ctx := context.Background()

	tokens := &Tokens{AccessToken: "access", RefreshToken: "refresh"}
	require.NoError(t, store.SaveTokens(ctx, tokens))

	got, err := store.GetTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access", got.AccessToken)
	assert.Equal(t, "refresh", got.RefreshToken)
}

func TestStore_GetTokens_NotAuthenticated(t *testing.T) {
	store := NewStore(newMemoryStore(), testLogger())

	_, err := store.GetTokens(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestStore_DeleteTokens(t *testing.T) {
	store := NewStore(newMemoryStore(), testLogger())
	ctx := context.Background()

	require.NoError(t, store.SaveTokens(ctx, &Tokens{AccessToken: "access"}))
	require.NoError(t, store.DeleteTokens(ctx))

	_, err := store.GetTokens(ctx)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestStore_AccessToken_EmptyWithoutSession(t *testing.T) {
	store := NewStore(newMemoryStore(), testLogger())

	// Без сессии запросы уходят анонимно, это не ошибка
	token, err := store.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestStore_NeedsRefresh(t *testing.T) {
	store := NewStore(newMemoryStore(), testLogger())
	ctx := context.Background()

	// Токен живет еще час — обновление в пределах 5 минут не нужно
	fresh := signedToken(t, time.Now().Add(time.Hour))
	require.NoError(t, store.SaveTokens(ctx, &Tokens{AccessToken: fresh}))

	needs, err := store.NeedsRefresh(ctx, 5*time.Minute)
	require.NoError(t, err)
	assert.False(t, needs)

	// Токен истекает через минуту
	expiring := signedToken(t, time.Now().Add(time.Minute))
	require.NoError(t, store.SaveTokens(ctx, &Tokens{AccessToken: expiring}))

	needs, err = store.NeedsRefresh(ctx, 5*time.Minute)
	require.NoError(t, err)
	assert.True(t, needs)
}

func TestStore_NeedsRefresh_OpaqueToken(t *testing.T) {
	store := NewStore(newMemoryStore(), testLogger())
	ctx := context.Background()

	// Неразбираемый токен считается требующим обновления
	require.NoError(t, store.SaveTokens(ctx, &Tokens{AccessToken: "not-a-jwt"}))

	needs, err := store.NeedsRefresh(ctx, 5*time.Minute)
	require.NoError(t, err)
	assert.True(t, needs)
}
