package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/medsync/internal/client/storage"
)

// storageKeyTokens ключ, под которым токены лежат в KV storage
const storageKeyTokens = "medsync_session_tokens"

// ErrNotAuthenticated indicates that no session tokens are stored
var ErrNotAuthenticated = errors.New("not authenticated")

// Tokens представляет пару токенов сессии, выданную бэкендом
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Store хранит токены сессии в durable KV storage и умеет определять,
// что access token скоро истечет. Сам refresh-обмен выполняет внешний
// слой HTTP клиента — здесь только хранение и инспекция claims.
type Store struct {
	store  storage.KVStorage
	logger *slog.Logger
}

// NewStore creates a new session store over the given storage
func NewStore(store storage.KVStorage, logger *slog.Logger) *Store {
	return &Store{
		store:  store,
		logger: logger,
	}
}

// SaveTokens сохраняет токены сессии
func (s *Store) SaveTokens(ctx context.Context, tokens *Tokens) error {
	data, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("failed to marshal tokens: %w", err)
	}

	if err := s.store.SetItem(ctx, storageKeyTokens, string(data)); err != nil {
		return fmt.Errorf("failed to save tokens: %w", err)
	}

	return nil
}

// GetTokens возвращает сохраненные токены сессии
// Возвращает ErrNotAuthenticated, если токены не сохранялись
func (s *Store) GetTokens(ctx context.Context) (*Tokens, error) {
	raw, err := s.store.GetItem(ctx, storageKeyTokens)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("failed to read tokens: %w", err)
	}

	var tokens Tokens
	if err := json.Unmarshal([]byte(raw), &tokens); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tokens: %w", err)
	}

	return &tokens, nil
}

// DeleteTokens удаляет сохраненные токены (logout)
func (s *Store) DeleteTokens(ctx context.Context) error {
	if err := s.store.DeleteItem(ctx, storageKeyTokens); err != nil {
		return fmt.Errorf("failed to delete tokens: %w", err)
	}
	return nil
}

// AccessToken возвращает текущий access token.
// Реализует TokenProvider для API клиента: пустая строка без ошибки,
// если сессии нет — запросы уходят анонимно.
func (s *Store) AccessToken(ctx context.Context) (string, error) {
	tokens, err := s.GetTokens(ctx)
	if err != nil {
		if errors.Is(err, ErrNotAuthenticated) {
			return "", nil
		}
		return "", err
	}
	return tokens.AccessToken, nil
}

// NeedsRefresh сообщает, истекает ли access token в ближайшие within.
// Подпись не проверяется — это задача бэкенда, клиенту достаточно exp claim.
// Токен без exp или неразбираемый токен считается требующим обновления.
func (s *Store) NeedsRefresh(ctx context.Context, within time.Duration) (bool, error) {
	tokens, err := s.GetTokens(ctx)
	if err != nil {
		return false, err
	}

	expiry, err := tokenExpiry(tokens.AccessToken)
	if err != nil {
		s.logger.Debug("failed to inspect access token, assuming refresh needed", "error", err)
		return true, nil
	}

	return time.Until(expiry) < within, nil
}

// tokenExpiry извлекает exp claim без проверки подписи
func tokenExpiry(tokenString string) (time.Time, error) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}

	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return time.Time{}, fmt.Errorf("failed to parse token: %w", err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, fmt.Errorf("token has no expiration claim")
	}

	return exp.Time, nil
}
