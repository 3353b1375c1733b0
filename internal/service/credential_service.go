package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/pal-assistant/internal/domain"
	"github.com/spec-kit/pal-assistant/internal/events"
	"github.com/spec-kit/pal-assistant/internal/persistence"
)

// CredentialTarget receives the live credentials; the ticket adapter implements it.
type CredentialTarget interface {
	SetConfig(creds domain.Credentials)
	Config() domain.Credentials
	IsConfigured() bool
}

// CredentialService persists the ticketing credentials as one JSON record
// and keeps the adapter's live configuration in step with it.
type CredentialService struct {
	store      persistence.KeyValueStore
	key        string
	target     CredentialTarget
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewCredentialService constructs the service.
func NewCredentialService(store persistence.KeyValueStore, key string, target CredentialTarget, dispatcher events.Dispatcher, logger *zap.Logger) *CredentialService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CredentialService{
		store:      store,
		key:        key,
		target:     target,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Initialize loads stored credentials into the adapter, if any.
func (s *CredentialService) Initialize(ctx context.Context) {
	if creds, ok := s.GetCredentials(ctx); ok {
		s.target.SetConfig(*creds)
		s.logger.Info("loaded stored servicenow credentials", zap.String("base_url", creds.BaseURL))
	}
}

// GetCredentials returns the stored record. Unreadable, corrupt or null
// records are reported as absent.
func (s *CredentialService) GetCredentials(ctx context.Context) (*domain.Credentials, bool) {
	raw, ok, err := s.store.Get(ctx, s.key)
	if err != nil {
		s.logger.Error("error reading servicenow credentials", zap.Error(err))
		return nil, false
	}
	if !ok || raw == "" {
		return nil, false
	}

	var creds *domain.Credentials
	if err := json.Unmarshal([]byte(raw), &creds); err != nil {
		s.logger.Error("stored servicenow credentials are corrupt", zap.Error(err))
		return nil, false
	}
	// a stored JSON null decodes to nil
	if creds == nil {
		return nil, false
	}
	return creds, true
}

// SaveCredentials overwrites the stored record and updates the adapter. The
// adapter is left untouched when the write fails.
func (s *CredentialService) SaveCredentials(ctx context.Context, baseURL, bearerToken string) error {
	creds := domain.Credentials{BaseURL: baseURL, BearerToken: bearerToken}
	b, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, s.key, string(b)); err != nil {
		s.logger.Error("error saving servicenow credentials", zap.Error(err))
		return err
	}
	s.target.SetConfig(creds)
	s.publish(ctx, events.EventCredentialsSaved, events.CredentialsSavedPayload{BaseURL: baseURL})
	return nil
}

// ClearCredentials removes the stored record and resets the adapter.
func (s *CredentialService) ClearCredentials(ctx context.Context) error {
	if err := s.store.Delete(ctx, s.key); err != nil {
		s.logger.Error("error clearing servicenow credentials", zap.Error(err))
		return err
	}
	s.target.SetConfig(domain.Credentials{})
	s.publish(ctx, events.EventCredentialsCleared, nil)
	return nil
}

// IsConfigured reports whether the adapter holds both credential fields.
func (s *CredentialService) IsConfigured() bool {
	return s.target.IsConfigured()
}

// CurrentConfig returns the adapter's live credentials.
func (s *CredentialService) CurrentConfig() domain.Credentials {
	return s.target.Config()
}

func (s *CredentialService) publish(ctx context.Context, eventType events.EventType, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
}
