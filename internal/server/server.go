package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"opsboard/internal/llm"
	"opsboard/internal/storage"
	"opsboard/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

type IncidentStore interface {
	Incident(ctx context.Context, incidentID string) (*types.Incident, error)
	IncidentsByFilter(ctx context.Context, filter types.IncidentFilter) ([]*types.Incident, error)
	CreateIncident(ctx context.Context, incident *types.Incident) error
	UpdateIncidentStatus(ctx context.Context, incidentID string, status types.IncidentStatus) error
	DeleteIncident(ctx context.Context, incidentID string) error
}

type PaymentStore interface {
	Payment(ctx context.Context, paymentID string) (*types.Payment, error)
	PaymentsByFilter(ctx context.Context, filter types.PaymentFilter) ([]*types.Payment, error)
	CreatePayment(ctx context.Context, payment *types.Payment) error
}

type MediaStore interface {
	CreateMedia(ctx context.Context, media *types.UploadedMedia) error
	DeleteMediaByPath(ctx context.Context, path string) error
}

type ProfileStore interface {
	Profile(ctx context.Context, profileID string) (*types.Profile, error)
	UpsertProfile(ctx context.Context, profile *types.Profile) error
}

type ChatStore interface {
	AppendMessage(ctx context.Context, message *types.ChatMessage) error
	MessagesByUser(ctx context.Context, userID string, limit uint64) ([]*types.ChatMessage, error)
}

type LookupStore interface {
	Areas(ctx context.Context) ([]*types.Area, error)
	Classifications(ctx context.Context) ([]*types.Classification, error)
	Rooms(ctx context.Context) ([]*types.Room, error)
}

type StatsProvider interface {
	Refresh(ctx context.Context) error
	Snapshot() (*types.StatsSnapshot, error)
	SnapshotFor(ctx context.Context, filter types.IncidentFilter) (*types.StatsSnapshot, error)
}

type Exporter interface {
	Export(ctx context.Context) *types.Backup
}

type ChatCompleter interface {
	Complete(ctx context.Context, messages []llm.Message, model string) (string, error)
}

type Service struct {
	logger *logrus.Logger
	config *types.Config

	incidents IncidentStore
	payments  PaymentStore
	media     MediaStore
	profiles  ProfileStore
	chatLog   ChatStore
	lookups   LookupStore
	uploader  storage.Uploader
	stats     StatsProvider
	exporter  Exporter
	chat      ChatCompleter

	cookie *securecookie.SecureCookie

	jwksCache *jwk.Cache
	jwksURL   string

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	incidents IncidentStore,
	payments PaymentStore,
	media MediaStore,
	profiles ProfileStore,
	chatLog ChatStore,
	lookups LookupStore,
	uploader storage.Uploader,
	stats StatsProvider,
	exporter Exporter,
	chat ChatCompleter,
	jwkCache *jwk.Cache,
	jwksURL string,
) (*Service, error) {
	mux := flow.New()

	hashKey, _ := base64.StdEncoding.DecodeString(config.CookieHashKey)
	blockKey, _ := base64.StdEncoding.DecodeString(config.CookieBlockKey)

	s := &Service{
		logger: logger,
		config: config,
		cookie: securecookie.New(hashKey, blockKey),

		incidents: incidents,
		payments:  payments,
		media:     media,
		profiles:  profiles,
		chatLog:   chatLog,
		lookups:   lookups,
		uploader:  uploader,
		stats:     stats,
		exporter:  exporter,
		chat:      chat,

		jwksCache: jwkCache,
		jwksURL:   jwksURL,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux)

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)

	// The two "function" endpoints keep their serverless contract: permissive
	// CORS on every response, OPTIONS preflight, JSON in and out.
	r.HandleFunc("/functions/backup", s.handleFunctionPreflight, http.MethodOptions)
	r.HandleFunc("/functions/backup", s.handleBackupFunction, http.MethodPost)
	r.HandleFunc("/functions/chat", s.handleFunctionPreflight, http.MethodOptions)
	r.HandleFunc("/functions/chat", s.handleChatFunction, http.MethodPost)

	r.HandleFunc("/session", s.handleCreateSession, http.MethodPost)
	r.HandleFunc("/session", s.handleDeleteSession, http.MethodDelete)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/incidents", s.handleListIncidents, http.MethodGet)
		r.HandleFunc("/incidents", s.handleCreateIncident, http.MethodPost)
		r.HandleFunc("/incidents/:incidentID/status", s.handleUpdateIncidentStatus, http.MethodPatch)
		r.HandleFunc("/incidents/:incidentID", s.handleDeleteIncident, http.MethodDelete)

		r.HandleFunc("/payments", s.handleListPayments, http.MethodGet)
		r.HandleFunc("/payments", s.handleCreatePayment, http.MethodPost)
		r.HandleFunc("/payments/:paymentID", s.handlePaymentDetail, http.MethodGet)

		r.HandleFunc("/chat/messages", s.handleChatHistory, http.MethodGet)

		r.HandleFunc("/stats/users", s.handleUserStats, http.MethodGet)
		r.HandleFunc("/stats/rooms", s.handleRoomStats, http.MethodGet)

		r.HandleFunc("/lookups", s.handleLookups, http.MethodGet)
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Service) userIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(contextKeyUserID).(string)
	if !ok {
		return "", fmt.Errorf("user id not found in context")
	}
	return userID, nil
}
