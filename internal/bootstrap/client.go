package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"

	"github.com/sajilocms/sajilocms-go/config"
	"github.com/sajilocms/sajilocms-go/internal/adapters/cache"
	"github.com/sajilocms/sajilocms-go/internal/adapters/googleauth"
	"github.com/sajilocms/sajilocms-go/internal/adapters/restapi"
	domainauth "github.com/sajilocms/sajilocms-go/internal/domain/auth"
	"github.com/sajilocms/sajilocms-go/internal/guard"
	"github.com/sajilocms/sajilocms-go/internal/ports"
	"github.com/sajilocms/sajilocms-go/internal/service"
	"github.com/sajilocms/sajilocms-go/internal/session"
)

// Client bundles the wired SDK: the session store plus the clinic API
// services sharing one authenticated transport.
type Client struct {
	Session       *session.Store
	REST          *restapi.Client
	Cache         ports.CredentialCache
	Appointments  *service.AppointmentService
	Records       *service.RecordService
	Pharmacy      *service.PharmacyService
	Billing       *service.BillingService
	Communication *service.CommunicationService
	Doctors       *service.DoctorService
	Staff         *service.StaffService

	logger *slog.Logger
}

// GuardFor returns a route guard bound to the shared session store and
// durable cache. allowed is the route's role policy; an empty set admits any
// authenticated identity.
func (c *Client) GuardFor(route string, allowed ...domainauth.Role) *guard.Guard {
	return guard.New(guard.Options{
		Store:  c.Session,
		Cache:  c.Cache,
		Logger: c.logger,
	}, route, allowed)
}

// BuildClient wires the full client stack from configuration.
func BuildClient(cfg config.AppConfig, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	credCache, err := buildCache(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("build credential cache: %w", err)
	}

	rest, err := restapi.NewClient(restapi.Config{
		BaseURL:   cfg.API.BaseURL,
		AuthPath:  cfg.API.AuthPath,
		UserAgent: cfg.API.UserAgent,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build rest client: %w", err)
	}
	// Seed the anti-forgery token from the last run so the first mutating
	// call does not need a csrf round trip.
	if token, tokenErr := credCache.Get(context.Background(), ports.CacheKeyCSRFToken); tokenErr == nil {
		rest.SetCSRFToken(token)
	}

	var verifier ports.TokenVerifier
	if cfg.GoogleAuth.Enabled() {
		provider, provErr := googleauth.NewProvider(googleauth.ProviderConfig{
			ClientID:     cfg.GoogleAuth.ClientID,
			ClientSecret: cfg.GoogleAuth.ClientSecret,
			RedirectURL:  cfg.GoogleAuth.RedirectURL,
			Issuer:       cfg.GoogleAuth.Issuer,
		})
		if provErr != nil {
			return nil, fmt.Errorf("build google auth provider: %w", provErr)
		}
		verifier = provider
	}

	store := session.NewStore(session.StoreOptions{
		API:   rest,
		Cache: credCache,
		Config: session.Config{
			Logger:          logger,
			Verifier:        verifier,
			ExpiryHint:      rest,
			RefreshInterval: cfg.Session.RefreshInterval,
			RefreshThrottle: cfg.Session.RefreshThrottle,
		},
	})

	return &Client{
		Session:       store,
		REST:          rest,
		Cache:         credCache,
		Appointments:  service.NewAppointmentService(service.AppointmentServiceOptions{Client: rest}),
		Records:       service.NewRecordService(service.RecordServiceOptions{Client: rest}),
		Pharmacy:      service.NewPharmacyService(service.PharmacyServiceOptions{Client: rest}),
		Billing:       service.NewBillingService(service.BillingServiceOptions{Client: rest, Cache: credCache, Logger: logger}),
		Communication: service.NewCommunicationService(service.CommunicationServiceOptions{Client: rest}),
		Doctors:       service.NewDoctorService(service.DoctorServiceOptions{Client: rest}),
		Staff:         service.NewStaffService(service.StaffServiceOptions{Client: rest}),
		logger:        logger,
	}, nil
}

func buildCache(cfg config.CacheConfig) (ports.CredentialCache, error) {
	switch cfg.Backend {
	case config.CacheBackendMemory:
		return cache.NewMemoryCache(), nil
	case config.CacheBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return cache.NewRedisCacheWithPrefix(client, cfg.Redis.Prefix), nil
	case config.CacheBackendFile, "":
		dir := cfg.Dir
		if dir == "" {
			base, err := os.UserConfigDir()
			if err != nil {
				return nil, fmt.Errorf("resolve user config dir: %w", err)
			}
			dir = filepath.Join(base, "sajilocms")
		}
		return cache.NewFileCache(dir)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
