package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/sajilocms/sajilocms-go/internal/domain/auth"
	apperrors "github.com/sajilocms/sajilocms-go/internal/errors"
	"github.com/sajilocms/sajilocms-go/internal/mocks"
	"github.com/sajilocms/sajilocms-go/internal/ports"
	"github.com/sajilocms/sajilocms-go/internal/testutil"
)

func newMockedStore(api ports.AuthAPI, cache ports.CredentialCache) *Store {
	return NewStore(StoreOptions{
		API:   api,
		Cache: cache,
		Config: Config{
			Logger:          testutil.DiscardLogger(),
			RefreshThrottle: time.Nanosecond,
		},
	})
}

func TestLogin_FetchesCSRFBeforeCredentialExchange(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockAuthAPI(ctrl)
	cache := mocks.NewMockCredentialCache(ctrl)

	id := domainauth.Identity{ID: 1, Email: "a@b.com", Role: domainauth.RoleAdmin}
	gomock.InOrder(
		api.EXPECT().FetchCSRF(gomock.Any()).Return("token", nil),
		api.EXPECT().Login(gomock.Any(), "a@b.com", "pw").Return(ports.LoginResult{Identity: id}, nil),
	)
	cache.EXPECT().Set(gomock.Any(), ports.CacheKeyCSRFToken, "token").Return(nil)
	cache.EXPECT().SaveIdentity(gomock.Any(), id).Return(nil)

	store := newMockedStore(api, cache)
	res, err := store.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, id, res.Identity)
}

func TestLogout_ClearsCacheDespiteBackendFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockAuthAPI(ctrl)
	cache := mocks.NewMockCredentialCache(ctrl)

	api.EXPECT().Logout(gomock.Any()).Return(apperrors.Transient("backend down"))
	cache.EXPECT().ClearIdentity(gomock.Any()).Return(nil)
	cache.EXPECT().Delete(gomock.Any(), ports.CacheKeyLastRefresh).Return(ports.ErrNotFound)

	store := newMockedStore(api, cache)
	store.Logout(context.Background())

	_, ok := store.Identity()
	assert.False(t, ok)
}

func TestRefreshSilently_CacheWriteFailureIsNonFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockAuthAPI(ctrl)
	cache := mocks.NewMockCredentialCache(ctrl)

	api.EXPECT().RefreshToken(gomock.Any()).Return(ports.RefreshResult{}, nil)
	cache.EXPECT().Set(gomock.Any(), ports.CacheKeyLastRefresh, gomock.Any()).Return(apperrors.Cache("disk full"))

	store := newMockedStore(api, cache)
	assert.True(t, store.RefreshSilently(context.Background()))
}
