// Package mocks provides gomock-generated mocks for the ports interfaces.
//
// The mocks are generated with go.uber.org/mock (gomock) and checked in so
// tests build without a codegen step. To regenerate after interface changes:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	api := mocks.NewMockAuthAPI(ctrl)
//	api.EXPECT().FetchCSRF(gomock.Any()).Return("token", nil)
package mocks

// Generate mock for the backend auth surface.
// This creates MockAuthAPI with methods:
// FetchCSRF, Login, LoginWithGoogle, Register, RefreshToken, Profile, Logout
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=auth_api_mock.go github.com/sajilocms/sajilocms-go/internal/ports AuthAPI

// Generate mock for the durable client-side cache.
// This creates MockCredentialCache with methods:
// SaveIdentity, LoadIdentity, ClearIdentity, Set, Get, Delete
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=credential_cache_mock.go github.com/sajilocms/sajilocms-go/internal/ports CredentialCache
