// Package mocks provides gomock mocks for the recruit-admin ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	api := mocks.NewMockAdminAPI(ctrl)
//	api.EXPECT().Me(gomock.Any()).Return(principal, nil)
package mocks

// Generate mock for AdminAPI interface from internal/ports package.
// This creates MockAdminAPI with methods: Login, Me
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=admin_api_mock.go github.com/target/recruit-admin/internal/ports AdminAPI

// Generate mock for UsersAPI interface from internal/ports package.
// This creates MockUsersAPI with methods: ListUsers, DeleteUser, BulkDeleteUsers, SetUserVerified
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=users_api_mock.go github.com/target/recruit-admin/internal/ports UsersAPI
