package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockMembershipChecker struct {
	mock.Mock
}

func (m *MockMembershipChecker) IsChannelMember(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

type MockUserInfoProvider struct {
	mock.Mock
}

func (m *MockUserInfoProvider) UserInfo(ctx context.Context, userID int64) (string, string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.String(1), args.Error(2)
}
