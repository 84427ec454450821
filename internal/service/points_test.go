package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hatch_egg_bot/internal/model"
	"hatch_egg_bot/internal/repository"
	"hatch_egg_bot/internal/service/mocks"
)

func TestPointsService_HandleMembershipChange(t *testing.T) {
	store := newTestStore(t)
	notifier := &recordingNotifier{}
	svc := NewPointsService(store, nil, notifier)

	granted, err := svc.HandleMembershipChange(context.Background(), userA)
	require.NoError(t, err)
	assert.True(t, granted)

	readState(t, store, func(st *repository.State) {
		assert.True(t, st.TaskDone(userA, model.TaskSubscribedHatch))
		assert.Equal(t, SubscribeBonusEggs, st.DailyEggsSent[userA].PaidEggs)
	})
	require.Len(t, notifier.messages(), 1)
	assert.Equal(t, userA, notifier.messages()[0].UserID)

	// The bonus is one-time; a rejoin grants nothing.
	granted, err = svc.HandleMembershipChange(context.Background(), userA)
	require.NoError(t, err)
	assert.False(t, granted)

	readState(t, store, func(st *repository.State) {
		assert.Equal(t, SubscribeBonusEggs, st.DailyEggsSent[userA].PaidEggs)
	})
	assert.Len(t, notifier.messages(), 1)
}

func TestPointsService_CheckSubscription_FlagAlreadySet(t *testing.T) {
	store := newTestStore(t)
	checker := &mocks.MockMembershipChecker{}
	svc := NewPointsService(store, checker, nil)

	seedState(t, store, func(st *repository.State) {
		st.MarkTaskDone(userA, model.TaskSubscribedHatch)
	})

	subscribed, err := svc.CheckSubscription(context.Background(), userA)
	require.NoError(t, err)
	assert.True(t, subscribed)

	// No live lookup when the flag already answers.
	checker.AssertNotCalled(t, "IsChannelMember", mock.Anything, mock.Anything)
}

func TestPointsService_CheckSubscription_MemberGetsBonus(t *testing.T) {
	store := newTestStore(t)
	checker := &mocks.MockMembershipChecker{}
	checker.On("IsChannelMember", mock.Anything, userA).Return(true, nil).Once()
	svc := NewPointsService(store, checker, nil)

	subscribed, err := svc.CheckSubscription(context.Background(), userA)
	require.NoError(t, err)
	assert.True(t, subscribed)

	readState(t, store, func(st *repository.State) {
		assert.True(t, st.TaskDone(userA, model.TaskSubscribedHatch))
		assert.Equal(t, SubscribeBonusEggs, st.DailyEggsSent[userA].PaidEggs)
	})

	// Second call answers from the flag.
	subscribed, err = svc.CheckSubscription(context.Background(), userA)
	require.NoError(t, err)
	assert.True(t, subscribed)
	checker.AssertExpectations(t)
}

func TestPointsService_CheckSubscription_NotMember(t *testing.T) {
	store := newTestStore(t)
	checker := &mocks.MockMembershipChecker{}
	checker.On("IsChannelMember", mock.Anything, userA).Return(false, nil)
	svc := NewPointsService(store, checker, nil)

	subscribed, err := svc.CheckSubscription(context.Background(), userA)
	require.NoError(t, err)
	assert.False(t, subscribed)

	readState(t, store, func(st *repository.State) {
		assert.False(t, st.TaskDone(userA, model.TaskSubscribedHatch))
		assert.Nil(t, st.DailyEggsSent[userA])
	})
}

func TestPointsService_CheckSubscription_CheckerError(t *testing.T) {
	store := newTestStore(t)
	checker := &mocks.MockMembershipChecker{}
	checker.On("IsChannelMember", mock.Anything, userA).Return(false, errors.New("api down"))
	svc := NewPointsService(store, checker, nil)

	subscribed, err := svc.CheckSubscription(context.Background(), userA)
	require.NoError(t, err)
	assert.False(t, subscribed)
}
