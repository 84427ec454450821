package service

import (
	"context"

	"github.com/pkg/errors"

	"hatch_egg_bot/internal/model"
	"hatch_egg_bot/internal/repository"
)

var (
	ErrAlreadyHatched   = errors.New("egg already hatched")
	ErrSelfHatch        = errors.New("sender cannot hatch their own egg")
	ErrInvalidCallback  = errors.New("malformed hatch payload")
	ErrDuplicatePayment = errors.New("payment already processed")
	ErrAmountTooLow     = errors.New("insufficient amount")
	ErrAmountTooHigh    = errors.New("too many eggs")
	ErrEggNotFound      = errors.New("egg not found")
	ErrUserNotFound     = errors.New("user not found")
)

type Service struct {
	*LimitService
	*EggService
	*PointsService
	*PaymentService
	*StatsService

	store *repository.Store
}

func NewService(
	limits *LimitService,
	eggs *EggService,
	points *PointsService,
	payments *PaymentService,
	stats *StatsService,
	store *repository.Store,
) *Service {
	return &Service{
		LimitService:   limits,
		EggService:     eggs,
		PointsService:  points,
		PaymentService: payments,
		StatsService:   stats,
		store:          store,
	}
}

// ResetCounters zeroes every gameplay counter while preserving the referral
// graph, the payment history, and the egg detail log. Admin-only surface.
func (s *Service) ResetCounters(ctx context.Context) error {
	return s.store.Update(func(st *repository.State) error {
		st.EggPoints = make(map[int64]int)
		st.EggsSentByUser = make(map[int64]int)
		st.DailyEggsSent = make(map[int64]*model.DailyAllowance)
		st.EggsHatchedByUser = make(map[int64]int)
		st.UserEggsHatchedByOthers = make(map[int64]int)
		st.HatchedEggs = make(repository.StringSet)
		st.ReferralEarnings = make(map[int64]int)
		st.CompletedTasks = make(map[int64]map[string]bool)
		return nil
	})
}

type LimitServiceI interface {
	CheckDailyLimit(ctx context.Context, userID int64) (model.DailyLimit, error)
	AddPaidEggs(ctx context.Context, userID int64, amount int) error
}

type EggServiceI interface {
	Issue(ctx context.Context, senderID int64) (*model.Egg, string, error)
	Hatch(ctx context.Context, senderID int64, eggID string, hatcherID int64) (*model.Egg, error)
}

type SubscriptionServiceI interface {
	CheckSubscription(ctx context.Context, userID int64) (bool, error)
	HandleMembershipChange(ctx context.Context, userID int64) (bool, error)
}

type PaymentServiceI interface {
	VerifyPayment(ctx context.Context, userID int64, txHash string, amount float64) (int, error)
	PaymentInfo(ctx context.Context, userID int64) (*model.PaymentInfo, error)
}

type StatsServiceI interface {
	Stats(ctx context.Context, userID int64) (*model.UserStats, error)
	EggByID(ctx context.Context, eggIDParam string) (*EggView, error)
	UserEggs(ctx context.Context, userID int64) ([]*EggView, error)
	UserByUsername(ctx context.Context, username string) (*UserProfile, error)
}

// MembershipChecker answers whether a user is an active member of the
// designated channel. Implemented against the live bot API.
type MembershipChecker interface {
	IsChannelMember(ctx context.Context, userID int64) (bool, error)
}

// UserInfoProvider resolves display data for explorer responses.
// Lookups are best-effort; failures surface as empty values.
type UserInfoProvider interface {
	UserInfo(ctx context.Context, userID int64) (username string, avatarURL string, err error)
}

// Notifier delivers best-effort messages to users. Delivery is at-most-once
// and failures never reach the caller.
type Notifier interface {
	Notify(userID int64, text string)
}

type NopNotifier struct{}

func (NopNotifier) Notify(int64, string) {}

// EventSink receives egg lifecycle events for live consumers.
type EventSink interface {
	Publish(ev EggEvent)
}

type NopSink struct{}

func (NopSink) Publish(EggEvent) {}
