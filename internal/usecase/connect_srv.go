package usecase

import (
	"context"
	"strings"

	"golocal-spaces/internal/data/entity"
	"golocal-spaces/internal/data/repository"
	"golocal-spaces/internal/dto/request"
	"golocal-spaces/internal/dto/response"
	"golocal-spaces/pkg/apperror"
	"golocal-spaces/pkg/metrics"
	"golocal-spaces/pkg/payment"
	"golocal-spaces/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConnectService manages landlords' payout accounts at the payment processor.
type ConnectService interface {
	GetConnectStatus(ctx context.Context, userID uuid.UUID) (*response.ConnectStatusResponse, error)
	StartOnboarding(ctx context.Context, userID uuid.UUID, req *request.OnboardingRequest) (*response.OnboardingLinkResponse, error)
	// SyncAccount mirrors a processor-side account change into the owning user.
	SyncAccount(ctx context.Context, account *payment.Account) error
}

type connectService struct {
	userRepo     repository.UserRepository
	gateway      payment.Gateway
	notification NotificationService
	config       *utils.Config
	metrics      *metrics.Metrics
	log          *zap.Logger
}

func NewConnectService(
	userRepo repository.UserRepository,
	gateway payment.Gateway,
	notification NotificationService,
	config *utils.Config,
	m *metrics.Metrics,
	log *zap.Logger,
) ConnectService {
	return &connectService{
		userRepo:     userRepo,
		gateway:      gateway,
		notification: notification,
		config:       config,
		metrics:      m,
		log:          log.With(zap.String("service", "connect")),
	}
}

func (s *connectService) GetConnectStatus(ctx context.Context, userID uuid.UUID) (*response.ConnectStatusResponse, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.StripeAccountID == nil {
		return &response.ConnectStatusResponse{}, nil
	}

	account, err := s.gateway.GetAccount(ctx, *user.StripeAccountID)
	if err != nil {
		s.metrics.PaymentProviderErrors.WithLabelValues("get_account").Inc()
		s.log.Error("Failed to get payout account", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, apperror.PaymentProvider("failed to get Connect status", err)
	}

	ready := account.PayoutsReady()
	if ready != user.StripeOnboardingComplete {
		if err := s.mirror(ctx, user, ready, false); err != nil {
			return nil, err
		}
	}

	return &response.ConnectStatusResponse{
		Connected:          true,
		AccountID:          user.StripeAccountID,
		ChargesEnabled:     account.ChargesEnabled,
		PayoutsEnabled:     account.PayoutsEnabled,
		DetailsSubmitted:   account.DetailsSubmitted,
		OnboardingComplete: ready,
	}, nil
}

// StartOnboarding creates the payout account on first use and returns a fresh
// hosted onboarding link for it.
func (s *connectService) StartOnboarding(ctx context.Context, userID uuid.UUID, req *request.OnboardingRequest) (*response.OnboardingLinkResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperror.ValidationFields("validation failed", errs)
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.UserType.CanHost() {
		return nil, apperror.Forbidden("only landlords can set up payouts")
	}

	var accountID string
	if user.StripeAccountID != nil {
		accountID = *user.StripeAccountID
	} else {
		account, err := s.gateway.CreateAccount(ctx, user.Email)
		if err != nil {
			s.metrics.PaymentProviderErrors.WithLabelValues("create_account").Inc()
			s.log.Error("Failed to create payout account", zap.Error(err), zap.String("user_id", userID.String()))
			return nil, apperror.PaymentProvider("failed to create Connect account", err)
		}
		accountID = account.ID

		if err := s.userRepo.SetStripeAccount(ctx, user.ID, accountID); err != nil {
			s.log.Error("Failed to store payout account",
				zap.Error(err),
				zap.String("user_id", userID.String()),
				zap.String("account_id", accountID))
			return nil, apperror.Persistence("failed to save Connect account", err)
		}
		s.log.Info("Payout account created",
			zap.String("user_id", userID.String()),
			zap.String("account_id", accountID))
	}

	base := strings.TrimRight(s.config.App.BaseURL, "/")
	refreshURL := req.RefreshURL
	if refreshURL == "" {
		refreshURL = base + "/dashboard?stripe_refresh=true"
	}
	returnURL := req.ReturnURL
	if returnURL == "" {
		returnURL = base + "/dashboard?stripe_connected=true"
	}

	url, err := s.gateway.CreateOnboardingLink(ctx, accountID, refreshURL, returnURL)
	if err != nil {
		s.metrics.PaymentProviderErrors.WithLabelValues("create_onboarding_link").Inc()
		s.log.Error("Failed to create onboarding link", zap.Error(err), zap.String("account_id", accountID))
		return nil, apperror.PaymentProvider("failed to create onboarding link", err)
	}

	return &response.OnboardingLinkResponse{AccountID: accountID, URL: url}, nil
}

func (s *connectService) SyncAccount(ctx context.Context, account *payment.Account) error {
	user, err := s.userRepo.FindByStripeAccountID(ctx, account.ID)
	if err != nil {
		s.log.Error("Failed to find account owner", zap.Error(err), zap.String("account_id", account.ID))
		return apperror.Persistence("failed to find account owner", err)
	}
	if user == nil {
		s.log.Warn("No user for payout account", zap.String("account_id", account.ID))
		return nil
	}

	return s.mirror(ctx, user, account.PayoutsReady(), true)
}

// mirror stores the onboarding flag and sends the one-time setup notification.
// The notification carries a per-user dedupe key, so it is safe to retry.
func (s *connectService) mirror(ctx context.Context, user *entity.User, ready, sync bool) error {
	changed, err := s.userRepo.SetOnboardingComplete(ctx, user.ID, ready)
	if err != nil {
		s.log.Error("Failed to update onboarding flag", zap.Error(err), zap.String("user_id", user.ID.String()))
		return apperror.Persistence("failed to update onboarding status", err)
	}
	if changed {
		s.log.Info("Onboarding status changed",
			zap.String("user_id", user.ID.String()),
			zap.Bool("complete", ready))
	}
	user.StripeOnboardingComplete = ready

	if !ready {
		return nil
	}

	n := NewNotification(user.ID, entity.NotificationStripeConnected,
		"Payment Setup Complete",
		"Your Stripe account is now set up and ready to receive payments!",
		nil)
	n.DedupeKey = DedupeKey(string(entity.NotificationStripeConnected), user.ID.String())

	if sync {
		return s.notification.NotifyNow(ctx, n)
	}
	s.notification.Notify(ctx, n)
	return nil
}
