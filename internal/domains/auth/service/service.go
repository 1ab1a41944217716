package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"eventhub/config"
	"eventhub/infras/jwt"
	"eventhub/infras/otel"
	"eventhub/internal/domains/auth/model/dto"
	userModel "eventhub/internal/domains/user/model"
	userRepo "eventhub/internal/domains/user/repository"
	vendorDto "eventhub/internal/domains/vendors/model/dto"
	vendorRepo "eventhub/internal/domains/vendors/repository"
	"eventhub/shared"
	"eventhub/shared/cache"
	"eventhub/shared/caller"
	"eventhub/shared/constant"
	"eventhub/shared/failure"
	"eventhub/shared/password"
	"eventhub/shared/timezone"
	"eventhub/shared/transaction"
	"eventhub/shared/validator"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	messageUserExists         = "User already exists"
	messageInvalidCredentials = "Invalid email or password"
	messageUserNotFound       = "User not found"
	messageAdminRegistration  = "Admin registration is disabled"
)

type Auth interface {
	Register(ctx context.Context, req dto.RegisterRequest) (dto.RegisterResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	Validate(ctx context.Context, c caller.Caller) (dto.ValidateResponse, error)
	Logout(ctx context.Context, c caller.Caller) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type serviceImpl struct {
	userRepo   userRepo.User
	vendorRepo vendorRepo.Vendor
	tx         transaction.Runner
	jwtService jwt.JWT
	cache      cache.RedisCache
	cfg        *config.Config
	otel       otel.Otel
}

func New(
	userRepo userRepo.User,
	vendorRepo vendorRepo.Vendor,
	tx transaction.Runner,
	jwt jwt.JWT,
	cache cache.RedisCache,
	cfg *config.Config,
	otel otel.Otel,
) Auth {
	return &serviceImpl{
		userRepo:   userRepo,
		vendorRepo: vendorRepo,
		tx:         tx,
		jwtService: jwt,
		cache:      cache,
		cfg:        cfg,
		otel:       otel,
	}
}

func (s *serviceImpl) registerTTL() time.Duration {
	if s.cfg.JWT.RegisterExpireMin <= 0 {
		return constant.DefaultTokenTTL
	}

	return time.Duration(s.cfg.JWT.RegisterExpireMin) * time.Minute
}

func (s *serviceImpl) loginTTL() time.Duration {
	if s.cfg.JWT.LoginExpireMin <= 0 {
		return constant.DefaultTokenTTL
	}

	return time.Duration(s.cfg.JWT.LoginExpireMin) * time.Minute
}

// Register creates the user and, for the vendor role, its placeholder vendor
// profile in the same transaction.
func (s *serviceImpl) Register(ctx context.Context, req dto.RegisterRequest) (res dto.RegisterResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Register")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.Normalize()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err //nolint:wrapcheck
	}

	if req.Role == constant.RoleAdmin && !s.cfg.Auth.AllowAdminRegistration {
		return res, failure.Forbidden(messageAdminRegistration) //nolint:wrapcheck
	}

	exists, err := s.userRepo.Exist(ctx, userRepo.EmailFilter(req.Email, ""))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return res, fmt.Errorf("failed to check if user exists: %w", err)
	}

	if exists {
		return res, failure.BadRequestFromString(messageUserExists) //nolint:wrapcheck
	}

	hashedPassword, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return res, fmt.Errorf("failed to hash password: %w", err)
	}

	user := req.ToUserModel(hashedPassword)

	err = s.tx.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := s.userRepo.InsertTx(ctx, tx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		if user.Role != constant.RoleVendor {
			return nil
		}

		vendor := vendorDto.NewPlaceholder(user.ID, user.Name, user.Email, user.Phone)
		if err := s.vendorRepo.InsertTx(ctx, tx, vendor); err != nil {
			return fmt.Errorf("failed to create vendor profile: %w", err)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("email", user.Email).Msg("failed to register user")

		return res, err //nolint:wrapcheck
	}

	token, err := s.jwtService.Generate(user.ID, user.Email, user.Role, s.registerTTL())
	if err != nil {
		log.Error().Err(err).Msg("failed to generate token")

		return res, fmt.Errorf("failed to generate token: %w", err)
	}

	res.Message = dto.MessageRegistered
	res.Token = token.Value
	res.User.FromModel(user)

	return res, nil
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Login")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.Normalize()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err //nolint:wrapcheck
	}

	user, err := s.userRepo.Get(ctx, userRepo.EmailFilter(req.Email, ""))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == "" {
		log.Warn().Str("email", req.Email).Msg("login attempt with unknown email")

		return res, failure.Unauthorized(messageInvalidCredentials) //nolint:wrapcheck
	}

	if err = password.Verify(req.Password, user.Password); err != nil {
		log.Warn().Str("email", req.Email).Msg("login attempt with wrong password")

		return res, failure.Unauthorized(messageInvalidCredentials) //nolint:wrapcheck
	}

	token, err := s.jwtService.Generate(user.ID, user.Email, user.Role, s.loginTTL())
	if err != nil {
		log.Error().Err(err).Msg("failed to generate token")

		return res, fmt.Errorf("failed to generate token: %w", err)
	}

	res.User.FromModel(user)
	res.Token = token.Value
	res.ExpiresAt = token.ExpiresAt

	return res, nil
}

// Validate confirms the credential still belongs to an existing user.
func (s *serviceImpl) Validate(ctx context.Context, c caller.Caller) (res dto.ValidateResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Validate")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, err := s.userRepo.Get(ctx, shared.FilterByID(c.UserID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == "" {
		return res, failure.Unauthorized(messageUserNotFound) //nolint:wrapcheck
	}

	res.User.FromModel(user)

	return res, nil
}

// Logout denylists the credential's token id until the credential expires.
func (s *serviceImpl) Logout(ctx context.Context, c caller.Caller) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Logout")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if c.TokenID == "" {
		return nil
	}

	ttl := int(c.ExpiresAt.Sub(timezone.Now()).Seconds())
	if ttl <= 0 {
		return nil
	}

	if err = s.cache.Save(ctx, constant.CacheKeyRevokedToken+c.TokenID, true, ttl); err != nil {
		log.Error().Err(err).Str("token_id", c.TokenID).Msg("failed to revoke token")

		return fmt.Errorf("failed to revoke token: %w", err)
	}

	return nil
}

func (s *serviceImpl) IsRevoked(ctx context.Context, tokenID string) (revoked bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".IsRevoked")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if tokenID == "" {
		return false, nil
	}

	revoked, err = s.cache.Exists(ctx, constant.CacheKeyRevokedToken+tokenID)
	if err != nil {
		return false, fmt.Errorf("failed to check revoked token: %w", err)
	}

	return revoked, nil
}
