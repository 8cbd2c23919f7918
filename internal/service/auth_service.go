package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace-service/config"
	"marketplace-service/internal/models"
	"marketplace-service/internal/store"
	"marketplace-service/internal/util"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Claims is the JWT payload. Role decides which collection the subject
// resolves against.
type Claims struct {
	Role string `json:"role"`
	jwt.StandardClaims
}

// Principal is the authenticated caller. For a seller token (or a user
// carrying the seller role) both sides are hydrated best-effort.
type Principal struct {
	User   *models.User
	Seller *models.Seller
	Role   string
}

// SubjectID returns the ObjectID of whichever principal resolved
func (p *Principal) SubjectID() primitive.ObjectID {
	if p.User != nil {
		return p.User.ID
	}
	if p.Seller != nil {
		return p.Seller.ID
	}
	return primitive.NilObjectID
}

// AuthService handles registration, login and token resolution
type AuthService struct {
	store  *store.Store
	cfg    config.AuthConfig
	logger *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(st *store.Store, cfg config.AuthConfig) *AuthService {
	return &AuthService{
		store:  st,
		cfg:    cfg,
		logger: util.GetLogger(),
	}
}

// RegisterUserRequest carries a user registration
type RegisterUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role,omitempty"`
}

// RegisterSellerRequest carries a seller registration
type RegisterSellerRequest struct {
	Name            string  `json:"name" binding:"required"`
	Email           string  `json:"email" binding:"required,email"`
	Password        string  `json:"password" binding:"required,min=8"`
	StoreName       string  `json:"store_name" binding:"required"`
	Lat             float64 `json:"lat" binding:"required"`
	Lng             float64 `json:"lng" binding:"required"`
	ServiceRadiusKm float64 `json:"service_radius_km" binding:"required,gt=0"`
	Pincode         string  `json:"pincode" binding:"required"`
}

// TokenPair is an access token plus its refresh token
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RegisterUser creates a user account. Only the customer and vendor roles
// are self-service; admins are provisioned out of band.
func (a *AuthService) RegisterUser(ctx context.Context, req *RegisterUserRequest) (*models.User, error) {
	ctx, span := util.StartSpan(ctx, "AuthService.RegisterUser")
	defer span.End()

	role := req.Role
	if role == "" {
		role = models.RoleCustomer
	}
	if role != models.RoleCustomer && role != models.RoleVendor {
		return nil, fmt.Errorf("%w: role %q cannot self-register", ErrForbidden, role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
		Role:     role,
	}

	if err := a.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	a.logger.Info("User registered", zap.String("user_id", user.ID.Hex()), zap.String("role", role))
	return user, nil
}

// RegisterSeller creates a seller account pending admin approval
func (a *AuthService) RegisterSeller(ctx context.Context, req *RegisterSellerRequest) (*models.Seller, error) {
	ctx, span := util.StartSpan(ctx, "AuthService.RegisterSeller")
	defer span.End()

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	seller := &models.Seller{
		Name:            req.Name,
		Email:           req.Email,
		Password:        string(hash),
		StoreName:       req.StoreName,
		Location:        models.NewGeoPoint(req.Lat, req.Lng),
		ServiceRadiusKm: req.ServiceRadiusKm,
		Pincode:         req.Pincode,
	}

	if err := a.store.CreateSeller(ctx, seller); err != nil {
		return nil, err
	}

	a.logger.Info("Seller registered", zap.String("seller_id", seller.ID.Hex()))
	return seller, nil
}

// LoginUser verifies credentials and issues a token pair
func (a *AuthService) LoginUser(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	ctx, span := util.StartSpan(ctx, "AuthService.LoginUser")
	defer span.End()

	user, err := a.store.GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if user.IsSuspended {
		return nil, nil, ErrAccountSuspended
	}

	pair, err := a.issueTokens(ctx, user.ID, user.Role, false)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// LoginSeller verifies seller credentials and issues a token pair
func (a *AuthService) LoginSeller(ctx context.Context, email, password string) (*models.Seller, *TokenPair, error) {
	ctx, span := util.StartSpan(ctx, "AuthService.LoginSeller")
	defer span.End()

	seller, err := a.store.GetSellerByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(seller.Password), []byte(password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if seller.IsSuspended {
		return nil, nil, ErrAccountSuspended
	}

	pair, err := a.issueTokens(ctx, seller.ID, models.RoleSeller, true)
	if err != nil {
		return nil, nil, err
	}
	return seller, pair, nil
}

// Refresh exchanges an unexpired refresh token for a new pair
func (a *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	ctx, span := util.StartSpan(ctx, "AuthService.Refresh")
	defer span.End()

	user, err := a.store.GetUserByRefreshToken(ctx, refreshToken)
	if err == nil {
		if user.IsSuspended {
			return nil, ErrAccountSuspended
		}
		return a.issueTokens(ctx, user.ID, user.Role, false)
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	seller, err := a.store.GetSellerByRefreshToken(ctx, refreshToken)
	if err == nil {
		if seller.IsSuspended {
			return nil, ErrAccountSuspended
		}
		return a.issueTokens(ctx, seller.ID, models.RoleSeller, true)
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	return nil, ErrInvalidCredentials
}

func (a *AuthService) issueTokens(ctx context.Context, subject primitive.ObjectID, role string, isSeller bool) (*TokenPair, error) {
	access, err := a.GenerateToken(subject, role)
	if err != nil {
		return nil, err
	}

	refresh := models.RefreshToken{
		Token:     uuid.New().String(),
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(time.Duration(a.cfg.RefreshTTLDays) * 24 * time.Hour),
	}

	if isSeller {
		err = a.store.PushSellerRefreshToken(ctx, subject, refresh)
	} else {
		err = a.store.PushUserRefreshToken(ctx, subject, refresh)
	}
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh.Token}, nil
}

// GenerateToken signs an access token for a principal
func (a *AuthService) GenerateToken(subject primitive.ObjectID, role string) (string, error) {
	claims := &Claims{
		Role: role,
		StandardClaims: jwt.StandardClaims{
			Subject:   subject.Hex(),
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(time.Duration(a.cfg.TokenTTLHours) * time.Hour).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.cfg.JWTSecret))
}

// ParseToken validates a token and returns its claims
func (a *AuthService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(a.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	return claims, nil
}

// ResolveToken parses a bearer token and hydrates the principal. The role
// claim picks the collection; a user who also holds the seller role gets
// both sides hydrated best-effort.
func (a *AuthService) ResolveToken(ctx context.Context, tokenString string) (*Principal, error) {
	claims, err := a.ParseToken(tokenString)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	subject, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	principal := &Principal{Role: claims.Role}

	if claims.Role == models.RoleSeller {
		seller, err := a.store.GetSellerByID(ctx, subject)
		if err != nil {
			return nil, ErrInvalidCredentials
		}
		if seller.IsSuspended {
			return nil, ErrAccountSuspended
		}
		principal.Seller = seller

		if user, err := a.store.GetUserByEmail(ctx, seller.Email); err == nil && !user.IsSuspended {
			principal.User = user
		}
		return principal, nil
	}

	user, err := a.store.GetUserByID(ctx, subject)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.IsSuspended {
		return nil, ErrAccountSuspended
	}
	principal.User = user

	if user.Role == models.RoleSeller {
		if seller, err := a.store.GetSellerByEmail(ctx, user.Email); err == nil && !seller.IsSuspended {
			principal.Seller = seller
		}
	}
	return principal, nil
}
