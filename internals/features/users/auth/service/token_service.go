package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"misradcrm_backend/internals/configs"
	"misradcrm_backend/internals/constants"
	authModel "misradcrm_backend/internals/features/users/auth/model"
	firmModel "misradcrm_backend/internals/features/users/firm/model"
	userModel "misradcrm_backend/internals/features/users/user/model"
)

const (
	AccessTokenTTL  = 2 * time.Hour
	RefreshTokenTTL = 30 * 24 * time.Hour
)

// FirmClaims is the per-role firm membership baked into the access token.
type FirmClaims struct {
	OwnerIDs []string
	StaffIDs []string
	AllIDs   []string
	Role     string
}

// LoadFirmClaims reads the user's memberships and splits them by role.
func LoadFirmClaims(db *gorm.DB, userID uuid.UUID) (FirmClaims, error) {
	var members []firmModel.FirmMemberModel
	if err := db.Where("firm_member_user_id = ?", userID).Find(&members).Error; err != nil {
		return FirmClaims{}, err
	}

	fc := FirmClaims{Role: constants.RoleAccountant}
	for _, m := range members {
		id := m.FirmMemberFirmID.String()
		fc.AllIDs = append(fc.AllIDs, id)
		if m.FirmMemberRole == constants.RoleOwner {
			fc.OwnerIDs = append(fc.OwnerIDs, id)
			fc.Role = constants.RoleOwner
		} else {
			fc.StaffIDs = append(fc.StaffIDs, id)
		}
	}
	return fc, nil
}

// CreateAccessToken signs the JWT the auth middleware expects: "id",
// "user_name", "role" and the three firm id lists.
func CreateAccessToken(user *userModel.UserModel, fc FirmClaims) (string, error) {
	if configs.JWTSecret == "" {
		return "", errors.New("JWT_SECRET is not set")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"id":             user.UserID.String(),
		"user_name":      user.UserName,
		"role":           fc.Role,
		"firm_owner_ids": fc.OwnerIDs,
		"firm_staff_ids": fc.StaffIDs,
		"firm_ids":       fc.AllIDs,
		"iat":            now.Unix(),
		"exp":            now.Add(AccessTokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(configs.JWTSecret))
}

// CreateRefreshToken mints an opaque token, stores only its SHA-256 hash and
// hands the plaintext back to the client once.
func CreateRefreshToken(db *gorm.DB, userID uuid.UUID, userAgent, ip string) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	plain := hex.EncodeToString(raw)
	hash := sha256.Sum256([]byte(plain))

	row := authModel.RefreshToken{
		RefreshTokenUserID:    userID,
		RefreshTokenHash:      hash[:],
		RefreshTokenExpiresAt: time.Now().Add(RefreshTokenTTL),
	}
	if userAgent != "" {
		row.RefreshTokenUserAgent = &userAgent
	}
	if ip != "" {
		row.RefreshTokenIP = &ip
	}

	if err := db.Create(&row).Error; err != nil {
		return "", err
	}
	return plain, nil
}

// ConsumeRefreshToken validates and revokes the presented token (rotation:
// every refresh issues a new one).
func ConsumeRefreshToken(db *gorm.DB, plain string) (uuid.UUID, error) {
	hash := sha256.Sum256([]byte(plain))

	var row authModel.RefreshToken
	if err := db.Where("refresh_token_hash = ?", hash[:]).First(&row).Error; err != nil {
		return uuid.Nil, errors.New("refresh token not found")
	}
	if row.RefreshTokenRevokedAt != nil {
		return uuid.Nil, errors.New("refresh token revoked")
	}
	if time.Now().After(row.RefreshTokenExpiresAt) {
		return uuid.Nil, errors.New("refresh token expired")
	}

	now := time.Now()
	row.RefreshTokenRevokedAt = &now
	if err := db.Save(&row).Error; err != nil {
		return uuid.Nil, err
	}
	return row.RefreshTokenUserID, nil
}

// BlacklistAccessToken adds the token to the blacklist until its natural
// expiry.
func BlacklistAccessToken(db *gorm.DB, tokenString string) error {
	expiredAt := time.Now().Add(AccessTokenTTL)

	// Best effort: read the real exp so the cleanup job can prune precisely.
	parser := jwt.Parser{SkipClaimsValidation: true}
	if token, _, err := parser.ParseUnverified(tokenString, jwt.MapClaims{}); err == nil {
		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if exp, ok := claims["exp"].(float64); ok {
				expiredAt = time.Unix(int64(exp), 0)
			}
		}
	}

	return db.Create(&authModel.TokenBlacklist{
		TokenBlacklistToken:     tokenString,
		TokenBlacklistExpiredAt: expiredAt,
	}).Error
}
