package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"misradcrm_backend/internals/features/users/auth/service"
	userModel "misradcrm_backend/internals/features/users/user/model"
	helper "misradcrm_backend/internals/helpers"
	helperAuth "misradcrm_backend/internals/helpers/auth"
)

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

var validate = validator.New()

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type googleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// =============================
// POST /api/auth/register
// =============================
func (ctl *AuthController) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "גוף הבקשה אינו תקין")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	hash, err := service.HashPassword(req.Password)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "הסיסמה אינה עומדת בדרישות")
	}

	user := &userModel.UserModel{
		UserName:     req.Name,
		UserEmail:    req.Email,
		UserPassword: hash,
		UserIsActive: true,
	}
	if err := ctl.DB.Create(user).Error; err != nil {
		// unique email
		var existing userModel.UserModel
		if lookupErr := ctl.DB.Where("user_email = ?", req.Email).First(&existing).Error; lookupErr == nil {
			return helper.JsonError(c, fiber.StatusConflict, "כתובת הדוא\"ל כבר רשומה")
		}
		log.Println("[ERROR] register:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "ההרשמה נכשלה")
	}

	return helper.JsonCreated(c, "נרשמת בהצלחה", fiber.Map{
		"user_id":    user.UserID,
		"user_name":  user.UserName,
		"user_email": user.UserEmail,
	})
}

// =============================
// POST /api/auth/login
// =============================
func (ctl *AuthController) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "גוף הבקשה אינו תקין")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	var user userModel.UserModel
	if err := ctl.DB.Where("user_email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusUnauthorized, "דוא\"ל או סיסמה שגויים")
		}
		log.Println("[ERROR] login lookup:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "ההתחברות נכשלה")
	}
	if !user.UserIsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "החשבון אינו פעיל")
	}
	if user.UserPassword == "" || !service.CheckPassword(user.UserPassword, req.Password) {
		return helper.JsonError(c, fiber.StatusUnauthorized, "דוא\"ל או סיסמה שגויים")
	}

	return ctl.issueTokens(c, &user)
}

// =============================
// POST /api/auth/login/google
// =============================
func (ctl *AuthController) LoginGoogle(c *fiber.Ctx) error {
	var req googleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "גוף הבקשה אינו תקין")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	profile, err := service.VerifyGoogleIDToken(req.IDToken)
	if err != nil {
		log.Println("[ERROR] google token verify:", err)
		return helper.JsonError(c, fiber.StatusUnauthorized, "אימות Google נכשל")
	}

	email := strings.ToLower(profile.Email)

	var user userModel.UserModel
	err = ctl.DB.Where("user_google_id = ? OR user_email = ?", profile.Sub, email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = userModel.UserModel{
			UserName:     profile.Name,
			UserEmail:    email,
			UserGoogleID: &profile.Sub,
			UserIsActive: true,
		}
		if err := ctl.DB.Create(&user).Error; err != nil {
			log.Println("[ERROR] google register:", err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "ההתחברות נכשלה")
		}
	case err != nil:
		log.Println("[ERROR] google login lookup:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "ההתחברות נכשלה")
	default:
		if !user.UserIsActive {
			return helper.JsonError(c, fiber.StatusForbidden, "החשבון אינו פעיל")
		}
		if user.UserGoogleID == nil {
			user.UserGoogleID = &profile.Sub
			if err := ctl.DB.Save(&user).Error; err != nil {
				log.Println("[ERROR] link google id:", err)
			}
		}
	}

	return ctl.issueTokens(c, &user)
}

// =============================
// POST /api/auth/refresh
// =============================
func (ctl *AuthController) Refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "גוף הבקשה אינו תקין")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	userID, err := service.ConsumeRefreshToken(ctl.DB, req.RefreshToken)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "טוקן הרענון אינו תקף")
	}

	var user userModel.UserModel
	if err := ctl.DB.Where("user_id = ?", userID).First(&user).Error; err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "משתמש לא נמצא")
	}
	if !user.UserIsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "החשבון אינו פעיל")
	}

	return ctl.issueTokens(c, &user)
}

// =============================
// POST /api/auth/logout (authenticated)
// =============================
func (ctl *AuthController) Logout(c *fiber.Ctx) error {
	auth := c.Get(fiber.HeaderAuthorization)
	tokenString := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	if tokenString == "" {
		tokenString = c.Cookies("access_token")
	}
	if tokenString == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "לא נמצא טוקן לביטול")
	}

	if err := service.BlacklistAccessToken(ctl.DB, tokenString); err != nil {
		log.Println("[ERROR] blacklist token:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "ההתנתקות נכשלה")
	}

	c.ClearCookie("access_token")
	return helper.JsonOK(c, "התנתקת בהצלחה", nil)
}

// =============================
// GET /api/auth/me (authenticated)
// =============================
func (ctl *AuthController) Me(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "לא מחובר")
	}

	var user userModel.UserModel
	if err := ctl.DB.Where("user_id = ?", userID).First(&user).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "משתמש לא נמצא")
	}

	fc, err := service.LoadFirmClaims(ctl.DB, userID)
	if err != nil {
		log.Println("[ERROR] load memberships:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "אירעה שגיאה פנימית")
	}

	return helper.JsonOK(c, "OK", fiber.Map{
		"user_id":        user.UserID,
		"user_name":      user.UserName,
		"user_email":     user.UserEmail,
		"role":           fc.Role,
		"firm_ids":       fc.AllIDs,
		"firm_owner_ids": fc.OwnerIDs,
		"firm_staff_ids": fc.StaffIDs,
	})
}

func (ctl *AuthController) issueTokens(c *fiber.Ctx, user *userModel.UserModel) error {
	fc, err := service.LoadFirmClaims(ctl.DB, user.UserID)
	if err != nil {
		log.Println("[ERROR] load memberships:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "ההתחברות נכשלה")
	}

	access, err := service.CreateAccessToken(user, fc)
	if err != nil {
		log.Println("[ERROR] sign access token:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "ההתחברות נכשלה")
	}

	refresh, err := service.CreateRefreshToken(ctl.DB, user.UserID, c.Get(fiber.HeaderUserAgent), c.IP())
	if err != nil {
		log.Println("[ERROR] mint refresh token:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "ההתחברות נכשלה")
	}

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    access,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
		MaxAge:   int(service.AccessTokenTTL.Seconds()),
	})

	return helper.JsonOK(c, "התחברת בהצלחה", tokenPairResponse{
		AccessToken:  access,
		RefreshToken: refresh,
	})
}
