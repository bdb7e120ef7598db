package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	apierr "github.com/fishmap/fishmap/pkg/api/errors"
	"github.com/fishmap/fishmap/pkg/auth/otp"
	"github.com/fishmap/fishmap/pkg/auth/password"
	"github.com/fishmap/fishmap/pkg/auth/session"
	"github.com/fishmap/fishmap/pkg/domain"
	adb "github.com/fishmap/fishmap/pkg/domain/admin/db"
	domerr "github.com/fishmap/fishmap/pkg/domain/errors"
	pdb "github.com/fishmap/fishmap/pkg/domain/prediction/db"
	udb "github.com/fishmap/fishmap/pkg/domain/user/db"
	"github.com/fishmap/fishmap/pkg/mailer"
	"github.com/labstack/echo/v4"
)

// OTPPolicy tells how OTP codes are made.
type OTPPolicy struct {
	Digits int
	TTL    time.Duration
}

// placeholder sent by the profile form in place of the unchanged password.
const passwordPlaceholder = "***********"

func recipient(u domain.User) mailer.Recipient {
	return mailer.Recipient{Name: u.Name, Email: u.Email}
}

type registerRequest struct {
	Name            string `json:"name" form:"name"`
	Phone           string `json:"phone" form:"phone"`
	Email           string `json:"email" form:"email"`
	Gender          string `json:"gender" form:"gender"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword"`
}

func RegisterHandler(users udb.UserInterface, mail mailer.Mailer, policy OTPPolicy) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := registerRequest{}
		if err := bind(c, &req); err != nil {
			return err
		}
		req.Name = strings.TrimSpace(req.Name)
		req.Email = strings.TrimSpace(req.Email)
		req.Phone = strings.TrimSpace(req.Phone)

		if req.Name == "" || req.Phone == "" || req.Email == "" || req.Gender == "" ||
			req.Password == "" || req.ConfirmPassword == "" {
			return apierr.BadRequest(
				"name, phone, email, gender, password and confirmPassword are required",
			)
		}
		if req.Password != req.ConfirmPassword {
			return apierr.BadRequest("password and confirmPassword do not match")
		}

		gender, err := domain.AsGender(req.Gender)
		if err != nil {
			return badInput(err)
		}
		for _, err := range []error{
			domain.ValidateName(req.Name),
			domain.ValidateEmail(req.Email),
			domain.ValidatePhone(req.Phone, 10),
			domain.ValidatePassword(req.Password),
		} {
			if err != nil {
				return badInput(err)
			}
		}

		hash, err := password.Hash(req.Password)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		code, err := otp.Generate(policy.Digits)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		ctx := c.Request().Context()
		u, err := users.Create(ctx, domain.UserParam{
			Name:       req.Name,
			Phone:      req.Phone,
			Email:      req.Email,
			Gender:     gender,
			Password:   hash,
			OTPCode:    code,
			OTPExpires: time.Now().Add(policy.TTL),
		})
		if errors.Is(err, domerr.ErrConflict) {
			return conflictAsBadRequest(err)
		} else if err != nil {
			return badInput(err)
		}

		if err := mail.SendOTP(ctx, recipient(u), code, policy.TTL); err != nil {
			if derr := users.Delete(ctx, u.Id); derr != nil {
				c.Logger().Errorf("user %d is left unverifiable: %s", u.Id, derr)
			}
			return apierr.InternalServerErrorWithReason(
				"failed to send the verification email. try again later.", err,
			)
		}

		return c.JSON(http.StatusCreated, map[string]any{
			"msg":      "registered. check your email for the verification code.",
			"user":     ViewUser(u),
			"nextStep": "verify_otp",
		})
	}
}

type verifyOTPRequest struct {
	Email   string `json:"email" form:"email"`
	OTPCode string `json:"otp_code" form:"otp_code"`
}

type signedInUser struct {
	Id         int    `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	IsVerified bool   `json:"is_verified"`
	Role       string `json:"role"`
}

func signedInView(u domain.User) signedInUser {
	return signedInUser{
		Id: u.Id, Name: u.Name, Email: u.Email, IsVerified: u.IsVerified, Role: string(u.Role),
	}
}

// unverifiedUser finds the user by email, who should not be verified yet.
func unverifiedUser(c echo.Context, users udb.UserInterface, email string) (domain.User, error) {
	u, err := users.GetByEmail(c.Request().Context(), strings.TrimSpace(email))
	if errors.Is(err, domerr.ErrMissing) {
		return u, apierr.NotFound("user not found")
	} else if err != nil {
		return u, apierr.InternalServerError(err)
	}
	if u.IsVerified {
		return u, apierr.BadRequest("email is already verified", apierr.WithAdvice("sign in."))
	}
	return u, nil
}

func VerifyOTPHandler(users udb.UserInterface, mail mailer.Mailer, auth Auth) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := verifyOTPRequest{}
		if err := bind(c, &req); err != nil {
			return err
		}
		if req.Email == "" || req.OTPCode == "" {
			return apierr.BadRequest("email and otp_code are required")
		}

		u, err := unverifiedUser(c, users, req.Email)
		if err != nil {
			return err
		}

		now := time.Now()
		if err := otp.Check(u.OTPCode, req.OTPCode, u.OTPExpires, now); errors.Is(err, otp.ErrExpired) {
			return apierr.BadRequest("OTP code is expired", apierr.WithAdvice("request a new code."))
		} else if err != nil {
			return apierr.BadRequest("OTP code is not valid")
		}

		ctx := c.Request().Context()
		u, err = users.MarkVerified(ctx, u.Id, now)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		if err := mail.SendWelcome(ctx, recipient(u)); err != nil {
			c.Logger().Warnf("welcome email to user %d is not sent: %s", u.Id, err)
		}

		access, err := auth.signIn(c, userSubject(u), func(refresh *string) error {
			return users.SetRefreshToken(ctx, u.Id, refresh)
		})
		if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, map[string]any{
			"msg":         "email is verified. welcome to Fishmap.",
			"accessToken": access,
			"user":        signedInView(u),
			"autoLogin":   true,
		})
	}
}

type resendOTPRequest struct {
	Email string `json:"email" form:"email"`
}

func ResendOTPHandler(users udb.UserInterface, mail mailer.Mailer, policy OTPPolicy) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := resendOTPRequest{}
		if err := bind(c, &req); err != nil {
			return err
		}
		if req.Email == "" {
			return apierr.BadRequest("email is required")
		}

		u, err := unverifiedUser(c, users, req.Email)
		if err != nil {
			return err
		}

		code, err := otp.Generate(policy.Digits)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		ctx := c.Request().Context()
		if err := users.SetOTP(ctx, u.Id, code, time.Now().Add(policy.TTL)); err != nil {
			return apierr.InternalServerError(err)
		}
		if err := mail.SendOTP(ctx, recipient(u), code, policy.TTL); err != nil {
			return apierr.InternalServerErrorWithReason(
				"failed to send the verification email. try again later.", err,
			)
		}

		return c.JSON(http.StatusOK, map[string]any{
			"msg": "verification code is sent again. check your email.",
		})
	}
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func LoginHandler(users udb.UserInterface, auth Auth) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := loginRequest{}
		if err := bind(c, &req); err != nil {
			return err
		}
		if req.Email == "" || req.Password == "" {
			return apierr.BadRequest("email and password are required")
		}

		ctx := c.Request().Context()
		u, err := users.GetByEmail(ctx, strings.TrimSpace(req.Email))
		if errors.Is(err, domerr.ErrMissing) {
			return apierr.Unauthorized("email or password is wrong")
		} else if err != nil {
			return apierr.InternalServerError(err)
		}
		if err := password.Compare(u.Password, req.Password); err != nil {
			return apierr.Unauthorized("email or password is wrong")
		}
		if !u.IsVerified {
			return apierr.Forbidden(
				"email is not verified",
				apierr.WithAdvice("verify your email with the OTP code first."),
			)
		}

		access, err := auth.signIn(c, userSubject(u), func(refresh *string) error {
			return users.SetRefreshToken(ctx, u.Id, refresh)
		})
		if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, map[string]any{
			"msg":         "signed in",
			"accessToken": access,
			"user":        signedInView(u),
		})
	}
}

// RefreshTokenHandler issues a new access token for the refresh token in the cookie.
func RefreshTokenHandler(users udb.UserInterface, auth Auth) echo.HandlerFunc {
	return func(c echo.Context) error {
		tok, claims, err := auth.refreshClaims(c)
		if err != nil {
			return err
		}

		u, err := users.GetByRefreshToken(c.Request().Context(), tok)
		if errors.Is(err, domerr.ErrMissing) {
			return apierr.Forbidden("refresh token is revoked")
		} else if err != nil {
			return apierr.InternalServerError(err)
		}
		if u.Id != claims.UserId {
			return apierr.Forbidden("refresh token is revoked")
		}

		access, err := auth.reissue(c, userSubject(u))
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, map[string]any{"accessToken": access})
	}
}

func LogoutHandler(users udb.UserInterface, auth Auth) echo.HandlerFunc {
	return func(c echo.Context) error {
		tok := session.Cookie(c, auth.cookies().Refresh)
		auth.signOut(c)

		if tok != "" {
			ctx := c.Request().Context()
			u, err := users.GetByRefreshToken(ctx, tok)
			if err == nil {
				err = users.SetRefreshToken(ctx, u.Id, nil)
			}
			if err != nil && !errors.Is(err, domerr.ErrMissing) {
				return apierr.InternalServerErrorWithReason("server error, but cookies are cleared", err)
			}
		}
		return c.JSON(http.StatusOK, map[string]any{"msg": "signed out"})
	}
}

func GetProfileHandler(users udb.UserInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		u, err := currentUser(c, users)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, ViewUser(u))
	}
}

type profileRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Phone    string `json:"phone" form:"phone"`
	Gender   string `json:"gender" form:"gender"`
	Birthday string `json:"birthday" form:"birthday"`
}

// update converts the request into a profile update.
//
// It returns the update and names of updated fields.
func (req profileRequest) update(now time.Time) (domain.ProfileUpdate, []string, error) {
	upd := domain.ProfileUpdate{}
	fields := []string{}

	if name := strings.TrimSpace(req.Name); name != "" {
		if err := domain.ValidateName(name); err != nil {
			return upd, nil, err
		}
		upd.Name = &name
		fields = append(fields, "name")
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		if err := domain.ValidateEmail(email); err != nil {
			return upd, nil, err
		}
		upd.Email = &email
		fields = append(fields, "email")
	}
	if req.Password != "" && req.Password != passwordPlaceholder {
		if err := domain.ValidatePassword(req.Password); err != nil {
			return upd, nil, err
		}
		hash, err := password.Hash(req.Password)
		if err != nil {
			return upd, nil, err
		}
		upd.Password = &hash
		fields = append(fields, "password")
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		if err := domain.ValidatePhone(phone, 8); err != nil {
			return upd, nil, err
		}
		upd.Phone = &phone
		fields = append(fields, "phone")
	}
	if req.Gender != "" {
		g, err := domain.AsGender(req.Gender)
		if err != nil {
			return upd, nil, err
		}
		upd.Gender = &g
		fields = append(fields, "gender")
	}
	if req.Birthday != "" {
		b, err := time.Parse(dateLayout, req.Birthday)
		if err != nil {
			return upd, nil, fmt.Errorf("%w: birthday should be YYYY-MM-DD", domerr.ErrBadInput)
		}
		if err := domain.ValidateBirthday(b, now); err != nil {
			return upd, nil, err
		}
		upd.Birthday = &b
		fields = append(fields, "birthday")
	}
	return upd, fields, nil
}

func UpdateProfileHandler(users udb.UserInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := signedIn(c)
		if err != nil {
			return err
		}
		req := profileRequest{}
		if err := bind(c, &req); err != nil {
			return err
		}

		upd, fields, err := req.update(time.Now())
		if err != nil {
			return badInput(err)
		}
		if upd.IsEmpty() {
			return apierr.BadRequest("at least one field should be given")
		}

		u, err := users.UpdateProfile(c.Request().Context(), claims.UserId, upd)
		if errors.Is(err, domerr.ErrMissing) {
			return apierr.NotFound("user not found")
		} else if errors.Is(err, domerr.ErrConflict) {
			return conflictAsBadRequest(err)
		} else if err != nil {
			return badInput(err)
		}

		return c.JSON(http.StatusOK, map[string]any{
			"msg":           "profile is updated",
			"user":          ViewUser(u),
			"updatedFields": fields,
		})
	}
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" form:"currentPassword"`
	NewPassword     string `json:"newPassword" form:"newPassword"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword"`
}

func ChangePasswordHandler(users udb.UserInterface, auth Auth) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := changePasswordRequest{}
		if err := bind(c, &req); err != nil {
			return err
		}
		if req.CurrentPassword == "" || req.NewPassword == "" || req.ConfirmPassword == "" {
			return apierr.BadRequest("currentPassword, newPassword and confirmPassword are required")
		}
		if req.NewPassword != req.ConfirmPassword {
			return apierr.BadRequest("newPassword and confirmPassword do not match")
		}
		if err := domain.ValidatePassword(req.NewPassword); err != nil {
			return badInput(err)
		}

		u, err := currentUser(c, users)
		if err != nil {
			return err
		}
		if err := password.Compare(u.Password, req.CurrentPassword); err != nil {
			return apierr.BadRequest("current password is wrong")
		}

		hash, err := password.Hash(req.NewPassword)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		if err := users.SetPassword(c.Request().Context(), u.Id, hash); err != nil {
			return apierr.InternalServerError(err)
		}
		auth.signOut(c)

		return c.JSON(http.StatusOK, map[string]any{
			"msg":            "password is changed. sign in again.",
			"requireRelogin": true,
		})
	}
}

func UserPredictionsHandler(predictions pdb.PredictionInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := signedIn(c)
		if err != nil {
			return err
		}
		p, err := paging(c, 10, 100)
		if err != nil {
			return err
		}

		found, total, err := predictions.FindByUser(c.Request().Context(), domain.PredictionQuery{
			UserId:        claims.UserId,
			InCatalogOnly: isTrue(c.QueryParam("in_catalog_only")),
			Limit:         p.Limit,
			Offset:        p.Offset(),
		})
		if err != nil {
			return apierr.InternalServerError(err)
		}

		data := make([]PredictionView, 0, len(found))
		for _, pr := range found {
			data = append(data, ViewPrediction(pr))
		}
		return c.JSON(http.StatusOK, map[string]any{
			"msg":        "predictions",
			"data":       data,
			"pagination": p.Of(total),
		})
	}
}

// ApprovedUsersHandler lists users whose catalog requests are approved.
func ApprovedUsersHandler(admins adb.AdminInterface, users udb.UserInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := currentAdmin(c, admins); err != nil {
			return err
		}
		found, err := users.FindByCatalogStatus(c.Request().Context(), domain.CatalogRequestApproved)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		views := make([]UserView, 0, len(found))
		for _, u := range found {
			views = append(views, ViewUser(u))
		}
		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"users":   views,
			"total":   len(views),
		})
	}
}
