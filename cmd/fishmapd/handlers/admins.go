package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	apierr "github.com/fishmap/fishmap/pkg/api/errors"
	"github.com/fishmap/fishmap/pkg/auth/password"
	"github.com/fishmap/fishmap/pkg/auth/session"
	"github.com/fishmap/fishmap/pkg/domain"
	adb "github.com/fishmap/fishmap/pkg/domain/admin/db"
	domerr "github.com/fishmap/fishmap/pkg/domain/errors"
	pdb "github.com/fishmap/fishmap/pkg/domain/prediction/db"
	udb "github.com/fishmap/fishmap/pkg/domain/user/db"
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
)

type createAdminRequest struct {
	Name     string `json:"name" form:"name"`
	Phone    string `json:"phone" form:"phone"`
	Email    string `json:"email" form:"email"`
	Gender   string `json:"gender" form:"gender"`
	Password string `json:"password" form:"password"`
	Role     string `json:"role" form:"role"`
}

// param validates the request and converts it into AdminParam.
//
// The password in the param is hashed.
func (req createAdminRequest) param(createdBy *int) (domain.AdminParam, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Name == "" || req.Phone == "" || req.Email == "" || req.Gender == "" || req.Password == "" {
		return domain.AdminParam{}, apierr.BadRequest("name, phone, email, gender and password are required")
	}
	if req.Role == "" {
		req.Role = string(domain.AdminRoleCatalogModerator)
	}

	role, err := domain.AsAdminRole(req.Role)
	if err != nil {
		return domain.AdminParam{}, badInput(err)
	}
	gender, err := domain.AsGender(req.Gender)
	if err != nil {
		return domain.AdminParam{}, badInput(err)
	}
	for _, err := range []error{
		domain.ValidateName(req.Name),
		domain.ValidateEmail(req.Email),
		domain.ValidatePhone(req.Phone, 10),
		domain.ValidatePassword(req.Password),
	} {
		if err != nil {
			return domain.AdminParam{}, badInput(err)
		}
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return domain.AdminParam{}, apierr.InternalServerError(err)
	}
	return domain.AdminParam{
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		Gender:    gender,
		Password:  hash,
		Role:      role,
		CreatedBy: createdBy,
	}, nil
}

// manager loads the signed-in admin and checks they are a super admin.
//
// The role claim of the token is not enough: the admin may have been suspended since it was issued.
func manager(c echo.Context, admins adb.AdminInterface) (domain.Admin, error) {
	a, err := currentAdmin(c, admins)
	if err != nil {
		return a, err
	}
	if !a.IsSuperAdmin() {
		return a, apierr.Forbidden("only super admins can manage admins")
	}
	return a, nil
}

// CreateAdminHandler creates an admin. It should be guarded by session.RequireSuperAdmin.
func CreateAdminHandler(admins adb.AdminInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		me, err := manager(c, admins)
		if err != nil {
			return err
		}
		req := createAdminRequest{}
		if err := bind(c, &req); err != nil {
			return err
		}
		param, err := req.param(&me.Id)
		if err != nil {
			return err
		}

		a, err := admins.Create(c.Request().Context(), param)
		if errors.Is(err, domerr.ErrConflict) {
			return conflictAsBadRequest(err)
		} else if err != nil {
			return badInput(err)
		}

		return c.JSON(http.StatusCreated, map[string]any{
			"msg":   "admin is created",
			"admin": ViewAdmin(a),
		})
	}
}

func AdminLoginHandler(admins adb.AdminInterface, auth Auth) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := loginRequest{}
		if err := bind(c, &req); err != nil {
			return err
		}
		if req.Email == "" || req.Password == "" {
			return apierr.BadRequest("email and password are required")
		}

		ctx := c.Request().Context()
		a, err := admins.GetByEmail(ctx, strings.TrimSpace(req.Email))
		if errors.Is(err, domerr.ErrMissing) {
			return apierr.Unauthorized("email or password is wrong")
		} else if err != nil {
			return apierr.InternalServerError(err)
		}
		if err := password.Compare(a.Password, req.Password); err != nil {
			return apierr.Unauthorized("email or password is wrong")
		}
		if !a.IsActive() {
			return apierr.Forbidden(
				"admin account is "+string(a.Status),
				apierr.WithAdvice("ask a super admin to activate the account."),
			)
		}

		access, err := auth.signIn(c, adminSubject(a), func(refresh *string) error {
			return admins.SetRefreshToken(ctx, a.Id, refresh)
		})
		if err != nil {
			return apierr.InternalServerError(err)
		}

		now := time.Now()
		a.LastLogin = &now
		return c.JSON(http.StatusOK, map[string]any{
			"msg":         "signed in",
			"accessToken": access,
			"admin":       ViewAdmin(a),
		})
	}
}

func AdminRefreshTokenHandler(admins adb.AdminInterface, auth Auth) echo.HandlerFunc {
	return func(c echo.Context) error {
		tok, claims, err := auth.refreshClaims(c)
		if err != nil {
			return err
		}

		a, err := admins.GetByRefreshToken(c.Request().Context(), tok)
		if errors.Is(err, domerr.ErrMissing) {
			return apierr.Forbidden("refresh token is revoked")
		} else if err != nil {
			return apierr.InternalServerError(err)
		}
		if a.Id != claims.UserId {
			return apierr.Forbidden("refresh token is revoked")
		}
		if !a.IsActive() {
			return apierr.Forbidden("admin account is " + string(a.Status))
		}

		access, err := auth.reissue(c, adminSubject(a))
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, map[string]any{"accessToken": access})
	}
}

func AdminLogoutHandler(admins adb.AdminInterface, auth Auth) echo.HandlerFunc {
	return func(c echo.Context) error {
		tok := session.Cookie(c, auth.cookies().Refresh)
		if tok == "" {
			return c.NoContent(http.StatusNoContent)
		}

		ctx := c.Request().Context()
		a, err := admins.GetByRefreshToken(ctx, tok)
		if errors.Is(err, domerr.ErrMissing) {
			auth.signOut(c)
			return c.NoContent(http.StatusNoContent)
		} else if err != nil {
			return apierr.InternalServerError(err)
		}
		if err := admins.SetRefreshToken(ctx, a.Id, nil); err != nil {
			return apierr.InternalServerError(err)
		}
		auth.signOut(c)
		return c.JSON(http.StatusOK, map[string]any{"msg": "signed out"})
	}
}

func AdminProfileHandler(admins adb.AdminInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		a, err := currentAdmin(c, admins)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, ViewAdmin(a))
	}
}

type capabilities struct {
	CanApproveCatalogRequests bool   `json:"can_approve_catalog_requests"`
	CanManageUsers            bool   `json:"can_manage_users"`
	CanManageAdmins           bool   `json:"can_manage_admins"`
	CanViewAnalytics          bool   `json:"can_view_analytics"`
	CanModerateContent        bool   `json:"can_moderate_content"`
	Role                      string `json:"role"`
	Status                    string `json:"status"`
}

func AdminPermissionsHandler(admins adb.AdminInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		a, err := currentAdmin(c, admins)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, map[string]any{
			"msg": "admin permissions",
			"data": capabilities{
				CanApproveCatalogRequests: a.CanApproveCatalogRequests(),
				CanManageUsers:            a.CanManageUsers(),
				CanManageAdmins:           a.CanManageAdmins(),
				CanViewAnalytics:          a.CanViewAnalytics(),
				CanModerateContent:        a.CanModerateContent(),
				Role:                      string(a.Role),
				Status:                    string(a.Status),
			},
		})
	}
}

type userStats struct {
	Total           int `json:"total"`
	Regular         int `json:"regular"`
	Contributors    int `json:"contributors"`
	PendingRequests int `json:"pending_requests"`
}

type predictionStats struct {
	Total     int `json:"total"`
	InCatalog int `json:"in_catalog"`
}

func DashboardStatsHandler(
	admins adb.AdminInterface,
	users udb.UserInterface,
	predictions pdb.PredictionInterface,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		a, err := currentAdmin(c, admins)
		if err != nil {
			return err
		}

		us := userStats{}
		ps := predictionStats{}

		eg, ctx := errgroup.WithContext(c.Request().Context())
		countUsers := func(dest *int, filter domain.UserCountFilter) {
			eg.Go(func() error {
				n, err := users.Count(ctx, filter)
				*dest = n
				return err
			})
		}
		countPredictions := func(dest *int, inCatalogOnly bool) {
			eg.Go(func() error {
				n, err := predictions.Count(ctx, inCatalogOnly)
				*dest = n
				return err
			})
		}
		countUsers(&us.Total, domain.UserCountFilter{})
		countUsers(&us.Regular, domain.UserCountFilter{Role: domain.RoleUser})
		countUsers(&us.Contributors, domain.UserCountFilter{Role: domain.RoleContributor})
		countUsers(&us.PendingRequests, domain.UserCountFilter{CatalogStatus: domain.CatalogRequestPending})
		countPredictions(&ps.Total, false)
		countPredictions(&ps.InCatalog, true)
		if err := eg.Wait(); err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, map[string]any{
			"msg": "dashboard stats",
			"data": map[string]any{
				"users":       us,
				"predictions": ps,
				"admin_info": map[string]any{
					"name":        a.Name,
					"role":        a.Role,
					"permissions": ViewAdmin(a).Permissions,
				},
			},
		})
	}
}

// ListAdminsHandler lists all admins. It should be guarded by session.RequireSuperAdmin.
func ListAdminsHandler(admins adb.AdminInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := manager(c, admins); err != nil {
			return err
		}
		found, err := admins.List(c.Request().Context())
		if err != nil {
			return apierr.InternalServerError(err)
		}
		views := make([]AdminView, 0, len(found))
		for _, a := range found {
			views = append(views, ViewAdmin(a))
		}
		return c.JSON(http.StatusOK, map[string]any{
			"msg":   "admins",
			"data":  views,
			"total": len(views),
		})
	}
}

type adminStatusRequest struct {
	Status string `json:"status" form:"status"`
}

// UpdateAdminStatusHandler changes status of an admin. It should be guarded by session.RequireSuperAdmin.
func UpdateAdminStatusHandler(admins adb.AdminInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		me, err := manager(c, admins)
		if err != nil {
			return err
		}
		id, err := pathId(c, "adminId")
		if err != nil {
			return err
		}
		req := adminStatusRequest{}
		if err := bind(c, &req); err != nil {
			return err
		}
		status, err := domain.AsAdminStatus(req.Status)
		if err != nil {
			return badInput(err)
		}
		if id == me.Id {
			return apierr.BadRequest("admins can not change their own status")
		}

		a, err := admins.SetStatus(c.Request().Context(), id, status, me.Id)
		if errors.Is(err, domerr.ErrMissing) {
			return apierr.NotFound("admin not found")
		} else if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, map[string]any{
			"msg":   "status of " + a.Name + " is changed to " + string(status),
			"admin": ViewAdmin(a),
		})
	}
}

type adminPasswordRequest struct {
	CurrentPassword string `json:"currentPassword" form:"currentPassword"`
	NewPassword     string `json:"newPassword" form:"newPassword"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword"`
}

// UpdateAdminPasswordHandler changes password of an admin.
//
// Admins can change their own password with the current one. Super admins can change anyone's.
func UpdateAdminPasswordHandler(admins adb.AdminInterface, auth Auth) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathId(c, "adminId")
		if err != nil {
			return err
		}
		req := adminPasswordRequest{}
		if err := bind(c, &req); err != nil {
			return err
		}
		if req.NewPassword == "" || req.ConfirmPassword == "" {
			return apierr.BadRequest("newPassword and confirmPassword are required")
		}
		if req.NewPassword != req.ConfirmPassword {
			return apierr.BadRequest("newPassword and confirmPassword do not match")
		}
		if err := domain.ValidatePassword(req.NewPassword); err != nil {
			return badInput(err)
		}

		me, err := currentAdmin(c, admins)
		if err != nil {
			return err
		}
		self := me.Id == id
		if !self && !me.IsSuperAdmin() {
			return apierr.Forbidden("admins can change only their own password unless super admin")
		}

		ctx := c.Request().Context()
		target := me
		if !self {
			target, err = admins.Get(ctx, id)
			if errors.Is(err, domerr.ErrMissing) {
				return apierr.NotFound("admin not found")
			} else if err != nil {
				return apierr.InternalServerError(err)
			}
		} else {
			if req.CurrentPassword == "" {
				return apierr.BadRequest("currentPassword is required")
			}
			if err := password.Compare(me.Password, req.CurrentPassword); err != nil {
				return apierr.BadRequest("current password is wrong")
			}
		}

		hash, err := password.Hash(req.NewPassword)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		if err := admins.SetPassword(ctx, target.Id, hash, me.Id); err != nil {
			return apierr.InternalServerError(err)
		}
		if self {
			auth.signOut(c)
		}

		return c.JSON(http.StatusOK, map[string]any{
			"msg":            "password is changed",
			"requireRelogin": self,
		})
	}
}
