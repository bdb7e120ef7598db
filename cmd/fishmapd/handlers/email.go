package handlers

import (
	"net/http"
	"strings"

	apierr "github.com/fishmap/fishmap/pkg/api/errors"
	"github.com/fishmap/fishmap/pkg/domain"
	adb "github.com/fishmap/fishmap/pkg/domain/admin/db"
	udb "github.com/fishmap/fishmap/pkg/domain/user/db"
	"github.com/fishmap/fishmap/pkg/mailer"
	"github.com/labstack/echo/v4"
)

func MailConnectionHandler(mail mailer.Mailer) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := mail.Ping(c.Request().Context()); err != nil {
			return apierr.InternalServerErrorWithReason("mail server is not reachable", err)
		}
		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"msg":     "mail server is ready",
		})
	}
}

func mailSent(c echo.Context, to mailer.Recipient, err error) error {
	if err != nil {
		return apierr.InternalServerErrorWithReason("failed to send email", err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"msg":     "email is sent to " + to.Email,
	})
}

// CatalogReviewMailHandler sends the review notification to the signed-in user.
func CatalogReviewMailHandler(users udb.UserInterface, mail mailer.Mailer) echo.HandlerFunc {
	return func(c echo.Context) error {
		u, err := currentUser(c, users)
		if err != nil {
			return err
		}
		to := recipient(u)
		return mailSent(c, to, mail.SendCatalogReview(c.Request().Context(), to))
	}
}

type notificationRequest struct {
	UserId int    `json:"userId" form:"userId"`
	Email  string `json:"email" form:"email"`
	Name   string `json:"name" form:"name"`
	Reason string `json:"reason" form:"reason"`
}

func (req notificationRequest) recipient() (mailer.Recipient, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return mailer.Recipient{}, apierr.BadRequest("email is required")
	}
	if err := domain.ValidateEmail(email); err != nil {
		return mailer.Recipient{}, badInput(err)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = email
	}
	return mailer.Recipient{Name: name, Email: email}, nil
}

func CatalogApprovedMailHandler(admins adb.AdminInterface, mail mailer.Mailer) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := moderator(c, admins); err != nil {
			return err
		}
		req := notificationRequest{}
		if err := bind(c, &req); err != nil {
			return err
		}
		to, err := req.recipient()
		if err != nil {
			return err
		}
		return mailSent(c, to, mail.SendCatalogApproved(c.Request().Context(), to))
	}
}

func CatalogRejectedMailHandler(admins adb.AdminInterface, mail mailer.Mailer) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := moderator(c, admins); err != nil {
			return err
		}
		req := notificationRequest{}
		if err := bind(c, &req); err != nil {
			return err
		}
		to, err := req.recipient()
		if err != nil {
			return err
		}
		if strings.TrimSpace(req.Reason) == "" {
			return apierr.BadRequest("reason is required")
		}
		return mailSent(c, to, mail.SendCatalogRejected(c.Request().Context(), to, req.Reason))
	}
}

// DecideByMailHandler approves or rejects the catalog request of `userId` in the body.
//
// Users are notified by email as the decision is made.
func DecideByMailHandler(admins adb.AdminInterface, users udb.UserInterface, mail mailer.Mailer, approve bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		a, err := moderator(c, admins)
		if err != nil {
			return err
		}
		req := notificationRequest{}
		if err := bind(c, &req); err != nil {
			return err
		}
		if req.UserId <= 0 {
			return apierr.BadRequest("userId is required")
		}
		if !approve && strings.TrimSpace(req.Reason) == "" {
			return apierr.BadRequest("reason is required")
		}
		return decide(c, users, mail, a, req.UserId, approve, req.Reason)
	}
}
