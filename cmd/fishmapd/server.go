package main

import (
	"fmt"

	"github.com/fishmap/fishmap/cmd/fishmapd/handlers"
	"github.com/fishmap/fishmap/pkg/auth/session"
	"github.com/fishmap/fishmap/pkg/auth/token"
	"github.com/fishmap/fishmap/pkg/classifier"
	"github.com/fishmap/fishmap/pkg/configs/server"
	fdb "github.com/fishmap/fishmap/pkg/domain/fishmap/db"
	"github.com/fishmap/fishmap/pkg/mailer"
	"github.com/fishmap/fishmap/pkg/uploads"
	"github.com/fishmap/fishmap/pkg/utils/echoutil"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Deps are collaborators of the server.
type Deps struct {
	Conf  *server.ServerConfig
	DB    fdb.Database
	Model classifier.Classifier
	Mail  mailer.Mailer
	Store *uploads.Store

	UserTokens  token.Issuer
	AdminTokens token.Issuer
}

// Setup installs middlewares and all routes of fishmapd onto e.
func Setup(e *echo.Echo, loglevel string, d Deps) {
	e.Pre(middleware.RemoveTrailingSlash())

	// set log
	echoutil.SetLevel(e, loglevel)
	e.HTTPErrorHandler = func(err error, ctx echo.Context) {
		e.DefaultHTTPErrorHandler(err, ctx)
		e.Logger.Error(err)
	}
	e.Use(echoutil.LogHandlerFunc)
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     d.Conf.CorsOrigins(),
		AllowCredentials: true,
	}))
	// room for multipart headers around the largest image
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dB", d.Store.MaxBytes()+1<<20)))

	e.Static("/uploads", d.Store.Dir())

	jar := session.Jar{Secure: d.Conf.SecureCookies()}
	userAuth := handlers.Auth{Issuer: d.UserTokens, Jar: jar}
	adminAuth := handlers.Auth{Issuer: d.AdminTokens, Jar: jar}
	otp := handlers.OTPPolicy{Digits: d.Conf.OTP().Digits(), TTL: d.Conf.OTP().TTL()}

	limited := echoutil.RateLimit(d.Conf.RateLimit().AuthPerSecond())
	user := session.RequireUser(d.UserTokens)
	anyone := session.OptionalUser(d.UserTokens)
	admin := session.RequireAdmin(d.AdminTokens)
	super := session.RequireSuperAdmin

	users := d.DB.Users()
	admins := d.DB.Admins()
	predictions := d.DB.Predictions()
	catalog := d.DB.Catalog()
	gallery := d.DB.Gallery()

	{
		e.POST("/users", handlers.RegisterHandler(users, d.Mail, otp), limited)
		e.POST("/verify-otp", handlers.VerifyOTPHandler(users, d.Mail, userAuth), limited)
		e.POST("/resend-otp", handlers.ResendOTPHandler(users, d.Mail, otp), limited)
		e.POST("/login", handlers.LoginHandler(users, userAuth), limited)
		e.POST("/token", handlers.RefreshTokenHandler(users, userAuth))
		e.DELETE("/logout", handlers.LogoutHandler(users, userAuth))

		e.GET("/users", handlers.GetProfileHandler(users), user)
		e.PUT("/users/update", handlers.UpdateProfileHandler(users), user)
		e.PUT("/users/password", handlers.ChangePasswordHandler(users, userAuth), user)
		e.GET("/users/predictions", handlers.UserPredictionsHandler(predictions), user)
	}

	{
		e.POST("/admin/login", handlers.AdminLoginHandler(admins, adminAuth), limited)
		e.GET("/admin/token", handlers.AdminRefreshTokenHandler(admins, adminAuth))
		e.DELETE("/admin/logout", handlers.AdminLogoutHandler(admins, adminAuth))

		e.POST("/admin/create", handlers.CreateAdminHandler(admins), admin, super)
		e.GET("/admin/profile", handlers.AdminProfileHandler(admins), admin)
		e.GET("/admin/permissions", handlers.AdminPermissionsHandler(admins), admin)
		e.GET("/admin/dashboard-stats", handlers.DashboardStatsHandler(admins, users, predictions), admin)
		e.GET("/admin/all", handlers.ListAdminsHandler(admins), admin, super)
		e.PUT("/admin/:adminId/status", handlers.UpdateAdminStatusHandler(admins), admin, super)
		e.PUT("/admin/:adminId/password", handlers.UpdateAdminPasswordHandler(admins, adminAuth), admin)
		e.GET("/api/admin/approved-users", handlers.ApprovedUsersHandler(admins, users), admin)
	}

	{
		e.POST("/predict", handlers.PredictHandler(d.Model))
		e.POST(
			"/predict-image",
			handlers.PredictImageHandler(d.Model, d.Store, d.Conf.Classifier().ConfThreshold()),
		)
	}

	{
		e.POST("/api/save-scan", handlers.SaveScanHandler(predictions, d.Store), user)
		e.POST("/api/save-to-dataikan", handlers.SaveScanHandler(predictions, d.Store), user)
		e.GET("/api/get-scans", handlers.GetScansHandler(predictions), anyone)
		e.GET("/api/data-ikan", handlers.DataIkanHandler(predictions), anyone)
	}

	{
		status := handlers.CatalogStatusHandler(users)
		e.POST("/api/catalog/request-access", handlers.RequestCatalogAccessHandler(users, d.Mail), user)
		e.GET("/api/catalog/my-status", status, user)
		e.GET("/api/catalog/approval-status", status, user)
		e.GET("/api/catalog/status", handlers.GetCatalogFlagsHandler(), user)
		e.POST("/api/catalog/status", handlers.SetCatalogFlagsHandler(jar), user)
		e.DELETE("/api/catalog/status", handlers.ClearCatalogFlagsHandler(jar), user)
		e.POST("/api/catalog/upload-ktp", handlers.UploadKTPHandler(users, d.Store, d.Conf.BaseURL()), user)
		e.POST("/api/catalog/save-prediction", handlers.SavePredictionHandler(users, catalog), user)
		e.POST("/api/save-to-catalog", handlers.SaveToCatalogHandler(users, catalog, d.Store), user)
		e.GET("/api/catalog/entries", handlers.CatalogEntriesHandler(catalog, predictions), anyone)
		e.GET("/api/get-catalog", handlers.GetCatalogHandler(catalog), anyone)

		e.GET("/api/catalog/admin/pending-requests", handlers.PendingRequestsHandler(admins, users), admin)
		e.POST("/api/catalog/admin/approve/:userId", handlers.ApproveRequestHandler(admins, users, d.Mail), admin)
		e.POST("/api/catalog/admin/reject/:userId", handlers.RejectRequestHandler(admins, users, d.Mail), admin)
		e.GET(
			"/api/catalog/admin/statistics",
			handlers.CatalogStatisticsHandler(admins, users, predictions, catalog),
			admin,
		)
	}

	{
		e.GET("/api/email/test-connection", handlers.MailConnectionHandler(d.Mail))
		e.POST("/api/email/catalog-review", handlers.CatalogReviewMailHandler(users, d.Mail), user)
		e.POST("/api/email/catalog-approved", handlers.CatalogApprovedMailHandler(admins, d.Mail), admin)
		e.POST("/api/email/catalog-rejected", handlers.CatalogRejectedMailHandler(admins, d.Mail), admin)
		e.POST("/api/email/admin/approve-user", handlers.DecideByMailHandler(admins, users, d.Mail, true), admin)
		e.POST("/api/email/admin/reject-user", handlers.DecideByMailHandler(admins, users, d.Mail, false), admin)
	}

	{
		e.GET("/api/galery", handlers.ListGalleryHandler(gallery))
		e.GET("/api/galery/:id", handlers.GetGalleryHandler(gallery))
		e.POST("/api/galery", handlers.CreateGalleryHandler(admins, gallery), admin)
		e.PUT("/api/galery/:id", handlers.UpdateGalleryHandler(admins, gallery), admin)
		e.DELETE("/api/galery/:id", handlers.DeleteGalleryHandler(admins, gallery), admin)
	}
}
