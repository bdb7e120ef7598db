package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fishmap/fishmap/pkg/auth/token"
	"github.com/fishmap/fishmap/pkg/classifier"
	"github.com/fishmap/fishmap/pkg/configs/server"
	"github.com/fishmap/fishmap/pkg/domain/fishmap/db/postgres"
	"github.com/fishmap/fishmap/pkg/mailer"
	"github.com/fishmap/fishmap/pkg/uploads"
	"github.com/fishmap/fishmap/pkg/utils/filewatch"
	"github.com/labstack/echo/v4"
)

func main() {
	configPath := flag.String("config", os.Getenv("FISHMAP_CONFIG"), "server config path. default: $FISHMAP_CONFIG")
	loglevel := flag.String("loglevel", "info", "log level. debug|info|warn|error|off")
	pcert := flag.String("cert", "", "certification file for TLS")
	pkey := flag.String("certkey", "", "key of certification file for TLS")
	flag.Parse()

	if *configPath == "" {
		log.Fatalln("config path is not given. use -config or $FISHMAP_CONFIG")
	}
	conf, err := server.Load(*configPath)
	if err != nil {
		log.Fatalf("can not read configration: %s", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	options := []postgres.Option{}
	if repo := conf.SchemaRepository(); repo != "" {
		options = append(options, postgres.WithSchemaRepository(repo))
	}
	db, err := postgres.New(ctx, conf.Database(), options...)
	if err != nil {
		log.Fatalf("can not connect database: %s", err)
	}
	defer db.Close()

	if conf.SchemaRepository() != "" {
		if err := db.Schema().Upgrade(ctx); err != nil {
			log.Fatalf("can not upgrade schema: %s", err)
		}
		v, err := db.Schema().Version(ctx)
		if err != nil {
			log.Fatalf("can not read schema version: %s", err)
		}
		log.Printf("schema version: %d", v)
	}

	userTokens, adminTokens, err := issuers(conf.Tokens())
	if err != nil {
		log.Fatalf("can not set up tokens: %s", err)
	}

	up := conf.Uploads()
	store, err := uploads.New(up.Dir(), up.ArchiveDir(), up.MaxBytes())
	if err != nil {
		log.Fatalf("can not prepare upload directory: %s", err)
	}

	e := echo.New()
	Setup(e, *loglevel, Deps{
		Conf:        conf,
		DB:          db,
		Model:       newClassifier(conf.Classifier(), e.Logger),
		Mail:        newMailer(conf.Mail(), e.Logger),
		Store:       store,
		UserTokens:  userTokens,
		AdminTokens: adminTokens,
	})

	log.Println("registred routes:")
	for _, r := range e.Routes() {
		log.Println(r.Method, r.Path)
	}

	shutdown := func(cause string) {
		log.Printf("%s. shutting down.", cause)
		graceful, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.Shutdown(graceful); err != nil {
			log.Printf("error on shutdown: %s", err)
		}
	}

	context.AfterFunc(ctx, func() { shutdown("signal received") })

	// the process quits when the config or the schema changes, and gets restarted by its supervisor.
	watched, stopWatch, err := filewatch.UntilModified(ctx, *configPath)
	if err != nil {
		log.Fatalf("can not watch configration: %s", err)
	}
	defer stopWatch()
	context.AfterFunc(watched, func() {
		if cause := context.Cause(watched); errors.Is(cause, filewatch.ErrModified) {
			shutdown(cause.Error() + ". quit to restart server")
		}
	})

	if conf.SchemaRepository() != "" {
		schemaCtx, stopSchema := db.Schema().Context(ctx)
		defer stopSchema()
		context.AfterFunc(schemaCtx, func() {
			if ctx.Err() == nil {
				shutdown("schema is changed: " + context.Cause(schemaCtx).Error())
			}
		})
	}

	addr := ":" + strconv.Itoa(conf.Port())
	cert, key := *pcert, *pkey
	if cert != "" && key != "" {
		err = e.StartTLS(addr, cert, key)
	} else {
		err = e.Start(addr)
	}
	if !errors.Is(err, http.ErrServerClosed) {
		e.Logger.Fatal(err)
	}
}

func issuers(conf *server.TokensConfig) (user token.Issuer, admin token.Issuer, err error) {
	keys := func(c *server.TokenConfig) token.Keys {
		return token.Keys{
			AccessSecret:  []byte(c.AccessSecret()),
			RefreshSecret: []byte(c.RefreshSecret()),
			AccessTTL:     c.AccessTTL(),
			RefreshTTL:    c.RefreshTTL(),
		}
	}
	if user, err = token.New(token.ScopeUser, keys(conf.User())); err != nil {
		return nil, nil, err
	}
	if admin, err = token.New(token.ScopeAdmin, keys(conf.Admin())); err != nil {
		return nil, nil, err
	}
	if conf.User().AccessSecret() == conf.Admin().AccessSecret() {
		return nil, nil, errors.New("user and admin tokens should not share secrets")
	}
	return user, admin, nil
}

func newClassifier(conf *server.ClassifierConfig, logger echo.Logger) classifier.Classifier {
	return classifier.New(classifier.Config{
		Python:        conf.Python(),
		Script:        conf.Script(),
		Timeout:       conf.Timeout(),
		MaxConcurrent: conf.MaxConcurrent(),
	}, logger)
}

func newMailer(conf *server.MailConfig, logger echo.Logger) mailer.Mailer {
	if !conf.Enabled() {
		logger.Warn("mail is not configured. mails are not sent.")
		return mailer.Noop(logger)
	}
	return mailer.NewSMTP(mailer.SMTPConfig{
		Host:     conf.Host(),
		Port:     conf.Port(),
		Username: conf.Username(),
		Password: conf.Password(),
		From:     conf.From(),
		Attempts: conf.Attempts(),
	}, logger)
}
