package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/trezcool/somo/apps/api/echo"
	"github.com/trezcool/somo/core"
	"github.com/trezcool/somo/core/admin"
	"github.com/trezcool/somo/core/delivery"
	"github.com/trezcool/somo/core/material"
	"github.com/trezcool/somo/core/student"
	emailsvc "github.com/trezcool/somo/services/email"
	logsvc "github.com/trezcool/somo/services/logger"
	whatsappsvc "github.com/trezcool/somo/services/whatsapp"
	"github.com/trezcool/somo/storage"
	mongodb "github.com/trezcool/somo/storage/mongo"
	"github.com/trezcool/somo/storage/objectstore"
	"github.com/trezcool/somo/storage/seed"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up the document store; the seed fixture keeps reads alive if it is
	// down at boot
	var (
		studentReader  student.Reader
		materialReader material.Reader
		studentRepo    student.Repository
		materialRepo   material.Repository
		auditRepo      delivery.Appender
		adminRepo      admin.Repository
	)

	db, closeDB, err := mongodb.Open(context.Background(), conf)
	if err != nil {
		logger.Warn(fmt.Sprintf("document store unavailable, public reads served from seed data: %v", err), err)
		studentReader = seed.NewStudentRepository()
		materialReader = seed.NewMaterialRepository()
		auditRepo = noopAudit{}
	} else {
		defer func() {
			if err = closeDB(); err != nil {
				logger.Error("failed to close document store", err)
			}
		}()
		studentRepo = mongodb.NewStudentRepository(db)
		materialRepo = mongodb.NewMaterialRepository(db)
		auditRepo = mongodb.NewDeliveryRepository(db)
		adminRepo = mongodb.NewAdminRepository(db)
		studentReader = storage.NewFallbackStudents(studentRepo, seed.NewStudentRepository(), logger)
		materialReader = storage.NewFallbackMaterials(materialRepo, seed.NewMaterialRepository(), logger)
	}

	// set up the link issuer
	var (
		issuer      core.LinkIssuer
		localIssuer *objectstore.LocalIssuer
	)
	if conf.ObjectStoreConfigured() {
		issuer, err = objectstore.NewMinioIssuer(conf)
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up object store: %v", err), err)
		}
	} else {
		localIssuer = objectstore.NewLocalIssuer(conf)
		issuer = localIssuer
	}

	// set up provider adapters; the dispatcher picks one per request based on
	// configured credentials
	adapters := delivery.Adapters{
		SMTP:          emailsvc.NewSMTPSender(conf),
		Sendgrid:      emailsvc.NewSendgridSender(conf),
		Resend:        emailsvc.NewResendSender(conf),
		EmailFallback: emailsvc.NewConsoleSender(conf, logger),
		GreenAPI:      whatsappsvc.NewGreenAPISender(conf),
		Wati:          whatsappsvc.NewWatiSender(conf),
		Twilio:        whatsappsvc.NewTwilioSender(conf),
		ChatFallback:  whatsappsvc.NewConsoleSender(conf, logger),
	}
	dispatcher := delivery.NewDispatcher(conf, adapters, logger)

	// set up services
	studentSvc := student.NewService(studentReader, materialReader)
	deliverySvc := delivery.NewService(studentReader, materialReader, issuer, dispatcher, auditRepo, conf, logger)

	var adminSvc *admin.Service
	if adminRepo != nil {
		adminSvc = admin.NewService(adminRepo, studentRepo, materialRepo)
	}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("%s initializing : env %q", conf.AppName, conf.Env))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:        conf,
		Logger:      logger,
		StudentSvc:  studentSvc,
		DeliverySvc: deliverySvc,
		AdminSvc:    adminSvc,
		LocalIssuer: localIssuer,
		Validate:    validate,
		Translator:  translator,
	})

	go server.Start()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

// noopAudit swallows audit writes when no store is available; the delivery
// path only ever logs append failures.
type noopAudit struct{}

func (noopAudit) Append(context.Context, delivery.AuditEntry) error { return nil }

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
