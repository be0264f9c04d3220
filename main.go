package main

import (
	"ertrack/account"
	"ertrack/bizerror"
	"ertrack/common"
	"ertrack/domain"
	"ertrack/domain/catalog"
	"ertrack/domain/eat"
	"ertrack/domain/work"
	"ertrack/event"
	"ertrack/infra/tracing"
	"ertrack/persistence"
	"ertrack/session"
	"net/http"

	"github.com/gin-gonic/gin"
)

func main() {
	common.Log.Infoln("service start")

	tracingCloser, err := tracing.Bootstrap(common.GetServiceName())
	if err != nil {
		common.Log.Fatalf("failed to bootstrap tracing %v\n", err)
	}
	defer tracingCloser.Close()

	dbConfig, err := persistence.ParseDatabaseConfigFromEnv()
	if err != nil {
		common.Log.Fatalf("parse database config failed %v\n", err)
	}

	// create database (no conflict)
	if dbConfig.DriverType == "mysql" {
		if err := persistence.PrepareMysqlDatabase(dbConfig.DriverArgs); err != nil {
			common.Log.Fatalf("failed to prepare database %v\n", err)
		}
	}

	ds := &persistence.DataSourceManager{DatabaseConfig: dbConfig}
	if err := ds.Start(); err != nil {
		common.Log.Fatalf("database conneciton failed %v\n", err)
	}
	defer ds.Stop()
	persistence.ActiveDataSourceManager = ds

	// database migration (race condition)
	err = ds.GormDB(nil).AutoMigrate(
		&account.User{}, &account.Role{}, &account.Permission{},
		&account.RolePermissionBinding{}, &account.UserRoleBinding{},
		&domain.Work{}, &domain.Eat{}, &domain.Activity{}, &domain.ActivityPic{},
		&domain.ActivityProgress{}, &domain.EatApproval{},
		&domain.Discipline{}, &domain.Plant{}, &domain.Note{},
		&event.EventRecord{},
	).Error
	if err != nil {
		common.Log.Fatalf("database migration failed %v\n", err)
	}

	if err := account.DefaultSecurityConfiguration(); err != nil {
		common.Log.Fatalf("failed to prepare default security configuration %v\n", err)
	}

	engine := gin.Default()
	engine.Use(tracing.TracingIngress(), bizerror.ErrorHandling())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, common.GetServiceName())
	})

	account.RegisterSessionsHandler(engine)

	secured := session.SimpleAuthFilter()
	account.RegisterSessionHandler(engine, secured)
	account.RegisterUsersRestAPI(engine, secured)
	work.RegisterWorksRestAPI(engine, secured)
	eat.RegisterEatsRestAPI(engine, secured)
	catalog.RegisterCatalogsRestAPI(engine, secured)

	if err := engine.Run(":80"); err != nil {
		panic(err)
	}
}
