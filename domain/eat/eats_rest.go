package eat

import (
	"errors"
	"ertrack/bizerror"
	"ertrack/domain"
	"ertrack/session"
	"net/http"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	PathEats       = "/v1/eats"
	PathActivities = "/v1/activities"
)

func RegisterEatsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathEats, middleWares...)
	g.GET("", handleDetailEatOfWork)
	g.POST("", handleCreateEat)
	g.PUT(":id", handleUpdateEat)
	g.DELETE(":id", handleDeleteEat)
	g.POST(":id/approval", handleRecordDecision)

	a := r.Group(PathActivities, middleWares...)
	a.POST(":id/progress", handleAddProgress)
}

func handleDetailEatOfWork(c *gin.Context) {
	workId, err := types.ParseID(c.Query("workId"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid workId '" + c.Query("workId") + "'")})
	}
	detail, err := DetailEatOfWorkFunc(workId, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, detail)
}

func handleCreateEat(c *gin.Context) {
	creation := domain.EatCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := CreateEatFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func handleUpdateEat(c *gin.Context) {
	id := parseIdParam(c)
	updating := domain.EatUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := UpdateEatFunc(id, &updating, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleDeleteEat(c *gin.Context) {
	id := parseIdParam(c)
	if err := DeleteEatFunc(id, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func handleRecordDecision(c *gin.Context) {
	id := parseIdParam(c)
	decision := domain.ApprovalDecision{}
	if err := c.ShouldBindBodyWith(&decision, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := RecordDecisionFunc(id, &decision, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleAddProgress(c *gin.Context) {
	id := parseIdParam(c)
	creation := domain.ProgressCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := AddProgressFunc(id, &creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func parseIdParam(c *gin.Context) types.ID {
	parsedId, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}
	return parsedId
}
