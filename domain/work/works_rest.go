package work

import (
	"errors"
	"ertrack/bizerror"
	"ertrack/domain"
	"ertrack/misc"
	"ertrack/session"
	"net/http"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var PathWorks = "/v1/works"

func RegisterWorksRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathWorks, middleWares...)
	g.GET("", handleQueryWorks)
	g.POST("", handleCreateWork)
	g.GET(":identifier", handleDetailWork)
	g.PUT(":identifier", handleUpdateWork)
	g.DELETE(":identifier", handleDeleteWork)
	g.PUT(":identifier/basic-info", handleUpdateWorkBasicInfo)
	g.PUT(":identifier/status", handleUpdateWorkStatus)
	g.PUT(":identifier/timeline", handleUpdateWorkTimeline)
}

func handleQueryWorks(c *gin.Context) {
	query := domain.WorkQuery{}
	if err := c.ShouldBindWith(&query, binding.Query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	works, err := QueryWorksFunc(&query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &misc.PagedBody{List: works, Total: uint64(len(*works))})
}

func handleCreateWork(c *gin.Context) {
	creation := domain.WorkCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	detail, err := CreateWorkFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, detail)
}

func handleDetailWork(c *gin.Context) {
	detail, err := DetailWorkFunc(c.Param("identifier"), session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, detail)
}

func handleUpdateWork(c *gin.Context) {
	id := parseIdParam(c)
	updating := domain.WorkUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	updatedWork, err := UpdateWorkFunc(id, &updating, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, updatedWork)
}

func handleDeleteWork(c *gin.Context) {
	id := parseIdParam(c)
	if err := DeleteWorkFunc(id, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func handleUpdateWorkBasicInfo(c *gin.Context) {
	id := parseIdParam(c)
	updating := domain.WorkBasicInfoUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := UpdateWorkBasicInfoFunc(id, &updating, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func handleUpdateWorkStatus(c *gin.Context) {
	id := parseIdParam(c)
	updating := domain.WorkStatusUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	updatedWork, err := UpdateWorkStatusFunc(id, &updating, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, updatedWork)
}

func handleUpdateWorkTimeline(c *gin.Context) {
	id := parseIdParam(c)
	updating := domain.WorkTimelineUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	updatedWork, err := UpdateWorkTimelineFunc(id, &updating, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, updatedWork)
}

func parseIdParam(c *gin.Context) types.ID {
	parsedId, err := types.ParseID(c.Param("identifier"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("identifier") + "'")})
	}
	return parsedId
}
