package catalog

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

var (
	PathDisciplines = "/v1/disciplines"
	PathPlants      = "/v1/plants"
	PathNotes       = "/v1/notes"
)

func RegisterCatalogsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	d := r.Group(PathDisciplines, middleWares...)
	d.GET("", handleQueryDisciplines)
	d.POST("", handleCreateDiscipline)
	d.DELETE(":id", handleDeleteDiscipline)

	p := r.Group(PathPlants, middleWares...)
	p.GET("", handleQueryPlants)
	p.POST("", handleCreatePlant)
	p.DELETE(":id", handleDeletePlant)

	n := r.Group(PathNotes, middleWares...)
	n.GET("", handleQueryNotes)
	n.POST("", handleCreateNote)
	n.DELETE(":id", handleDeleteNote)
}

func handleQueryDisciplines(c *gin.Context) {
	records, err := QueryDisciplinesFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &misc.PagedBody{List: records, Total: uint64(len(*records))})
}

func handleCreateDiscipline(c *gin.Context) {
	creation := domain.Discipline{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := CreateDisciplineFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func handleDeleteDiscipline(c *gin.Context) {
	if err := DeleteDisciplineFunc(parseIdParam(c), session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func handleQueryPlants(c *gin.Context) {
	records, err := QueryPlantsFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &misc.PagedBody{List: records, Total: uint64(len(*records))})
}

func handleCreatePlant(c *gin.Context) {
	creation := domain.Plant{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := CreatePlantFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func handleDeletePlant(c *gin.Context) {
	if err := DeletePlantFunc(parseIdParam(c), session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func handleQueryNotes(c *gin.Context) {
	records, err := QueryNotesFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &misc.PagedBody{List: records, Total: uint64(len(*records))})
}

func handleCreateNote(c *gin.Context) {
	creation := domain.Note{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := CreateNoteFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func handleDeleteNote(c *gin.Context) {
	if err := DeleteNoteFunc(parseIdParam(c), session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func parseIdParam(c *gin.Context) types.ID {
	parsedId, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}
	return parsedId
}
