package api

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"task-planner/internal/model"
	"task-planner/internal/service"
)

type categoryRequest struct {
	Name       string      `json:"name"`
	Color      model.Color `json:"color"`
	Icon       model.Icon  `json:"icon"`
	IsEditable *bool       `json:"isEditable"`
}

func (r categoryRequest) input() service.CategoryInput {
	return service.CategoryInput{Name: r.Name, Color: r.Color, Icon: r.Icon, IsEditable: r.IsEditable}
}

func RegisterCategoryRoutes(group *gin.RouterGroup, categories service.CategoryServiceInterface, logger *log.Logger) {
	group.GET("/categories", func(c *gin.Context) { ListCategories(c, categories, logger) })
	group.POST("/categories", func(c *gin.Context) { CreateCategory(c, categories, logger) })
	group.GET("/categories/:id", func(c *gin.Context) { GetCategory(c, categories, logger) })
	group.PUT("/categories/:id", func(c *gin.Context) { UpdateCategory(c, categories, logger) })
	group.DELETE("/categories/:id", func(c *gin.Context) { DeleteCategory(c, categories, logger) })
}

func ListCategories(c *gin.Context, categories service.CategoryServiceInterface, logger *log.Logger) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	list, err := categories.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func CreateCategory(c *gin.Context, categories service.CategoryServiceInterface, logger *log.Logger) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category, err := categories.Create(c.Request.Context(), userID, req.input())
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func GetCategory(c *gin.Context, categories service.CategoryServiceInterface, logger *log.Logger) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	category, err := categories.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func UpdateCategory(c *gin.Context, categories service.CategoryServiceInterface, logger *log.Logger) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category, err := categories.Update(c.Request.Context(), userID, id, req.input())
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func DeleteCategory(c *gin.Context, categories service.CategoryServiceInterface, logger *log.Logger) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := categories.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
