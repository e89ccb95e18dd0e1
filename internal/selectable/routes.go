package selectable

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the select endpoints behind the given middlewares.
func RegisterRoutes(r *gin.Engine, reg *Registry, guards ...gin.HandlerFunc) {
	selectController := &SelectController{Registry: reg}

	selectGroup := r.Group("/select", guards...)
	{
		selectGroup.GET("", selectController.ListMethods)
		selectGroup.GET("/:name", selectController.Select)
		selectGroup.GET("/:name/xlsx", selectController.SelectXLSX)
	}
}
