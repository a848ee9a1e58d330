package handlers

import (
	"net/http"

	"fitplanner-backend/models"

	"github.com/gin-gonic/gin"
)

// GetOptions handles GET /api/options
func GetOptions(c *gin.Context) {
	respondSuccess(c, http.StatusOK, models.DefaultCatalog())
}
