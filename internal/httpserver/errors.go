package httpserver

import (
	"errors"
	"net/http"

	"food-ordering/internal/domain"
	"food-ordering/internal/shopapi"
	"github.com/gin-gonic/gin"
)

// writeError maps an error to an HTTP response. Business-rule violations keep
// their stable code in the body; upstream transport failures become 502 so
// callers can tell them apart from rejections.
func writeError(c *gin.Context, err error) {
	var de *domain.Error
	if errors.As(err, &de) {
		c.JSON(statusForCode(de.Code), gin.H{"code": de.Code, "message": de.Message})
		return
	}

	var te *shopapi.TransportError
	if errors.As(err, &te) {
		c.JSON(http.StatusBadGateway, gin.H{"code": "UPSTREAM_UNAVAILABLE", "message": "shop service is unavailable"})
		return
	}

	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"code": "NOT_FOUND", "message": "resource not found"})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"code": "INTERNAL", "message": "internal error"})
}

func statusForCode(code string) int {
	switch code {
	case "CART_NOT_FOUND", "MENU_NOT_FOUND", "OPTION_GROUP_NOT_FOUND", "OPTION_NOT_FOUND":
		return http.StatusNotFound
	case "DUPLICATE_OPTION_GROUP_NAME", "DUPLICATE_OPTION", "MENU_ALREADY_OPEN":
		return http.StatusConflict
	default:
		return http.StatusUnprocessableEntity
	}
}
