package httpserver

import (
	"net/http"

	"food-ordering/internal/domain"
	menusvc "food-ordering/internal/service/menu"
	"github.com/gin-gonic/gin"
)

type createMenuRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	BasePrice   int64  `json:"basePrice" binding:"required"`
}

func createMenuHandler(menus MenuService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createMenuRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
			return
		}

		menu, err := menus.Create(c.Request.Context(), menusvc.CreateMenuInput{
			ShopID:         c.Param("shopID"),
			Name:           req.Name,
			Description:    req.Description,
			BasePriceCents: req.BasePrice,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, toMenuResponse(menu))
	}
}

func getMenuHandler(menus MenuService) gin.HandlerFunc {
	return func(c *gin.Context) {
		menu, err := menus.Get(c.Request.Context(), c.Param("menuID"))
		if err != nil {
			writeError(c, err)
			return
		}
		if menu.ShopID != c.Param("shopID") {
			writeError(c, domain.ErrMenuNotFound)
			return
		}
		c.JSON(http.StatusOK, toMenuResponse(menu))
	}
}

func listMenusHandler(menus MenuService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := menus.ListByShop(c.Request.Context(), c.Param("shopID"))
		if err != nil {
			writeError(c, err)
			return
		}
		out := make([]menuResponse, 0, len(list))
		for _, m := range list {
			out = append(out, toMenuResponse(m))
		}
		c.JSON(http.StatusOK, gin.H{"count": len(out), "results": out})
	}
}

func openMenuHandler(menus MenuService) gin.HandlerFunc {
	return func(c *gin.Context) {
		menu, err := menus.Open(c.Request.Context(), c.Param("menuID"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toMenuResponse(menu))
	}
}

type addOptionGroupRequest struct {
	Name     string `json:"name" binding:"required"`
	Required bool   `json:"required"`
}

func addOptionGroupHandler(menus MenuService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addOptionGroupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
			return
		}

		menu, err := menus.AddOptionGroup(c.Request.Context(), c.Param("menuID"), req.Name, req.Required)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, toMenuResponse(menu))
	}
}

type addOptionRequest struct {
	Name  string `json:"name" binding:"required"`
	Price int64  `json:"price"`
}

func addOptionHandler(menus MenuService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addOptionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
			return
		}

		menu, err := menus.AddOption(c.Request.Context(), c.Param("menuID"), c.Param("groupID"), req.Name, req.Price)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, toMenuResponse(menu))
	}
}

func removeOptionGroupHandler(menus MenuService) gin.HandlerFunc {
	return func(c *gin.Context) {
		menu, err := menus.RemoveOptionGroup(c.Request.Context(), c.Param("menuID"), c.Param("groupID"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toMenuResponse(menu))
	}
}

type changeGroupNameRequest struct {
	Name string `json:"name" binding:"required"`
}

func changeOptionGroupNameHandler(menus MenuService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req changeGroupNameRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
			return
		}

		menu, err := menus.ChangeOptionGroupName(c.Request.Context(), c.Param("menuID"), c.Param("groupID"), req.Name)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toMenuResponse(menu))
	}
}

type changeOptionNameRequest struct {
	CurrentName  string `json:"currentName" binding:"required"`
	CurrentPrice int64  `json:"currentPrice"`
	NewName      string `json:"newName" binding:"required"`
}

func changeOptionNameHandler(menus MenuService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req changeOptionNameRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
			return
		}

		menu, err := menus.ChangeOptionName(c.Request.Context(), c.Param("menuID"), c.Param("groupID"), req.CurrentName, req.CurrentPrice, req.NewName)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toMenuResponse(menu))
	}
}
