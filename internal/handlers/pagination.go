package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Vermasaiyam/EVENT-REGISTRATION-SYSTEM-sub000/internal/helpers"
)

const (
	minPageSize     = 2
	maxPageSize     = 50
	defaultPageSize = 10
)

func paginationParams(c *gin.Context) (page, limit int, ok bool) {
	pageNum, err := helpers.StringToInt(c.DefaultQuery("page", "1"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid page number.")
		return 0, 0, false
	}

	limitNum, err := helpers.StringToInt(c.DefaultQuery("limit", "10"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid limit.")
		return 0, 0, false
	}

	if pageNum < 1 {
		pageNum = 1
	}
	if limitNum < minPageSize {
		limitNum = minPageSize
	}
	if limitNum > maxPageSize {
		limitNum = maxPageSize
	}

	return pageNum, limitNum, true
}
