package handler

import (
	"walletx/internal/adapter/http/dto"
	"walletx/internal/core/domain"
	"walletx/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// pathID parses the :id path parameter. A malformed id cannot name an
// existing record, so it is reported with notFound.
func pathID(c *gin.Context, notFound func() *apperror.AppError) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, notFound()
	}
	return id, nil
}

func listQuery(c *gin.Context) (domain.Query, error) {
	q, err := dto.ParseQuery(c.Request.URL.Query())
	if err != nil {
		return domain.Query{}, apperror.Validation(err.Error())
	}
	return q.Normalize(), nil
}
