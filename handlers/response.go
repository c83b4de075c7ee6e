package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"foodrunner-api/apperror"
	"foodrunner-api/logger"
	"foodrunner-api/middleware"
	"foodrunner-api/query"
	"foodrunner-api/services"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Success    bool              `json:"success"`
	Token      string            `json:"token,omitempty"`
	Data       any               `json:"data,omitempty"`
	Count      *int              `json:"count,omitempty"`
	Pagination *query.Pagination `json:"pagination,omitempty"`
	Message    string            `json:"message,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// Handler serves the HTTP API on top of the services.
type Handler struct {
	auth    *services.AuthService
	catalog *services.CatalogService
	orders  *services.OrderService
	tokens  *middleware.TokenManager
	log     *logger.Logger

	SecureCookies bool
}

func New(auth *services.AuthService, catalog *services.CatalogService, orders *services.OrderService, tokens *middleware.TokenManager, log *logger.Logger) *Handler {
	jsonFieldNames.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(jsonName)
		}
	})
	return &Handler{auth: auth, catalog: catalog, orders: orders, tokens: tokens, log: log}
}

var jsonFieldNames sync.Once

// jsonName makes validation errors name fields the way clients send them.
func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return f.Name
	}
	return name
}

func requestID(c *gin.Context) string {
	return c.GetString("request_id")
}

func ok(c *gin.Context, status int, data any) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

func list[T any](c *gin.Context, rows []T) {
	if rows == nil {
		rows = []T{}
	}
	n := len(rows)
	c.JSON(http.StatusOK, Envelope{Success: true, Count: &n, Data: rows})
}

func page(c *gin.Context, p *services.Page) {
	n := p.Count
	c.JSON(http.StatusOK, Envelope{Success: true, Count: &n, Pagination: p.Pagination, Data: p.Data})
}

// fail writes err as an error envelope. Internal failures are logged and
// answered with a generic message.
func (h *Handler) fail(c *gin.Context, action string, err error) {
	status := apperror.HTTPStatus(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		h.log.Error(action, requestID(c), "Request failed", err)
	}
	c.JSON(status, Envelope{Success: false, Error: apperror.PublicMessage(err)})
}

// bind decodes the JSON body, turning binding failures into InvalidInput.
func bind(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperror.InvalidInput(bindingMessage(err))
	}
	return nil
}

func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request body"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid email", field))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return strings.Join(msgs, ", ")
}
