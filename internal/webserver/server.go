package webserver

import (
	"fmt"
	"net/http"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/greenvida/greenstore/internal/app"
)

const appContextKey = "greenstore.appctx"

var server *WebServer

// WebServer wraps echo with the three route surfaces: public reads,
// the JWT-protected store API and the operator admin API.
type WebServer struct {
	root  *echo.Echo
	appc  app.AppContext
	pub   *echo.Group
	api   *echo.Group
	admin *echo.Group
}

func Init(appc app.AppContext) {
	server = NewWebServer(appc)
}

func NewWebServer(appc app.AppContext) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}
	e.Use(middleware.Recover())
	e.Use(loggerMiddleware)
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(appContextKey, appc)
			return next(c)
		}
	})

	jwtMiddleware := echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(appc.Config().Web.JwtSecret),
		NewClaimsFunc: newTokenClaims,
	})

	s := &WebServer{root: e, appc: appc}
	s.pub = e.Group("/api/v1")
	s.api = e.Group("/api/v1/store", jwtMiddleware, requireScope(ScopeUser))
	s.admin = e.Group("/api/v1/admin", jwtMiddleware, requireScope(ScopeOperator))
	registerAuthRoutes(s)
	return s
}

func (s *WebServer) Start() error {
	cfg := s.appc.Config().Web
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	zap.S().Infof("starting web server on %s", addr)
	return s.root.Start(addr)
}

// Listen starts the package-level server.
func Listen() error {
	return server.Start()
}

// Echo exposes the underlying echo instance (used in tests).
func (s *WebServer) Echo() *echo.Echo {
	return s.root
}

// Echo exposes the package-level server's echo instance.
func Echo() *echo.Echo {
	return server.root
}

// Public routes (no auth)

func PubGET(path string, h echo.HandlerFunc) {
	server.pub.GET(path, h)
}

func PubPOST(path string, h echo.HandlerFunc) {
	server.pub.POST(path, h)
}

// Store routes (authenticated customer)

func ApiGET(path string, h echo.HandlerFunc) {
	server.api.GET(path, h)
}

func ApiPOST(path string, h echo.HandlerFunc) {
	server.api.POST(path, h)
}

func ApiPUT(path string, h echo.HandlerFunc) {
	server.api.PUT(path, h)
}

func ApiDELETE(path string, h echo.HandlerFunc) {
	server.api.DELETE(path, h)
}

// Admin routes (operator; handlers gate levels where dispatcher
// access differs)

func AdminGET(path string, h echo.HandlerFunc) {
	server.admin.GET(path, h)
}

func AdminPOST(path string, h echo.HandlerFunc) {
	server.admin.POST(path, h)
}

func AdminPUT(path string, h echo.HandlerFunc) {
	server.admin.PUT(path, h)
}

func AdminDELETE(path string, h echo.HandlerFunc) {
	server.admin.DELETE(path, h)
}

// GetApp returns the application context injected per request.
func GetApp(c echo.Context) app.AppContext {
	return c.Get(appContextKey).(app.AppContext)
}

// GetDB returns the request-scoped gorm handle.
func GetDB(c echo.Context) *gorm.DB {
	return GetApp(c).DB()
}

type jsonSerializer struct{}

func (jsonSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := jsoniter.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (jsonSerializer) Deserialize(c echo.Context, i interface{}) error {
	if err := jsoniter.NewDecoder(c.Request().Body).Decode(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}
	return nil
}

func loggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		status := c.Response().Status
		if he, ok := err.(*echo.HTTPError); ok {
			status = he.Code
		}
		zap.L().Debug("http request",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("remote", c.RealIP()))
		return err
	}
}
