package endpoint

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonwraymond/healthgate/auth"
)

// RegisterGin registers the health routes on a gin router.
func (h *Handler) RegisterGin(r gin.IRouter) {
	r.GET(PathCheck, h.ginCheckAll)
	r.GET("/health/check/:"+pathParamName, h.ginCheckOne)
	r.GET(PathLive, gin.WrapF(LivenessHandler()))
}

func (h *Handler) ginCheckAll(c *gin.Context) {
	writeGin(c, h.CheckAll(c.Request.Context()))
}

func (h *Handler) ginCheckOne(c *gin.Context) {
	writeGin(c, h.CheckOne(c.Request.Context(), c.Param(pathParamName)))
}

func writeGin(c *gin.Context, r Response) {
	if len(r.Body) == 0 {
		c.Status(r.Code)
		return
	}
	c.Data(r.Code, ContentType, r.Body)
}

// GinAuth authenticates each request with authn and stores the resulting
// identity in the request context. Requests are never aborted here; the
// handler's gate decides.
func GinAuth(authn auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := auth.Authenticate(c.Request, authn); id != nil {
			c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), id))
		}
		c.Next()
	}
}

// NewGinEngine returns a gin engine with recovery, authn and the health
// routes installed.
func NewGinEngine(h *Handler, authn auth.Authenticator) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), GinAuth(authn))
	h.RegisterGin(engine)
	engine.NoRoute(func(c *gin.Context) { c.Status(http.StatusNotFound) })
	return engine
}
