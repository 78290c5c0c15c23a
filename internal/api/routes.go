package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zulandar/yardplan/internal/repair"
	"github.com/zulandar/yardplan/internal/tenant"
)

const orgKey = "org_id"

// registerRoutes sets up all API routes on the Gin router.
func registerRoutes(router *gin.Engine, e *env) {
	router.GET("/healthz", handleHealth())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/orgs", e.handleListOrganizations())
	router.POST("/orgs", e.handleCreateOrganization())

	org := router.Group("/orgs/:org", e.orgScope())
	org.GET("", e.handleGetOrganization())
	org.POST("/repair", e.handleRepair())

	org.GET("/customers", e.handleListCustomers())
	org.POST("/customers", e.handleCreateCustomer())

	org.GET("/projects", e.handleListProjects())
	org.POST("/projects", e.handleCreateProject())
	org.GET("/projects/:id", e.handleGetProject())
	org.PATCH("/projects/:id", e.handleUpdateProject())
	org.DELETE("/projects/:id", e.handleDeleteProject())
	org.GET("/projects/:id/tree", e.handleProjectTree())
	org.GET("/projects/:id/tasks", e.handleListTasks())
	org.POST("/projects/:id/tasks", e.handleCreateTask())

	org.GET("/tasks/:id", e.handleGetTask())
	org.PATCH("/tasks/:id", e.handleUpdateTask())
	org.DELETE("/tasks/:id", e.handleDeleteTask())

	org.GET("/products", e.handleListProducts())
	org.POST("/products", e.handleCreateProduct())
	org.GET("/products/:id", e.handleGetProduct())
	org.PATCH("/products/:id", e.handleUpdateProduct())
	org.DELETE("/products/:id", e.handleDeleteProduct())
	org.GET("/products/:id/value-chains", e.handleListValueChains())
	org.POST("/products/:id/value-chains", e.handleCreateValueChain())

	org.GET("/value-chains/:id", e.handleGetValueChain())
	org.PATCH("/value-chains/:id", e.handleUpdateValueChain())
	org.DELETE("/value-chains/:id", e.handleDeleteValueChain())
}

func handleHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// orgScope resolves the :org parameter, by id or slug, and stores the
// organization id for the handlers below it.
func (e *env) orgScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		org, err := tenant.GetOrganization(e.db, c.Param("org"))
		if err != nil {
			e.respondError(c, err)
			return
		}
		c.Set(orgKey, org.ID)
		c.Next()
	}
}

func orgID(c *gin.Context) string {
	return c.GetString(orgKey)
}

// bind decodes the JSON body into v, reporting failures as 400.
func (e *env) bind(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func (e *env) handleRepair() gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := repair.Run(c.Request.Context(), e.db, e.eng, orgID(c), e.logger)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "report": report})
			return
		}
		c.JSON(http.StatusOK, report)
	}
}
