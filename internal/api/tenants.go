package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/yardplan/internal/tenant"
)

type createOrganizationRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type createCustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (e *env) handleListOrganizations() gin.HandlerFunc {
	return func(c *gin.Context) {
		orgs, err := tenant.ListOrganizations(e.db)
		if err != nil {
			e.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewList(orgs, viewOrganization))
	}
}

func (e *env) handleCreateOrganization() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createOrganizationRequest
		if !e.bind(c, &req) {
			return
		}
		org, err := tenant.CreateOrganization(e.db, req.Name, req.Slug)
		if err != nil {
			e.respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, viewOrganization(org))
	}
}

func (e *env) handleGetOrganization() gin.HandlerFunc {
	return func(c *gin.Context) {
		org, err := tenant.GetOrganization(e.db, orgID(c))
		if err != nil {
			e.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewOrganization(org))
	}
}

func (e *env) handleListCustomers() gin.HandlerFunc {
	return func(c *gin.Context) {
		customers, err := tenant.ListCustomers(e.db, orgID(c))
		if err != nil {
			e.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewList(customers, viewCustomer))
	}
}

func (e *env) handleCreateCustomer() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createCustomerRequest
		if !e.bind(c, &req) {
			return
		}
		customer, err := tenant.CreateCustomer(e.db, orgID(c), req.Name, req.Email)
		if err != nil {
			e.respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, viewCustomer(customer))
	}
}
