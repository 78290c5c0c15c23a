package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/yardplan/internal/product"
)

type createProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ParentID    string `json:"parent_id"`
	ProjectID   string `json:"project_id"`
	Deadline    string `json:"deadline"`
	datesBody
}

// updateProductRequest leaves absent fields untouched. A non-empty parent_id
// detaches the product from its project, a non-empty project_id detaches it
// from its parent product.
type updateProductRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	ParentID    *string    `json:"parent_id"`
	ProjectID   *string    `json:"project_id"`
	Deadline    *string    `json:"deadline"`
	Dates       *datesBody `json:"dates"`
}

type createValueChainRequest struct {
	Name string `json:"name"`
	datesBody
}

type updateValueChainRequest struct {
	Name      *string    `json:"name"`
	ProductID *string    `json:"product_id"`
	Dates     *datesBody `json:"dates"`
}

func (e *env) handleListProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := product.List(e.db, orgID(c), product.ListFilters{
			ParentID:  c.Query("parent_id"),
			ProjectID: c.Query("project_id"),
			RootsOnly: c.Query("roots") == "true",
		})
		if err != nil {
			e.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewList(products, viewProduct))
	}
}

func (e *env) handleCreateProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createProductRequest
		if !e.bind(c, &req) {
			return
		}
		dates, err := req.datesBody.parse()
		if err != nil {
			e.respondError(c, err)
			return
		}
		deadline, err := parseDeadline(req.Deadline)
		if err != nil {
			e.respondError(c, err)
			return
		}

		p, err := product.Create(c.Request.Context(), e.db, e.eng, product.CreateOpts{
			OrganizationID: orgID(c),
			ParentID:       req.ParentID,
			ProjectID:      req.ProjectID,
			Name:           req.Name,
			Description:    req.Description,
			Dates:          dates,
			Deadline:       deadline,
		})
		if err != nil {
			e.respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, viewProduct(p))
	}
}

func (e *env) handleGetProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := product.Get(e.db, orgID(c), c.Param("id"))
		if err != nil {
			e.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewProduct(p))
	}
}

func (e *env) handleUpdateProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateProductRequest
		if !e.bind(c, &req) {
			return
		}
		dates, err := parseOptional(req.Dates)
		if err != nil {
			e.respondError(c, err)
			return
		}
		deadline, clearDeadline, err := deadlineUpdate(req.Deadline)
		if err != nil {
			e.respondError(c, err)
			return
		}

		p, err := product.Update(c.Request.Context(), e.db, e.eng, orgID(c), c.Param("id"), product.UpdateOpts{
			Name:          req.Name,
			Description:   req.Description,
			Deadline:      deadline,
			ClearDeadline: clearDeadline,
			Dates:         dates,
			ParentID:      req.ParentID,
			ProjectID:     req.ProjectID,
		})
		if err != nil {
			e.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewProduct(p))
	}
}

func (e *env) handleDeleteProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := product.Delete(c.Request.Context(), e.db, e.eng, orgID(c), c.Param("id")); err != nil {
			e.respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func (e *env) handleListValueChains() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := product.Get(e.db, orgID(c), c.Param("id")); err != nil {
			e.respondError(c, err)
			return
		}
		chains, err := product.ListValueChains(e.db, orgID(c), c.Param("id"))
		if err != nil {
			e.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewList(chains, viewValueChain))
	}
}

func (e *env) handleCreateValueChain() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createValueChainRequest
		if !e.bind(c, &req) {
			return
		}
		dates, err := req.datesBody.parse()
		if err != nil {
			e.respondError(c, err)
			return
		}

		v, err := product.CreateValueChain(c.Request.Context(), e.db, e.eng, product.ValueChainOpts{
			OrganizationID: orgID(c),
			ProductID:      c.Param("id"),
			Name:           req.Name,
			Dates:          dates,
		})
		if err != nil {
			e.respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, viewValueChain(v))
	}
}

func (e *env) handleGetValueChain() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := product.GetValueChain(e.db, orgID(c), c.Param("id"))
		if err != nil {
			e.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewValueChain(v))
	}
}

func (e *env) handleUpdateValueChain() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateValueChainRequest
		if !e.bind(c, &req) {
			return
		}
		dates, err := parseOptional(req.Dates)
		if err != nil {
			e.respondError(c, err)
			return
		}

		v, err := product.UpdateValueChain(c.Request.Context(), e.db, e.eng, orgID(c), c.Param("id"), product.ValueChainUpdateOpts{
			Name:      req.Name,
			Dates:     dates,
			ProductID: req.ProductID,
		})
		if err != nil {
			e.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewValueChain(v))
	}
}

func (e *env) handleDeleteValueChain() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := product.DeleteValueChain(c.Request.Context(), e.db, e.eng, orgID(c), c.Param("id")); err != nil {
			e.respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
