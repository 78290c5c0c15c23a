package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/yardplan/internal/project"
)

type createProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CustomerID  string `json:"customer_id"`
	ParentID    string `json:"parent_id"`
	Deadline    string `json:"deadline"`
	datesBody
}

// updateProjectRequest leaves absent fields untouched. An empty parent_id
// moves the project to the root, an empty customer_id or deadline clears it,
// and a dates object replaces all three fixed dates.
type updateProjectRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	CustomerID  *string    `json:"customer_id"`
	ParentID    *string    `json:"parent_id"`
	Deadline    *string    `json:"deadline"`
	Dates       *datesBody `json:"dates"`
}

type createTaskRequest struct {
	Title    string `json:"title"`
	Deadline string `json:"deadline"`
	datesBody
}

type updateTaskRequest struct {
	Title     *string    `json:"title"`
	ProjectID *string    `json:"project_id"`
	Deadline  *string    `json:"deadline"`
	Dates     *datesBody `json:"dates"`
}

// deadlineUpdate turns an optional deadline field into a new value or a clear.
func deadlineUpdate(s *string) (*time.Time, bool, error) {
	if s == nil {
		return nil, false, nil
	}
	if *s == "" {
		return nil, true, nil
	}
	t, err := parseDeadline(*s)
	return t, false, err
}

func (e *env) handleListProjects() gin.HandlerFunc {
	return func(c *gin.Context) {
		projects, err := project.List(e.db, orgID(c), project.ListFilters{
			ParentID:   c.Query("parent_id"),
			CustomerID: c.Query("customer_id"),
			RootsOnly:  c.Query("roots") == "true",
		})
		if err != nil {
			e.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewList(projects, viewProject))
	}
}

func (e *env) handleCreateProject() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createProjectRequest
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

		p, err := project.Create(c.Request.Context(), e.db, e.eng, project.CreateOpts{
			OrganizationID: orgID(c),
			CustomerID:     req.CustomerID,
			ParentID:       req.ParentID,
			Name:           req.Name,
			Description:    req.Description,
			Dates:          dates,
			Deadline:       deadline,
		})
		if err != nil {
			e.respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, viewProject(p))
	}
}

func (e *env) handleGetProject() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := project.Get(e.db, orgID(c), c.Param("id"))
		if err != nil {
			e.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewProject(p))
	}
}

func (e *env) handleUpdateProject() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateProjectRequest
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

		p, err := project.Update(c.Request.Context(), e.db, e.eng, orgID(c), c.Param("id"), project.UpdateOpts{
			Name:          req.Name,
			Description:   req.Description,
			CustomerID:    req.CustomerID,
			Deadline:      deadline,
			ClearDeadline: clearDeadline,
			Dates:         dates,
			ParentID:      req.ParentID,
		})
		if err != nil {
			e.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewProject(p))
	}
}

func (e *env) handleDeleteProject() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := project.Delete(c.Request.Context(), e.db, e.eng, orgID(c), c.Param("id")); err != nil {
			e.respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func (e *env) handleProjectTree() gin.HandlerFunc {
	return func(c *gin.Context) {
		tree, err := project.Tree(e.db, orgID(c), c.Param("id"))
		if err != nil {
			e.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, tree)
	}
}

func (e *env) handleListTasks() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := project.Get(e.db, orgID(c), c.Param("id")); err != nil {
			e.respondError(c, err)
			return
		}
		tasks, err := project.ListTasks(e.db, orgID(c), c.Param("id"))
		if err != nil {
			e.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewList(tasks, viewTask))
	}
}

func (e *env) handleCreateTask() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createTaskRequest
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

		t, err := project.CreateTask(c.Request.Context(), e.db, e.eng, project.TaskOpts{
			OrganizationID: orgID(c),
			ProjectID:      c.Param("id"),
			Title:          req.Title,
			Dates:          dates,
			Deadline:       deadline,
		})
		if err != nil {
			e.respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, viewTask(t))
	}
}

func (e *env) handleGetTask() gin.HandlerFunc {
	return func(c *gin.Context) {
		t, err := project.GetTask(e.db, orgID(c), c.Param("id"))
		if err != nil {
			e.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewTask(t))
	}
}

func (e *env) handleUpdateTask() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateTaskRequest
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

		t, err := project.UpdateTask(c.Request.Context(), e.db, e.eng, orgID(c), c.Param("id"), project.TaskUpdateOpts{
			Title:         req.Title,
			Dates:         dates,
			Deadline:      deadline,
			ClearDeadline: clearDeadline,
			ProjectID:     req.ProjectID,
		})
		if err != nil {
			e.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewTask(t))
	}
}

func (e *env) handleDeleteTask() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := project.DeleteTask(c.Request.Context(), e.db, e.eng, orgID(c), c.Param("id")); err != nil {
			e.respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
