package project

import (
	"fmt"
	"sort"
	"time"

	"github.com/zulandar/yardplan/internal/models"
	"gorm.io/gorm"
)

// Node kinds in a tree view.
const (
	KindProject    = "project"
	KindProduct    = "product"
	KindTask       = "task"
	KindValueChain = "value_chain"
)

// TreeNode is one element of a nested project view.
type TreeNode struct {
	ID            string      `json:"id"`
	Kind          string      `json:"kind"`
	Name          string      `json:"name"`
	AvailableDate *time.Time  `json:"available_date,omitempty"`
	StartDate     *time.Time  `json:"start_date,omitempty"`
	EndDate       *time.Time  `json:"end_date,omitempty"`
	Deadline      *time.Time  `json:"deadline,omitempty"`
	Children      []*TreeNode `json:"children,omitempty"`
}

// Tree returns the project id with every descendant across both hierarchies:
// subprojects, contained products and their subproducts, tasks and value
// chains. Children are ordered by kind then name.
func Tree(db *gorm.DB, orgID, id string) (*TreeNode, error) {
	root, err := Get(db, orgID, id)
	if err != nil {
		return nil, err
	}

	var (
		projects []models.Project
		products []models.Product
		tasks    []models.Task
		chains   []models.ValueChain
	)
	scoped := db.Where("organization_id = ?", orgID)
	if err := scoped.Session(&gorm.Session{}).Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("project: tree %s: load projects: %w", id, err)
	}
	if err := scoped.Session(&gorm.Session{}).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("project: tree %s: load products: %w", id, err)
	}
	if err := scoped.Session(&gorm.Session{}).Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("project: tree %s: load tasks: %w", id, err)
	}
	if err := scoped.Session(&gorm.Session{}).Find(&chains).Error; err != nil {
		return nil, fmt.Errorf("project: tree %s: load value chains: %w", id, err)
	}

	// Index every node's children by parent key.
	children := map[string][]*TreeNode{}
	add := func(parentKey string, n *TreeNode) {
		children[parentKey] = append(children[parentKey], n)
	}
	for i := range projects {
		p := &projects[i]
		if p.ParentID != nil {
			add(KindProject+":"+*p.ParentID, projectNode(p))
		}
	}
	for i := range products {
		p := &products[i]
		switch {
		case p.ParentID != nil:
			add(KindProduct+":"+*p.ParentID, productNode(p))
		case p.ProjectID != nil:
			add(KindProject+":"+*p.ProjectID, productNode(p))
		}
	}
	for i := range tasks {
		t := &tasks[i]
		add(KindProject+":"+t.ProjectID, &TreeNode{
			ID: t.ID, Kind: KindTask, Name: t.Title,
			AvailableDate: t.AvailableDate, StartDate: t.StartDate, EndDate: t.EndDate,
			Deadline: t.Deadline,
		})
	}
	for i := range chains {
		v := &chains[i]
		add(KindProduct+":"+v.ProductID, &TreeNode{
			ID: v.ID, Kind: KindValueChain, Name: v.Name,
			AvailableDate: v.AvailableDate, StartDate: v.StartDate, EndDate: v.EndDate,
		})
	}

	top := projectNode(root)
	attach(top, children, map[string]bool{})
	return top, nil
}

func attach(n *TreeNode, children map[string][]*TreeNode, seen map[string]bool) {
	key := n.Kind + ":" + n.ID
	if seen[key] {
		return
	}
	seen[key] = true
	n.Children = children[key]
	sort.SliceStable(n.Children, func(i, j int) bool {
		a, b := n.Children[i], n.Children[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Name < b.Name
	})
	for _, c := range n.Children {
		attach(c, children, seen)
	}
}

func projectNode(p *models.Project) *TreeNode {
	return &TreeNode{
		ID: p.ID, Kind: KindProject, Name: p.Name,
		AvailableDate: p.AvailableDate, StartDate: p.StartDate, EndDate: p.EndDate,
		Deadline: p.Deadline,
	}
}

func productNode(p *models.Product) *TreeNode {
	return &TreeNode{
		ID: p.ID, Kind: KindProduct, Name: p.Name,
		AvailableDate: p.AvailableDate, StartDate: p.StartDate, EndDate: p.EndDate,
		Deadline: p.Deadline,
	}
}
