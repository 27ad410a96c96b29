package models

import "time"

// TenantScoped is implemented by every entity whose rows carry a workspace_id
// and must be filtered by the active workspace. Workspace and User are
// intentionally not tenant scoped.
type TenantScoped interface {
	GetWorkspaceID() uint64
}

// Authored is implemented by entities that record who created them.
type Authored interface {
	HasAuthor() bool
	SetAuthorID(id uint64)
}

// Timestamped is implemented by entities with creation or update times.
// Touch sets CreatedAt when still zero and UpdatedAt when the entity has one.
type Timestamped interface {
	Touch(now time.Time)
}

func (c Channel) GetWorkspaceID() uint64     { return c.WorkspaceID }
func (p Publication) GetWorkspaceID() uint64 { return p.WorkspaceID }
func (c Comment) GetWorkspaceID() uint64     { return c.WorkspaceID }
func (r Reaction) GetWorkspaceID() uint64    { return r.WorkspaceID }
func (m Media) GetWorkspaceID() uint64       { return m.WorkspaceID }

func (c *Channel) SetWorkspaceID(id uint64)     { c.WorkspaceID = id }
func (p *Publication) SetWorkspaceID(id uint64) { p.WorkspaceID = id }
func (c *Comment) SetWorkspaceID(id uint64)     { c.WorkspaceID = id }
func (r *Reaction) SetWorkspaceID(id uint64)    { r.WorkspaceID = id }
func (m *Media) SetWorkspaceID(id uint64)       { m.WorkspaceID = id }

func (p *Publication) HasAuthor() bool { return p.AuthorID != nil }
func (c *Comment) HasAuthor() bool     { return c.AuthorID != nil }
func (r *Reaction) HasAuthor() bool    { return r.AuthorID != 0 }
func (m *Media) HasAuthor() bool       { return m.AuthorID != nil }

func (p *Publication) SetAuthorID(id uint64) { p.AuthorID = &id }
func (c *Comment) SetAuthorID(id uint64)     { c.AuthorID = &id }
func (r *Reaction) SetAuthorID(id uint64)    { r.AuthorID = id }
func (m *Media) SetAuthorID(id uint64)       { m.AuthorID = &id }

func (p *Publication) Touch(now time.Time) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}

func (c *Comment) Touch(now time.Time) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
}

func (r *Reaction) Touch(now time.Time) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
}

func (m *Media) Touch(now time.Time) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
}
