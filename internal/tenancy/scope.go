package tenancy

import (
	"reflect"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"github.com/yukikurage/workspace-api/internal/models"
)

// WorkspaceColumn is the column every tenant-scoped table carries.
const WorkspaceColumn = "workspace_id"

const scopedSetting = "tenancy:scoped_workspace"

var tenantScopedType = reflect.TypeOf((*models.TenantScoped)(nil)).Elem()

// ScopePlugin constrains queries, row scans, updates and deletes against
// tenant-scoped models to the workspace found in the statement context.
// Register it once on the root *gorm.DB; it keeps no per-request state.
type ScopePlugin struct {
	scoped sync.Map // reflect.Type -> bool
}

func NewScopePlugin() *ScopePlugin {
	return &ScopePlugin{}
}

func (p *ScopePlugin) Name() string {
	return "tenancy:scope"
}

func (p *ScopePlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	if err := cb.Query().Before("gorm:query").Register("tenancy:scope_query", p.apply); err != nil {
		return err
	}
	if err := cb.Row().Before("gorm:row").Register("tenancy:scope_row", p.apply); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("tenancy:scope_update", p.apply); err != nil {
		return err
	}
	return cb.Delete().Before("gorm:delete").Register("tenancy:scope_delete", p.apply)
}

func (p *ScopePlugin) apply(db *gorm.DB) {
	stmt := db.Statement
	if db.Error != nil || stmt.Schema == nil {
		return
	}
	if scopeBypassed(stmt.Context) {
		return
	}
	ws, ok := FromContext(stmt.Context)
	if !ok {
		return
	}
	if !p.isTenantScoped(stmt.Schema) {
		return
	}
	// A statement reused across finishers (Count then Find) keeps its clauses.
	if id, ok := stmt.Settings.Load(scopedSetting); ok && id == ws.ID {
		return
	}
	stmt.Settings.Store(scopedSetting, ws.ID)

	cond := clause.Eq{
		Column: clause.Column{Table: clause.CurrentTable, Name: WorkspaceColumn},
		Value:  ws.ID,
	}

	// Existing conditions are grouped so an OR among them cannot escape the
	// workspace predicate.
	c, exists := stmt.Clauses["WHERE"]
	if !exists {
		stmt.AddClause(clause.Where{Exprs: []clause.Expression{cond}})
		return
	}
	where, _ := c.Expression.(clause.Where)
	exprs := []clause.Expression{cond}
	if len(where.Exprs) > 0 {
		exprs = []clause.Expression{clause.And(where.Exprs...), cond}
	}
	c.Expression = clause.Where{Exprs: exprs}
	stmt.Clauses["WHERE"] = c
}

func (p *ScopePlugin) isTenantScoped(s *schema.Schema) bool {
	if v, ok := p.scoped.Load(s.ModelType); ok {
		return v.(bool)
	}
	scoped := reflect.PointerTo(s.ModelType).Implements(tenantScopedType) &&
		s.LookUpField(WorkspaceColumn) != nil
	p.scoped.Store(s.ModelType, scoped)
	return scoped
}
