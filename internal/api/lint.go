// api/lint.go
package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"zaliv/internal/model"
)

type Issue struct {
	Entity   string `json:"entity"`
	Property string `json:"property,omitempty"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

// Lint — советующие проверки поверх Validate: модель валидна, но
// скомпилируется или поведёт себя не так, как, скорее всего, задумано.
func Lint(m *model.Model) []Issue {
	var issues []Issue

	for i := range m.Entities {
		e := &m.Entities[i]

		// без первичного ключа компилятор упадёт — подсветим заранее
		if _, ok := e.PrimaryKey(); !ok {
			issues = append(issues, Issue{
				Entity:  e.Name,
				Code:    "no_primary_key",
				Message: "entity has no primary key; compilation will fail",
			})
		}

		for _, p := range e.Properties {
			if p.Constraint.Kind != model.ForeignKey {
				continue
			}
			target, ok := m.Entity(p.Constraint.Entity)
			if !ok {
				continue // это уже ошибка валидации, не наша
			}
			tp, ok := target.Property(p.Constraint.Column)
			if !ok {
				continue
			}
			if tp.Type != p.Type {
				issues = append(issues, Issue{
					Entity:   e.Name,
					Property: p.Name,
					Code:     "fk_type_mismatch",
					Message: fmt.Sprintf("type %s differs from referenced %s.%s (%s)",
						p.Type, target.Name, tp.Name, tp.Type),
				})
			}
		}
	}

	// сущность-сирота: на неё не смотрит ни один FK и ни одна связь.
	// Не ошибка, но часто признак забытого ref или лишней сущности.
	referenced := make(map[string]bool)
	for i := range m.Entities {
		for _, p := range m.Entities[i].Properties {
			if p.Constraint.Kind == model.ForeignKey {
				referenced[strings.ToLower(p.Constraint.Entity)] = true
			}
		}
	}
	for _, r := range m.Relationships {
		referenced[strings.ToLower(r.Left)] = true
		referenced[strings.ToLower(r.Right)] = true
	}
	for i := range m.Entities {
		e := &m.Entities[i]
		if !referenced[strings.ToLower(e.Name)] {
			issues = append(issues, Issue{
				Entity:  e.Name,
				Code:    "entity_unreferenced",
				Message: "entity is not referenced by any foreign key or relationship",
			})
		}
	}

	for _, r := range m.Relationships {
		if r.LeftColumn == r.RightColumn {
			issues = append(issues, Issue{
				Entity:  r.Table,
				Code:    "relation_same_column",
				Message: "left and right junction columns have the same name",
			})
		}
	}
	return issues
}

func LintHandler(reg *Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		issues := Lint(reg.Model())
		if issues == nil {
			issues = []Issue{}
		}
		c.JSON(http.StatusOK, gin.H{"issues": issues})
	}
}
