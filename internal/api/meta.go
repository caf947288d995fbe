package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"zaliv/internal/model"
)

// ===== META HANDLERS =====

type metaEntityListItem struct {
	Entity string `json:"entity"`
	Table  string `json:"table"`
}

func MetaListHandler(reg *Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		m := reg.Model()
		out := make([]metaEntityListItem, 0, len(m.Entities))
		for i := range m.Entities {
			out = append(out, metaEntityListItem{
				Entity: m.Entities[i].Name,
				Table:  m.Entities[i].Table(),
			})
		}
		c.JSON(http.StatusOK, out)
	}
}

type metaProperty struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Constraint string `json:"constraint,omitempty"` // "pk" | "fk"
	Ref        string `json:"ref,omitempty"`        // для fk: Entity.column
}

type metaRelationship struct {
	Left        string `json:"left"`
	Right       string `json:"right"`
	Table       string `json:"table"`
	LeftColumn  string `json:"leftColumn"`
	RightColumn string `json:"rightColumn"`
}

type metaEntity struct {
	Entity        string             `json:"entity"`
	Table         string             `json:"table"`
	Properties    []metaProperty     `json:"properties"`
	Relationships []metaRelationship `json:"relationships,omitempty"`
}

func MetaEntityHandler(reg *Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		m := reg.Model()
		e, ok := m.Entity(c.Param("entity"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entity not found"})
			return
		}

		props := make([]metaProperty, 0, len(e.Properties))
		for _, p := range e.Properties {
			mp := metaProperty{Name: p.Name, Type: p.Type}
			switch p.Constraint.Kind {
			case model.PrimaryKey:
				mp.Constraint = "pk"
			case model.ForeignKey:
				mp.Constraint = "fk"
				mp.Ref = p.Constraint.Entity + "." + p.Constraint.Column
			}
			props = append(props, mp)
		}

		// связи, в которых сущность участвует с любой стороны
		var rels []metaRelationship
		for _, r := range m.Relationships {
			if !strings.EqualFold(r.Left, e.Name) && !strings.EqualFold(r.Right, e.Name) {
				continue
			}
			rels = append(rels, metaRelationship{
				Left:        r.Left,
				Right:       r.Right,
				Table:       r.Table,
				LeftColumn:  r.LeftColumn,
				RightColumn: r.RightColumn,
			})
		}

		c.JSON(http.StatusOK, metaEntity{
			Entity:        e.Name,
			Table:         e.Table(),
			Properties:    props,
			Relationships: rels,
		})
	}
}
