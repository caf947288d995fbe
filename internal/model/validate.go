package model

import (
	"fmt"
	"strings"
)

// Validate проверяет модель целиком и падает на первом нарушении.
// Никаких преобразований: модель либо годна как есть, либо нет.
// Прямые ссылки вперёд разрешены — порядок DDL от направления ссылок
// не зависит.
func (m *Model) Validate() error {
	seenEntities := map[string]struct{}{}
	for i := range m.Entities {
		e := &m.Entities[i]
		if strings.TrimSpace(e.Name) == "" {
			return fmt.Errorf("%w: entity #%d has empty name", ErrConfig, i+1)
		}
		key := strings.ToLower(e.Name)
		if _, dup := seenEntities[key]; dup {
			return fmt.Errorf("%w: duplicate entity %q", ErrConfig, e.Name)
		}
		seenEntities[key] = struct{}{}

		if err := m.validateEntity(e); err != nil {
			return err
		}
	}

	seenJunctions := map[string]struct{}{}
	for i := range m.Relationships {
		r := &m.Relationships[i]
		if err := m.validateRelationship(r); err != nil {
			return err
		}
		jt := strings.ToLower(r.Table)
		if _, dup := seenJunctions[jt]; dup {
			return fmt.Errorf("%w: duplicate junction table %q", ErrConfig, r.Table)
		}
		seenJunctions[jt] = struct{}{}
	}
	return nil
}

func (m *Model) validateEntity(e *Entity) error {
	seen := map[string]struct{}{}
	pkCount := 0
	for _, p := range e.Properties {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("%w: entity %q has a property with empty name", ErrConfig, e.Name)
		}
		if strings.TrimSpace(p.Type) == "" {
			return fmt.Errorf("%w: %s.%s has empty type", ErrConfig, e.Name, p.Name)
		}
		// имена колонок в MySQL регистронезависимы
		key := strings.ToLower(p.Name)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: duplicate property %q in entity %q", ErrConfig, p.Name, e.Name)
		}
		seen[key] = struct{}{}

		switch p.Constraint.Kind {
		case PrimaryKey:
			pkCount++
			if pkCount > 1 {
				return fmt.Errorf("%w: entity %q has more than one primary key", ErrConfig, e.Name)
			}
		case ForeignKey:
			target, ok := m.Entity(p.Constraint.Entity)
			if !ok {
				return fmt.Errorf("%w: %s.%s references unknown entity %q",
					ErrConfig, e.Name, p.Name, p.Constraint.Entity)
			}
			if _, ok := target.Property(p.Constraint.Column); !ok {
				return fmt.Errorf("%w: %s.%s references unknown column %s.%s",
					ErrConfig, e.Name, p.Name, target.Name, p.Constraint.Column)
			}
		}
	}
	return nil
}

func (m *Model) validateRelationship(r *Relationship) error {
	name := r.Table
	if name == "" {
		name = r.Left + "/" + r.Right
	}
	if strings.TrimSpace(r.Table) == "" {
		return fmt.Errorf("%w: relationship %s has empty junction table name", ErrConfig, name)
	}
	if strings.TrimSpace(r.LeftColumn) == "" || strings.TrimSpace(r.RightColumn) == "" {
		return fmt.Errorf("%w: relationship %q has empty column name", ErrConfig, name)
	}
	if _, ok := m.Entity(r.Left); !ok {
		return fmt.Errorf("%w: relationship %q references unknown entity %q", ErrConfig, name, r.Left)
	}
	if _, ok := m.Entity(r.Right); !ok {
		return fmt.Errorf("%w: relationship %q references unknown entity %q", ErrConfig, name, r.Right)
	}
	// junction-таблица живёт в том же пространстве имён, что и таблицы сущностей
	if _, clash := m.Entity(r.Table); clash {
		return fmt.Errorf("%w: junction table %q collides with an entity table", ErrConfig, r.Table)
	}
	return nil
}
