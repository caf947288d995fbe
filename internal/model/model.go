package model

import "strings"

// ConstraintKind различает варианты ограничения свойства.
type ConstraintKind int

const (
	None ConstraintKind = iota
	PrimaryKey
	ForeignKey
)

// Constraint — тегированный вариант вместо строки "name:type:constraint:target".
// Entity/Column заполнены только для ForeignKey.
type Constraint struct {
	Kind   ConstraintKind
	Entity string
	Column string
}

func PK() Constraint { return Constraint{Kind: PrimaryKey} }

func FK(entity, column string) Constraint {
	return Constraint{Kind: ForeignKey, Entity: entity, Column: column}
}

// Property — типизированное свойство сущности. Type — готовый SQL-токен
// (BIGINT, VARCHAR(64), TEXT, ...), компилятор его не трактует.
type Property struct {
	Name       string
	Type       string
	Constraint Constraint
}

// Entity описывает сущность; имя таблицы — lower(Name).
type Entity struct {
	Name       string
	Properties []Property
}

func (e *Entity) Table() string { return strings.ToLower(e.Name) }

// PrimaryKey возвращает свойство-первичный ключ (валидатор гарантирует,
// что их не больше одного).
func (e *Entity) PrimaryKey() (*Property, bool) {
	for i := range e.Properties {
		if e.Properties[i].Constraint.Kind == PrimaryKey {
			return &e.Properties[i], true
		}
	}
	return nil, false
}

// Property ищет свойство по имени без учёта регистра.
func (e *Entity) Property(name string) (*Property, bool) {
	for i := range e.Properties {
		if strings.EqualFold(e.Properties[i].Name, name) {
			return &e.Properties[i], true
		}
	}
	return nil, false
}

// Relationship — связь many-to-many через junction-таблицу.
type Relationship struct {
	Left        string
	Right       string
	Table       string
	LeftColumn  string
	RightColumn string
}

// Model — упорядоченный список сущностей и связей. После Validate
// модель считается неизменяемой: каждый прогон компиляции берёт её
// как есть и строит свежий список операторов.
type Model struct {
	Entities      []Entity
	Relationships []Relationship
}

// Entity ищет сущность по имени без учёта регистра.
func (m *Model) Entity(name string) (*Entity, bool) {
	for i := range m.Entities {
		if strings.EqualFold(m.Entities[i].Name, name) {
			return &m.Entities[i], true
		}
	}
	return nil, false
}
