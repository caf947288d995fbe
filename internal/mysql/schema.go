package mysql

import (
	"errors"
	"fmt"
	"strings"

	"zaliv/internal/model"
)

// ErrSchema — нарушение инварианта, которое компилятор ловит сам,
// независимо от валидатора (подстраховка на случай, если Validate
// не прогоняли).
var ErrSchema = errors.New("schema error")

type CompileOptions struct {
	// TopoOrder — выдавать таблицы сущностей в порядке зависимостей FK
	// вместо порядка объявления. Нужен, когда скрипт исполняет движок,
	// проверяющий цель FK уже на CREATE TABLE.
	TopoOrder bool
}

func ident(s string) string { return "`" + s + "`" }

// Compile превращает валидированную модель в упорядоченный список
// DDL-операторов: create database + use, затем drop+create на каждую
// сущность, затем drop+create на каждую junction-таблицу. Чистая
// функция без I/O; при любой ошибке не возвращает ни одного оператора.
func Compile(m *model.Model, database string, opts CompileOptions) ([]string, error) {
	if strings.TrimSpace(database) == "" {
		return nil, fmt.Errorf("%w: empty database name", ErrSchema)
	}

	entities := m.Entities
	if opts.TopoOrder {
		ordered, err := m.DependencyOrder()
		if err != nil {
			return nil, err
		}
		entities = ordered
	}

	stmts := make([]string, 0, 2+2*len(entities)+2*len(m.Relationships))
	stmts = append(stmts,
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s;", ident(database)),
		fmt.Sprintf("USE %s;", ident(database)),
	)

	for i := range entities {
		create, err := createTable(&entities[i])
		if err != nil {
			return nil, err
		}
		stmts = append(stmts,
			fmt.Sprintf("DROP TABLE IF EXISTS %s;", ident(entities[i].Table())),
			create,
		)
	}

	for i := range m.Relationships {
		r := &m.Relationships[i]
		stmts = append(stmts,
			fmt.Sprintf("DROP TABLE IF EXISTS %s;", ident(strings.ToLower(r.Table))),
			junctionTable(r),
		)
	}
	return stmts, nil
}

func createTable(e *model.Entity) (string, error) {
	pk := 0
	for _, p := range e.Properties {
		if p.Constraint.Kind == model.PrimaryKey {
			pk++
		}
	}
	if pk == 0 {
		return "", fmt.Errorf("%w: entity %q has no primary key", ErrSchema, e.Name)
	}
	if pk > 1 {
		return "", fmt.Errorf("%w: entity %q has %d primary keys", ErrSchema, e.Name, pk)
	}

	lines := make([]string, 0, len(e.Properties)+1)
	for _, p := range e.Properties {
		line := fmt.Sprintf("  %s %s", ident(p.Name), p.Type)
		if p.Constraint.Kind == model.PrimaryKey {
			line += " AUTO_INCREMENT PRIMARY KEY"
		}
		lines = append(lines, line)
	}
	for _, p := range e.Properties {
		if p.Constraint.Kind != model.ForeignKey {
			continue
		}
		lines = append(lines, fmt.Sprintf("  FOREIGN KEY (%s) REFERENCES %s(%s)",
			ident(p.Name),
			ident(strings.ToLower(p.Constraint.Entity)),
			ident(p.Constraint.Column)))
	}
	// запятая после каждой строки тела, кроме последней
	return fmt.Sprintf("CREATE TABLE %s (\n%s\n);", ident(e.Table()), strings.Join(lines, ",\n")), nil
}

func junctionTable(r *model.Relationship) string {
	// ссылочная колонка junction-таблицы — всегда `id` (см. DESIGN.md)
	lines := []string{
		fmt.Sprintf("  %s BIGINT NOT NULL", ident(r.LeftColumn)),
		fmt.Sprintf("  %s BIGINT NOT NULL", ident(r.RightColumn)),
		fmt.Sprintf("  PRIMARY KEY (%s, %s)", ident(r.LeftColumn), ident(r.RightColumn)),
		fmt.Sprintf("  FOREIGN KEY (%s) REFERENCES %s(%s)",
			ident(r.LeftColumn), ident(strings.ToLower(r.Left)), ident("id")),
		fmt.Sprintf("  FOREIGN KEY (%s) REFERENCES %s(%s)",
			ident(r.RightColumn), ident(strings.ToLower(r.Right)), ident("id")),
	}
	return fmt.Sprintf("CREATE TABLE %s (\n%s\n);", ident(strings.ToLower(r.Table)), strings.Join(lines, ",\n"))
}

// Script склеивает операторы в текст init-скрипта. Скрипт обязан
// переживать повторный прогон по уже наполненной базе, а InnoDB не
// даёт DROP таблицы, на которую смотрит чужой FK (ошибка 3730), —
// поэтому на время скрипта выключаем проверку, как делает mysqldump.
// SET действует в рамках сессии: init-hook исполняет файл одним
// клиентом.
func Script(stmts []string) string {
	all := make([]string, 0, len(stmts)+2)
	all = append(all, "SET FOREIGN_KEY_CHECKS=0;")
	all = append(all, stmts...)
	all = append(all, "SET FOREIGN_KEY_CHECKS=1;")
	return strings.Join(all, "\n") + "\n"
}
